// Package version reports the build of the pipes binary. Version and
// Commit may be set with -ldflags; otherwise the VCS stamp recorded by the
// Go toolchain is used.
//
//	go build -ldflags "-X github.com/tinkerpop/blueprints-sub007/version.Version=1.2.0" ./cmd/pipes
package version
