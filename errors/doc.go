// Package errors provides the coded error type shared by pipes, pipex and
// the graph data sources.
//
// Every contract violation a caller can trigger (pulling an exhausted pipe,
// removing from a read-only view, misconfiguring a split or composition)
// is reported as an *AppError carrying a machine-readable ErrorCode. The
// package-level sentinels match by code:
//
//	if errors.Is(err, errors.ErrExhausted) { ... }
package errors
