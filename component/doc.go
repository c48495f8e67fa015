// Package component defines the lifecycle contract shared by long-running
// units of work, such as pipex compositions started in the background.
//
// Components are registered with a Registry, which starts them in
// registration order, stops them in reverse order and aggregates health.
//
// # Interfaces
//
//   - Component: Name/Start/Stop/Health
//   - Describable: optional one-line configuration summary
package component
