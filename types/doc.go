// Package types contains the shared types and interfaces used across the
// realtime library.
//
// It exists as a separate package so that internal packages can depend on
// the core definitions (ConnectionState, Event, Logger, MetricsCollector)
// without importing the root realtime package, which would create an import
// cycle. The root package re-exports everything here via type aliases, so
// library users normally only import github.com/chimariIT/realtime.
package types
