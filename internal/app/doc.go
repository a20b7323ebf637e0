// Package app provides the application layer of the collector dashboard.
//
// RequestListSync owns the state of one mounted dashboard: it loads the collector's
// confirmed requests once, applies local transitions through Reduce when a request
// is completed, and ends the session. Views keeps the mounted instances for the
// HTTP host. Depends on domain interfaces, not concrete implementations.
package app
