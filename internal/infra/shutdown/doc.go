// Package shutdown stops long-running commands cleanly on SIGINT or SIGTERM.
//
// Hooks registered with OnShutdown run in reverse order under a shared
// timeout, so a save monitor is stopped before the metrics it writes to
// are flushed.
package shutdown
