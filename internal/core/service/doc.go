// Package service provides the save engine's public operations.
//
// SaveSystem saves and loads simulation snapshots by slot. It validates
// input, writes files atomically with rotating backups, and on load falls
// back through the backups until one decodes.
//
// A slot must have at most one operation in flight at a time. Different
// slots can be used concurrently.
package service
