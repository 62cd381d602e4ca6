// Package main is the entry point of stellar-save.
//
// stellar-save manages the chunked save files of a simulation:
//
//	stellar-save save --from snapshot.json alpha
//	stellar-save load --to restored.yaml alpha
//	stellar-save list -o json
//	stellar-save verify alpha
//	stellar-save backup restore alpha 1
//	stellar-save watch --backups
package main
