// Package buildinfo reports the version of the stellar-save binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/stellar-save/internal/infra/buildinfo.Version=v1.0.0"
//
// Development builds fall back to the VCS stamp the Go toolchain embeds.
package buildinfo
