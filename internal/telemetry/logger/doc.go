// Package logger provides structured logging for the save engine.
//
// Components log through the Logger interface. The logger for an operation
// comes from the context with L, which adds the operation ID and slot:
//
//	ctx = logger.WithSlot(logger.StartOperation(ctx), slot)
//	log := logger.L(ctx)
//	log.Info("save finished", logger.Bytes(n), logger.Took(d))
//
// Player account identifiers (acct_...) are masked in every attribute
// value, including error messages, before a record is written.
package logger
