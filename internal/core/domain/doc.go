// Package domain defines the core domain models of the save engine.
//
// Domain models are pure values without any IO dependencies. This package
// contains:
//
//   - SimulationSnapshot: the game state handed to the engine
//   - SaveMetadata: the descriptive summary stored with every save
//   - Slot names: validation of save destinations
//   - Errors: the closed set of save error kinds
package domain
