// Package config provides configuration management for the Fox Catcher server.
//
// The config package handles:
//   - Loading starting layouts from YAML files
//   - Layout validation through the engine's board invariants
//   - Default layout management (the canonical "classic" opening)
//   - Reading the server settings file
//
// Layout Format:
//
// Layouts are stored as YAML files in the layouts directory, one per file,
// and are addressed by file name without the extension:
//
//	name: Classic
//	description: Standard opening
//	to_move: DOG
//	pieces:
//	  - {type: FOX, row: 0, col: 2}
//	  - {type: DOG, row: 7, col: 1}
//	  - {type: DOG, row: 7, col: 3}
//	  - {type: DOG, row: 7, col: 5}
//	  - {type: DOG, row: 7, col: 7}
//
// A layout is rejected unless it yields a legal, undecided board: five
// pieces, exactly one fox, distinct on-board squares.
//
// Usage:
//
//	manager, err := config.NewManager("layouts")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadLayout("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
