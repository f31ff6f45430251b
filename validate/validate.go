// Command validate checks the layout YAML files in ../layouts (or the
// directory given as the first argument). For each file it checks:
//   - YAML structure and required fields
//   - Exactly one fox and four dogs, all on distinct squares inside the board
//   - The starting position is not already decided
//   - The side to move has at least one legal move
//   - The fox and the dogs stand on squares of the same colour
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/foxcatcher/game/config"
	"github.com/wricardo/foxcatcher/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Messages holds informational lines; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Messages []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Messages = append(r.Messages, "✓ "+fmt.Sprintf(format, args...))
}

// validateLayout loads and validates a single layout file.
func validateLayout(filePath string) ValidationResult {
	result := ValidationResult{
		File:     filepath.Base(filePath),
		Valid:    true,
		Messages: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	layout, err := config.ParseLayout(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	board, err := layout.NewBoard()
	if err != nil {
		result.fail("%v", err)
		return result
	}

	checkMobility(board, &result)
	checkColours(board, &result)

	if result.Valid {
		result.info("Name: %s", layout.Name)
		result.info("To move: %s", board.ToMove())
		fox, _ := board.PieceAt(board.FoxIndex())
		result.info("Fox: piece %d at %s", board.FoxIndex(), fox.Position)
		result.Messages = append(result.Messages, strings.Split(strings.Join(engine.RenderBoard(board), "\n"), "\n")...)
	}

	return result
}

// checkMobility requires the side to move to have a legal move
func checkMobility(board *engine.BoardState, result *ValidationResult) {
	for i, piece := range board.Pieces() {
		if piece.Type != board.ToMove() {
			continue
		}
		if moves, _ := board.PossibleMoves(i); len(moves) > 0 {
			return
		}
	}
	result.fail("%s to move but no %s has a legal move", board.ToMove(), strings.ToLower(string(board.ToMove())))
}

// checkColours requires every piece on squares of the fox's colour. Pieces on
// the other colour can never block the fox.
func checkColours(board *engine.BoardState, result *ValidationResult) {
	fox, _ := board.PieceAt(board.FoxIndex())
	parity := (fox.Position.Row + fox.Position.Col) % 2
	for i, piece := range board.Pieces() {
		if piece.Type == engine.Dog && (piece.Position.Row+piece.Position.Col)%2 != parity {
			result.fail("Dog %d at %s is on the other colour from the fox", i, piece.Position)
		}
	}
}

// main validates every *.yaml layout, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	layoutDir := "../layouts"
	if len(os.Args) > 1 {
		layoutDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(layoutDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding layout files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No layouts found in %s\n", layoutDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLayout(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Messages {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, msg := range result.Messages {
				if !strings.HasPrefix(msg, "✓") {
					fmt.Println("  ❌ " + msg)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All layouts are valid!")
	} else {
		fmt.Println("❌ Some layouts have errors")
		os.Exit(1)
	}
}
