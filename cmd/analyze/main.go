// Command analyze prints quick, human-readable heuristics about the layout
// files in the project's layouts directory. It summarizes piece mobility,
// how much room the fox has if the dogs stood still, and whether either side
// can force a win within a bounded look-ahead.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/foxcatcher/game/config"
	"github.com/wricardo/foxcatcher/game/engine"
)

// Analysis is the summary printed for one layout
type Analysis struct {
	Name           string
	ToMove         engine.PieceType
	FoxMoves       int
	DogMoves       int
	FoxReach       int // squares the fox can reach with the dogs frozen
	EscapeDistance int // fox steps to get past every frozen dog, -1 if walled in
	Forced         engine.PieceType
	Depth          int
}

func main() {
	dir := flag.String("dir", "layouts", "Directory containing layout YAML files")
	depth := flag.Int("depth", 6, "Look-ahead in plies")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*dir, "*.yaml"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No layouts found in %s\n", *dir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		a, err := analyzeFile(file, *depth)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(a)
	}
}

func analyzeFile(path string, depth int) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	layout, err := config.ParseLayout(data)
	if err != nil {
		return nil, err
	}
	board, err := layout.NewBoard()
	if err != nil {
		return nil, err
	}
	a := analyzeBoard(board, depth)
	a.Name = layout.Name
	return a, nil
}

func analyzeBoard(board *engine.BoardState, depth int) *Analysis {
	a := &Analysis{ToMove: board.ToMove(), Depth: depth}
	for i, piece := range board.Pieces() {
		moves, _ := board.PossibleMoves(i)
		if piece.Type == engine.Fox {
			a.FoxMoves = len(moves)
		} else {
			a.DogMoves += len(moves)
		}
	}
	a.FoxReach, a.EscapeDistance = foxRoom(board)
	a.Forced = forcedWinner(board, depth)
	return a
}

func printAnalysis(a *Analysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("To move: %s\n", a.ToMove)
	fmt.Printf("Fox moves: %d, dog moves: %d\n", a.FoxMoves, a.DogMoves)
	fmt.Printf("Fox reach with dogs frozen: %d squares\n", a.FoxReach)
	if a.EscapeDistance < 0 {
		fmt.Printf("✅ The dogs' line holds: the fox cannot get past without help\n")
	} else {
		fmt.Printf("⚠️  WARNING: the fox is %d steps from getting past every dog\n", a.EscapeDistance)
	}
	switch a.Forced {
	case "":
		fmt.Printf("No forced win within %d plies\n", a.Depth)
	default:
		fmt.Printf("⚠️  %s can force a win within %d plies\n", a.Forced, a.Depth)
	}
}

// foxRoom flood-fills the fox's squares with every dog frozen in place. It
// returns the number of reachable squares and the fewest steps to a row
// below every dog, or -1 when no such square is reachable.
func foxRoom(board *engine.BoardState) (int, int) {
	fox, _ := board.PieceAt(board.FoxIndex())
	lowestDog := -1
	for _, piece := range board.Pieces() {
		if piece.Type == engine.Dog && piece.Position.Row > lowestDog {
			lowestDog = piece.Position.Row
		}
	}

	dist := map[engine.Position]int{fox.Position: 0}
	queue := []engine.Position{fox.Position}
	escape := -1
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if escape < 0 && current.Row > lowestDog {
			escape = dist[current]
		}
		for _, d := range engine.Fox.Directions() {
			next := current.Translated(d)
			if _, seen := dist[next]; seen || !next.IsOnBoard() || !board.IsSquareEmpty(next) {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return len(dist) - 1, escape
}

// forcedWinner returns the side that can force a win within depth plies, or
// "" when neither can.
func forcedWinner(board *engine.BoardState, depth int) engine.PieceType {
	if winner, ok := board.Winner(); ok {
		return winner
	}
	if depth == 0 {
		return ""
	}

	side := board.ToMove()
	moved, undecided := false, false
	for i, piece := range board.Pieces() {
		if piece.Type != side {
			continue
		}
		moves, _ := board.PossibleMoves(i)
		for _, d := range moves {
			next, err := board.Moved(i, d)
			if err != nil {
				continue
			}
			moved = true
			switch forcedWinner(next, depth-1) {
			case side:
				return side
			case "":
				undecided = true
			}
		}
	}
	if !moved || undecided {
		return ""
	}
	return side.Opponent()
}
