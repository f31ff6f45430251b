package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write layout: %v", err)
	}
	return path
}

func hasMessage(result ValidationResult, substr string) bool {
	for _, msg := range result.Messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestValidateLayout_Valid(t *testing.T) {
	path := writeLayout(t, `name: classic
description: Standard opening
to_move: DOG
pieces:
  - {type: FOX, row: 0, col: 2}
  - {type: DOG, row: 7, col: 1}
  - {type: DOG, row: 7, col: 3}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`)

	result := validateLayout(path)
	if !result.Valid {
		t.Fatalf("Expected valid layout, got errors: %v", result.Messages)
	}
	if result.File != "layout.yaml" {
		t.Errorf("Expected file name layout.yaml, got %s", result.File)
	}
	for _, want := range []string{"✓ Name: classic", "✓ To move: DOG", "✓ Fox: piece 0 at (0,2)", "..F.....", ".D.D.D.D"} {
		if !hasMessage(result, want) {
			t.Errorf("Expected %q in messages %v", want, result.Messages)
		}
	}
}

func TestValidateLayout_FoxNotFirst(t *testing.T) {
	path := writeLayout(t, `name: reordered
to_move: FOX
pieces:
  - {type: DOG, row: 7, col: 1}
  - {type: DOG, row: 7, col: 3}
  - {type: FOX, row: 3, col: 3}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`)

	result := validateLayout(path)
	if !result.Valid {
		t.Fatalf("Expected valid layout, got errors: %v", result.Messages)
	}
	if !hasMessage(result, "Fox: piece 2 at (3,3)") {
		t.Errorf("Expected fox located at index 2, got %v", result.Messages)
	}
}

func TestValidateLayout_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "invalid yaml",
			content: "name: [broken",
			want:    "parse layout",
		},
		{
			name: "missing name",
			content: `pieces:
  - {type: FOX, row: 0, col: 2}
  - {type: DOG, row: 7, col: 1}
  - {type: DOG, row: 7, col: 3}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`,
			want: "name is required",
		},
		{
			name: "two foxes",
			content: `name: twofox
pieces:
  - {type: FOX, row: 0, col: 2}
  - {type: FOX, row: 0, col: 4}
  - {type: DOG, row: 7, col: 3}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`,
			want: "exactly one fox",
		},
		{
			name: "already decided",
			content: `name: decided
pieces:
  - {type: FOX, row: 7, col: 0}
  - {type: DOG, row: 2, col: 1}
  - {type: DOG, row: 2, col: 3}
  - {type: DOG, row: 2, col: 5}
  - {type: DOG, row: 2, col: 7}
`,
			want: "already decided",
		},
		{
			name: "dogs stuck",
			content: `name: stuck
to_move: DOG
pieces:
  - {type: FOX, row: 1, col: 2}
  - {type: DOG, row: 1, col: 0}
  - {type: DOG, row: 0, col: 1}
  - {type: DOG, row: 0, col: 3}
  - {type: DOG, row: 0, col: 5}
`,
			want: "no dog has a legal move",
		},
		{
			name: "wrong colour",
			content: `name: colour
pieces:
  - {type: FOX, row: 0, col: 2}
  - {type: DOG, row: 7, col: 2}
  - {type: DOG, row: 7, col: 3}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`,
			want: "Dog 1 at (7,2) is on the other colour",
		},
		{
			name: "fox off colour",
			content: `name: foxcolour
to_move: FOX
pieces:
  - {type: DOG, row: 7, col: 1}
  - {type: DOG, row: 7, col: 3}
  - {type: FOX, row: 3, col: 4}
  - {type: DOG, row: 7, col: 5}
  - {type: DOG, row: 7, col: 7}
`,
			want: "Dog 0 at (7,1) is on the other colour from the fox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLayout(writeLayout(t, tt.content))
			if result.Valid {
				t.Fatal("Expected layout to be invalid")
			}
			if !hasMessage(result, tt.want) {
				t.Errorf("Expected %q in messages %v", tt.want, result.Messages)
			}
		})
	}
}

func TestValidateLayout_MissingFile(t *testing.T) {
	result := validateLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	if result.Valid {
		t.Error("Expected missing file to be invalid")
	}
	if !hasMessage(result, "Failed to read file") {
		t.Errorf("Expected read failure, got %v", result.Messages)
	}
}

func TestValidateLayout_ShippedLayouts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "layouts", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Skip("no shipped layouts")
	}
	for _, file := range files {
		if result := validateLayout(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Messages)
		}
	}
}
