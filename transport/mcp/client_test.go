package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/foxcatcher/api"
	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
	"github.com/wricardo/foxcatcher/game/service"
	"github.com/wricardo/foxcatcher/game/session"
)

// staticLayouts serves only the classic layout
type staticLayouts struct{}

func (staticLayouts) LoadLayout(id string) (*engine.Layout, error) {
	if id == "" || id == engine.DefaultLayoutName {
		return engine.DefaultLayout(), nil
	}
	return nil, service.ErrLayoutNotFound
}

func (staticLayouts) ListLayouts() ([]*service.LayoutInfo, error) {
	l := engine.DefaultLayout()
	return []*service.LayoutInfo{{LayoutID: engine.DefaultLayoutName, Name: l.Name, Description: l.Description, ToMove: l.ToMove}}, nil
}

func (staticLayouts) GetDefault() *engine.Layout { return engine.DefaultLayout() }

func (staticLayouts) SaveLayout(id string, layout *engine.Layout) error { return nil }

// newBackedClient starts a real REST API and returns a client pointed at it
func newBackedClient(t *testing.T) *Client {
	t.Helper()
	svc := service.NewGameService(session.NewManager(), staticLayouts{}, results.NewMemoryRepository(), nil)
	ts := httptest.NewServer(api.NewServer(svc, nil, nil))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s: expected content", name)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: expected text content", name)
	}
	return text.Text, result.IsError
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080/"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plain":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/plain", nil, nil)
	if err == nil || err.Error() != "API error: 500" {
		t.Errorf("Expected 'API error: 500', got: %v", err)
	}

	err = client.apiCall("GET", "/json", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected server message, got: %v", err)
	}
}

func TestClient_apiCall_EncodeError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")

	err := client.apiCall("POST", "/api", map[string]interface{}{"bad": make(chan int)}, nil)
	if err == nil || !strings.HasPrefix(err.Error(), "encode request") {
		t.Errorf("Expected encode error, got: %v", err)
	}
}

func TestClient_PlayThroughTools(t *testing.T) {
	client := newBackedClient(t)

	text, isErr := callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{
		"player_one": "ann",
		"player_two": "bob",
	})
	if isErr || !strings.Contains(text, "Created session: ") || !strings.Contains(text, "Dogs: ann") {
		t.Fatalf("Unexpected create output: %s", text)
	}
	sessionID := strings.TrimSpace(strings.SplitN(strings.TrimPrefix(text, "Created session: "), "\n", 2)[0])

	text, _ = callTool(t, client.handleGameState, "game_state", map[string]interface{}{"session_id": sessionID})
	for _, want := range []string{"To move: DOG", "0 ..F.....", "7 .D.D.D.D", "* 1 DOG at (7,1) moves: up_left, up_right"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in game state, got:\n%s", want, text)
		}
	}

	text, _ = callTool(t, client.handlePossibleMoves, "possible_moves", map[string]interface{}{"session_id": sessionID, "piece": float64(0)})
	if !strings.Contains(text, "Cannot move now") || !strings.Contains(text, "down_left") {
		t.Errorf("Unexpected possible moves: %s", text)
	}

	text, _ = callTool(t, client.handleMove, "move", map[string]interface{}{
		"session_id": sessionID, "piece": float64(1), "direction": "up_right",
	})
	if !strings.Contains(text, "✓ Move successful") || !strings.Contains(text, "(7,1)→(6,2)") {
		t.Errorf("Unexpected move output: %s", text)
	}

	text, _ = callTool(t, client.handleMove, "move", map[string]interface{}{
		"session_id": sessionID, "piece": float64(2), "direction": "up_left",
	})
	if !strings.Contains(text, "✗ Move failed") {
		t.Errorf("Expected dog move on fox turn to fail: %s", text)
	}

	text, _ = callTool(t, client.handleMoveFrom, "move_from", map[string]interface{}{
		"session_id": sessionID, "from_row": float64(0), "from_col": float64(2), "to_row": float64(1), "to_col": float64(3),
	})
	if !strings.Contains(text, "✓ Move successful") {
		t.Errorf("Unexpected move_from output: %s", text)
	}

	text, _ = callTool(t, client.handleMoveHistory, "move_history", map[string]interface{}{"session_id": sessionID, "order": "asc"})
	if !strings.Contains(text, "Total: 2") || !strings.Contains(text, "1. DOG 1 up_right") {
		t.Errorf("Unexpected history: %s", text)
	}

	text, _ = callTool(t, client.handleListSessions, "list_sessions", nil)
	if !strings.Contains(text, "Active Sessions (1)") || !strings.Contains(text, "ann vs bob") {
		t.Errorf("Unexpected session list: %s", text)
	}

	text, _ = callTool(t, client.handleReset, "reset_game", map[string]interface{}{"session_id": sessionID})
	if !strings.Contains(text, "Moves: 0") {
		t.Errorf("Expected reset board, got: %s", text)
	}

	text, _ = callTool(t, client.handleListLayouts, "list_layouts", nil)
	if !strings.Contains(text, "• classic") {
		t.Errorf("Unexpected layouts: %s", text)
	}

	text, _ = callTool(t, client.handleLeaderboard, "leaderboard", map[string]interface{}{"limit": float64(3)})
	if text != "No finished games yet" {
		t.Errorf("Expected empty leaderboard, got: %s", text)
	}
}

func TestClient_ToolErrors(t *testing.T) {
	client := newBackedClient(t)

	text, isErr := callTool(t, client.handleGameState, "game_state", map[string]interface{}{"session_id": "zzzz"})
	if !isErr || !strings.Contains(text, "session not found") {
		t.Errorf("Expected not found error, got %v %s", isErr, text)
	}

	_, isErr = callTool(t, client.handleMove, "move", map[string]interface{}{"session_id": "zzzz", "direction": "up_left"})
	if !isErr {
		t.Error("Expected missing piece to be an error")
	}

	_, isErr = callTool(t, client.handleCreateSession, "create_session", map[string]interface{}{"layout_id": "nope"})
	if !isErr {
		t.Error("Expected unknown layout to be an error")
	}

	_, isErr = callTool(t, client.handleMoveFrom, "move_from", map[string]interface{}{"session_id": "zzzz", "from_row": float64(1)})
	if !isErr {
		t.Error("Expected missing coordinates to be an error")
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	state := &engine.GameState{
		LayoutName: "classic",
		Board:      []string{"........", "........", "........", "........", "........", "........", "........", "........"},
		MoveCount:  12,
		GameOver:   true,
		FoxWins:    true,
		Winner:     engine.Fox,
		Message:    "Fox wins!",
	}

	result := formatGameState(state)
	for _, want := range []string{"To move: -", "Moves: 12", "🦊 FOX WINS!", "Message: Fox wins!"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in output, got: %s", want, result)
		}
	}

	state.FoxWins, state.DogWins, state.Winner = false, true, engine.Dog
	if !strings.Contains(formatGameState(state), "🐕 DOGS WIN!") {
		t.Error("Expected dogs win banner")
	}

	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatMoveResult_Failed(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success:   false,
		Message:   "not your turn",
		GameState: &engine.GameState{},
	})

	if !strings.Contains(result, "✗ Move failed") || !strings.Contains(result, "Reason: not your turn") {
		t.Errorf("Unexpected output: %s", result)
	}
}

func TestFormatLeaderboard(t *testing.T) {
	played := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	best := []*results.GameResult{
		results.NewGameResult("ann", "bob", true, 9, played),
		results.NewGameResult("cid", "dee", false, 14, played),
	}

	out := formatLeaderboard(best)
	for _, want := range []string{"1. bob (FOX) beat ann in 9 moves on 2024-05-01 10:30", "2. cid (DOG) beat dee in 14 moves"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in leaderboard, got: %s", want, out)
		}
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	text, _ := callTool(t, client.handleGameInstructions, "game_instructions", map[string]interface{}{})

	for _, want := range []string{
		"Fox Catcher - Complete Instructions",
		"THE BOARD:",
		"MOVEMENT:",
		"VICTORY CONDITIONS:",
		"Dogs may only move up_left or up_right",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected '%s' in instructions", want)
		}
	}
}
