package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/foxcatcher/game/config"
	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/results"
	"github.com/wricardo/foxcatcher/game/service"
	"github.com/wricardo/foxcatcher/game/session"
	"github.com/wricardo/foxcatcher/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Fox Catcher Server" {
		t.Errorf("Unexpected app name %s", AppName)
	}
}

// runWithProbe runs the app with an extra subcommand that captures the
// resolved settings
func runWithProbe(t *testing.T, args ...string) (config.Settings, error) {
	t.Helper()
	var settings config.Settings
	app := newApp()
	app.Commands = append(app.Commands, &cli.Command{
		Name: "probe",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			settings, err = loadSettings(cmd)
			return err
		},
	})
	err := app.Run(context.Background(), append([]string{"foxcatcher"}, args...))
	return settings, err
}

func TestLoadSettings_Defaults(t *testing.T) {
	settings, err := runWithProbe(t, "probe")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if settings != config.DefaultSettings() {
		t.Errorf("Expected defaults, got %+v", settings)
	}
}

func TestLoadSettings_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `host: 0.0.0.0
port: 9000
layouts_dir: /srv/layouts
results:
  backend: sqlite
  path: /srv/results.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := runWithProbe(t, "--settings", path, "--port", "9090", "--debug", "probe")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if settings.Host != "0.0.0.0" || settings.LayoutsDir != "/srv/layouts" {
		t.Errorf("Expected file values, got %+v", settings)
	}
	if settings.Port != 9090 {
		t.Errorf("Expected flag to override port, got %d", settings.Port)
	}
	if settings.Results.Backend != config.ResultsSQLite || settings.Results.Path != "/srv/results.db" {
		t.Errorf("Unexpected results settings %+v", settings.Results)
	}
	if !settings.Log.Development || settings.Log.Level != "debug" {
		t.Errorf("Expected debug logging, got %+v", settings.Log)
	}
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("RESULTS_BACKEND", "memory")
	t.Setenv("FOXCATCHER_PORT", "7070")

	settings, err := runWithProbe(t, "probe")
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if settings.Results.Backend != config.ResultsMemory || settings.Port != 7070 {
		t.Errorf("Expected env overrides, got %+v", settings)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	if _, err := runWithProbe(t, "--results-backend", "postgres", "probe"); err == nil {
		t.Error("Expected unknown backend to fail")
	}
}

func TestInitializeServices(t *testing.T) {
	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.LayoutsDir = filepath.Join(dir, "layouts")
	settings.SessionsDir = filepath.Join(dir, "sessions")
	settings.Results.Backend = config.ResultsFile
	settings.Results.Path = filepath.Join(dir, "results.json")

	svcs, err := initializeServices(settings, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svcs.Close()

	ctx := context.Background()
	info, err := svcs.game.CreateSession(ctx, service.CreateSessionRequest{PlayerOne: "ann"})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(settings.SessionsDir, info.ID+".json")); err != nil {
		t.Errorf("Expected session file: %v", err)
	}

	// A second process picks the session up from disk
	again, err := initializeServices(settings, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to reinitialize services: %v", err)
	}
	defer again.Close()
	if again.sessions.Count() != 1 {
		t.Errorf("Expected 1 persisted session, got %d", again.sessions.Count())
	}
}

func TestInitializeServices_NoPersistence(t *testing.T) {
	settings := config.DefaultSettings()
	settings.LayoutsDir = t.TempDir()
	settings.SessionsDir = ""
	settings.Results.Backend = config.ResultsMemory

	svcs, err := initializeServices(settings, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svcs.persistence != nil {
		t.Error("Expected no session persistence")
	}
}

func TestOpenResultsRepository(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{config.ResultsMemory, "", false},
		{config.ResultsFile, filepath.Join(dir, "r.json"), false},
		{config.ResultsSQLite, filepath.Join(dir, "r.db"), false},
		{"postgres", filepath.Join(dir, "x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			repo, closer, err := openResultsRepository(config.ResultsSettings{Backend: tt.backend, Path: tt.path}, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("open failed: %v", err)
			}
			if closer != nil {
				defer closer()
			}
			if err := repo.Add(context.Background(), results.NewGameResult("a", "b", true, 3, time.Now())); err != nil {
				t.Errorf("Add failed: %v", err)
			}
		})
	}
}

func TestResultsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	repo, err := results.NewFileRepository(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	played := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	_ = repo.Add(ctx, results.NewGameResult("ann", "bob", true, 17, played))
	_ = repo.Add(ctx, results.NewGameResult("cid", "dee", false, 12, played))

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err = app.Run(ctx, []string{"foxcatcher", "--results-path", path, "results", "--limit", "1"})
	if err != nil {
		t.Fatalf("results command failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "WINNER") || !strings.Contains(text, "cid") {
		t.Errorf("Expected cid to lead the table, got:\n%s", text)
	}
	if strings.Contains(text, "bob") {
		t.Errorf("Expected limit to cut the table, got:\n%s", text)
	}

	out.Reset()
	app = newApp()
	app.Writer = &out
	if err := app.Run(ctx, []string{"foxcatcher", "--results-backend", "memory", "results"}); err != nil {
		t.Fatalf("results command failed: %v", err)
	}
	if !strings.Contains(out.String(), "No finished games yet") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestLayoutsCommand(t *testing.T) {
	dir := t.TempDir()
	layout := `name: Corner
description: fox in the corner
pieces:
  - {type: FOX, row: 0, col: 0}
  - {type: DOG, row: 5, col: 1}
  - {type: DOG, row: 5, col: 3}
  - {type: DOG, row: 5, col: 5}
  - {type: DOG, row: 5, col: 7}
`
	if err := os.WriteFile(filepath.Join(dir, "corner.yaml"), []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run(context.Background(), []string{"foxcatcher", "--layouts-dir", dir, "layouts"}); err != nil {
		t.Fatalf("layouts command failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 layouts, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], engine.DefaultLayoutName) || !strings.HasPrefix(lines[2], "corner") {
		t.Errorf("Unexpected layout order:\n%s", out.String())
	}
}

func TestMCPHandler(t *testing.T) {
	handler := mcpHandler(mcp.NewClient("http://127.0.0.1:1"))

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", w.Code)
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`
	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Fox Catcher") {
		t.Errorf("Expected server info in response, got %s", w.Body.String())
	}
}

func TestLoopbackURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"localhost", "http://localhost:8080"},
		{"0.0.0.0", "http://127.0.0.1:8080"},
		{"", "http://127.0.0.1:8080"},
		{"::1", "http://[::1]:8080"},
	}
	for _, tt := range tests {
		if got := loopbackURL(tt.host, 8080); got != tt.want {
			t.Errorf("loopbackURL(%q) = %s, want %s", tt.host, got, tt.want)
		}
	}
}

func TestPruneDeletedSessions(t *testing.T) {
	dir := t.TempDir()
	layouts, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	persistence, err := session.NewFilePersistence(dir, layouts)
	if err != nil {
		t.Fatal(err)
	}
	manager := session.NewManagerWithPersistence(persistence)

	keep, _ := manager.Create("keep", service.SessionOptions{})
	gone, _ := manager.Create("gone", service.SessionOptions{})
	if err := os.Remove(filepath.Join(dir, gone.ID+".json")); err != nil {
		t.Fatal(err)
	}

	if pruned := pruneDeletedSessions(manager, persistence, zap.NewNop()); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
	if _, err := manager.Get(keep.ID); err != nil {
		t.Errorf("Expected %s to survive: %v", keep.ID, err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Host = "127.0.0.1"
	settings.Port = freePort(t)
	settings.LayoutsDir = t.TempDir()
	settings.SessionsDir = ""
	settings.Results.Backend = config.ResultsMemory

	svcs, err := initializeServices(settings, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runHTTPServer(ctx, svcs)
	}()

	base := loopbackURL(settings.Host, settings.Port)
	deadline := time.Now().Add(3 * time.Second)
	for !externalAPIAvailable(base) {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("server did not come up")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
