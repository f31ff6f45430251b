package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/service"
)

var (
	ErrLayoutNotFound = service.ErrLayoutNotFound
	ErrInvalidLayout  = service.ErrInvalidLayout
)

const layoutExt = ".yaml"

// layoutError marks a layout as invalid while keeping the underlying cause
// reachable through errors.Is and errors.Cause.
type layoutError struct {
	cause error
}

func invalidLayout(cause error) error {
	return &layoutError{cause: cause}
}

func (e *layoutError) Error() string {
	return ErrInvalidLayout.Error() + ": " + e.cause.Error()
}

func (e *layoutError) Unwrap() error { return e.cause }

func (e *layoutError) Cause() error { return e.cause }

func (e *layoutError) Is(target error) bool { return target == ErrInvalidLayout }

// Manager handles starting layout loading and caching. Layouts live in a
// directory as <id>.yaml; the canonical layout is always available as
// "classic" even when no file defines it.
type Manager struct {
	layoutDir     string
	defaultLayout *engine.Layout
	layouts       map[string]*engine.Layout
	mu            sync.RWMutex
}

// NewManager creates a new layout manager. The directory is created if missing.
func NewManager(layoutDir string) (*Manager, error) {
	if err := os.MkdirAll(layoutDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create layout directory %s", layoutDir)
	}

	m := &Manager{
		layoutDir: layoutDir,
		layouts:   make(map[string]*engine.Layout),
	}

	if err := m.loadDefaultLayout(); err != nil {
		return nil, errors.WithMessage(err, "load default layout")
	}

	return m, nil
}

// LoadLayout loads a layout by id
func (m *Manager) LoadLayout(id string) (*engine.Layout, error) {
	id = strings.TrimSuffix(id, layoutExt)

	m.mu.RLock()
	if layout, exists := m.layouts[id]; exists {
		m.mu.RUnlock()
		return layout, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if layout, exists := m.layouts[id]; exists {
		return layout, nil
	}

	data, err := os.ReadFile(m.layoutPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			if id == engine.DefaultLayoutName {
				layout := engine.DefaultLayout()
				m.layouts[id] = layout
				return layout, nil
			}
			return nil, errors.Wrapf(ErrLayoutNotFound, "layout %q", id)
		}
		return nil, errors.Wrap(err, "read layout file")
	}

	layout, err := ParseLayout(data)
	if err != nil {
		return nil, err
	}

	m.layouts[id] = layout
	return layout, nil
}

// ParseLayout decodes and validates a YAML layout document
func ParseLayout(data []byte) (*engine.Layout, error) {
	var layout engine.Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, invalidLayout(errors.Wrap(err, "parse layout"))
	}
	if err := engine.ValidateLayout(&layout); err != nil {
		return nil, invalidLayout(err)
	}
	return &layout, nil
}

// ListLayouts returns information about all available layouts
func (m *Manager) ListLayouts() ([]*service.LayoutInfo, error) {
	entries, err := os.ReadDir(m.layoutDir)
	if err != nil {
		return nil, errors.Wrap(err, "read layout directory")
	}

	ids := []string{engine.DefaultLayoutName}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), layoutExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), layoutExt)
		if id != engine.DefaultLayoutName {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids[1:])

	layouts := make([]*service.LayoutInfo, 0, len(ids))
	for _, id := range ids {
		layout, err := m.LoadLayout(id)
		if err != nil {
			// Skip invalid layouts
			continue
		}
		layouts = append(layouts, &service.LayoutInfo{
			LayoutID:    id,
			Name:        layout.Name,
			Description: layout.Description,
			ToMove:      layoutTurn(layout),
		})
	}

	return layouts, nil
}

// GetDefault returns the default layout
func (m *Manager) GetDefault() *engine.Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLayout
}

// SetDefault sets the default layout by id
func (m *Manager) SetDefault(id string) error {
	layout, err := m.LoadLayout(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLayout = layout
	return nil
}

// RefreshCache drops all cached layouts so they are re-read from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.layouts = make(map[string]*engine.Layout)
	m.mu.Unlock()

	return m.loadDefaultLayout()
}

// SaveLayout validates a layout and writes it to disk as <id>.yaml
func (m *Manager) SaveLayout(id string, layout *engine.Layout) error {
	id = strings.TrimSuffix(id, layoutExt)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return errors.Wrapf(ErrInvalidLayout, "bad layout id %q", id)
	}
	if err := engine.ValidateLayout(layout); err != nil {
		return invalidLayout(err)
	}

	data, err := yaml.Marshal(layout)
	if err != nil {
		return errors.Wrap(err, "marshal layout")
	}
	if err := os.WriteFile(m.layoutPath(id), data, 0644); err != nil {
		return errors.Wrap(err, "write layout file")
	}

	m.mu.Lock()
	m.layouts[id] = layout
	m.mu.Unlock()

	return nil
}

func (m *Manager) loadDefaultLayout() error {
	layout, err := m.LoadLayout(engine.DefaultLayoutName)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.defaultLayout = layout
	m.mu.Unlock()
	return nil
}

func (m *Manager) layoutPath(id string) string {
	return filepath.Join(m.layoutDir, id+layoutExt)
}

func layoutTurn(layout *engine.Layout) engine.PieceType {
	if layout.ToMove == "" {
		return engine.Dog
	}
	return layout.ToMove
}
