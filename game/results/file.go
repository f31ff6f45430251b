package results

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultFileName is the results file under the user's XDG data directory
const DefaultFileName = "foxcatcher/results.json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultFilePath returns the XDG data location of the results file,
// creating its parent directory.
func DefaultFilePath() (string, error) {
	path, err := xdg.DataFile(DefaultFileName)
	if err != nil {
		return "", errors.WithMessage(err, "resolve xdg data file")
	}
	return path, nil
}

// FileRepository stores every result as one JSON array in a single file.
// The file is read once on open and rewritten after each Add.
type FileRepository struct {
	path    string
	logger  *zap.Logger
	mu      sync.RWMutex
	results []*GameResult
}

// NewFileRepository opens the results file at path. A missing file is an
// empty result list.
func NewFileRepository(path string, logger *zap.Logger) (*FileRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &FileRepository{
		path:   path,
		logger: logger.With(zap.String("results_file", path)),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Add(_ context.Context, result *GameResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	stored := *result

	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, &stored)
	if err := r.save(); err != nil {
		r.results = r.results[:len(r.results)-1]
		return err
	}
	r.logger.Debug("result saved", zap.String("id", stored.ID), zap.Int("count", len(r.results)))
	return nil
}

func (r *FileRepository) List(_ context.Context) ([]*GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyResults(r.results), nil
}

func (r *FileRepository) Best(_ context.Context, limit int) ([]*GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return best(copyResults(r.results), limit), nil
}

func (r *FileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.results = []*GameResult{}
			return nil
		}
		return errors.Wrap(err, "read results file")
	}

	var list []*GameResult
	if len(data) > 0 {
		if err := json.Unmarshal(data, &list); err != nil {
			return errors.Wrap(err, "decode results file")
		}
	}
	if list == nil {
		list = []*GameResult{}
	}
	r.results = list
	r.logger.Info("results loaded", zap.Int("count", len(list)))
	return nil
}

// save writes through a temp file so a crash never leaves a truncated list
func (r *FileRepository) save() error {
	data, err := json.MarshalIndent(r.results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode results")
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "create results directory")
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "write results file")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replace results file")
	}
	return nil
}
