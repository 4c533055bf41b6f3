package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/ports/driven"
)

// DefaultFileName is the candidate document name inside the data directory.
const DefaultFileName = "candidates.json"

// Ensure CandidateStore implements the interface.
var _ driven.CandidateStore = (*CandidateStore)(nil)

// CandidateStore writes the whole candidate map on every Save.
// Writes go to a temporary file that is renamed over the target, so a
// crash mid-write leaves the previous document intact.
type CandidateStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCandidateStore creates a store backed by path.
// If path is empty, defaults to ~/.hansard/data/candidates.json.
func NewCandidateStore(path string) (*CandidateStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".hansard", "data", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating candidate directory: %w", err)
	}

	return &CandidateStore{filePath: path}, nil
}

// Load returns the stored map, or an empty map when the file does not exist.
func (s *CandidateStore) Load(_ context.Context) (domain.CandidateMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.CandidateMap{}, nil
		}
		return nil, fmt.Errorf("reading candidates: %w", err)
	}

	candidates := domain.CandidateMap{}
	if len(data) == 0 {
		return candidates, nil
	}
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("decoding candidates %s: %w", s.filePath, err)
	}
	return candidates, nil
}

// Save replaces the stored document with candidates.
func (s *CandidateStore) Save(ctx context.Context, candidates domain.CandidateMap) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding candidates: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".candidates-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing candidates: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing candidates: %w", err)
	}
	return nil
}

// Path returns the candidate document path.
func (s *CandidateStore) Path() string {
	return s.filePath
}
