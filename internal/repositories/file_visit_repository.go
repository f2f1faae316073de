package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ai-companion/internal/models"
)

// FileVisitRepository keeps the counter in a small JSON file. Atomicity is
// per-process only (a mutex around read-modify-write), which matches the
// single-instance deployments this backend is meant for.
type FileVisitRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileVisitRepository creates a counter backed by the JSON file at path.
func NewFileVisitRepository(path string) *FileVisitRepository {
	return &FileVisitRepository{path: path}
}

func (r *FileVisitRepository) read() (*models.VisitStats, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &models.VisitStats{VisitCount: initialVisitCount, LastUpdated: time.Now()}, nil
	}
	if err != nil {
		return nil, NewRepositoryError("read_visits", "", err, "")
	}

	var stats models.VisitStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, NewRepositoryError("read_visits", "", err, "failed to parse visit stats file")
	}
	return &stats, nil
}

func (r *FileVisitRepository) write(stats *models.VisitStats) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return NewRepositoryError("write_visits", "", err, "")
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return NewRepositoryError("write_visits", "", err, "")
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return NewRepositoryError("write_visits", "", err, "")
	}
	return nil
}

// Get returns the current stats.
func (r *FileVisitRepository) Get(ctx context.Context) (*models.VisitStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

// Increment adds one visit and persists the new stats.
func (r *FileVisitRepository) Increment(ctx context.Context) (*models.VisitStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := r.read()
	if err != nil {
		return nil, err
	}
	stats.VisitCount++
	stats.LastUpdated = time.Now()
	if err := r.write(stats); err != nil {
		return nil, err
	}
	return stats, nil
}
