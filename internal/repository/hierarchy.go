package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/learnops/progress-reporter/internal/domain/entities"
)

var ErrHierarchyNotFound = errors.New("hierarchy document not found")

// HierarchyRepository loads course hierarchy documents from a directory of
// JSON files, one document per course (<dir>/<courseID>.json). Documents are
// snapshots exported by the content store; this repository never writes.
type HierarchyRepository struct {
	dir string
}

// NewHierarchyRepository creates a repository over the given document
// directory.
func NewHierarchyRepository(dir string) *HierarchyRepository {
	return &HierarchyRepository{dir: dir}
}

// Get reads and decodes the hierarchy document for a course. A missing or
// undecodable document is an error: without leaf counts no report row can be
// derived for the course, so the caller must be told rather than fed zeros.
func (r *HierarchyRepository) Get(_ context.Context, courseID string) (*entities.HierarchyNode, error) {
	path := filepath.Join(r.dir, courseID+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrHierarchyNotFound, courseID)
		}
		return nil, fmt.Errorf("read hierarchy %s: %w", courseID, err)
	}

	var root entities.HierarchyNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode hierarchy %s: %w", courseID, err)
	}

	return &root, nil
}
