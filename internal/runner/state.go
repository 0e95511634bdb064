// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/docsentry/internal/projection"
)

// StateStore handles reading and writing runner state.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. .docsentry/run).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

// Dir returns the base directory.
func (s *StateStore) Dir() string { return s.baseDir }

func (s *StateStore) lastRunPath() string {
	return filepath.Join(s.baseDir, "last-run.json")
}

// checkPath maps a check ID to its result file. ':' is not portable in file
// names, so "docs:structure" is stored as docs_structure.json.
func (s *StateStore) checkPath(id string) string {
	return filepath.Join(s.baseDir, "checks", strings.ReplaceAll(id, ":", "_")+".json")
}

// ReadLastRun loads the last execution summary. It returns nil, nil when no
// run has been recorded.
func (s *StateStore) ReadLastRun() (*LastRun, error) {
	var last LastRun
	ok, err := readJSON(s.lastRunPath(), &last)
	if err != nil {
		return nil, fmt.Errorf("reading last run: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &last, nil
}

// ReadCheck loads the stored result of one check, or nil if there is none.
func (s *StateStore) ReadCheck(id string) (*Result, error) {
	var res Result
	ok, err := readJSON(s.checkPath(id), &res)
	if err != nil {
		return nil, fmt.Errorf("reading result of %s: %w", id, err)
	}
	if !ok {
		return nil, nil
	}
	return &res, nil
}

// WriteLastRun saves the execution summary.
func (s *StateStore) WriteLastRun(last LastRun) error {
	return writeJSON(s.lastRunPath(), last)
}

// WriteResult saves a check's result.
func (s *StateStore) WriteResult(res Result) error {
	return writeJSON(s.checkPath(res.Check), res)
}

// Reset clears the state directory.
func (s *StateStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}

// LoadFailedChecks returns the checks that failed in the last run.
func (s *StateStore) LoadFailedChecks() ([]string, error) {
	last, err := s.ReadLastRun()
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}
	return last.Failed, nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil // not found is clean state
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return projection.AtomicWrite(path, append(data, '\n'))
}
