// SPDX-License-Identifier: AGPL-3.0-or-later
package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCheck implements Check for testing.
type MockCheck struct {
	id     string
	result Result
	called bool
}

func (m *MockCheck) ID() string {
	return m.id
}

func (m *MockCheck) Run(ctx context.Context, deps *Deps) Result {
	m.called = true
	return m.result
}

func TestRunner_RunAll(t *testing.T) {
	store := NewStateStore(t.TempDir())

	c1 := &MockCheck{id: "api:coverage", result: Result{Status: StatusPass}}
	c2 := &MockCheck{id: "docs:structure", result: Result{Status: StatusPass, Note: "12 files"}}

	var out bytes.Buffer
	r := NewRunner([]Check{c1, c2}, store, &Deps{Out: &out})

	require.NoError(t, r.RunAll(context.Background()))
	assert.True(t, c1.called)
	assert.True(t, c2.called)

	assert.Contains(t, out.String(), "CHECK: api:coverage")
	assert.Contains(t, out.String(), "PASS: docs:structure\n12 files\n")

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, StatusPass, last.Status)
	assert.Equal(t, []string{"api:coverage", "docs:structure"}, last.Checks)
	assert.Empty(t, last.Failed)

	res, err := store.ReadCheck("docs:structure")
	require.NoError(t, err)
	assert.Equal(t, "docs:structure", res.Check, "the runner stamps the check id")
	assert.FileExists(t, filepath.Join(store.Dir(), "checks", "docs_structure.json"))
}

func TestRunner_RunAll_Failure(t *testing.T) {
	store := NewStateStore(t.TempDir())

	c1 := &MockCheck{id: "c1", result: Result{Status: StatusFail, ExitCode: 1}}
	c2 := &MockCheck{id: "c2", result: Result{Status: StatusPass}}

	r := NewRunner([]Check{c1, c2}, store, &Deps{})

	err := r.RunAll(context.Background())
	require.ErrorIs(t, err, ErrRunFailed)

	assert.True(t, c1.called)
	assert.True(t, c2.called, "a failure does not stop the run")

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, StatusFail, last.Status)
	assert.Equal(t, []string{"c1"}, last.Failed)
}

func TestRunner_SkipIsNotFailure(t *testing.T) {
	store := NewStateStore(t.TempDir())
	c := &MockCheck{id: "c", result: Result{Status: StatusSkip, Note: "nothing to do"}}

	var out bytes.Buffer
	require.NoError(t, NewRunner([]Check{c}, store, &Deps{Out: &out}).RunAll(context.Background()))
	assert.Contains(t, out.String(), "SKIP: c\nnothing to do\n")
}

func TestRunner_Resume(t *testing.T) {
	store := NewStateStore(t.TempDir())

	require.NoError(t, store.WriteLastRun(LastRun{
		Status: StatusFail,
		Checks: []string{"c1", "c2"},
		Failed: []string{"c2"},
	}))

	c1 := &MockCheck{id: "c1", result: Result{Status: StatusPass}}
	c2 := &MockCheck{id: "c2", result: Result{Status: StatusPass}}

	r := NewRunner([]Check{c1, c2}, store, &Deps{})
	require.NoError(t, r.Resume(context.Background()))

	assert.False(t, c1.called)
	assert.True(t, c2.called)

	// A resume is a run of its own.
	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, StatusPass, last.Status)
	assert.Equal(t, []string{"c2"}, last.Checks)
}

func TestRunner_ResumeNothing(t *testing.T) {
	c := &MockCheck{id: "c", result: Result{Status: StatusPass}}
	var out bytes.Buffer
	r := NewRunner([]Check{c}, NewStateStore(t.TempDir()), &Deps{Out: &out})

	require.NoError(t, r.Resume(context.Background()))
	assert.False(t, c.called)
	assert.Contains(t, out.String(), "No failed checks to resume.")
}

func TestRunner_RunList(t *testing.T) {
	c1 := &MockCheck{id: "c1", result: Result{Status: StatusPass}}
	c2 := &MockCheck{id: "c2", result: Result{Status: StatusPass}}
	r := NewRunner([]Check{c1, c2}, NewStateStore(t.TempDir()), &Deps{})

	require.NoError(t, r.RunList(context.Background(), []string{"c2"}))
	assert.False(t, c1.called)
	assert.True(t, c2.called)

	err := r.RunList(context.Background(), []string{"missing"})
	require.ErrorIs(t, err, ErrUnknownCheck)
}

func TestStateStore_EmptyAndReset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	store := NewStateStore(dir)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)

	res, err := store.ReadCheck("c")
	require.NoError(t, err)
	assert.Nil(t, res)

	require.NoError(t, store.WriteResult(Result{Check: "c", Status: StatusPass}))
	require.NoError(t, store.Reset())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestStateStore_CorruptState(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "last-run.json"), []byte("{"), 0o644))

	_, err := NewStateStore(dir).ReadLastRun()
	require.Error(t, err)
}
