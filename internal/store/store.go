// Package store persists run artifacts under a runs root, one directory per run.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	SelectedGenesFile = "selected_genes.json"
	RawResponsesFile  = "raw_model_responses.json"
	StructuredFile    = "structured_responses.json"
	ResultsFile       = "results.json"
	SummaryJSONFile   = "summary.json"
	SummaryMDFile     = "summary.md"
	SpotAuditFile     = "spot_audit.md"
	ComparisonFile    = "comparison.md"
	RelayJSONFile     = "telephone_runs.json"
	RelayMDFile       = "telephone_runs.md"
)

// ErrRunExists is returned when a completed run directory would be overwritten.
var ErrRunExists = errors.New("run already has results")

// ErrRunNotFound is returned when a run directory has no results.
var ErrRunNotFound = errors.New("run not found")

// RunDirName is the configured run name, or the model identifier with
// path and tag separators replaced.
func RunDirName(runName, model string) string {
	name := runName
	if name == "" {
		name = model
	}
	return strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(name)
}

type Store struct {
	fs   afero.Afero
	root string
}

func New(fs afero.Fs, root string) *Store {
	return &Store{fs: afero.Afero{Fs: fs}, root: root}
}

// NewOS stores runs on the local disk.
func NewOS(root string) *Store {
	return New(afero.NewOsFs(), root)
}

func (s *Store) Root() string {
	return s.root
}

// ErrInvalidRunName is returned for names that would escape the runs root.
var ErrInvalidRunName = errors.New("invalid run name")

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Create prepares an empty run directory. A directory that already holds
// results is refused unless overwrite is set; anything left in the
// directory by an earlier run is removed.
func (s *Store) Create(name string, overwrite bool) (*RunWriter, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRunName, name)
	}
	dir := filepath.Join(s.root, name)
	done, err := s.fs.Exists(filepath.Join(dir, ResultsFile))
	if err != nil {
		return nil, err
	}
	if done && !overwrite {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, dir)
	}
	if err := s.fs.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear run directory '%s': %w", dir, err)
	}
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory '%s': %w", dir, err)
	}
	return &RunWriter{fs: s.fs, dir: dir}, nil
}

func (s *Store) Open(name string) (*RunReader, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, name)
	}
	dir := filepath.Join(s.root, name)
	ok, err := s.fs.Exists(filepath.Join(dir, ResultsFile))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, name)
	}
	return &RunReader{fs: s.fs, dir: dir, name: name}, nil
}

// ListRuns returns the names of completed runs directly under the root, sorted.
func (s *Store) ListRuns() ([]string, error) {
	entries, err := s.fs.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list runs in '%s': %w", s.root, err)
	}
	var runs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ok, err := s.fs.Exists(filepath.Join(s.root, e.Name(), ResultsFile))
		if err != nil {
			return nil, err
		}
		if ok {
			runs = append(runs, e.Name())
		}
	}
	sort.Strings(runs)
	return runs, nil
}

// WriteFile writes a report file directly under the root.
func (s *Store) WriteFile(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(s.root, name), data, 0o644)
}

func (s *Store) WriteJSON(name string, v any) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	return s.WriteFile(name, data)
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return append(data, '\n'), nil
}
