package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/pageurl"
)

// ErrNoSnapshot is returned by Load when nothing was saved for a URL yet
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot is a record as saved at one point in time
type Snapshot struct {
	URL       string        `json:"url"`
	UpdatedAt string        `json:"updated_at"` // RFC3339 timestamp
	Record    *field.Record `json:"record"`
}

// Storage handles persistence of record snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// snapshotPath maps a canonical relative URL to its file
func (s *Storage) snapshotPath(url string) (string, error) {
	segments := pageurl.Segments(url)
	if len(segments) == 0 {
		return "", fmt.Errorf("empty snapshot URL")
	}
	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid snapshot URL: %q", url)
		}
	}
	segments[len(segments)-1] += ".json"
	return filepath.Join(append([]string{s.dataDir}, segments...)...), nil
}

// Load reads the snapshot saved for url
func (s *Storage) Load(url string) (*Snapshot, error) {
	path, err := s.snapshotPath(url)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w for %s", ErrNoSnapshot, url)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Record == nil {
		snapshot.Record = field.NewRecord()
	}
	return &snapshot, nil
}

// Save writes record as the current snapshot for url
func (s *Storage) Save(url string, record *field.Record) (*Snapshot, error) {
	path, err := s.snapshotPath(url)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		URL:       url,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Record:    record,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	return snapshot, nil
}

// Diff returns the fields of current whose value differs from previous, in
// current's order. Fields absent from previous count as changed; a nil
// previous snapshot means every field changed.
func Diff(previous *Snapshot, current *field.Record) ([]string, error) {
	// round-trip current so both sides hold decoded JSON values
	data, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var decoded field.Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	changed := make([]string, 0)
	for _, name := range decoded.Keys() {
		now, _ := decoded.Get(name)
		if previous == nil || previous.Record == nil {
			changed = append(changed, name)
			continue
		}
		before, ok := previous.Record.Get(name)
		if !ok || !cmp.Equal(before, now) {
			changed = append(changed, name)
		}
	}
	return changed, nil
}
