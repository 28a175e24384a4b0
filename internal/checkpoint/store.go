package checkpoint

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const fileSuffix = ".ckpt.gz"

// Store manages snapshot files under a base directory.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Path returns the file a snapshot with these counters saves to.
func (s *Store) Path(snap *Snapshot) string {
	name := fmt.Sprintf("%d_%d_%03d%s", snap.BasisFunctions, snap.Samples, snap.Iterations, fileSuffix)
	return filepath.Join(s.baseDir, name)
}

// Save writes the snapshot as gzip-compressed json. The file is written to
// a temporary name in the same directory and renamed into place, so a
// reader never observes a partially written snapshot.
func (s *Store) Save(snap *Snapshot) (string, error) {
	snap.Version = SchemaVersion
	snap.SavedAt = time.Now()

	tmp, err := os.CreateTemp(s.baseDir, ".ckpt-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	zw := gzip.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		tmp.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := s.Path(snap)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads and validates a snapshot file. expectActions > 0 additionally
// requires the snapshot's action menu to match.
func Load(path string, expectActions int) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := snap.Validate(expectActions); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Meta summarizes a stored snapshot for listings.
type Meta struct {
	File       string
	SavedAt    time.Time
	Basis      int
	Samples    int
	Iterations int
	TrainScore float64
	TestScore  float64
}

// List returns metadata for every snapshot in the store, oldest first.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	metas := make([]Meta, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		path := filepath.Join(s.baseDir, e.Name())
		snap, err := Load(path, 0)
		if err != nil {
			continue
		}
		m := Meta{
			File:       path,
			SavedAt:    snap.SavedAt,
			Basis:      snap.BasisFunctions,
			Samples:    snap.Samples,
			Iterations: snap.Iterations,
		}
		if n := len(snap.History); n > 0 {
			m.TrainScore = snap.History[n-1].TrainScore
			m.TestScore = snap.History[n-1].TestScore
		}
		metas = append(metas, m)
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].SavedAt.Before(metas[j].SavedAt) })
	return metas, nil
}

// Latest returns the path of the most recently saved snapshot.
func (s *Store) Latest() (string, error) {
	metas, err := s.List()
	if err != nil {
		return "", err
	}
	if len(metas) == 0 {
		return "", fmt.Errorf("checkpoint: no snapshots in %s", s.baseDir)
	}
	return metas[len(metas)-1].File, nil
}
