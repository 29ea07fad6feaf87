package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// FilenamePrefix starts every stored capture name.
	FilenamePrefix = "esp32_capture_"
	// FilenameExt ends every stored capture name.
	FilenameExt = ".jpg"
	// timestampLayout renders as YYYYMMDD_HHMMSS_ffffff once the dot is swapped.
	timestampLayout = "20060102_150405.000000"
)

// Saved describes a capture written by Store.Save.
type Saved struct {
	Filename string
	Path     string
	Size     int64
	At       time.Time
}

// Store writes camera captures into a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates the save directory (recursively) and returns a Store rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create save directory %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// WithClock replaces the wall clock used for filenames.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Dir returns the save directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a freshly generated name in one write.
// Names only differ by microsecond; a same-microsecond save overwrites the earlier file.
func (s *Store) Save(data []byte) (saved Saved, err error) {
	at := s.now()
	filename := Filename(at)
	fullpath := filepath.Join(s.dir, filename)

	f, err := os.OpenFile(fullpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return Saved{}, fmt.Errorf("failed to open %s: %w", fullpath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			saved = Saved{}
			err = fmt.Errorf("failed to close %s: %w", fullpath, cerr)
		}
	}()

	n, err := f.Write(data)
	if err != nil {
		return Saved{}, fmt.Errorf("failed to write %s: %w", fullpath, err)
	}

	return Saved{Filename: filename, Path: fullpath, Size: int64(n), At: at}, nil
}

// Filename builds the capture name for t, e.g. esp32_capture_20250614_093005_000123.jpg.
func Filename(t time.Time) string {
	stamp := strings.Replace(t.Format(timestampLayout), ".", "_", 1)
	return FilenamePrefix + stamp + FilenameExt
}

// ParseFilename extracts the capture time (in loc) from a stored capture name.
func ParseFilename(filename string, loc *time.Location) (time.Time, error) {
	if !strings.HasPrefix(filename, FilenamePrefix) || !strings.HasSuffix(filename, FilenameExt) {
		return time.Time{}, fmt.Errorf("invalid capture filename: %s", filename)
	}

	stamp := strings.TrimSuffix(strings.TrimPrefix(filename, FilenamePrefix), FilenameExt)
	// 20060102_150405_000000 -> 20060102_150405.000000
	if len(stamp) != len(timestampLayout) || stamp[15] != '_' {
		return time.Time{}, fmt.Errorf("invalid capture timestamp: %s", filename)
	}
	stamp = stamp[:15] + "." + stamp[16:]

	ts, err := time.ParseInLocation(timestampLayout, stamp, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return ts, nil
}
