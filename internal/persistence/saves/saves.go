// Package saves stores named save records with rotating backups.
package saves

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"voxelsandbox/internal/persistence/snapshot"
)

const (
	Ext = ".json.zst"

	// DefaultMaxBackups is the number of prior states kept next to the current file.
	DefaultMaxBackups = 2

	// Load looks at this many backup slots; slots beyond MaxBackups may come from older installs.
	fallbackSlots = 3
)

var backupName = regexp.MustCompile(`_backup\d+$`)

type Store struct {
	dir        string
	maxBackups int
	logger     *log.Logger

	mu  sync.Mutex
	now func() time.Time
}

func New(dir string, maxBackups int, logger *log.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("saves: empty directory")
	}
	if maxBackups < 0 {
		return nil, fmt.Errorf("saves: negative max backups %d", maxBackups)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("saves: %w", err)
	}
	return &Store{dir: dir, maxBackups: maxBackups, logger: logger, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Path(name string) string { return filepath.Join(s.dir, name+Ext) }

func (s *Store) BackupPath(name string, slot int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_backup%d%s", name, slot, Ext))
}

func validName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New("empty save name")
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return fmt.Errorf("bad save name %q", name)
	case backupName.MatchString(name):
		return fmt.Errorf("save name %q collides with backup naming", name)
	}
	return nil
}

// Save writes rec under name. The record goes to a temp file first; only once it
// is fully on disk are the backups shifted and the temp file renamed into place.
// The returned header carries the assigned save id, timestamp and checksum.
func (s *Store) Save(name string, rec snapshot.SaveV1) (snapshot.Header, error) {
	if err := validName(name); err != nil {
		return snapshot.Header{}, &WriteError{Path: s.Path(name), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Header.SaveID = uuid.NewString()
	rec.Header.SavedAt = s.now().UTC().Format(time.RFC3339Nano)
	rec.Header.Version = snapshot.Version
	rec.Header.Checksum = snapshot.Checksum(rec.LoadedChunks)

	primary := s.Path(name)
	tmp := primary + ".tmp"
	if err := snapshot.WriteSave(tmp, rec); err != nil {
		_ = os.Remove(tmp)
		return snapshot.Header{}, &WriteError{Path: primary, Err: err}
	}
	if err := s.rotate(name); err != nil {
		_ = os.Remove(tmp)
		return snapshot.Header{}, &WriteError{Path: primary, Err: err}
	}
	if err := os.Rename(tmp, primary); err != nil {
		return snapshot.Header{}, &WriteError{Path: primary, Err: err}
	}
	if s.logger != nil {
		s.logger.Printf("saved %s (%d chunks, id=%s)", name, len(rec.LoadedChunks), rec.Header.SaveID)
	}
	return rec.Header, nil
}

// rotate discards the oldest backup, shifts the rest up one slot and moves the
// current file into slot 1.
func (s *Store) rotate(name string) error {
	if s.maxBackups == 0 {
		return nil
	}
	if err := os.Remove(s.BackupPath(name, s.maxBackups)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for slot := s.maxBackups - 1; slot >= 1; slot-- {
		if err := renameIfExists(s.BackupPath(name, slot), s.BackupPath(name, slot+1)); err != nil {
			return err
		}
	}
	return renameIfExists(s.Path(name), s.BackupPath(name, 1))
}

func renameIfExists(from, to string) error {
	err := os.Rename(from, to)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the named save, falling back through backup slots when the primary
// file is missing or corrupt. It returns the record and the path it came from.
func (s *Store) Load(name string) (snapshot.SaveV1, string, error) {
	if err := validName(name); err != nil {
		return snapshot.SaveV1{}, "", &LoadError{Name: name, Attempts: []error{err}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := []string{s.Path(name)}
	for slot := 1; slot <= fallbackSlots; slot++ {
		candidates = append(candidates, s.BackupPath(name, slot))
	}

	var attempts []error
	missing := 0
	for _, path := range candidates {
		rec, err := snapshot.ReadSave(path)
		if err == nil {
			if path != candidates[0] && s.logger != nil {
				s.logger.Printf("load %s: recovered from %s", name, filepath.Base(path))
			}
			return rec, path, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			missing++
		} else if s.logger != nil {
			s.logger.Printf("load %s: %s unreadable: %v", name, filepath.Base(path), err)
		}
		attempts = append(attempts, &ReadError{Path: path, Err: err})
	}
	if missing == len(candidates) {
		attempts = append(attempts, ErrNotFound)
	}
	return snapshot.SaveV1{}, "", &LoadError{Name: name, Attempts: attempts}
}

// List returns the sorted names of stored saves, excluding backups.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ReadError{Path: s.dir, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), Ext)
		if backupName.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Backups returns the existing backup slots for name in ascending order.
func (s *Store) Backups(name string) []int {
	var slots []int
	for slot := 1; slot <= fallbackSlots; slot++ {
		if _, err := os.Stat(s.BackupPath(name, slot)); err == nil {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Delete removes a save together with its backups.
func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return &WriteError{Path: s.Path(name), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := []string{s.Path(name)}
	for slot := 1; slot <= fallbackSlots; slot++ {
		paths = append(paths, s.BackupPath(name, slot))
	}
	removed := 0
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			return &WriteError{Path: p, Err: err}
		}
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
