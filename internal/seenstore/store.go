package seenstore

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Store is the durable set of lot identifiers that have already been
// notified. Identifiers only ever accumulate within a run; once an id is in
// the store it is never notified again.
type Store struct {
	path       string
	ids        map[string]struct{}
	appendFile *os.File
}

// Load reads the seen file, one identifier per line. Loading never fails the
// run: a missing or unreadable file degrades to an empty set, trading
// re-notification risk for forward progress.
func Load(path string) *Store {
	ids := make(map[string]struct{})
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("seen store: could not read %s, starting empty: %v", path, err)
		}
	} else {
		for _, line := range strings.Split(string(data), "\n") {
			if id := strings.TrimSpace(line); id != "" {
				ids[id] = struct{}{}
			}
		}
	}
	return &Store{path: path, ids: ids}
}

// Contains reports whether id was notified in this or any prior run.
func (s *Store) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of recorded identifiers.
func (s *Store) Len() int {
	return len(s.ids)
}

// Add records id in memory and appends it to the file right away, so a crash
// later in the run cannot cause the lot to be re-notified.
func (s *Store) Add(id string) {
	if _, dup := s.ids[id]; dup {
		return
	}
	s.ids[id] = struct{}{}

	if s.appendFile == nil {
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("seen store: could not open %s for append: %v", s.path, err)
			return
		}
		s.appendFile = f
	}
	if _, err := s.appendFile.WriteString(id + "\n"); err != nil {
		log.Printf("seen store: could not append %s: %v", id, err)
	}
}

// Persist rewrites the full set atomically (temp file + rename) and closes
// the incremental append handle. Line order is not significant.
func (s *Store) Persist() error {
	if s.appendFile != nil {
		s.appendFile.Close()
		s.appendFile = nil
	}

	var b strings.Builder
	for id := range s.ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write seen store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace seen store: %w", err)
	}
	return nil
}
