package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var errCorrupt = errors.New("session file is corrupt")

// FileStore persists the session as a JSON object of namespaced maps in a
// single file, the local equivalent of browser storage. Writes go to a
// temporary file that is renamed into place.
//
// Get reports an undecodable file as an error. SetMany and Delete treat it as
// empty and overwrite it, so clearing a damaged session always succeeds.
type FileStore struct {
	mu        sync.Mutex
	path      string
	namespace string
}

// NewFileStore returns a store writing to path under namespace. The file and
// its directory are created on first write.
func NewFileStore(path, namespace string) *FileStore {
	return &FileStore{path: path, namespace: namespace}
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := doc[s.namespace][key]
	return v, ok, nil
}

func (s *FileStore) SetMany(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.loadForWrite()
	if err != nil {
		return err
	}
	ns := doc[s.namespace]
	if ns == nil {
		ns = make(map[string]string, len(values))
		doc[s.namespace] = ns
	}
	for k, v := range values {
		ns[k] = v
	}
	return s.save(doc)
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, reset, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := doc[s.namespace]; !ok && !reset {
		return nil
	}
	for _, k := range keys {
		delete(doc[s.namespace], k)
	}
	if len(doc[s.namespace]) == 0 {
		delete(doc, s.namespace)
	}
	return s.save(doc)
}

func (s *FileStore) load() (map[string]map[string]string, error) {
	doc := make(map[string]map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session file: %w: %w", errCorrupt, err)
	}
	return doc, nil
}

// loadForWrite is load with a corrupt file read as empty. reset reports that
// the file on disk must be replaced.
func (s *FileStore) loadForWrite() (doc map[string]map[string]string, reset bool, err error) {
	doc, err = s.load()
	if errors.Is(err, errCorrupt) {
		return make(map[string]map[string]string), true, nil
	}
	return doc, false, err
}

func (s *FileStore) save(doc map[string]map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
