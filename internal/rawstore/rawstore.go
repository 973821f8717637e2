package rawstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// Store keeps raw API payloads on disk under a root directory, one file per
// endpoint. It exists for offline inspection and for serving reads without
// hitting the network.
type Store struct {
	Root string // e.g. "data/raw"
}

func New(root string) *Store {
	return &Store{Root: root}
}

func (s *Store) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *Store) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// Write persists body at rel, pretty-printing when it parses as JSON so the
// files stay diffable.
func (s *Store) Write(rel string, body []byte) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		_ = enc.Encode(v)
		body = buf.Bytes()
	}

	return os.WriteFile(path, body, 0o644)
}

func (s *Store) Read(rel string) ([]byte, error) {
	return os.ReadFile(s.Path(rel))
}
