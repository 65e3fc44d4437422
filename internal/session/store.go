package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Session is the authenticated identity held by the client after a
// successful login or signup.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Store persists at most one session record.
type Store interface {
	Save(s *Session) error
	Load() (*Session, error)
	Clear() error
}

// FileStore keeps the session as a single JSON file in the state dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) sessionPath() string {
	return filepath.Join(s.Dir, "session.json")
}

func (s *FileStore) Save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.sessionPath(), data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load returns (nil, nil) when the record is absent or unparsable; a
// broken file must never block a fresh start.
func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.sessionPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, nil
	}
	if sess.Token == "" {
		return nil, nil
	}
	return &sess, nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.sessionPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
