// Package history archives finished conversations so they survive the
// transcript reset that comes with each new upload.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mayan-kumar1/pdfchat/internal/chat"
)

type Conversation struct {
	ID       string         `json:"id"`
	Document string         `json:"document"`
	Started  time.Time      `json:"started"`
	Messages []chat.Message `json:"messages"`
}

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Archive writes the conversation as one JSON record. Transcripts
// without a single user message (just lifecycle notices) are skipped.
func (s *Store) Archive(document string, messages []chat.Message) error {
	if !hasUserMessage(messages) {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	conv := Conversation{
		ID:       uuid.NewString(),
		Document: document,
		Started:  time.Now().UTC(),
		Messages: messages,
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	path := filepath.Join(s.dir, conv.ID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	return nil
}

func hasUserMessage(messages []chat.Message) bool {
	for _, m := range messages {
		if m.Role == chat.RoleUser {
			return true
		}
	}
	return false
}

// List returns archived conversations, most recent first. Unreadable
// records are skipped.
func (s *Store) List() ([]Conversation, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var convs []Conversation
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var conv Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			continue
		}
		convs = append(convs, conv)
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].Started.After(convs[j].Started)
	})
	return convs, nil
}
