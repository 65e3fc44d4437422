// Package document tracks the single active document and its upload
// lifecycle. A new upload fully replaces the previous document and the
// conversation with it.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mayan-kumar1/pdfchat/internal/api"
	"github.com/mayan-kumar1/pdfchat/internal/chat"
)

type Status int

const (
	StatusUploading Status = iota
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusUploading:
		return "uploading"
	case StatusReady:
		return "ready"
	}
	return "unknown"
}

type Document struct {
	Name   string
	Status Status
}

var (
	// ErrBusy rejects an upload while a previous one is outstanding.
	ErrBusy = errors.New("an upload is already in flight")
	// ErrNoSession guards uploads attempted while logged out.
	ErrNoSession = errors.New("no active session")
)

// Archiver saves a finished transcript before it is replaced. Optional.
type Archiver interface {
	Archive(document string, messages []chat.Message) error
}

type Session struct {
	mu      sync.Mutex
	api     *api.Client
	tokens  chat.TokenSource
	chat    *chat.Pipeline
	archive Archiver
	current *Document
	busy    bool
}

func NewSession(client *api.Client, tokens chat.TokenSource, pipeline *chat.Pipeline) *Session {
	return &Session{api: client, tokens: tokens, chat: pipeline}
}

// SetArchiver makes finished conversations get archived before each
// transcript reset.
func (d *Session) SetArchiver(a Archiver) {
	d.archive = a
}

// Upload replaces the active document and drives it through the upload
// lifecycle, blocking until the request settles. The transcript is
// reset to a single system notice at each phase. A failed upload leaves
// no document behind, so the next attempt starts clean.
func (d *Session) Upload(ctx context.Context, name string, content io.Reader) error {
	token, ok := d.tokens.Token()
	if !ok {
		return ErrNoSession
	}

	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	d.busy = true
	prev := d.current
	d.current = &Document{Name: name, Status: StatusUploading}
	d.mu.Unlock()

	if prev != nil && d.archive != nil {
		if err := d.archive.Archive(prev.Name, d.chat.Messages()); err != nil {
			slog.Warn("archive conversation", "document", prev.Name, "error", err)
		}
	}
	d.chat.Reset(fmt.Sprintf("Uploading and processing %q...", name))

	err := d.api.UploadPDF(ctx, token, name, content)

	d.mu.Lock()
	d.busy = false
	if err != nil {
		d.current = nil
		d.mu.Unlock()
		slog.Warn("upload failed", "document", name, "error", err)
		d.chat.Reset(fmt.Sprintf("Failed to upload %q. Please try again.", name))
		return err
	}
	d.current = &Document{Name: name, Status: StatusReady}
	d.mu.Unlock()

	slog.Info("document ready", "document", name)
	d.chat.Reset(fmt.Sprintf("Document %q processed. Ask away!", name))
	return nil
}

// Clear forgets the tracked document. Does not cancel an in-flight
// upload; a late result may still replace the state when it settles.
func (d *Session) Clear() {
	d.mu.Lock()
	d.current = nil
	d.mu.Unlock()
}

// Current returns the tracked document or nil.
func (d *Session) Current() *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Busy reports whether an upload is outstanding.
func (d *Session) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// ActiveDocument implements chat.DocumentSource: the name of the
// document and whether it is ready for queries.
func (d *Session) ActiveDocument() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return "", false
	}
	return d.current.Name, d.current.Status == StatusReady
}
