// Package chat holds the ordered conversation and dispatches questions
// about the active document. The transcript is append-only; only a new
// upload replaces it wholesale.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mayan-kumar1/pdfchat/internal/api"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// queryFailedNotice is all a transcript ever learns about a failed
// query; server detail stays in the log.
const queryFailedNotice = "Sorry, there was an error processing your query."

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ErrBusy rejects a Send while a previous one is still outstanding.
var ErrBusy = errors.New("a query is already in flight")

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token() (string, bool)
}

// DocumentSource reports the active document's name and whether it is
// ready to be queried.
type DocumentSource interface {
	ActiveDocument() (string, bool)
}

type Pipeline struct {
	mu       sync.Mutex
	api      *api.Client
	tokens   TokenSource
	docs     DocumentSource
	messages []Message
	pending  bool
}

func NewPipeline(client *api.Client, tokens TokenSource, docs DocumentSource) *Pipeline {
	return &Pipeline{api: client, tokens: tokens, docs: docs}
}

// SetDocumentSource wires the document tracker in after construction;
// the tracker itself needs the pipeline to reset transcripts.
func (p *Pipeline) SetDocumentSource(docs DocumentSource) {
	p.mu.Lock()
	p.docs = docs
	p.mu.Unlock()
}

// Send appends the question and dispatches it, blocking until the
// request settles. Blank questions and questions without a ready
// document are silently dropped. The answer (or a generic failure
// notice) is appended when the request settles; the pending flag is
// cleared either way.
func (p *Pipeline) Send(ctx context.Context, question string) error {
	if strings.TrimSpace(question) == "" {
		return nil
	}
	p.mu.Lock()
	docs := p.docs
	p.mu.Unlock()
	if docs == nil {
		return nil
	}
	if _, ready := docs.ActiveDocument(); !ready {
		return nil
	}

	p.mu.Lock()
	if p.pending {
		p.mu.Unlock()
		return ErrBusy
	}
	p.pending = true
	p.messages = append(p.messages, Message{Role: RoleUser, Content: question})
	p.mu.Unlock()

	token, _ := p.tokens.Token()
	answer, err := p.api.Query(ctx, token, question)

	p.mu.Lock()
	p.pending = false
	if err != nil {
		slog.Warn("query failed", "error", err)
		p.messages = append(p.messages, Message{Role: RoleSystem, Content: queryFailedNotice})
	} else {
		p.messages = append(p.messages, Message{Role: RoleAssistant, Content: answer})
	}
	p.mu.Unlock()
	return nil
}

// Reset replaces the whole transcript with a single system notice.
// Called by the document lifecycle; conversation scope is the current
// document, not the session.
func (p *Pipeline) Reset(notice string) {
	p.mu.Lock()
	p.messages = []Message{{Role: RoleSystem, Content: notice}}
	p.mu.Unlock()
}

// Clear empties the transcript. Used when the session ends; the next
// login starts with a fresh dashboard.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	p.messages = nil
	p.mu.Unlock()
}

// Messages returns a copy of the transcript in display order.
func (p *Pipeline) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Pending reports whether a query is outstanding.
func (p *Pipeline) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}
