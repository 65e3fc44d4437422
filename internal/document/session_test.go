package document

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mayan-kumar1/pdfchat/internal/api"
	"github.com/mayan-kumar1/pdfchat/internal/chat"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() (string, bool) { return s.token, s.token != "" }

func newFixture(t *testing.T, handler http.HandlerFunc) (*Session, *chat.Pipeline) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, time.Second)
	pipeline := chat.NewPipeline(client, staticTokens{token: "T1"}, nil)
	docs := NewSession(client, staticTokens{token: "T1"}, pipeline)
	pipeline.SetDocumentSource(docs)
	return docs, pipeline
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/pdfs/query" {
		json.NewEncoder(w).Encode(map[string]string{"response": "It's about X"})
		return
	}
	w.WriteHeader(http.StatusOK)
}

func failHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "ingestion blew up", http.StatusInternalServerError)
}

func TestUploadSuccess(t *testing.T) {
	docs, pipeline := newFixture(t, okHandler)

	err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	doc := docs.Current()
	if doc == nil {
		t.Fatal("expected an active document")
	}
	if doc.Name != "report.pdf" || doc.Status != StatusReady {
		t.Errorf("document = %+v, want report.pdf ready", doc)
	}
	if docs.Busy() {
		t.Error("busy must clear once the upload settles")
	}

	got := pipeline.Messages()
	if len(got) != 1 {
		t.Fatalf("messages = %d, want exactly 1", len(got))
	}
	if got[0].Role != chat.RoleSystem {
		t.Errorf("messages[0] = %+v, want system", got[0])
	}
	if got[0].Content != `Document "report.pdf" processed. Ask away!` {
		t.Errorf("notice = %q", got[0].Content)
	}
}

func TestUploadFailureDiscardsDocument(t *testing.T) {
	docs, pipeline := newFixture(t, failHandler)

	err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("x"))
	if !errors.Is(err, api.ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}

	if docs.Current() != nil {
		t.Error("failed upload must leave no document")
	}
	if docs.Busy() {
		t.Error("busy must clear after a failed upload")
	}

	got := pipeline.Messages()
	if len(got) != 1 {
		t.Fatalf("messages = %d, want exactly 1", len(got))
	}
	if got[0].Role != chat.RoleSystem {
		t.Errorf("messages[0] = %+v, want system", got[0])
	}
	if got[0].Content != `Failed to upload "report.pdf". Please try again.` {
		t.Errorf("notice = %q", got[0].Content)
	}
}

func TestUploadRetryAfterFailure(t *testing.T) {
	var failFirst = true
	docs, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if failFirst {
			failFirst = false
			http.Error(w, "no", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected first upload to fail")
	}
	if err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("retry: %v", err)
	}
	doc := docs.Current()
	if doc == nil || doc.Status != StatusReady {
		t.Errorf("document = %+v, want ready after retry", doc)
	}
}

func TestUploadReplacesPreviousDocument(t *testing.T) {
	docs, _ := newFixture(t, okHandler)

	if err := docs.Upload(context.Background(), "first.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := docs.Upload(context.Background(), "second.pdf", strings.NewReader("y")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	doc := docs.Current()
	if doc == nil || doc.Name != "second.pdf" {
		t.Errorf("document = %+v, want second.pdf", doc)
	}
}

func TestUploadWithoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(okHandler))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, time.Second)
	pipeline := chat.NewPipeline(client, staticTokens{}, nil)
	docs := NewSession(client, staticTokens{}, pipeline)
	pipeline.SetDocumentSource(docs)

	err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("x"))
	if !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if docs.Current() != nil {
		t.Error("no document may be tracked without a session")
	}
}

func TestUploadWhileBusyReturnsBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	docs, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		docs.Upload(context.Background(), "first.pdf", strings.NewReader("x"))
	}()

	<-entered
	if !docs.Busy() {
		t.Error("busy must be true while an upload is outstanding")
	}
	err := docs.Upload(context.Background(), "second.pdf", strings.NewReader("y"))
	if !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(release)
	wg.Wait()
}

// Scenario: upload succeeds, then a question is answered. The final
// transcript is the readiness notice, the question, and the answer, in
// that order.
func TestUploadThenQueryScenario(t *testing.T) {
	docs, pipeline := newFixture(t, okHandler)

	if err := docs.Upload(context.Background(), "report.pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := pipeline.Send(context.Background(), "what is the summary?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := pipeline.Messages()
	if len(got) != 3 {
		t.Fatalf("messages = %d, want 3", len(got))
	}
	want := []chat.Message{
		{Role: chat.RoleSystem, Content: `Document "report.pdf" processed. Ask away!`},
		{Role: chat.RoleUser, Content: "what is the summary?"},
		{Role: chat.RoleAssistant, Content: "It's about X"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("messages[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestUploadingNotReadyForQueries(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	docs, _ := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		docs.Upload(context.Background(), "report.pdf", strings.NewReader("x"))
	}()

	<-entered
	if _, ready := docs.ActiveDocument(); ready {
		t.Error("an uploading document must not be ready")
	}
	close(release)
	wg.Wait()

	if name, ready := docs.ActiveDocument(); !ready || name != "report.pdf" {
		t.Errorf("ActiveDocument = (%q, %v), want (report.pdf, true)", name, ready)
	}
}
