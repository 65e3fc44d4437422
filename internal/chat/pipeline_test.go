package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mayan-kumar1/pdfchat/internal/api"
)

type staticTokens struct{ token string }

func (s staticTokens) Token() (string, bool) { return s.token, s.token != "" }

type staticDoc struct {
	name  string
	ready bool
}

func (d staticDoc) ActiveDocument() (string, bool) { return d.name, d.ready }

func answerServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": answer})
	}))
}

func readyPipeline(t *testing.T, serverURL string) *Pipeline {
	t.Helper()
	client := api.NewClient(serverURL, time.Second)
	return NewPipeline(client, staticTokens{token: "T1"}, staticDoc{name: "report.pdf", ready: true})
}

func TestSendBlankIsNoOp(t *testing.T) {
	srv := answerServer(t, "unused")
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	for _, q := range []string{"", "   ", "\t\n"} {
		if err := p.Send(context.Background(), q); err != nil {
			t.Errorf("Send(%q): %v", q, err)
		}
	}
	if got := p.Messages(); len(got) != 0 {
		t.Errorf("messages = %v, want none", got)
	}
	if p.Pending() {
		t.Error("blank send must not set pending")
	}
}

func TestSendWithoutReadyDocumentIsNoOp(t *testing.T) {
	srv := answerServer(t, "unused")
	defer srv.Close()
	client := api.NewClient(srv.URL, time.Second)

	for _, docs := range []DocumentSource{
		staticDoc{},
		staticDoc{name: "report.pdf", ready: false},
	} {
		p := NewPipeline(client, staticTokens{token: "T1"}, docs)
		if err := p.Send(context.Background(), "anything"); err != nil {
			t.Errorf("Send: %v", err)
		}
		if got := p.Messages(); len(got) != 0 {
			t.Errorf("messages = %v, want none", got)
		}
	}
}

func TestSendSuccessAppendsUserThenAssistant(t *testing.T) {
	srv := answerServer(t, "It's about X")
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	if err := p.Send(context.Background(), "what is the summary?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := p.Messages()
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	if got[0].Role != RoleUser || got[0].Content != "what is the summary?" {
		t.Errorf("messages[0] = %+v", got[0])
	}
	if got[1].Role != RoleAssistant || got[1].Content != "It's about X" {
		t.Errorf("messages[1] = %+v", got[1])
	}
	if p.Pending() {
		t.Error("pending must be false once the send settles")
	}
}

func TestSendFailureAppendsGenericSystemNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "confidential backend detail", http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	if err := p.Send(context.Background(), "what is the summary?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := p.Messages()
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	if got[0].Role != RoleUser {
		t.Errorf("messages[0] = %+v", got[0])
	}
	if got[1].Role != RoleSystem || got[1].Content != "Sorry, there was an error processing your query." {
		t.Errorf("messages[1] = %+v, want generic failure notice", got[1])
	}
	if p.Pending() {
		t.Error("pending must be cleared on failure too")
	}
}

func TestSendWhilePendingReturnsBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		json.NewEncoder(w).Encode(map[string]string{"response": "slow answer"})
	}))
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Send(context.Background(), "first")
	}()

	<-entered
	if !p.Pending() {
		t.Error("pending must be true while the query is outstanding")
	}
	if err := p.Send(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(release)
	wg.Wait()

	got := p.Messages()
	if len(got) != 2 {
		t.Fatalf("messages = %d, want only the first exchange", len(got))
	}
	if p.Pending() {
		t.Error("pending must clear after the first send settles")
	}
}

func TestResetReplacesTranscript(t *testing.T) {
	srv := answerServer(t, "answer")
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	if err := p.Send(context.Background(), "q1"); err != nil {
		t.Fatalf("send: %v", err)
	}
	p.Reset("Document \"report.pdf\" processed. Ask away!")

	got := p.Messages()
	if len(got) != 1 {
		t.Fatalf("messages = %d, want 1", len(got))
	}
	if got[0].Role != RoleSystem {
		t.Errorf("messages[0] = %+v, want system notice", got[0])
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	srv := answerServer(t, "answer")
	defer srv.Close()
	p := readyPipeline(t, srv.URL)

	p.Reset("notice")
	got := p.Messages()
	got[0].Content = "tampered"

	if p.Messages()[0].Content != "notice" {
		t.Error("Messages must return a copy")
	}
}
