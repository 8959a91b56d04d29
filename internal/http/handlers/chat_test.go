package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/voltera/site-backend/internal/chat"
	"github.com/voltera/site-backend/internal/platform/logger"
)

type fakeResponder struct {
	calls int
	last  chat.Request
	resp  *chat.Response
	err   error
}

func (f *fakeResponder) Respond(ctx context.Context, req chat.Request) (*chat.Response, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

type fakeLister struct {
	models []string
	err    error
}

func (f fakeLister) ListModels(ctx context.Context) ([]string, error) { return f.models, f.err }

func chatRouter(responder ChatResponder, lister ModelLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(logger.Nop(), responder, lister, ChatBackendInfo{Provider: "ollama", Model: "llama3.1", BaseURL: "http://localhost:11434"})
	r := gin.New()
	r.POST("/api/chat", h.Send)
	r.GET("/api/chat", h.Status)
	return r
}

func postChat(r *gin.Engine, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestChatSendSuccess(t *testing.T) {
	fr := &fakeResponder{resp: &chat.Response{Text: "We offer 60kW chargers.", ContextUsed: true}}
	r := chatRouter(fr, fakeLister{})

	rec, out := postChat(r, `{
		"message": "Tell me about fast chargers",
		"conversationHistory": [{"sender": "user", "text": "hi"}, {"sender": "support", "text": "hello"}],
		"productId": "ev-charger-60kw",
		"currentPagePath": "/products/ev-charger-60kw"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if out["response"] != "We offer 60kW chargers." || out["contextUsed"] != true || out["suggestContact"] != false {
		t.Fatalf("body=%v", out)
	}
	if fr.last.ProductID != "ev-charger-60kw" || fr.last.PagePath != "/products/ev-charger-60kw" || len(fr.last.History) != 2 {
		t.Fatalf("request=%+v", fr.last)
	}
}

func TestChatSendRejectsBadMessage(t *testing.T) {
	fr := &fakeResponder{}
	r := chatRouter(fr, fakeLister{})

	for _, body := range []string{`{}`, `{"message": ""}`, `{"message": "   "}`, `{"message": 42}`, `not json`} {
		rec, out := postChat(r, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, rec.Code)
		}
		if _, ok := out["error"].(string); !ok {
			t.Fatalf("%s: body=%v", body, out)
		}
	}
	if fr.calls != 0 {
		t.Fatalf("backend called %d times for invalid input", fr.calls)
	}
}

func TestChatSendErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKeys   []string
	}{
		{"unavailable", fmt.Errorf("wrap: %w", chat.ErrBackendUnavailable), http.StatusServiceUnavailable, []string{"error", "message", "details"}},
		{"backend", &chat.BackendError{StatusCode: 404, Body: "model not found"}, http.StatusInternalServerError, []string{"error", "message"}},
		{"generic", errors.New("boom"), http.StatusInternalServerError, []string{"error", "message"}},
	}
	for _, tc := range cases {
		r := chatRouter(&fakeResponder{err: tc.err}, fakeLister{})
		rec, out := postChat(r, `{"message": "hello"}`)
		if rec.Code != tc.wantStatus {
			t.Fatalf("%s: status=%d want=%d", tc.name, rec.Code, tc.wantStatus)
		}
		for _, k := range tc.wantKeys {
			if _, ok := out[k]; !ok {
				t.Fatalf("%s: missing %q in %v", tc.name, k, out)
			}
		}
	}
}

func TestChatStatus(t *testing.T) {
	r := chatRouter(&fakeResponder{}, fakeLister{models: []string{"llama3.1:latest", "qwen2.5"}})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var out struct {
		Available  bool     `json:"available"`
		Model      string   `json:"model"`
		Provider   string   `json:"provider"`
		Models     []string `json:"models"`
		ModelReady bool     `json:"modelReady"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Available || out.Model != "llama3.1" || out.Provider != "ollama" || len(out.Models) != 2 || !out.ModelReady {
		t.Fatalf("body=%+v", out)
	}

	r = chatRouter(&fakeResponder{}, fakeLister{err: errors.New("connection refused")})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d want=503", rec.Code)
	}
}
