package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tuddy-chat-be/internal/config"
	"tuddy-chat-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestClient(baseURL string) *Client {
	return NewClient(config.GeneratorConfig{
		BaseURL:        baseURL,
		IngestPath:     "/rag/vectordb/ocr-and-add",
		HealthPath:     "/health",
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    5 * time.Second,
	}, nopLogger{})
}

func TestAskJSONWithoutAttachments(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"response": "Paris"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	answer := client.Ask(context.Background(), "/normal/chat", TurnPayload{
		UserId:    "u1",
		SessionId: "s1",
		Query:     "capital of France?",
		NTurns:    7,
	}, nil)

	assert.Equal(t, "Paris", answer)
	assert.Equal(t, "u1", gotBody["user_id"])
	assert.Equal(t, "s1", gotBody["session_id"])
	assert.Equal(t, float64(7), gotBody["n_turns"])
}

func TestAskMultipartWithAttachments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "u1", r.FormValue("user_id"))
		assert.Equal(t, "what does it say?", r.FormValue("query"))
		assert.Equal(t, []string{"report.pdf"}, r.MultipartForm.Value["file_names"])

		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "report.pdf", files[0].Filename)

		json.NewEncoder(w).Encode(map[string]string{"response": "it says hi"})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	answer := client.Ask(context.Background(), "/rag/chat", TurnPayload{
		UserId:    "u1",
		SessionId: "s1",
		Query:     "what does it say?",
		NTurns:    7,
		FileNames: []string{"report.pdf"},
	}, []Attachment{{Filename: "report.pdf", Data: []byte("%PDF-1.4")}})

	assert.Equal(t, "it says hi", answer)
}

func TestAskFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	answer := newTestClient(srv.URL).Ask(context.Background(), "/normal/chat", TurnPayload{Query: "hi"}, nil)
	assert.Equal(t, constant.FallbackAnswer, answer)
}

func TestAskFallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	answer := newTestClient(srv.URL).Ask(context.Background(), "/normal/chat", TurnPayload{Query: "hi"}, nil)
	assert.Equal(t, constant.FallbackAnswer, answer)
}

func TestAskReturnsEmptyAnswerOnMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer srv.Close()

	answer := newTestClient(srv.URL).Ask(context.Background(), "/normal/chat", TurnPayload{Query: "hi"}, nil)
	assert.Equal(t, constant.EmptyAnswer, answer)
}

func TestAskFallsBackWhenUnreachable(t *testing.T) {
	answer := newTestClient("http://127.0.0.1:1").Ask(context.Background(), "/normal/chat", TurnPayload{Query: "hi"}, nil)
	assert.Equal(t, constant.FallbackAnswer, answer)
}

func TestSubmitIndexingSendsMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "u1", r.FormValue("user_id"))
		assert.Equal(t, "raw/u1/abc_report.pdf", r.FormValue("file_key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitIndexing(context.Background(), "u1", "raw/u1/abc_report.pdf")
	assert.NoError(t, err)
}

func TestSubmitIndexingFailsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported format", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SubmitIndexing(context.Background(), "u1", "raw/u1/abc_x.bin")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(srv.URL).Health(context.Background()))
}
