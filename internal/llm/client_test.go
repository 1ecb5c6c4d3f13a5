package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func writeChunks(t *testing.T, w http.ResponseWriter, chunks ...ollamaChatChunk) {
	t.Helper()
	w.Header().Set("Content-Type", "application/x-ndjson")
	enc := json.NewEncoder(w)
	for _, c := range chunks {
		require.NoError(t, enc.Encode(c))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func delta(s string) ollamaChatChunk {
	return ollamaChatChunk{Model: "llama3.2", Message: ollamaMessage{Role: "assistant", Content: s}}
}

func doneChunk() ollamaChatChunk {
	return ollamaChatChunk{Model: "llama3.2", Done: true, DoneReason: "stop", PromptEvalCount: 40, EvalCount: 7}
}

func planRequest() StreamRequest {
	return StreamRequest{
		Task: TaskPlanGenerate,
		Messages: []Message{
			{Role: RoleSystem, Content: "system prompt"},
			{Role: RoleUser, Content: "user prompt"},
		},
	}
}

func TestOllamaClient_Stream_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.True(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user prompt", req.Messages[1].Content)
		assert.Equal(t, 4096, req.Options.NumPredict)

		writeChunks(t, w, delta(`{"monthly_`), delta(`summary":"ok"}`), doneChunk())
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	comp, err := Complete(context.Background(), client, planRequest())

	require.NoError(t, err)
	assert.Equal(t, `{"monthly_summary":"ok"}`, comp.Text)
	assert.Equal(t, "stop", comp.FinishReason)
	assert.Equal(t, 7, comp.Usage.OutputTokens)
	assert.Equal(t, 40, comp.Usage.PromptTokens)
}

func TestOllamaClient_Stream_RequestOverrides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req.Model)
		assert.Equal(t, 0.9, req.Options.Temperature)
		assert.Equal(t, 128, req.Options.NumPredict)
		writeChunks(t, w, doneChunk())
	}))
	defer srv.Close()

	temp, maxTok := 0.9, 128
	req := planRequest()
	req.Model = "mistral"
	req.Temperature = &temp
	req.MaxTokens = &maxTok

	comp, err := Complete(context.Background(), NewOllamaClient(testConfig(srv.URL), nil), req)
	require.NoError(t, err)
	assert.Equal(t, "", comp.Text)
}

func TestOllamaClient_Stream_ErrorLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChunks(t, w, delta("Week 1"), ollamaChatChunk{Error: "model crashed"})
	}))
	defer srv.Close()

	comp, err := Complete(context.Background(), NewOllamaClient(testConfig(srv.URL), NoopObserver{}), planRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model crashed")
	assert.Equal(t, "Week 1", comp.Text)
}

func TestOllamaClient_Stream_MalformedLine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"a"}}`)
		fmt.Fprintln(w, `not json`)
	}))
	defer srv.Close()

	_, err := Complete(context.Background(), NewOllamaClient(testConfig(srv.URL), NoopObserver{}), planRequest())
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestOllamaClient_Stream_EndsWithoutDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChunks(t, w, delta("partial"))
	}))
	defer srv.Close()

	comp, err := Complete(context.Background(), NewOllamaClient(testConfig(srv.URL), NoopObserver{}), planRequest())
	assert.ErrorIs(t, err, ErrStreamInterrupted)
	assert.Equal(t, "partial", comp.Text)
}

func TestOllamaClient_Stream_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskPlanGenerate: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	_, err := Complete(context.Background(), NewOllamaClient(cfg, NoopObserver{}), planRequest())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Stream_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1") // nothing listening
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Stream(context.Background(), planRequest())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOllamaClient_Stream_RetryOnTransientError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		writeChunks(t, w, delta("ok"), doneChunk())
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1

	comp, err := Complete(context.Background(), NewOllamaClient(cfg, NoopObserver{}), planRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", comp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOllamaClient_Stream_ServerErrorExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad request"))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0

	_, err := NewOllamaClient(cfg, NoopObserver{}).Stream(context.Background(), planRequest())
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 400")
}

func TestOllamaClient_Stream_CallerStopsReading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChunks(t, w, delta("a"), delta("b"), delta("c"), doneChunk())
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := NewOllamaClient(testConfig(srv.URL), NoopObserver{}).Stream(ctx, planRequest())
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, "a", first.Delta)
	cancel()

	// The producer must close the channel rather than block forever.
	for range ch {
	}
}

func TestOllamaClient_Available_True(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewOllamaClient(testConfig(srv.URL), NoopObserver{})
	assert.True(t, client.Available(context.Background()))
}

func TestOllamaClient_Available_False(t *testing.T) {
	client := NewOllamaClient(testConfig("http://127.0.0.1:1"), NoopObserver{})
	assert.False(t, client.Available(context.Background()))
}

func TestOllamaClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChunks(t, w, delta("ok"), doneChunk())
	}))
	defer srv.Close()

	obs := &captureObserver{}
	_, err := Complete(context.Background(), NewOllamaClient(testConfig(srv.URL), obs), planRequest())
	require.NoError(t, err)

	events := obs.all()
	require.Len(t, events, 1)
	assert.Equal(t, TaskPlanGenerate, events[0].Task)
	assert.Equal(t, ProviderOllama, events[0].Provider)
	assert.True(t, events[0].Success)
	assert.Equal(t, 7, events[0].OutputTokens)
	assert.Equal(t, "stop", events[0].FinishReason)
}

func TestOllamaClient_ObserverUnavailableErrorCode(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	obs := &captureObserver{}
	_, err := NewOllamaClient(cfg, obs).Stream(context.Background(), planRequest())
	require.Error(t, err)

	events := obs.all()
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "UNAVAILABLE", events[0].ErrorCode)
}

type captureObserver struct {
	mu     sync.Mutex
	events []LLMCallEvent
}

func (o *captureObserver) OnCallComplete(e LLMCallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *captureObserver) all() []LLMCallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]LLMCallEvent(nil), o.events...)
}
