package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ollamaClient implements StreamClient using the Ollama chat API.
type ollamaClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a StreamClient that talks to an Ollama instance.
func NewOllamaClient(cfg LLMConfig, observer Observer) StreamClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatRequest is the JSON body sent to POST /api/chat.
type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaChatChunk is one NDJSON line of a streaming /api/chat response.
type ollamaChatChunk struct {
	Model           string        `json:"model"`
	Message         ollamaMessage `json:"message"`
	Done            bool          `json:"done"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

func (c *ollamaClient) Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	start := time.Now()
	temp, maxTok := taskParams(c.cfg, req)
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)

	body := ollamaChatRequest{
		Model:  model,
		Stream: true,
		Options: ollamaOptions{
			Temperature: temp,
			NumPredict:  maxTok,
		},
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	// Retries only happen before any delta has been delivered.
	var resp *http.Response
	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		resp, lastErr = c.open(reqCtx, body)
		if lastErr == nil {
			break
		}
		// Don't retry on context cancellation/timeout
		if reqCtx.Err() != nil {
			break
		}
	}

	if lastErr != nil {
		timedOut := reqCtx.Err() != nil
		cancel()
		var err error
		switch {
		case timedOut:
			err = ErrTimeout
		case isConnectionError(lastErr):
			err = ErrProviderUnavailable
		default:
			err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
		}
		c.complete(req.Task, model, start, err, 0, "")
		return nil, err
	}

	out := make(chan Chunk)
	go c.pump(ctx, reqCtx, cancel, resp, req.Task, model, start, out)
	return out, nil
}

func (c *ollamaClient) open(ctx context.Context, body ollamaChatRequest) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if httpResp.StatusCode != http.StatusOK {
		defer httpResp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}
	return httpResp, nil
}

// pump decodes NDJSON lines into chunks. Sends are abandoned when the
// caller's ctx is done; reads are bounded by reqCtx.
func (c *ollamaClient) pump(ctx, reqCtx context.Context, cancel context.CancelFunc, resp *http.Response, task TaskType, model string, start time.Time, out chan<- Chunk) {
	defer close(out)
	defer cancel()
	defer resp.Body.Close()

	outputTokens := 0
	fail := func(err error) {
		c.complete(task, model, start, err, outputTokens, "")
		sendChunk(ctx, out, Chunk{Err: err})
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			fail(fmt.Errorf("%w: decoding stream chunk: %v", ErrInvalidOutput, err))
			return
		}
		if chunk.Error != "" {
			fail(fmt.Errorf("ollama: %s", chunk.Error))
			return
		}
		if chunk.Message.Content != "" {
			if !sendChunk(ctx, out, Chunk{Delta: chunk.Message.Content}) {
				c.complete(task, model, start, ctx.Err(), outputTokens, "")
				return
			}
		}
		if chunk.Done {
			outputTokens = chunk.EvalCount
			usage := &Usage{PromptTokens: chunk.PromptEvalCount, OutputTokens: chunk.EvalCount}
			c.complete(task, model, start, nil, outputTokens, chunk.DoneReason)
			if sendChunk(ctx, out, Chunk{Usage: usage}) {
				sendChunk(ctx, out, Chunk{Done: true, FinishReason: chunk.DoneReason})
			}
			return
		}
	}

	switch err := scanner.Err(); {
	case reqCtx.Err() != nil:
		fail(ErrTimeout)
	case err != nil:
		fail(fmt.Errorf("reading stream: %w", err))
	default:
		fail(ErrStreamInterrupted)
	}
}

func (c *ollamaClient) complete(task TaskType, model string, start time.Time, err error, outputTokens int, finish string) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:         task,
		Provider:     ProviderOllama,
		Model:        model,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
		ErrorCode:    errorCode(err),
		OutputTokens: outputTokens,
		FinishReason: finish,
	})
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELLED"
	case errors.Is(err, ErrProviderUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrStreamInterrupted):
		return "INTERRUPTED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
