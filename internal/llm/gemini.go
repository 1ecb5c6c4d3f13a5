package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiClient implements StreamClient using Google's Gemini API.
type geminiClient struct {
	cfg      LLMConfig
	client   *genai.Client
	observer Observer
}

// NewGeminiClient creates a StreamClient backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (StreamClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (PLANORA_LLM_API_KEY)")
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{cfg: cfg, client: client, observer: observer}, nil
}

func (c *geminiClient) Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error) {
	start := time.Now()
	temp, maxTok := taskParams(c.cfg, req)
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	contents, system := geminiContents(req.Messages)
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(temp)),
		MaxOutputTokens:   int32(maxTok),
		SystemInstruction: system,
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer cancel()

		var usage Usage
		var finish string
		for resp, err := range c.client.Models.GenerateContentStream(reqCtx, model, contents, config) {
			if err != nil {
				if reqCtx.Err() != nil {
					err = ErrTimeout
				} else {
					err = fmt.Errorf("gemini: %w", err)
				}
				c.complete(req.Task, model, start, err, usage.OutputTokens, "")
				sendChunk(ctx, out, Chunk{Err: err})
				return
			}
			if text := resp.Text(); text != "" {
				if !sendChunk(ctx, out, Chunk{Delta: text}) {
					c.complete(req.Task, model, start, ctx.Err(), usage.OutputTokens, "")
					return
				}
			}
			if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
				finish = strings.ToLower(string(resp.Candidates[0].FinishReason))
			}
			if resp.UsageMetadata != nil {
				usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		c.complete(req.Task, model, start, nil, usage.OutputTokens, finish)
		if sendChunk(ctx, out, Chunk{Usage: &usage}) {
			sendChunk(ctx, out, Chunk{Done: true, FinishReason: finish})
		}
	}()
	return out, nil
}

func (c *geminiClient) complete(task TaskType, model string, start time.Time, err error, outputTokens int, finish string) {
	c.observer.OnCallComplete(LLMCallEvent{
		Task:         task,
		Provider:     ProviderGemini,
		Model:        model,
		LatencyMs:    time.Since(start).Milliseconds(),
		Success:      err == nil,
		ErrorCode:    errorCode(err),
		OutputTokens: outputTokens,
		FinishReason: finish,
	})
}

// Available reports whether a client was constructed; the Gemini API has no
// cheap unauthenticated health probe.
func (c *geminiClient) Available(context.Context) bool {
	return c.client != nil
}

// geminiContents splits chat messages into Gemini contents plus a system
// instruction. Assistant turns map to the "model" role.
func geminiContents(msgs []Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system []string
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return contents, nil
	}
	return contents, genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
}
