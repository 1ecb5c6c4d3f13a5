package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat-style prompt.
type Message struct {
	Role    string
	Content string
}

// StreamRequest holds the parameters for a streaming generation call.
type StreamRequest struct {
	Task        TaskType
	Model       string // empty uses the configured model
	Messages    []Message
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

// Usage reports token accounting for a finished stream.
type Usage struct {
	PromptTokens int
	OutputTokens int
}

// Chunk is a single element of a model stream. Exactly one of Delta, Usage,
// Done or Err is meaningful per chunk.
type Chunk struct {
	Delta        string
	Usage        *Usage
	Done         bool
	FinishReason string
	Err          error
}

// StreamClient provides streaming access to a language model. The returned
// channel is closed after a Done or Err chunk, or once ctx is cancelled.
type StreamClient interface {
	Stream(ctx context.Context, req StreamRequest) (<-chan Chunk, error)

	// Available checks whether the provider is reachable.
	Available(ctx context.Context) bool
}

// Completion is the concatenated result of a stream.
type Completion struct {
	Text         string
	Usage        Usage
	FinishReason string
}

// Collect drains ch, concatenating deltas until a done or error chunk.
// On error the partial text collected so far is returned alongside it.
func Collect(ctx context.Context, ch <-chan Chunk) (*Completion, error) {
	var b strings.Builder
	comp := &Completion{}
	for {
		select {
		case <-ctx.Done():
			comp.Text = b.String()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return comp, ErrTimeout
			}
			return comp, ctx.Err()
		case chunk, ok := <-ch:
			if !ok {
				comp.Text = b.String()
				return comp, ErrStreamInterrupted
			}
			switch {
			case chunk.Err != nil:
				comp.Text = b.String()
				return comp, chunk.Err
			case chunk.Usage != nil:
				comp.Usage = *chunk.Usage
			case chunk.Done:
				comp.Text = b.String()
				comp.FinishReason = chunk.FinishReason
				return comp, nil
			default:
				b.WriteString(chunk.Delta)
			}
		}
	}
}

// Complete opens a stream and collects it.
func Complete(ctx context.Context, client StreamClient, req StreamRequest) (*Completion, error) {
	ch, err := client.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	return Collect(ctx, ch)
}

// sendChunk delivers c unless ctx is done first.
func sendChunk(ctx context.Context, out chan<- Chunk, c Chunk) bool {
	select {
	case out <- c:
		return true
	case <-ctx.Done():
		return false
	}
}

// taskParams resolves temperature and token limits for a request.
func taskParams(cfg LLMConfig, req StreamRequest) (float64, int) {
	taskCfg := cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// NewClient builds the StreamClient selected by cfg.Provider.
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (StreamClient, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg, observer), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	default:
		return nil, errors.Join(ErrUnknownProvider, errors.New(string(cfg.Provider)))
	}
}
