package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/planora/internal/llm"
)

// FakeModel is an in-process llm.StreamClient. It streams Response in
// ChunkSize pieces, then either StreamErr or a done chunk.
type FakeModel struct {
	Response  string
	ChunkSize int
	// OpenErr is returned by Stream before any chunk is produced.
	OpenErr error
	// StreamErr is delivered after the response text instead of done.
	StreamErr error

	mu       sync.Mutex
	requests []llm.StreamRequest
}

// NewFakeModel returns a FakeModel that streams response successfully.
func NewFakeModel(response string) *FakeModel {
	return &FakeModel{Response: response, ChunkSize: 16}
}

func (f *FakeModel) Stream(ctx context.Context, req llm.StreamRequest) (<-chan llm.Chunk, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.OpenErr != nil {
		return nil, f.OpenErr
	}

	size := f.ChunkSize
	if size <= 0 {
		size = len(f.Response) + 1
	}

	ch := make(chan llm.Chunk)
	go func() {
		defer close(ch)
		send := func(c llm.Chunk) bool {
			select {
			case ch <- c:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for i := 0; i < len(f.Response); i += size {
			end := min(i+size, len(f.Response))
			if !send(llm.Chunk{Delta: f.Response[i:end]}) {
				return
			}
		}
		if f.StreamErr != nil {
			send(llm.Chunk{Err: f.StreamErr})
			return
		}
		if !send(llm.Chunk{Usage: &llm.Usage{OutputTokens: len(f.Response) / 4}}) {
			return
		}
		send(llm.Chunk{Done: true, FinishReason: "stop"})
	}()
	return ch, nil
}

func (f *FakeModel) Available(context.Context) bool { return f.OpenErr == nil }

// Calls returns how many streams were opened.
func (f *FakeModel) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastRequest returns the most recent request, or the zero value.
func (f *FakeModel) LastRequest() llm.StreamRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return llm.StreamRequest{}
	}
	return f.requests[len(f.requests)-1]
}
