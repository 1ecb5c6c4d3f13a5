package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent describes one finished model call.
type LLMCallEvent struct {
	Task         TaskType
	Provider     Provider
	Model        string
	LatencyMs    int64
	Success      bool
	ErrorCode    string
	OutputTokens int
	FinishReason string
}

// Observer is told about every model call once its stream ends.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver reports model calls as "llm_call" records.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs through logger; a nil logger yields a NoopObserver.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &LogObserver{logger: logger.With(slog.String("component", "llm"))}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("provider", string(event.Provider)),
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if event.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", event.FinishReason))
	}
	if event.OutputTokens > 0 {
		attrs = append(attrs, slog.Int("output_tokens", event.OutputTokens))
	}

	level, status := slog.LevelInfo, "ok"
	if !event.Success {
		level, status = slog.LevelError, "err:"+event.ErrorCode
	}
	o.logger.LogAttrs(context.Background(), level, "llm_call", append(attrs, slog.String("status", status))...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
