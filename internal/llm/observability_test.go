package llm

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogObserver_SuccessAndFailure(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.OnCallComplete(LLMCallEvent{
		Task: TaskPlanGenerate, Provider: ProviderOllama, Model: "llama3.2",
		LatencyMs: 40, Success: true, OutputTokens: 120, FinishReason: "stop",
	})
	obs.OnCallComplete(LLMCallEvent{
		Task: TaskPlanGenerate, Provider: ProviderGemini, Model: "gemini-2.0-flash",
		Success: false, ErrorCode: "unavailable",
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=llm_call component=llm task=plan_generate provider=ollama")
	assert.Contains(t, out, "output_tokens=120")
	assert.Contains(t, out, "finish_reason=stop")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "status=err:unavailable")
}

func TestNewLogObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopObserver{}, NewLogObserver(nil))
}
