package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"prose around", "Here you go: {\"a\":{\"b\":2}} thanks", `{"a":{"b":2}}`},
		{"braces in strings", `{"a":"} not the end {"}`, `{"a":"} not the end {"}`},
		{"escaped quote", `{"a":"say \"}\""}`, `{"a":"say \"}\""}`},
		{"unterminated", `{"a":1`, ""},
		{"no object", "just words", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstObject(tt.in))
		})
	}
}

func TestUnfence(t *testing.T) {
	assert.Equal(t, "{\"a\":1}", unfence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "no fences", unfence("no fences"))
}

func TestBalancedObjects_StopsAtArrayEnd(t *testing.T) {
	body := `{"week":1}, {"week":2, "x":[{"y":1}]}], {"week":3}`
	assert.Equal(t, []string{`{"week":1}`, `{"week":2, "x":[{"y":1}]}`}, balancedObjects(body, true))
	assert.Len(t, balancedObjects(body, false), 3)
}

func TestRepairJSON(t *testing.T) {
	in := `{
  // the summary
  "summary": "keep // this and /* this */",
  /* block */ "ratio": .8,
  "delta": -.25,
  "version": "1.5"
}`
	out := repairJSON(in)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m), out)
	assert.Equal(t, "keep // this and /* this */", m["summary"])
	assert.Equal(t, 0.8, m["ratio"])
	assert.Equal(t, -0.25, m["delta"])
	assert.Equal(t, "1.5", m["version"])
}

func TestRepairJSON_UnterminatedBlockComment(t *testing.T) {
	assert.NotPanics(t, func() { repairJSON(`{"a":1} /* never closed`) })
}
