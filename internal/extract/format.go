package extract

import (
	"encoding/json"
	"strings"

	"github.com/alexanderramin/planora/internal/domain"
)

// DetectFormat classifies raw model output as json, mixed or text.
func DetectFormat(raw string) domain.DetectedFormat {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return domain.FormatJSON
		}
		// Looks structured but is malformed, e.g. truncated mid-object.
		return domain.FormatMixed
	}
	if strings.Contains(trimmed, `"`) && strings.Contains(trimmed, ":") {
		return domain.FormatMixed
	}
	return domain.FormatText
}
