package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/imago-sys/occurrence-backend/internal/domain"
)

// apiResponse mirrors the webhook's wire shape. Every field is optional.
type apiResponse struct {
	Summary        string `json:"summary"`
	Classification string `json:"classification"`
	Conclusion     string `json:"conclusion"`
	Status         string `json:"status"`
}

// Result is the coerced analysis outcome. Absent fields default to the
// empty string; an absent or unrecognized status defaults to
// awaiting_confirmation.
type Result struct {
	Summary        string
	Classification string
	Conclusion     string
	Status         domain.Status
}

// parseResult validates and coerces the webhook body. The body must be a
// JSON object; anything else (arrays, scalars, invalid JSON) is rejected.
func parseResult(raw []byte) (*Result, error) {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, ok := probe.(map[string]any); !ok {
		return nil, fmt.Errorf("response is not a JSON object")
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	return &Result{
		Summary:        resp.Summary,
		Classification: resp.Classification,
		Conclusion:     resp.Conclusion,
		Status:         coerceStatus(resp.Status),
	}, nil
}

// coerceStatus maps the webhook's status override onto a legal edge out of
// in_analysis. Unknown values fall back to the default rather than failing
// the whole analysis.
func coerceStatus(s string) domain.Status {
	status := domain.Status(s)
	if status == domain.StatusAwaitingConfirmation || status == domain.StatusOpen {
		return status
	}
	return domain.StatusAwaitingConfirmation
}
