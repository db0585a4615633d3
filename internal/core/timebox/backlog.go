package timebox

// Estimate bounds for backlog items, in minutes.
const (
	DefaultEstimateMinutes = 30
	MinEstimateMinutes     = 5
	MaxEstimateMinutes     = 480
)

// BacklogItem is an unscheduled task candidate awaiting placement into
// a time box. Promotion copies the item into a box; the item itself
// persists until deleted explicitly.
type BacklogItem struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	EstimateMinutes int      `json:"estimate_min"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ClampEstimate forces an estimate into the valid range, substituting
// the default for non-positive values.
func ClampEstimate(minutes int) int {
	if minutes <= 0 {
		return DefaultEstimateMinutes
	}
	if minutes < MinEstimateMinutes {
		return MinEstimateMinutes
	}
	if minutes > MaxEstimateMinutes {
		return MaxEstimateMinutes
	}
	return minutes
}
