package timebox

import "strings"

// Urgency classifies how pressing a box is, derived from its tags.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Tag synonym tables for urgency classification. Matching is by
// substring against lowercased tags, so "#urgent" and "urgent!" both
// land in the high bucket.
var (
	highSynonyms   = []string{"紧急", "急", "urgent", "高", "high"}
	mediumSynonyms = []string{"中", "重要", "medium", "important"}
	lowSynonyms    = []string{"低", "不急", "normal", "low", "一般"}
)

// UrgencyForTags classifies a tag list against the synonym tables.
// Returns the zero value when no synonym matches.
func UrgencyForTags(tags []string) Urgency {
	lowered := make([]string, len(tags))
	for i, t := range tags {
		lowered[i] = strings.ToLower(t)
	}

	containsAny := func(synonyms []string) bool {
		for _, tag := range lowered {
			for _, syn := range synonyms {
				if strings.Contains(tag, syn) {
					return true
				}
			}
		}
		return false
	}

	switch {
	case containsAny(highSynonyms):
		return UrgencyHigh
	case containsAny(mediumSynonyms):
		return UrgencyMedium
	case containsAny(lowSynonyms):
		return UrgencyLow
	}
	return ""
}

// UrgencyForBox classifies a box: tags take precedence, then status.
func UrgencyForBox(b Box) Urgency {
	if u := UrgencyForTags(b.Tags); u != "" {
		return u
	}
	switch b.Status {
	case StatusMissed:
		return UrgencyHigh
	case StatusDone:
		return UrgencyLow
	}
	return UrgencyMedium
}
