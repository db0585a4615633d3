package timebox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrgencyForTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Urgency
	}{
		{"no tags", nil, ""},
		{"unrelated tags", []string{"deep-work", "writing"}, ""},
		{"urgent english", []string{"#urgent"}, UrgencyHigh},
		{"urgent chinese", []string{"紧急"}, UrgencyHigh},
		{"case insensitive", []string{"URGENT"}, UrgencyHigh},
		{"important is medium", []string{"important"}, UrgencyMedium},
		{"chinese important", []string{"#重要"}, UrgencyMedium},
		{"normal is low", []string{"normal"}, UrgencyLow},
		{"chinese low", []string{"一般"}, UrgencyLow},
		{"high wins over low", []string{"low", "urgent"}, UrgencyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UrgencyForTags(tt.tags))
		})
	}
}

func TestUrgencyForBox_StatusFallback(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want Urgency
	}{
		{"missed is high", Box{Status: StatusMissed}, UrgencyHigh},
		{"done is low", Box{Status: StatusDone}, UrgencyLow},
		{"active is medium", Box{Status: StatusActive}, UrgencyMedium},
		{"planned is medium", Box{Status: StatusPlanned}, UrgencyMedium},
		{"tags beat status", Box{Status: StatusDone, Tags: []string{"urgent"}}, UrgencyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UrgencyForBox(tt.box))
		})
	}
}
