// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
)

// BoxTitle validates a box title is non-empty after trimming whitespace.
func BoxTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return timebox.ErrEmptyTitle
	}
	return nil
}

// BoxTitleField returns a criterio validator for box titles.
func BoxTitleField(field, title string) error {
	return criterio.Run(field, title, BoxTitle)
}

// Estimate validates a backlog estimate is within the allowed range.
func Estimate(minutes int) error {
	if minutes < timebox.MinEstimateMinutes || minutes > timebox.MaxEstimateMinutes {
		return fmt.Errorf("estimate must be between %d and %d minutes",
			timebox.MinEstimateMinutes, timebox.MaxEstimateMinutes)
	}
	return nil
}

// EstimateField reports an estimate violation as a criterio field error.
func EstimateField(field string, minutes int) error {
	if err := Estimate(minutes); err != nil {
		return criterio.NewFieldErrors(field, err)
	}
	return nil
}
