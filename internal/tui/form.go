package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/core/validate"
)

// boxForm collects the fields for a new box.
type boxForm struct {
	form *huh.Form

	title   string
	at      string
	minutes string
	tags    string
}

// newBoxForm builds the creation form. start is the suggested slot
// shown as the default start time.
func newBoxForm(startHHMM string) *boxForm {
	f := &boxForm{
		at:      startHHMM,
		minutes: "30",
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(validate.BoxTitle).
				Value(&f.title),
			huh.NewInput().
				Title("Start (HH:MM)").
				Validate(validateHHMM).
				Value(&f.at),
			huh.NewInput().
				Title("Minutes").
				Validate(validateMinutes).
				Value(&f.minutes),
			huh.NewInput().
				Title("Tags (comma separated)").
				Value(&f.tags),
		),
	)

	return f
}

func (f *boxForm) minutesValue() int {
	n, _ := strconv.Atoi(strings.TrimSpace(f.minutes))
	return n
}

func (f *boxForm) tagList() []string {
	var tags []string
	for _, t := range strings.Split(f.tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func validateHHMM(s string) error {
	if _, _, err := timebox.ParseClock(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("want HH:MM")
	}
	return nil
}

func validateMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("want a positive number of minutes")
	}
	return nil
}
