package timebox

import "time"

// RangesOverlap reports whether two half-open intervals [aStart, aEnd)
// and [bStart, bEnd) overlap. Touching endpoints do not overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasOverlap reports whether the candidate range overlaps any box other
// than excludeID. Pass an empty excludeID to consider every box.
func HasOverlap(start, end time.Time, boxes []Box, excludeID string) bool {
	for _, b := range boxes {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if RangesOverlap(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
