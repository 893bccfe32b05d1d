package incident

import "strings"

// populated reports whether a slot value counts as known.
func populated(v string) bool {
	return strings.TrimSpace(v) != ""
}

// Merge combines a partial update into current and returns a new map.
// Each slot is first-write-wins: a populated value is never replaced, so
// merging the same update twice is a no-op. Unknown slots and empty values
// in the update are discarded. Neither input is mutated.
func Merge(current, update map[string]string) map[string]string {
	merged := make(map[string]string, len(schema))
	for _, s := range schema {
		merged[s] = current[s]
	}
	for k, v := range update {
		if !KnownSlot(k) || !populated(v) {
			continue
		}
		if !populated(merged[k]) {
			merged[k] = v
		}
	}
	return merged
}

// Score returns the fraction of required slots populated, in [0,1].
// Slots are never un-populated, so the score only ever grows over a
// conversation's lifetime.
func Score(fields map[string]string) float64 {
	if len(required) == 0 {
		return 0
	}
	var n int
	for _, s := range required {
		if populated(fields[s]) {
			n++
		}
	}
	return float64(n) / float64(len(required))
}

// ApplyUpdate merges update into the record's fields and refreshes the
// derived completion ratio.
func (r *Record) ApplyUpdate(update map[string]string) {
	r.Fields = Merge(r.Fields, update)
	r.Completion = Score(r.Fields)
}
