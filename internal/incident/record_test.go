package incident

import (
	"encoding/json"
	"testing"
)

func TestNewRecordIsFresh(t *testing.T) {
	a := NewRecord()
	b := NewRecord()

	a.Fields[SlotDescription] = "something happened"
	if b.Fields[SlotDescription] != "" {
		t.Error("records share field state")
	}

	a.MarkAsked(SlotTimePeriod)
	if len(b.AskedFields) != 0 {
		t.Error("records share asked state")
	}
}

func TestMergeFillsEmptySlots(t *testing.T) {
	cur := NewRecord().Fields
	merged := Merge(cur, map[string]string{
		SlotTimePeriod: "last week",
		SlotInjury:     "no",
	})

	if merged[SlotTimePeriod] != "last week" {
		t.Errorf("time_period = %q", merged[SlotTimePeriod])
	}
	if merged[SlotInjury] != "no" {
		t.Errorf("injury_present = %q", merged[SlotInjury])
	}
	// Original map untouched.
	if cur[SlotTimePeriod] != "" {
		t.Error("Merge mutated its input")
	}
}

func TestMergeNeverOverwrites(t *testing.T) {
	cur := NewRecord().Fields
	cur[SlotTimePeriod] = "last week"

	merged := Merge(cur, map[string]string{SlotTimePeriod: "yesterday"})
	if merged[SlotTimePeriod] != "last week" {
		t.Errorf("populated slot overwritten: %q", merged[SlotTimePeriod])
	}
}

func TestMergeIdempotent(t *testing.T) {
	cur := NewRecord().Fields
	update := map[string]string{
		SlotDescription: "he took my phone",
		SlotLocation:    "online",
	}

	once := Merge(cur, update)
	twice := Merge(once, update)

	for _, s := range Schema() {
		if once[s] != twice[s] {
			t.Errorf("slot %s: %q != %q", s, once[s], twice[s])
		}
	}
}

func TestMergeDropsUnknownAndEmpty(t *testing.T) {
	cur := NewRecord().Fields
	merged := Merge(cur, map[string]string{
		"favourite_colour": "blue",
		SlotFrequency:      "",
		SlotWitnesses:      "   ",
	})

	if _, ok := merged["favourite_colour"]; ok {
		t.Error("unknown slot stored")
	}
	if merged[SlotFrequency] != "" {
		t.Error("empty value stored")
	}
	if merged[SlotWitnesses] != "" {
		t.Error("whitespace value stored")
	}
}

func TestScoreMonotonic(t *testing.T) {
	fields := NewRecord().Fields
	prev := Score(fields)
	if prev != 0 {
		t.Fatalf("empty record score = %v", prev)
	}

	fills := []struct{ slot, value string }{
		{SlotDescription, "he keeps sending threats"},
		{SlotTimePeriod, "since march"},
		{SlotFrequency, "repeatedly"},
		{SlotLocation, "online"},
		{SlotEvidence, "yes — screenshots"},
		{SlotInjury, "no"},
	}

	for _, f := range fills {
		fields = Merge(fields, map[string]string{f.slot: f.value})
		got := Score(fields)
		if got < prev {
			t.Errorf("score decreased after filling %s: %v -> %v", f.slot, prev, got)
		}
		prev = got
	}

	if prev != 1.0 {
		t.Errorf("all required slots filled, score = %v", prev)
	}
}

func TestScoreIgnoresOptionalSlots(t *testing.T) {
	fields := NewRecord().Fields
	fields[SlotWitnesses] = "my sister knew"
	if got := Score(fields); got != 0 {
		t.Errorf("optional slot counted: score = %v", got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	r := NewRecord()
	r.ApplyUpdate(map[string]string{
		SlotDescription: "my manager has been harassing me",
		SlotTimePeriod:  "last month",
	})
	r.MarkAsked(SlotFrequency)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var loaded Record
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if loaded.Fields[SlotDescription] != r.Fields[SlotDescription] {
		t.Error("fields lost in round-trip")
	}
	if !loaded.Asked(SlotFrequency) {
		t.Error("asked_fields lost in round-trip")
	}
	if loaded.Completion != r.Completion {
		t.Errorf("completion %v != %v", loaded.Completion, r.Completion)
	}
}
