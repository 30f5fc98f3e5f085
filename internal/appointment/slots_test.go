package appointment

import (
	"encoding/json"
	"testing"
)

func TestNewCatalog_HourlySlots(t *testing.T) {
	c := NewCatalog(8, 12, 13, 17)

	am := c.Slots(PreferenceAM)
	want := []string{"08:00", "09:00", "10:00", "11:00"}
	if len(am) != len(want) {
		t.Fatalf("expected %d AM slots, got %d", len(want), len(am))
	}
	for i, s := range am {
		if s.String() != want[i] {
			t.Errorf("AM slot %d: expected %s, got %s", i, want[i], s)
		}
	}

	pm := c.Slots(PreferencePM)
	if len(pm) != 4 {
		t.Fatalf("expected 4 PM slots, got %d", len(pm))
	}
	if pm[0].String() != "13:00" || pm[3].String() != "16:00" {
		t.Errorf("unexpected PM window: %v .. %v", pm[0], pm[3])
	}
}

func TestNewCatalog_SlotsAscending(t *testing.T) {
	c := NewCatalog(8, 12, 13, 17)
	for _, pref := range []TimePreference{PreferenceAM, PreferencePM} {
		slots := c.Slots(pref)
		for i := 1; i < len(slots); i++ {
			if slots[i] <= slots[i-1] {
				t.Errorf("%s slots not strictly ascending at %d: %v", pref, i, slots)
			}
		}
	}
}

func TestNewCatalog_EmptyWindow(t *testing.T) {
	c := NewCatalog(8, 8, 17, 13)
	if got := c.Slots(PreferenceAM); len(got) != 0 {
		t.Errorf("expected no AM slots for empty window, got %v", got)
	}
	if got := c.Slots(PreferencePM); len(got) != 0 {
		t.Errorf("expected no PM slots for inverted window, got %v", got)
	}
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Hour() != 9 || s.Minute() != 30 {
		t.Errorf("expected 09:30, got %s", s)
	}

	invalid := []string{
		"25:00",        // hour out of range
		"09:60",        // minute out of range
		"bogus",        // no colon
		"09:30garbage", // trailing text after the minutes
		"09:30:00",     // seconds are not part of a slot
		":30",          // missing hour
		"09:",          // missing minutes
	}
	for _, raw := range invalid {
		if _, err := ParseSlot(raw); err == nil {
			t.Errorf("ParseSlot(%q): expected error, got nil", raw)
		}
	}
}

func TestSlot_JSONRoundTrip(t *testing.T) {
	s, err := ParseSlot("08:00")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"08:00"` {
		t.Errorf(`expected "08:00", got %s`, data)
	}

	var back Slot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != s {
		t.Errorf("round trip changed slot: %s -> %s", s, back)
	}

	if err := json.Unmarshal([]byte(`"nonsense"`), &back); err == nil {
		t.Error("expected error decoding a malformed slot")
	}
}
