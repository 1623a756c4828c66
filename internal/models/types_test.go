package models

import (
	"encoding/json"
	"testing"
)

func TestMessageJSON(t *testing.T) {
	raw := `{"id": 7, "sender_id": "222222", "receiver_id": "111111", "message": "hi", "sender_name": "bob", "created_at": "2024-01-01 10:00:00.123456"}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID != 7 || msg.Text != "hi" || msg.SenderName != "bob" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Time().IsZero() {
		t.Error("expected a parseable creation time")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		value string
		zero  bool
	}{
		{"2024-01-01 10:00:00.123456", false},
		{"2024-01-01 10:00:00", false},
		{"2024-01-01T10:00:00Z", false},
		{"", true},
		{"yesterday", true},
	}

	for _, tc := range cases {
		got := ParseTimestamp(tc.value)
		if got.IsZero() != tc.zero {
			t.Errorf("ParseTimestamp(%q): zero=%v, want %v", tc.value, got.IsZero(), tc.zero)
		}
	}
}
