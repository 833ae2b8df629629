package models

import "testing"

func TestIsValidAlertAction(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		expected bool
	}{
		{"accept", "accept", true},
		{"deny", "deny", true},
		{"ignore", "ignore", true},
		{"unknown action", "snooze", false},
		{"empty action", "", false},
		{"status is not an action", "accepted", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAlertAction(tt.action); got != tt.expected {
				t.Errorf("IsValidAlertAction(%q) = %v, want %v", tt.action, got, tt.expected)
			}
		})
	}
}

func TestStatusForAction(t *testing.T) {
	tests := []struct {
		action string
		status AlertStatus
	}{
		{"accept", AlertAccepted},
		{"deny", AlertDenied},
		{"ignore", AlertIgnored},
		{"bogus", AlertOpen},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := StatusForAction(tt.action); got != tt.status {
				t.Errorf("StatusForAction(%q) = %q, want %q", tt.action, got, tt.status)
			}
		})
	}
}

func TestFeedItem_Key(t *testing.T) {
	item := FeedItem{Kind: FeedAlert, SourceID: "abc123"}
	if item.Key() != "alert:abc123" {
		t.Errorf("Key() = %q, want alert:abc123", item.Key())
	}
}
