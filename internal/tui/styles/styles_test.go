package styles

import (
	"strings"
	"testing"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status   string
		expected string // Expected color hex value
	}{
		{"merged", "#10B981"},
		{"completed", "#10B981"},
		{"failed", "#F87171"},
		{"skipped", "#F59E0B"},
		{"dispatching", "#60A5FA"},
		{"awaiting", "#60A5FA"},
		{"planned", "#9CA3AF"},
		{"pending", "#9CA3AF"},
		{"unknown", "#9CA3AF"}, // Should fall back to MutedColor
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := StatusColor(tt.status)
			if string(got) != tt.expected {
				t.Errorf("StatusColor(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"merged", "✓"},
		{"completed", "✓"},
		{"failed", "✗"},
		{"skipped", "⏸"},
		{"awaiting", "●"},
		{"pending", "○"},
		{"unknown", "●"}, // Should fall back to default
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := StatusIcon(tt.status)
			if got != tt.expected {
				t.Errorf("StatusIcon(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestStatus_KeepsText(t *testing.T) {
	got := Status("merged", "Partition 3")
	if !strings.Contains(got, "Partition 3") {
		t.Errorf("Status() = %q, should contain the text", got)
	}
}
