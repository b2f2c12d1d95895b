package format

import "testing"

func TestPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "ten digits gets country code", input: "5035551234", expected: "+15035551234"},
		{name: "formatted US number", input: "(503) 555-1234", expected: "+15035551234"},
		{name: "dotted US number", input: "503.555.1234", expected: "+15035551234"},
		{name: "eleven digits with leading one", input: "1-503-555-1234", expected: "+15035551234"},
		{name: "already E.164", input: "+15035551234", expected: "+15035551234"},
		{name: "international keeps plus", input: "+44 20 7946 0958", expected: "+442079460958"},
		{name: "short code left as digits", input: "ext 4321", expected: "4321"},
		{name: "empty", input: "", expected: ""},
		{name: "no digits", input: "n/a", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.input); got != tt.expected {
				t.Errorf("Phone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "maria gomez", expected: "Maria Gomez"},
		{input: "MARIA GOMEZ", expected: "Maria Gomez"},
		{input: "mary-jane o'brien", expected: "Mary-Jane O'Brien"},
		{input: "  dana cole  ", expected: "Dana Cole"},
		{input: "x", expected: "X"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		if got := Name(tt.input); got != tt.expected {
			t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "epoch ms float", input: float64(1766401200000), expected: "2025-12-22T11:00:00Z"},
		{name: "epoch ms int", input: int64(1766401200000), expected: "2025-12-22T11:00:00Z"},
		{name: "rfc3339 passes through as UTC", input: "2026-03-14T22:30:00Z", expected: "2026-03-14T22:30:00Z"},
		{name: "rfc3339 with offset normalized", input: "2026-03-14T15:30:00-07:00", expected: "2026-03-14T22:30:00Z"},
		{name: "bare datetime", input: "2026-03-14T22:30:00", expected: "2026-03-14T22:30:00Z"},
		{name: "space-separated datetime", input: "2026-03-14 22:30:00", expected: "2026-03-14T22:30:00Z"},
		{name: "date only", input: "2026-03-14", expected: "2026-03-14T00:00:00Z"},
		{name: "unparseable string unchanged", input: "next tuesday", expected: "next tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.input); got != tt.expected {
				t.Errorf("Date(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tags removed",
			input:    "<p>Customer wants the <b>blue</b> trim</p>",
			expected: "Customer wants the blue trim",
		},
		{
			name:     "entities decoded",
			input:    "trade-in &amp; financing &gt; lease",
			expected: "trade-in & financing > lease",
		},
		{
			name:     "whitespace collapsed",
			input:    "line one\n\n   line two",
			expected: "line one line two",
		},
		{
			name:     "plain text untouched",
			input:    "no markup here",
			expected: "no markup here",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.input); got != tt.expected {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
