package util

import "testing"

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value    string
		def      bool
		expected bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"", true, true},
		{"", false, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		t.Setenv("TEST_BOOL_ENV", tc.value)
		if got := ParseBoolEnv("TEST_BOOL_ENV", tc.def); got != tc.expected {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.expected)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	cases := []struct {
		value    string
		def      int
		expected int
	}{
		{"465", 0, 465},
		{" 587 ", 0, 587},
		{"", 25, 25},
		{"not-a-number", 25, 25},
	}
	for _, tc := range cases {
		t.Setenv("TEST_INT_ENV", tc.value)
		if got := ParseIntEnv("TEST_INT_ENV", tc.def); got != tc.expected {
			t.Errorf("ParseIntEnv(%q, %d) = %d, want %d", tc.value, tc.def, got, tc.expected)
		}
	}
}
