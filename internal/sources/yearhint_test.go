package sources_test

import (
	"testing"

	"ukrlit/internal/sources"
)

func TestFirstYear(t *testing.T) {
	cases := map[string]int{
		"Київ : Дніпро, 1987. - 320 с.": 1987,
		"[1798]":                        1798,
		"c2015, друк 2016":              2016,
		"1650 р.":                       0,
		"2031":                          0,
		"":                              0,
		"12345":                         0,
	}
	for input, want := range cases {
		if got := sources.FirstYear(input); got != want {
			t.Fatalf("FirstYear(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestLeadingYear(t *testing.T) {
	cases := map[string]int{
		"1840-01-01T00:00:00Z": 1840,
		"t1234":                1234,
		"":                     0,
		"circa":                0,
	}
	for input, want := range cases {
		if got := sources.LeadingYear(input); got != want {
			t.Fatalf("LeadingYear(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestFirstDigits(t *testing.T) {
	if got := sources.FirstDigits("c. 1650?"); got != 1650 {
		t.Fatalf("FirstDigits = %d, want 1650", got)
	}
}
