package hosts

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		seconds int
		ok      bool
	}{
		{"1:23:45", 5025, true},
		{"23:45", 1425, true},
		{"45", 45, true},
		{"0:45", 45, true},
		{"3600", 3600, true},
		{" 10:00 ", 600, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1:2:3:4", 0, false},
		{"-5", 0, false},
		{"12:xx", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seconds, ok := ParseDuration(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDuration(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if seconds != tt.seconds {
				t.Errorf("ParseDuration(%q) = %d, expected %d", tt.input, seconds, tt.seconds)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{5025, "1:23:45"},
		{1425, "23:45"},
		{45, "0:45"},
		{0, "0:00"},
		{3600, "1:00:00"},
		{61, "1:01"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, expected %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	// Format(Parse(s)) normalizes: single-part values gain a minutes field
	tests := map[string]string{
		"1:23:45": "1:23:45",
		"23:45":   "23:45",
		"45":      "0:45",
	}

	for input, want := range tests {
		seconds, ok := ParseDuration(input)
		if !ok {
			t.Fatalf("ParseDuration(%q) unexpectedly failed", input)
		}
		if got := FormatDuration(seconds); got != want {
			t.Errorf("round trip of %q = %q, expected %q", input, got, want)
		}
	}
}

func TestExtractEpisodeNumber(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		title    string
		want     int
		absent   bool
	}{
		{"explicit field wins", "7", "Episode 42: Foo", 7, false},
		{"episode word", "", "Episode 42: Foo", 42, false},
		{"hash prefix", "", "#42 Foo", 42, false},
		{"leading number dash", "", "42 - Foo", 42, false},
		{"leading number colon", "", "42: Foo", 42, false},
		{"ep dot", "", "Ep. 42 Foo", 42, false},
		{"ep dot no space", "", "Ep.42 Foo", 42, false},
		{"case insensitive", "", "EPISODE 9 something", 9, false},
		{"no pattern", "", "A conversation about nothing", 0, true},
		{"number mid title", "", "Top 10 tools we love", 0, true},
		{"bad explicit falls back", "n/a", "Episode 3", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEpisodeNumber(tt.explicit, tt.title)
			if tt.absent {
				if got != nil {
					t.Fatalf("expected absent number, got %d", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a number, got absent")
			}
			if *got != tt.want {
				t.Errorf("got %d, expected %d", *got, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"plain text", "plain text"},
		{"a &amp; b", "a & b"},
		{"<div>多行\n\n文本</div>", "多行 文本"},
		{"", ""},
		{"<script>alert(1)</script>safe", "safe"},
	}

	for _, tt := range tests {
		if got := StripHTML(tt.input); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AI & ML: Part One!", "ai-ml-part-one"},
		{"Episode 42: Foo", "episode-42-foo"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"Déjà Vu", "deja-vu"},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}

	// Stable across repeated calls
	first := Slugify("AI & ML: Part One!")
	for i := 0; i < 3; i++ {
		if got := Slugify("AI & ML: Part One!"); got != first {
			t.Fatalf("Slugify not deterministic: %q vs %q", got, first)
		}
	}
}

func TestParseDate(t *testing.T) {
	parsed := time.Date(2023, 7, 3, 10, 0, 0, 0, time.UTC)

	if got := ParseDate("ignored", &parsed); !got.Equal(parsed) {
		t.Errorf("expected pre-parsed date to win, got %v", got)
	}

	got := ParseDate("Mon, 03 Jul 2023 10:00:00 GMT", nil)
	if got.Year() != 2023 || got.Month() != 7 || got.Day() != 3 {
		t.Errorf("expected RFC 822 date to parse, got %v", got)
	}

	got = ParseDate("2023-07-03T10:00:00Z", nil)
	if got.Year() != 2023 {
		t.Errorf("expected ISO date to parse, got %v", got)
	}

	// Unparsable falls back to roughly now
	before := time.Now()
	got = ParseDate("not a date", nil)
	if got.Before(before.Add(-time.Minute)) {
		t.Errorf("expected fallback to now, got %v", got)
	}
}

func TestParseExplicit(t *testing.T) {
	for _, truthy := range []string{"yes", "Yes", "true", "explicit"} {
		if !ParseExplicit(truthy) {
			t.Errorf("ParseExplicit(%q) = false, expected true", truthy)
		}
	}
	for _, falsy := range []string{"no", "false", "clean", ""} {
		if ParseExplicit(falsy) {
			t.Errorf("ParseExplicit(%q) = true, expected false", falsy)
		}
	}
}
