package hosts

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Shared parsing helpers used by all host adapters.

var (
	strictPolicy = bluemonday.StrictPolicy()

	whitespaceRe = regexp.MustCompile(`\s+`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)

	// Title patterns for episode numbers, probed in order
	episodeNumberRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bepisode\s+(\d+)`),
		regexp.MustCompile(`(?i)\bep\.\s*(\d+)`),
		regexp.MustCompile(`#(\d+)`),
		regexp.MustCompile(`^(\d+)\s*[-:]`),
	}
)

// ParseDuration converts an itunes:duration value (H:MM:SS, MM:SS, SS or a
// bare integer already in seconds) to seconds. Malformed input returns
// ok=false rather than an error: a missing duration must not abort an
// episode.
func ParseDuration(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}

	return total, true
}

// FormatDuration renders seconds as H:MM:SS, or M:SS when under an hour.
// The inverse of ParseDuration up to zero padding: 45 seconds becomes
// "0:45".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return strconv.Itoa(hours) + ":" + pad2(minutes) + ":" + pad2(secs)
	}
	return strconv.Itoa(minutes) + ":" + pad2(secs)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ParseDate resolves an item's publish date. The already-parsed value wins;
// otherwise the raw string is run through dateparse, which understands
// RFC 822, ISO 8601 and most of what feeds actually emit. Absent or
// unparsable dates fall back to now rather than failing the item.
func ParseDate(raw string, parsed *time.Time) time.Time {
	if parsed != nil {
		return *parsed
	}
	if raw != "" {
		if t, err := dateparse.ParseAny(raw); err == nil {
			return t
		}
	}
	return time.Now()
}

// ExtractEpisodeNumber prefers the explicit itunes:episode value, then
// probes the title patterns in order. No match means the number is absent,
// not zero.
func ExtractEpisodeNumber(explicit, title string) *int {
	if explicit != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(explicit)); err == nil && n >= 0 {
			return &n
		}
	}

	for _, re := range episodeNumberRes {
		match := re.FindStringSubmatch(title)
		if match == nil {
			continue
		}
		if n, err := strconv.Atoi(match[1]); err == nil {
			return &n
		}
	}

	return nil
}

// StripHTML removes markup from feed description fields, leaving text
// content with collapsed whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	stripped := strictPolicy.Sanitize(s)
	stripped = html.UnescapeString(stripped)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(stripped, " "))
}

// Slugify derives the URL-safe public identity for an episode title:
// accents folded, lowercased, non-alphanumeric runs collapsed to a single
// hyphen, leading and trailing hyphens trimmed. Deterministic for the same
// title.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(folded)
	slug = nonAlnumRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ParseExplicit interprets the itunes:explicit flag, which feeds emit as
// "yes", "true" or "explicit".
func ParseExplicit(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "explicit":
		return true
	}
	return false
}
