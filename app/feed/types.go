package feed

import (
	"time"
)

// Raw feed tree

// RawChannel exposes the RSS channel element with its itunes: and podcast:
// namespaced fields as typed properties, so adapters never touch the
// underlying XML or extension maps.
type RawChannel struct {
	Title       string
	Link        string
	Description string
	Language    string
	Copyright   string

	ImageURL   string // channel image, itunes:image wins over rss image
	Author     string // itunes:author
	Categories []string
	Keywords   []string // itunes:keywords, comma-split
	Explicit   string   // itunes:explicit, raw value
	GUID       string   // podcast:guid
}

// RawItem exposes one RSS item element the same way. Duration, episode
// number and explicit are kept raw; adapters normalize them.
type RawItem struct {
	Title       string
	GUID        string
	Link        string
	Description string
	Summary     string // itunes:summary

	Published       string // raw pubDate text
	PublishedParsed *time.Time

	EnclosureURL    string
	EnclosureLength int64
	EnclosureType   string

	Duration      string // itunes:duration, raw value
	EpisodeNumber string // itunes:episode, raw value
	ImageURL      string // itunes:image
	Explicit      string // itunes:explicit, raw value
	Keywords      []string
	Author        string
}

// Canonical model

type ShowMetadata struct {
	Title       string
	Description string // HTML-stripped
	Author      string
	Copyright   string
	Language    string
	ImageURL    string
	SiteURL     string
	Categories  []string
	Keywords    []string
	Explicit    bool
	GUID        string
}

type Episode struct {
	Title       string
	GUID        string // sole dedup key across runs
	Number      *int   // nil when neither itunes:episode nor a title pattern matched
	PublishedAt time.Time
	AudioURL    string
	AudioLength int64 // bytes
	Duration    int   // seconds, 0 when unknown
	Description string // HTML-stripped
	ImageURL    string
	Explicit    bool
	Keywords    []string
	Author      string
}

// Adapter is the capability the parser delegates semantic extraction to.
// Implementations live in app/hosts; Run accepts any value satisfying it.
type Adapter interface {
	ParseShow(ch *RawChannel) ShowMetadata
	ParseEpisodes(items []RawItem) []Episode
}
