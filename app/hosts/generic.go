package hosts

import (
	"cmp"

	"github.com/castsite/feedimport/app/feed"
)

var _ HostAdapter = (*Generic)(nil)

// Generic maps plain RSS 2.0 with iTunes tags, the dialect most hosting
// providers emit. It claims every URL and doubles as the registry fallback.
type Generic struct{}

func NewGeneric() *Generic {
	return &Generic{}
}

func (a *Generic) Name() string {
	return "generic"
}

func (a *Generic) CanHandle(feedURL string) bool {
	return true
}

func (a *Generic) ParseShow(ch *feed.RawChannel) feed.ShowMetadata {
	return feed.ShowMetadata{
		Title:       ch.Title,
		Description: StripHTML(ch.Description),
		Author:      ch.Author,
		Copyright:   ch.Copyright,
		Language:    ch.Language,
		ImageURL:    ch.ImageURL,
		SiteURL:     ch.Link,
		Categories:  ch.Categories,
		Keywords:    ch.Keywords,
		Explicit:    ParseExplicit(ch.Explicit),
		GUID:        ch.GUID,
	}
}

// ParseEpisodes converts raw items in feed order. Items without an audio
// enclosure are not podcast episodes and are excluded; items without a GUID
// have no dedup key and are dropped before they can reach the importer.
func (a *Generic) ParseEpisodes(items []feed.RawItem) []feed.Episode {
	episodes := make([]feed.Episode, 0, len(items))
	for _, item := range items {
		if item.EnclosureURL == "" || item.GUID == "" {
			continue
		}

		duration, _ := ParseDuration(item.Duration)

		episodes = append(episodes, feed.Episode{
			Title:       item.Title,
			GUID:        item.GUID,
			Number:      ExtractEpisodeNumber(item.EpisodeNumber, item.Title),
			PublishedAt: ParseDate(item.Published, item.PublishedParsed),
			AudioURL:    item.EnclosureURL,
			AudioLength: item.EnclosureLength,
			Duration:    duration,
			Description: StripHTML(cmp.Or(item.Description, item.Summary)),
			ImageURL:    item.ImageURL,
			Explicit:    ParseExplicit(item.Explicit),
			Keywords:    item.Keywords,
			Author:      item.Author,
		})
	}
	return episodes
}
