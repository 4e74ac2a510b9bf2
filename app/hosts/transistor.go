package hosts

import (
	"net/url"
	"strings"

	"github.com/castsite/feedimport/app/feed"
)

var _ HostAdapter = (*Transistor)(nil)

// Transistor handles feeds served from transistor.fm. The dialect is plain
// RSS 2.0 with iTunes tags, so the generic mapping applies; on top of it,
// Transistor enclosure URLs carry download-tracking query parameters that
// change between fetches and would make re-imports look like edits, so they
// are stripped.
type Transistor struct {
	*Generic
}

func NewTransistor() *Transistor {
	return &Transistor{Generic: NewGeneric()}
}

func (a *Transistor) Name() string {
	return "transistor"
}

func (a *Transistor) CanHandle(feedURL string) bool {
	u, err := url.Parse(feedURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "transistor.fm" || strings.HasSuffix(host, ".transistor.fm")
}

func (a *Transistor) ParseEpisodes(items []feed.RawItem) []feed.Episode {
	episodes := a.Generic.ParseEpisodes(items)
	for i := range episodes {
		episodes[i].AudioURL = stripTrackingParams(episodes[i].AudioURL)
	}
	return episodes
}

func stripTrackingParams(audioURL string) string {
	u, err := url.Parse(audioURL)
	if err != nil {
		return audioURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
