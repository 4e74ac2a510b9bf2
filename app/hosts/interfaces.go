package hosts

import (
	"github.com/castsite/feedimport/app/feed"
)

// HostAdapter translates a raw parsed feed into the canonical show/episode
// model for one hosting provider's feed dialect.
type HostAdapter interface {
	feed.Adapter

	Name() string
	CanHandle(feedURL string) bool
}
