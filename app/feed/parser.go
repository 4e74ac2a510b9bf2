package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	client       *http.Client
	userAgent    string
}

func NewParser(userAgent string) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
	}
}

// Run fetches and parses the feed, then delegates semantic extraction to the
// adapter. Any failure here is fatal to the run: there is no partial feed.
func (p *Parser) Run(ctx context.Context, feedURL string, adapter Adapter) (*ShowMetadata, []Episode, error) {
	data, err := p.Fetch(ctx, feedURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}

	channel, items, err := p.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	show := adapter.ParseShow(channel)
	episodes := adapter.ParseEpisodes(items)

	return &show, episodes, nil
}

func (p *Parser) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching feed", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// Parse maps the gofeed tree into the typed raw channel/item structures the
// adapters operate on, surfacing the itunes: and podcast: extension fields.
func (p *Parser) Parse(data []byte) (*RawChannel, []RawItem, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	channel := &RawChannel{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Language:    parsed.Language,
		Copyright:   parsed.Copyright,
		Categories:  parsed.Categories,
		GUID:        extensionValue(parsed.Extensions, "podcast", "guid"),
	}

	if parsed.Image != nil {
		channel.ImageURL = parsed.Image.URL
	}

	if it := parsed.ITunesExt; it != nil {
		channel.Author = it.Author
		channel.Explicit = it.Explicit
		channel.Keywords = splitKeywords(it.Keywords)
		if it.Image != "" {
			channel.ImageURL = it.Image
		}
		for _, cat := range it.Categories {
			if cat == nil || cat.Text == "" {
				continue
			}
			channel.Categories = append(channel.Categories, cat.Text)
		}
	}

	items := make([]RawItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		items = append(items, p.normalizeItem(item))
	}

	return channel, items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) RawItem {
	raw := RawItem{
		Title:       item.Title,
		GUID:        item.GUID,
		Link:        item.Link,
		Description: item.Description,
		Published:   item.Published,
	}

	if item.PublishedParsed != nil {
		raw.PublishedParsed = item.PublishedParsed
	}

	// RSS 2.0 allows only one enclosure per item; take the first
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		raw.EnclosureURL = enclosure.URL
		raw.EnclosureType = enclosure.Type
		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				raw.EnclosureLength = length
			}
		}
	}

	if it := item.ITunesExt; it != nil {
		raw.Summary = it.Summary
		raw.Duration = it.Duration
		raw.EpisodeNumber = it.Episode
		raw.ImageURL = it.Image
		raw.Explicit = it.Explicit
		raw.Keywords = splitKeywords(it.Keywords)
		raw.Author = it.Author
	}

	return raw
}

func extensionValue(exts ext.Extensions, namespace, name string) string {
	values, ok := exts[namespace]
	if !ok {
		return ""
	}
	entries := values[name]
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Value
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
