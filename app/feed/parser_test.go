package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
  xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"
  xmlns:podcast="https://podcastindex.org/namespace/1.0">
  <channel>
    <title>Test Show</title>
    <link>https://example.com</link>
    <description>A show about &lt;b&gt;testing&lt;/b&gt;</description>
    <language>en-us</language>
    <copyright>2024 Example</copyright>
    <itunes:author>Jane Host</itunes:author>
    <itunes:explicit>no</itunes:explicit>
    <itunes:keywords>go, testing</itunes:keywords>
    <itunes:image href="https://example.com/cover.jpg"/>
    <itunes:category text="Technology"/>
    <podcast:guid>show-guid-1</podcast:guid>
    <item>
      <title>Episode 1: Hello</title>
      <guid>ep-1</guid>
      <link>https://example.com/ep1</link>
      <description>First episode</description>
      <pubDate>Mon, 03 Jul 2023 10:00:00 GMT</pubDate>
      <enclosure url="https://cdn.example.com/ep1.mp3" length="12345678" type="audio/mpeg"/>
      <itunes:duration>23:45</itunes:duration>
      <itunes:episode>1</itunes:episode>
      <itunes:image href="https://example.com/ep1.jpg"/>
    </item>
    <item>
      <title>Bonus note</title>
      <guid>ep-2</guid>
      <description>No audio here</description>
      <pubDate>Tue, 04 Jul 2023 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestParsePodcastRSS(t *testing.T) {
	parser := NewParser("Feed Import Test/1.0")
	channel, items, err := parser.Parse([]byte(podcastRSS))

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if channel.Title != "Test Show" {
		t.Errorf("Expected title 'Test Show', got: %s", channel.Title)
	}
	if channel.Author != "Jane Host" {
		t.Errorf("Expected author 'Jane Host', got: %s", channel.Author)
	}
	if channel.ImageURL != "https://example.com/cover.jpg" {
		t.Errorf("Expected itunes image to win, got: %s", channel.ImageURL)
	}
	if channel.GUID != "show-guid-1" {
		t.Errorf("Expected podcast:guid 'show-guid-1', got: %s", channel.GUID)
	}
	if len(channel.Keywords) != 2 || channel.Keywords[0] != "go" || channel.Keywords[1] != "testing" {
		t.Errorf("Expected keywords [go testing], got: %v", channel.Keywords)
	}
	found := false
	for _, cat := range channel.Categories {
		if cat == "Technology" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected itunes category 'Technology' in %v", channel.Categories)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item := items[0]
	if item.GUID != "ep-1" {
		t.Errorf("Expected GUID 'ep-1', got: %s", item.GUID)
	}
	if item.EnclosureURL != "https://cdn.example.com/ep1.mp3" {
		t.Errorf("Expected enclosure URL, got: %s", item.EnclosureURL)
	}
	if item.EnclosureLength != 12345678 {
		t.Errorf("Expected enclosure length 12345678, got: %d", item.EnclosureLength)
	}
	if item.Duration != "23:45" {
		t.Errorf("Expected raw duration '23:45', got: %s", item.Duration)
	}
	if item.EpisodeNumber != "1" {
		t.Errorf("Expected raw episode number '1', got: %s", item.EpisodeNumber)
	}
	if item.PublishedParsed == nil {
		t.Error("Expected parsed publish date")
	}

	if items[1].EnclosureURL != "" {
		t.Errorf("Expected no enclosure for second item, got: %s", items[1].EnclosureURL)
	}
}

func TestParseInvalidXML(t *testing.T) {
	parser := NewParser("Feed Import Test/1.0")
	_, _, err := parser.Parse([]byte("this is not a feed"))
	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}

func TestFetch(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(podcastRSS))
	}))
	defer server.Close()

	parser := NewParser("Feed Import Test/1.0")
	data, err := parser.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected feed data")
	}
	if gotUserAgent != "Feed Import Test/1.0" {
		t.Errorf("Expected configured user agent, got: %s", gotUserAgent)
	}
}

func TestFetchNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	parser := NewParser("Feed Import Test/1.0")
	if _, err := parser.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404 response")
	}
}
