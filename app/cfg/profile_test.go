package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	tempDir := t.TempDir()

	content := `
feed_url: "https://feeds.transistor.fm/test-show"

store:
  project_id: "abc123"
  dataset: "staging"

options:
  skip_images: true
  episode_delay_ms: 250

log_file: "./test-import.log"
`

	path := filepath.Join(tempDir, "profile.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if profile.FeedURL != "https://feeds.transistor.fm/test-show" {
		t.Errorf("Expected feed URL 'https://feeds.transistor.fm/test-show', got '%s'", profile.FeedURL)
	}
	if profile.Store.ProjectID != "abc123" {
		t.Errorf("Expected project ID 'abc123', got '%s'", profile.Store.ProjectID)
	}
	if profile.Store.Dataset != "staging" {
		t.Errorf("Expected dataset 'staging', got '%s'", profile.Store.Dataset)
	}
	if profile.Options.SkipImages == nil || !*profile.Options.SkipImages {
		t.Error("Expected skip_images to be set true")
	}
	if profile.Options.DryRun != nil {
		t.Error("Expected dry_run to be unset")
	}
	if profile.Options.EpisodeDelayMs == nil || *profile.Options.EpisodeDelayMs != 250 {
		t.Error("Expected episode_delay_ms 250")
	}
	if profile.LogFilePath != "./test-import.log" {
		t.Errorf("Expected log file './test-import.log', got '%s'", profile.LogFilePath)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile("/nonexistent/profile.yml")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func providedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyProfilePrecedence(t *testing.T) {
	raw := rawCfg{
		FeedURL:        "https://example.com/from-flags.xml",
		EpisodeDelayMs: 500,
	}

	skip := true
	var profile Profile
	profile.FeedURL = "https://example.com/from-profile.xml"
	profile.Store.ProjectID = "proj1"
	profile.Options.SkipImages = &skip

	applyProfile(&raw, &profile, providedSet("feed-url"))

	// Flag value wins over the profile
	if raw.FeedURL != "https://example.com/from-flags.xml" {
		t.Errorf("Expected flag feed URL to win, got '%s'", raw.FeedURL)
	}
	// Unset fields are filled from the profile
	if raw.StoreProjectID != "proj1" {
		t.Errorf("Expected project ID 'proj1', got '%s'", raw.StoreProjectID)
	}
	if !raw.SkipImages {
		t.Error("Expected skip images to be enabled by profile")
	}
}

func TestApplyProfileFlagsWinOnEveryField(t *testing.T) {
	raw := rawCfg{
		StoreDataset:    "staging",
		StoreAPIVersion: "2024-01-01",
		LogFilePath:     "./from-flag.log",
		EpisodeDelayMs:  100,
		DryRun:          false,
	}

	dryRun := true
	delay := 2000
	var profile Profile
	profile.Store.Dataset = "production"
	profile.Store.APIVersion = "2021-10-21"
	profile.LogFilePath = "./from-profile.log"
	profile.Options.EpisodeDelayMs = &delay
	profile.Options.DryRun = &dryRun
	profile.FeedURL = "https://example.com/feed.xml"

	provided := providedSet("store-dataset", "store-api-version", "log-file", "episode-delay-ms", "dry-run")
	applyProfile(&raw, &profile, provided)

	if raw.StoreDataset != "staging" {
		t.Errorf("Expected flag dataset 'staging' to win, got '%s'", raw.StoreDataset)
	}
	if raw.StoreAPIVersion != "2024-01-01" {
		t.Errorf("Expected flag API version '2024-01-01' to win, got '%s'", raw.StoreAPIVersion)
	}
	if raw.LogFilePath != "./from-flag.log" {
		t.Errorf("Expected flag log file './from-flag.log' to win, got '%s'", raw.LogFilePath)
	}
	if raw.EpisodeDelayMs != 100 {
		t.Errorf("Expected flag delay 100 to win, got %d", raw.EpisodeDelayMs)
	}
	// An explicit bool flag beats the profile even when the profile says true
	if raw.DryRun {
		t.Error("Expected explicit --dry-run=false to win over the profile")
	}
	// Fields not on the command line still come from the profile
	if raw.FeedURL != "https://example.com/feed.xml" {
		t.Errorf("Expected feed URL from profile, got '%s'", raw.FeedURL)
	}
}
