package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Feed configuration
	FeedURL string `long:"feed-url" env:"FEED_URL" description:"Podcast RSS feed URL"`
	Profile string `long:"profile" env:"IMPORT_PROFILE" description:"Path to a YAML import profile with feed URL and option defaults"`

	// Content store configuration
	StoreProjectID  string `long:"store-project" env:"STORE_PROJECT_ID" description:"Content store project ID (required)"`
	StoreDataset    string `long:"store-dataset" env:"STORE_DATASET" default:"production" description:"Content store dataset"`
	StoreToken      string `long:"store-token" env:"STORE_TOKEN" description:"Content store write token (required)"`
	StoreAPIVersion string `long:"store-api-version" env:"STORE_API_VERSION" default:"2021-10-21" description:"Content store API version"`

	// Import behavior
	DryRun         bool `long:"dry-run" env:"DRY_RUN" description:"Report intended changes without writing to the store"`
	SkipImages     bool `long:"skip-images" env:"SKIP_IMAGES" description:"Do not download or upload cover images"`
	UpdateExisting bool `long:"update-existing" env:"UPDATE_EXISTING" description:"Update show and episodes that already exist in the store"`
	EpisodeDelayMs int  `long:"episode-delay-ms" env:"EPISODE_DELAY_MS" default:"500" description:"Fixed delay between episode upserts in milliseconds"`

	// Logging
	Verbose     bool   `long:"verbose" short:"v" env:"VERBOSE" description:"Print info and warning entries to the console"`
	LogFilePath string `long:"log-file" env:"LOG_FILE" default:"./import.log" description:"Path to the run log file (empty disables file logging)"`

	// Application metadata
	UserAgent   string `long:"user-agent" env:"USER_AGENT" default:"Feed Import/1.0" description:"User agent string for HTTP requests"`
	ShowVersion bool   `long:"version" description:"Print version and exit"`
}

// Load parses command-line flags and environment variables, merges in the
// optional YAML import profile, and returns the run configuration. Flags
// and environment variables win over profile values. Returns (nil, nil)
// when help or the version was requested.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.ShowVersion {
		fmt.Println("feedimport " + GetVersion())
		return nil, nil
	}

	if raw.Profile != "" {
		profile, err := LoadProfile(raw.Profile)
		if err != nil {
			return nil, fmt.Errorf("failed to load import profile: %w", err)
		}
		// Defaulted options do not count as provided, so a profile can
		// still override them
		provided := func(name string) bool {
			opt := parser.FindOptionByLongName(name)
			return opt != nil && opt.IsSet() && !opt.IsSetDefault()
		}
		applyProfile(&raw, profile, provided)
	}

	cfg := &Cfg{
		FeedURL:         raw.FeedURL,
		StoreProjectID:  raw.StoreProjectID,
		StoreDataset:    raw.StoreDataset,
		StoreToken:      raw.StoreToken,
		StoreAPIVersion: raw.StoreAPIVersion,
		DryRun:          raw.DryRun,
		SkipImages:      raw.SkipImages,
		UpdateExisting:  raw.UpdateExisting,
		EpisodeDelay:    time.Duration(raw.EpisodeDelayMs) * time.Millisecond,
		Verbose:         raw.Verbose,
		LogFilePath:     raw.LogFilePath,
		UserAgent:       raw.UserAgent,
		Version:         GetVersion(),
	}

	if cfg.FeedURL == "" {
		return nil, fmt.Errorf("feed URL is required (set --feed-url or a profile)")
	}

	return cfg, nil
}
