package cfg

import "time"

type Cfg struct {
	// Feed configuration
	FeedURL string

	// Content store configuration
	StoreProjectID  string
	StoreDataset    string
	StoreToken      string
	StoreAPIVersion string

	// Import behavior
	DryRun         bool
	SkipImages     bool
	UpdateExisting bool
	EpisodeDelay   time.Duration

	// Logging
	Verbose     bool
	LogFilePath string

	// Application metadata
	UserAgent string
	Version   string
}
