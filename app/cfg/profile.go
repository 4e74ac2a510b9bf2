package cfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile carries per-site import defaults so a website repository can check
// in its feed settings instead of passing flags on every run. Pointer fields
// distinguish "unset" from an explicit false.
type Profile struct {
	FeedURL string `yaml:"feed_url"`
	Store   struct {
		ProjectID  string `yaml:"project_id"`
		Dataset    string `yaml:"dataset"`
		APIVersion string `yaml:"api_version"`
	} `yaml:"store"`
	Options struct {
		DryRun         *bool `yaml:"dry_run"`
		SkipImages     *bool `yaml:"skip_images"`
		UpdateExisting *bool `yaml:"update_existing"`
		EpisodeDelayMs *int  `yaml:"episode_delay_ms"`
	} `yaml:"options"`
	LogFilePath string `yaml:"log_file"`
}

func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &profile, nil
}

// applyProfile fills raw fields from the profile, but only where the flag
// was not explicitly provided on the command line or via the environment:
// flags and environment variables always win over profile values. The
// provided func reports whether the named long option was explicitly set.
// The token deliberately has no profile field: credentials do not belong in
// a checked-in file.
func applyProfile(raw *rawCfg, profile *Profile, provided func(name string) bool) {
	if !provided("feed-url") && profile.FeedURL != "" {
		raw.FeedURL = profile.FeedURL
	}
	if !provided("store-project") && profile.Store.ProjectID != "" {
		raw.StoreProjectID = profile.Store.ProjectID
	}
	if !provided("store-dataset") && profile.Store.Dataset != "" {
		raw.StoreDataset = profile.Store.Dataset
	}
	if !provided("store-api-version") && profile.Store.APIVersion != "" {
		raw.StoreAPIVersion = profile.Store.APIVersion
	}
	if !provided("dry-run") && profile.Options.DryRun != nil {
		raw.DryRun = *profile.Options.DryRun
	}
	if !provided("skip-images") && profile.Options.SkipImages != nil {
		raw.SkipImages = *profile.Options.SkipImages
	}
	if !provided("update-existing") && profile.Options.UpdateExisting != nil {
		raw.UpdateExisting = *profile.Options.UpdateExisting
	}
	if !provided("episode-delay-ms") && profile.Options.EpisodeDelayMs != nil {
		raw.EpisodeDelayMs = *profile.Options.EpisodeDelayMs
	}
	if !provided("log-file") && profile.LogFilePath != "" {
		raw.LogFilePath = profile.LogFilePath
	}
}
