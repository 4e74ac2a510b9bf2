package importer

import (
	"context"
	"time"

	"github.com/castsite/feedimport/app/store"
)

// ContentStore is the minimal contract the orchestrator is written against.
// Any document store exposing these operations is interchangeable; in
// production it is *store.Client.
type ContentStore interface {
	QueryOne(ctx context.Context, query string, params map[string]string) (map[string]any, error)
	Create(ctx context.Context, doc any) (string, error)
	PatchSet(ctx context.Context, id string, fields any) (string, error)
}

// ImageUploader re-hosts a cover image and returns a document reference.
type ImageUploader interface {
	UploadFromURL(ctx context.Context, url, filename string) (store.ImageRef, error)
}

// Options are immutable for the duration of one run.
type Options struct {
	DryRun         bool
	SkipImages     bool
	UpdateExisting bool
	EpisodeDelay   time.Duration
}

// ShowResult is the outcome of the show upsert. It is always produced,
// even when the underlying store call fails.
type ShowResult struct {
	Success bool
	Created bool
	Updated bool
	Skipped bool
	ID      string
	Error   string
}

// EpisodeResult is the outcome of one episode upsert.
type EpisodeResult struct {
	Title      string
	GUID       string
	Success    bool
	Created    bool
	Updated    bool
	Skipped    bool
	SkipReason string
	ID         string
	Error      string
}

// Store document shapes.

type Slug struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

func NewSlug(current string) Slug {
	return Slug{Type: "slug", Current: current}
}

type ShowDocument struct {
	Type        string          `json:"_type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Author      string          `json:"author,omitempty"`
	Copyright   string          `json:"copyright,omitempty"`
	Language    string          `json:"language,omitempty"`
	SiteURL     string          `json:"siteUrl,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Explicit    bool            `json:"explicit"`
	GUID        string          `json:"guid,omitempty"`
	Image       *store.ImageRef `json:"image,omitempty"`
}

type EpisodeDocument struct {
	Type          string          `json:"_type"`
	Title         string          `json:"title"`
	Slug          Slug            `json:"slug"`
	EpisodeNumber *int            `json:"episodeNumber,omitempty"`
	PublishDate   string          `json:"publishDate"`
	Duration      string          `json:"duration,omitempty"`
	Description   string          `json:"description,omitempty"`
	AudioURL      string          `json:"audioUrl"`
	GUID          string          `json:"guid"`
	Image         *store.ImageRef `json:"image,omitempty"`
	Featured      bool            `json:"featured"`
}

const (
	showType    = "show"
	episodeType = "episode"
)
