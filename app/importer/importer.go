package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/castsite/feedimport/app/feed"
	"github.com/castsite/feedimport/app/hosts"
	"github.com/castsite/feedimport/app/runlog"
	"github.com/castsite/feedimport/app/store"
)

// Importer reconciles a parsed feed against the content store: it upserts
// the show singleton, then each episode keyed by its feed GUID. Episodes
// are processed strictly sequentially; a failure in one is recorded and
// never aborts the batch.
type Importer struct {
	store  ContentStore
	images ImageUploader
	logger *runlog.Logger
	opts   Options
}

func New(contentStore ContentStore, images ImageUploader, logger *runlog.Logger, opts Options) *Importer {
	return &Importer{
		store:  contentStore,
		images: images,
		logger: logger,
		opts:   opts,
	}
}

// Run executes one import: show upsert, sequential episode upserts, report.
func (im *Importer) Run(ctx context.Context, show *feed.ShowMetadata, episodes []feed.Episode) *Report {
	report := &Report{}

	im.logger.Info(fmt.Sprintf("Importing show %q with %d episodes", show.Title, len(episodes)))
	if im.opts.DryRun {
		im.logger.Info("Dry run: no store writes will be issued")
	}

	report.Show = im.upsertShow(ctx, show)

	started := time.Now()
	for i, episode := range episodes {
		result := im.upsertEpisode(ctx, &episode)
		report.Episodes = append(report.Episodes, result)

		switch {
		case !result.Success:
			report.Failed++
			im.logger.Error(fmt.Sprintf("Episode %q failed: %s", result.Title, result.Error),
				map[string]any{"guid": result.GUID})
		case result.Skipped:
			report.Skipped++
			im.logger.Info(fmt.Sprintf("Episode %q skipped: %s", result.Title, result.SkipReason))
		default:
			report.Imported++
			action := "created"
			if result.Updated {
				action = "updated"
			}
			im.logger.Info(fmt.Sprintf("Episode %q %s", result.Title, action),
				map[string]any{"guid": result.GUID, "id": result.ID})
		}

		// Fixed pacing between episodes, unconditional and independent of
		// outcome, to stay under the store's rate limits.
		if i < len(episodes)-1 && im.opts.EpisodeDelay > 0 {
			time.Sleep(im.opts.EpisodeDelay)
		}
	}
	report.EpisodePhase = time.Since(started)

	return report
}

// upsertShow reconciles the one show document. The store is assumed to
// hold at most one document of the show type; should it ever hold more,
// the first returned is treated as the show.
func (im *Importer) upsertShow(ctx context.Context, show *feed.ShowMetadata) ShowResult {
	result := ShowResult{}

	existing, err := im.store.QueryOne(ctx, `*[_type == $type]`, map[string]string{"type": showType})
	if err != nil {
		result.Error = fmt.Sprintf("failed to query existing show: %v", err)
		im.logger.Error(result.Error)
		return result
	}

	existingID := documentID(existing)

	if existing != nil && !im.opts.UpdateExisting {
		im.logger.Info("Show already exists, skipping (pass update-existing to overwrite)")
		result.Success = true
		result.Skipped = true
		result.ID = existingID
		return result
	}

	doc := ShowDocument{
		Type:        showType,
		Title:       show.Title,
		Description: show.Description,
		Author:      show.Author,
		Copyright:   show.Copyright,
		Language:    show.Language,
		SiteURL:     show.SiteURL,
		Categories:  show.Categories,
		Keywords:    show.Keywords,
		Explicit:    show.Explicit,
		GUID:        show.GUID,
	}

	// An image failure must never fail the show import
	if ref := im.uploadImage(ctx, show.ImageURL, "show cover"); ref != nil {
		doc.Image = ref
	}

	if im.opts.DryRun {
		result.Success = true
		result.Created = existing == nil
		result.Updated = existing != nil
		result.ID = existingID
		im.logger.Info(fmt.Sprintf("Dry run: would %s show %q", createOrUpdate(existing == nil), show.Title))
		return result
	}

	if existing == nil {
		id, err := im.store.Create(ctx, doc)
		if err != nil {
			result.Error = fmt.Sprintf("failed to create show: %v", err)
			im.logger.Error(result.Error)
			return result
		}
		result.Success = true
		result.Created = true
		result.ID = id
		im.logger.Info(fmt.Sprintf("Show %q created", show.Title), map[string]any{"id": id})
		return result
	}

	id, err := im.store.PatchSet(ctx, existingID, doc)
	if err != nil {
		result.Error = fmt.Sprintf("failed to update show: %v", err)
		im.logger.Error(result.Error)
		return result
	}
	result.Success = true
	result.Updated = true
	result.ID = id
	im.logger.Info(fmt.Sprintf("Show %q updated", show.Title), map[string]any{"id": id})
	return result
}

// upsertEpisode reconciles one episode by GUID, the sole dedup key across
// runs. Every failure is captured in the result; nothing propagates.
func (im *Importer) upsertEpisode(ctx context.Context, episode *feed.Episode) EpisodeResult {
	result := EpisodeResult{
		Title: episode.Title,
		GUID:  episode.GUID,
	}

	existing, err := im.store.QueryOne(ctx, `*[_type == $type && guid == $guid]`,
		map[string]string{"type": episodeType, "guid": episode.GUID})
	if err != nil {
		result.Error = fmt.Sprintf("failed to query existing episode: %v", err)
		return result
	}

	existingID := documentID(existing)

	// Preserve manual edits made in the store: no write unless asked to
	if existing != nil && !im.opts.UpdateExisting {
		result.Success = true
		result.Skipped = true
		result.SkipReason = "Already exists"
		result.ID = existingID
		return result
	}

	doc := EpisodeDocument{
		Type:          episodeType,
		Title:         episode.Title,
		Slug:          NewSlug(hosts.Slugify(episode.Title)),
		EpisodeNumber: episode.Number,
		PublishDate:   episode.PublishedAt.Format("2006-01-02"),
		Description:   episode.Description,
		AudioURL:      episode.AudioURL,
		GUID:          episode.GUID,
		Featured:      false,
	}
	if episode.Duration > 0 {
		doc.Duration = hosts.FormatDuration(episode.Duration)
	}

	if ref := im.uploadImage(ctx, episode.ImageURL, fmt.Sprintf("episode %q cover", episode.Title)); ref != nil {
		doc.Image = ref
	}

	if im.opts.DryRun {
		result.Success = true
		result.Created = existing == nil
		result.Updated = existing != nil
		result.ID = existingID
		im.logger.Info(fmt.Sprintf("Dry run: would %s episode %q", createOrUpdate(existing == nil), episode.Title))
		return result
	}

	if existing == nil {
		id, err := im.store.Create(ctx, doc)
		if err != nil {
			result.Error = fmt.Sprintf("failed to create episode: %v", err)
			return result
		}
		result.Success = true
		result.Created = true
		result.ID = id
		return result
	}

	id, err := im.store.PatchSet(ctx, existingID, doc)
	if err != nil {
		result.Error = fmt.Sprintf("failed to update episode: %v", err)
		return result
	}
	result.Success = true
	result.Updated = true
	result.ID = id
	return result
}

// uploadImage fetches and re-hosts a cover image. Failures are degraded,
// not fatal: a warning is logged and the import proceeds without the image.
// Dry runs never upload.
func (im *Importer) uploadImage(ctx context.Context, imageURL, label string) *store.ImageRef {
	if imageURL == "" || im.opts.SkipImages || im.opts.DryRun {
		return nil
	}

	ref, err := im.images.UploadFromURL(ctx, imageURL, "")
	if err != nil {
		im.logger.Warn(fmt.Sprintf("Failed to upload %s, continuing without it: %v", label, err),
			map[string]any{"url": imageURL})
		return nil
	}

	return &ref
}

func documentID(doc map[string]any) string {
	if doc == nil {
		return ""
	}
	if id, ok := doc["_id"].(string); ok {
		return id
	}
	return ""
}

func createOrUpdate(create bool) string {
	if create {
		return "create"
	}
	return "update"
}
