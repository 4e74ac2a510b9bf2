package importer

import (
	"fmt"
	"strings"
	"time"
)

// Report aggregates the outcome of one import run. Imported counts
// successful non-skipped episodes; a partial success is always
// distinguishable from a total failure.
type Report struct {
	Show         ShowResult
	Episodes     []EpisodeResult
	Imported     int
	Skipped      int
	Failed       int
	EpisodePhase time.Duration
}

// FailedEpisodes returns the episodes that produced a failure result.
func (r *Report) FailedEpisodes() []EpisodeResult {
	var failed []EpisodeResult
	for _, episode := range r.Episodes {
		if !episode.Success {
			failed = append(failed, episode)
		}
	}
	return failed
}

// Render formats the final textual report.
func (r *Report) Render() string {
	var b strings.Builder

	b.WriteString("Import report\n")
	b.WriteString(fmt.Sprintf("  Show: %s\n", r.showLine()))
	b.WriteString(fmt.Sprintf("  Episodes: %d imported, %d skipped, %d failed (%d total in %s)\n",
		r.Imported, r.Skipped, r.Failed, len(r.Episodes), r.EpisodePhase.Round(time.Millisecond)))

	if failed := r.FailedEpisodes(); len(failed) > 0 {
		b.WriteString("  Failed episodes:\n")
		for _, episode := range failed {
			b.WriteString(fmt.Sprintf("    - %s: %s\n", episode.Title, episode.Error))
		}
	}

	return b.String()
}

func (r *Report) showLine() string {
	switch {
	case !r.Show.Success:
		return fmt.Sprintf("FAILED (%s)", r.Show.Error)
	case r.Show.Skipped:
		return "skipped (already exists)"
	case r.Show.Created:
		return fmt.Sprintf("created (%s)", r.Show.ID)
	case r.Show.Updated:
		return fmt.Sprintf("updated (%s)", r.Show.ID)
	default:
		return "ok"
	}
}
