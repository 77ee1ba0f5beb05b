package tasks

import (
	"fmt"

	"github.com/desertthunder/marquee/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or server layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ParseTitles Phase = iota
	SearchTitles
	MergeResults
	PersistList
	SyncBackend
)

func (p Phase) String() string {
	switch p {
	case ParseTitles:
		return "parse_titles"
	case SearchTitles:
		return "search_titles"
	case MergeResults:
		return "merge_results"
	case PersistList:
		return "persist_list"
	case SyncBackend:
		return "sync_backend"
	default:
		return ""
	}
}

func parseTitlesUpdate(unique, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseTitles,
		Step:    unique,
		Total:   total,
		Message: fmt.Sprintf("Found %d unique titles (%d lines)", unique, total),
	}
}

func searchTitleUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, title),
	}
}

func foundMovieUpdate(step, total int, m *models.Movie) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, m.Title, m.Year()),
		Data:    m,
	}
}

func missingMovieUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTitles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: no match", step, total, title),
	}
}

func mergeUpdate(added, dupes int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeResults,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d movies (%d duplicates skipped)", added, dupes),
	}
}

func persistUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PersistList,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved local list (%d movies)", count),
	}
}

func syncUpdate(resp *models.BackendResponse) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncBackend,
		Step:    1,
		Total:   1,
		Message: resp.Message,
		Data:    resp,
	}
}
