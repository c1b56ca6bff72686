package tasks

import (
	"fmt"

	"github.com/desertthunder/wrlog/internal/models"
)

// ProgressUpdate represents a progress event during an update run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadState Phase = iota
	FetchLevels
	ReconcileSnapshots
	DiffChangelist
	SaveState
)

func (p Phase) String() string {
	switch p {
	case LoadState:
		return "load_state"
	case FetchLevels:
		return "fetch_levels"
	case ReconcileSnapshots:
		return "reconcile"
	case DiffChangelist:
		return "diff_changelist"
	case SaveState:
		return "save_state"
	default:
		return ""
	}
}

func loadStateUpdate(snapshots, entries int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadState,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d snapshots and %d changelist entries", snapshots, entries),
	}
}

func fetchedLevelUpdate(step int, snap *models.LevelSnapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLevels,
		Step:    step,
		Message: fmt.Sprintf("Fetched level %s (%v)", snap.Name, snap.Mode),
		Data:    snap,
	}
}

func truncatedUpdate(step int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLevels,
		Step:    step,
		Message: "Skipping some levels that took too long to fetch",
	}
}

func reconcileUpdate(fresh, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReconcileSnapshots,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Reconciled %d fresh snapshots into %d", fresh, total),
	}
}

func diffUpdate(appended models.Changelist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiffChangelist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d new records", len(appended)),
		Data:    appended,
	}
}

func saveUpdate(step int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveState,
		Step:    step,
		Total:   2,
		Message: fmt.Sprintf("Saving %s...", what),
	}
}

// sendProgress sends an update without blocking when the receiver is slow or absent.
func sendProgress(ch chan<- ProgressUpdate, update ProgressUpdate) {
	if ch == nil {
		return
	}
	select {
	case ch <- update:
	default:
	}
}
