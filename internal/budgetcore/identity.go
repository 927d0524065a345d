package budgetcore

import (
	"strings"

	"github.com/google/uuid"
)

// EnsureRowIDs gives every row a non-empty unique identifier. Rows already
// carrying one keep it, so the operation is idempotent.
func EnsureRowIDs(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if strings.TrimSpace(r.RID) == "" {
			r.RID = uuid.New().String()
		}
		out[i] = r
	}
	return out
}

// Merge folds edits and deletions into an existing row set, keyed entirely
// by row identifier. Deletions apply first; each edited row then fully
// replaces the existing row sharing its identifier, and edited rows with no
// match are appended as new rows. Untouched rows keep their position.
func Merge(existing, edited []Row, deleteIDs []string) []Row {
	drop := make(map[string]bool, len(deleteIDs))
	for _, id := range deleteIDs {
		drop[id] = true
	}

	merged := make([]Row, 0, len(existing)+len(edited))
	pos := make(map[string]int, len(existing))
	for _, r := range existing {
		if drop[r.RID] {
			continue
		}
		pos[r.RID] = len(merged)
		merged = append(merged, r)
	}
	for _, e := range edited {
		if drop[e.RID] {
			continue
		}
		if i, ok := pos[e.RID]; ok {
			merged[i] = e
		} else {
			pos[e.RID] = len(merged)
			merged = append(merged, e)
		}
	}
	return merged
}
