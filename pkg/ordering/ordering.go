// Package ordering computes position renumbering for the ordered lists shared
// by boards, columns and tasks. Within one scope positions are dense: a
// zero-based, gapless, duplicate-free integer sequence. The functions here are
// pure; callers apply the resulting updates inside a single transaction.
package ordering

import (
	"errors"
	"sort"
)

var (
	ErrItemNotFound  = errors.New("item not found in scope")
	ErrInvalidTarget = errors.New("target position out of range")
)

// Item is one member of a scope's ordered list. SortKey breaks ties between
// equal positions during repair; creation order or id both work as long as
// the key is stable.
type Item struct {
	ID       string
	Position int
	SortKey  string
}

// Update assigns a new position to a single item.
type Update struct {
	ID          string
	NewPosition int
}

// ValidateTarget reports whether target is a legal position for a scope of n
// items.
func ValidateTarget(target, n int) error {
	if target < 0 || target >= n {
		return ErrInvalidTarget
	}
	return nil
}

// ComputeReorder returns the minimal set of position updates that moves
// movingID to target. One shift pass covers every case including the
// boundaries (target 0 and target n-1); there are deliberately no special
// branches for them.
func ComputeReorder(items []Item, movingID string, target int) ([]Update, error) {
	if err := ValidateTarget(target, len(items)); err != nil {
		return nil, err
	}

	current := -1
	for _, it := range items {
		if it.ID == movingID {
			current = it.Position
			break
		}
	}
	if current == -1 {
		return nil, ErrItemNotFound
	}

	if target == current {
		return nil, nil
	}

	updates := make([]Update, 0, abs(target-current)+1)
	if target > current {
		// Moving toward the end: everything in (current, target] shifts down.
		for _, it := range items {
			if it.Position > current && it.Position <= target {
				updates = append(updates, Update{ID: it.ID, NewPosition: it.Position - 1})
			}
		}
	} else {
		// Moving toward the front: everything in [target, current) shifts up.
		for _, it := range items {
			if it.Position >= target && it.Position < current {
				updates = append(updates, Update{ID: it.ID, NewPosition: it.Position + 1})
			}
		}
	}
	updates = append(updates, Update{ID: movingID, NewPosition: target})
	return updates, nil
}

// ComputeInsert returns the shifts that open a slot at target for an item
// entering the scope from outside (e.g. a task moving in from another
// column). target may equal len(items): append without shifting.
func ComputeInsert(items []Item, target int) ([]Update, error) {
	if target < 0 || target > len(items) {
		return nil, ErrInvalidTarget
	}
	var updates []Update
	for _, it := range items {
		if it.Position >= target {
			updates = append(updates, Update{ID: it.ID, NewPosition: it.Position + 1})
		}
	}
	return updates, nil
}

// Renumber recomputes dense zero-based positions for an entire scope, keeping
// the relative order given by (Position, SortKey). It is the idempotent
// repair operation: safe to run at any time, and a second run right after a
// first returns no updates.
func Renumber(items []Item) []Update {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Position != sorted[j].Position {
			return sorted[i].Position < sorted[j].Position
		}
		return sorted[i].SortKey < sorted[j].SortKey
	})

	var updates []Update
	for i, it := range sorted {
		if it.Position != i {
			updates = append(updates, Update{ID: it.ID, NewPosition: i})
		}
	}
	return updates
}

// Apply returns a copy of items with updates applied, re-sorted by position.
// Used by callers that need the resulting list without a round-trip to the
// store.
func Apply(items []Item, updates []Update) []Item {
	byID := make(map[string]int, len(updates))
	for _, u := range updates {
		byID[u.ID] = u.NewPosition
	}
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if pos, ok := byID[out[i].ID]; ok {
			out[i].Position = pos
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
