package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scope(ids ...string) []Item {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Position: i, SortKey: id}
	}
	return items
}

func positions(items []Item, updates []Update) map[string]int {
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.ID] = it.Position
	}
	for _, u := range updates {
		out[u.ID] = u.NewPosition
	}
	return out
}

// assertDense checks that the scope's positions are exactly {0..n-1}.
func assertDense(t *testing.T, pos map[string]int) {
	t.Helper()
	seen := make(map[int]string, len(pos))
	for id, p := range pos {
		require.GreaterOrEqual(t, p, 0)
		require.Less(t, p, len(pos))
		if prev, dup := seen[p]; dup {
			t.Fatalf("position %d assigned to both %s and %s", p, prev, id)
		}
		seen[p] = id
	}
}

func TestComputeReorder_MoveDown(t *testing.T) {
	items := scope("a", "b", "c", "d")

	updates, err := ComputeReorder(items, "d", 1)
	require.NoError(t, err)

	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"a": 0, "d": 1, "b": 2, "c": 3}, pos)
	assertDense(t, pos)
}

func TestComputeReorder_MoveUp(t *testing.T) {
	items := scope("a", "b", "c")

	updates, err := ComputeReorder(items, "a", 2)
	require.NoError(t, err)

	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2}, pos)
	assertDense(t, pos)
}

func TestComputeReorder_ToFront(t *testing.T) {
	items := scope("a", "b", "c", "d")

	updates, err := ComputeReorder(items, "c", 0)
	require.NoError(t, err)

	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"c": 0, "a": 1, "b": 2, "d": 3}, pos)
	assertDense(t, pos)
}

func TestComputeReorder_ToBack(t *testing.T) {
	items := scope("a", "b", "c", "d")

	updates, err := ComputeReorder(items, "b", 3)
	require.NoError(t, err)

	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"a": 0, "c": 1, "d": 2, "b": 3}, pos)
	assertDense(t, pos)
}

func TestComputeReorder_NoOp(t *testing.T) {
	items := scope("a", "b", "c")

	updates, err := ComputeReorder(items, "b", 1)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

func TestComputeReorder_MinimalUpdateSet(t *testing.T) {
	items := scope("a", "b", "c", "d", "e")

	// Moving c one slot right touches only c and d.
	updates, err := ComputeReorder(items, "c", 3)
	require.NoError(t, err)
	assert.Len(t, updates, 2)
}

func TestComputeReorder_UnknownItem(t *testing.T) {
	items := scope("a", "b")

	_, err := ComputeReorder(items, "nope", 1)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestComputeReorder_TargetOutOfRange(t *testing.T) {
	items := scope("a", "b", "c")

	_, err := ComputeReorder(items, "a", -1)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = ComputeReorder(items, "a", 3)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestComputeReorder_SingleItemScope(t *testing.T) {
	items := scope("only")

	updates, err := ComputeReorder(items, "only", 0)
	require.NoError(t, err)
	assert.Empty(t, updates)
}

// Every (item, target) pair over a few scope sizes must keep positions dense.
func TestComputeReorder_DensityExhaustive(t *testing.T) {
	for n := 1; n <= 6; n++ {
		ids := []string{"a", "b", "c", "d", "e", "f"}[:n]
		for _, moving := range ids {
			for target := 0; target < n; target++ {
				items := scope(ids...)
				updates, err := ComputeReorder(items, moving, target)
				require.NoError(t, err)
				pos := positions(items, updates)
				assertDense(t, pos)
				assert.Equal(t, target, pos[moving])
			}
		}
	}
}

func TestComputeInsert(t *testing.T) {
	items := scope("a", "b", "c")

	updates, err := ComputeInsert(items, 1)
	require.NoError(t, err)
	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"a": 0, "b": 2, "c": 3}, pos)

	// Appending opens no slot.
	updates, err = ComputeInsert(items, 3)
	require.NoError(t, err)
	assert.Empty(t, updates)

	_, err = ComputeInsert(items, 4)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = ComputeInsert(items, -1)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestRenumber_RepairsCorruptedScope(t *testing.T) {
	// Duplicated and gapped positions, tie broken by SortKey: x < y < z.
	items := []Item{
		{ID: "z", Position: 3, SortKey: "z"},
		{ID: "x", Position: 0, SortKey: "x"},
		{ID: "y", Position: 0, SortKey: "y"},
	}

	updates := Renumber(items)
	pos := positions(items, updates)
	assert.Equal(t, map[string]int{"x": 0, "y": 1, "z": 2}, pos)
	assertDense(t, pos)
}

func TestRenumber_Idempotent(t *testing.T) {
	items := []Item{
		{ID: "b", Position: 5, SortKey: "b"},
		{ID: "a", Position: 2, SortKey: "a"},
		{ID: "c", Position: 9, SortKey: "c"},
	}

	first := Renumber(items)
	repaired := Apply(items, first)

	second := Renumber(repaired)
	assert.Empty(t, second)

	// Relative order is preserved across repair.
	assert.Equal(t, "a", repaired[0].ID)
	assert.Equal(t, "b", repaired[1].ID)
	assert.Equal(t, "c", repaired[2].ID)
}

func TestRenumber_CleanScopeReturnsNothing(t *testing.T) {
	assert.Empty(t, Renumber(scope("a", "b", "c")))
}

func TestApply(t *testing.T) {
	items := scope("a", "b", "c")
	updates, err := ComputeReorder(items, "c", 0)
	require.NoError(t, err)

	result := Apply(items, updates)
	assert.Equal(t, "c", result[0].ID)
	assert.Equal(t, "a", result[1].ID)
	assert.Equal(t, "b", result[2].ID)
}
