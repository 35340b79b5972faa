package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop/pkg/entity"
)

func post(id string) entity.Post {
	return entity.Post{ID: entity.ConfirmedID(id), UserID: "u1", Description: "d", MediaURL: "m"}
}

func TestDedupe_DropsLaterDuplicates(t *testing.T) {
	in := []entity.Post{post("a"), post("b"), post("a"), post("c"), post("b")}

	out := Dedupe(in)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID.String())
	assert.Equal(t, "b", out[1].ID.String())
	assert.Equal(t, "c", out[2].ID.String())
}

func TestDedupe_OutputIsSubsequenceOfInput(t *testing.T) {
	in := []entity.Post{post("x"), post("y"), post("x"), post("z")}

	out := Dedupe(in)

	// Every output element appears in the input at or after the previous
	// output element's position.
	pos := 0
	for _, item := range out {
		found := false
		for ; pos < len(in); pos++ {
			if in[pos].ID.Equal(item.ID) {
				found = true
				pos++
				break
			}
		}
		require.True(t, found, "output %s must preserve input order", item.ID)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	unique := []entity.Post{post("a"), post("b"), post("c")}

	once := Dedupe(unique)
	twice := Dedupe(once)

	assert.Equal(t, unique, once)
	assert.Equal(t, once, twice)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe([]entity.Post(nil)))
	assert.Empty(t, Dedupe([]entity.Post{}))
}

func TestDedupe_PendingAndConfirmedDistinct(t *testing.T) {
	pending := entity.Post{ID: entity.PendingID(), Description: "staged"}
	in := []entity.Post{pending, post("a"), pending}

	out := Dedupe(in)

	require.Len(t, out, 2)
	assert.True(t, out[0].ID.IsPending())
}

func TestSortLearningNewestFirst(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []entity.LearningEntry{
		{ID: entity.ConfirmedID("old"), Timestamp: now.Add(-48 * time.Hour)},
		{ID: entity.ConfirmedID("new"), Timestamp: now},
		{ID: entity.ConfirmedID("mid"), Timestamp: now.Add(-24 * time.Hour)},
	}

	out := SortLearningNewestFirst(entries)

	require.Len(t, out, 3)
	assert.Equal(t, "new", out[0].ID.String())
	assert.Equal(t, "mid", out[1].ID.String())
	assert.Equal(t, "old", out[2].ID.String())

	// Input untouched.
	assert.Equal(t, "old", entries[0].ID.String())
}

func TestSortByTimeDesc_StableOnTies(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []entity.LearningEntry{
		{ID: entity.ConfirmedID("first"), Timestamp: ts},
		{ID: entity.ConfirmedID("second"), Timestamp: ts},
	}

	out := SortLearningNewestFirst(entries)

	assert.Equal(t, "first", out[0].ID.String())
	assert.Equal(t, "second", out[1].ID.String())
}
