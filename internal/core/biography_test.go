package core

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeBios = "OPTION 1: Jane Doe is a leadership coach who helps founders scale.\n" +
	"OPTION 2 (Bold): Jane Doe turns first-time founders into confident CEOs.\n" +
	"OPTION 3: Jane Doe has coached more than 200 founders through growth."

func newTestBiography(t *testing.T) (*Biography, *fakeBackend) {
	t.Helper()
	b := newFakeBackend(t)
	deps, _ := b.deps(true)
	bio := NewBiography(deps)
	bio.SetForm(BiographyForm{Name: "Jane Doe", Title: "Coach"})
	return bio, b
}

func TestBiographySlotLifecycle(t *testing.T) {
	bio, b := newTestBiography(t)
	ctx := context.Background()

	assert.Equal(t, SlotShort, bio.ActiveSlot())
	assert.Equal(t, StatusEmpty, bio.Slot(SlotShort).Status)

	b.succeed(threeBios, nil)
	vs, err := bio.GenerateForSlot(ctx, SlotShort, nil)
	require.NoError(t, err)
	require.Len(t, vs, 3)
	assert.Equal(t, "CONCISE", vs[0].Label)
	assert.Equal(t, "BOLD", vs[1].Label)
	assert.Equal(t, "ENGAGING", vs[2].Label)
	assert.Equal(t, 1, vs[0].ID)

	params := b.last().Body["params"].(map[string]any)
	assert.Equal(t, "short", params["length"])
	assert.EqualValues(t, 5, params["variationCount"])
	assert.Equal(t, "professional", params["tone"])
	assert.Equal(t, "third", params["pov"])

	slot := bio.Slot(SlotShort)
	assert.Equal(t, StatusHasVariations, slot.Status)

	require.NoError(t, bio.LockBio(1))
	slot = bio.Slot(SlotShort)
	assert.Equal(t, StatusLocked, slot.Status)
	assert.True(t, slot.Locked)
	assert.Equal(t, "BOLD", slot.LockedLabel)
	assert.Equal(t, map[SlotName]string{SlotShort: vs[1].Text}, bio.LockedBios())

	calls := b.calls.Load()
	_, err = bio.GenerateForSlot(ctx, SlotShort, nil)
	require.ErrorIs(t, err, ErrSlotLocked)
	assert.Equal(t, calls, b.calls.Load())

	bio.UnlockBio()
	slot = bio.Slot(SlotShort)
	assert.Equal(t, StatusHasVariations, slot.Status)
	assert.False(t, slot.Locked)
	assert.Empty(t, bio.LockedBios())

	require.ErrorIs(t, bio.LockBio(7), ErrNoVariation)
}

func TestBiographyVariationCountIsCapped(t *testing.T) {
	bio, b := newTestBiography(t)
	require.NoError(t, bio.SetActiveSlot(SlotLong))

	b.succeed(threeBios, nil)
	vs, err := bio.GenerateForSlot(context.Background(), SlotLong, nil)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "COMPREHENSIVE", vs[0].Label)
}

func TestBiographyUnknownSlot(t *testing.T) {
	bio, _ := newTestBiography(t)
	require.ErrorIs(t, bio.SetActiveSlot("huge"), ErrUnknownSlot)
	_, err := bio.GenerateForSlot(context.Background(), "huge", nil)
	require.ErrorIs(t, err, ErrUnknownSlot)
}

func TestBiographyGenerateFailureEmptiesSlot(t *testing.T) {
	bio, b := newTestBiography(t)
	b.respond(http.StatusInternalServerError, map[string]any{"success": false, "message": "boom"})

	_, err := bio.GenerateForSlot(context.Background(), SlotMedium, nil)
	require.Error(t, err)
	slot := bio.Slot(SlotMedium)
	assert.Equal(t, StatusEmpty, slot.Status)
	assert.Empty(t, slot.Variations)
	assert.Equal(t, "boom", bio.LastError())
}

func TestBiographyRefine(t *testing.T) {
	bio, b := newTestBiography(t)
	ctx := context.Background()

	_, err := bio.RefineVariations(ctx, "shorter")
	require.ErrorIs(t, err, ErrNoVariation)

	b.succeed(threeBios, nil)
	original, err := bio.GenerateForSlot(ctx, SlotShort, nil)
	require.NoError(t, err)

	b.respond(http.StatusInternalServerError, map[string]any{"success": false, "message": "refine failed"})
	_, err = bio.RefineVariations(ctx, "make it warmer")
	require.Error(t, err)
	slot := bio.Slot(SlotShort)
	assert.Equal(t, StatusHasVariations, slot.Status)
	assert.Equal(t, original, slot.Variations)

	b.succeed("OPTION 1: A warmer Jane Doe bio for founders.\nOPTION 2: Another warm Jane Doe bio.", nil)
	refined, err := bio.RefineVariations(ctx, "make it warmer")
	require.NoError(t, err)
	require.Len(t, refined, 2)
	assert.Contains(t, refined[0].Text, "warmer")

	params := b.last().Body["params"].(map[string]any)
	assert.Equal(t, "refine", params["action"])
	assert.Equal(t, "make it warmer", params["refinementFeedback"])
	assert.Len(t, params["currentDrafts"], 3)
	assert.Equal(t, refined, bio.Slot(SlotShort).Variations)
}

func TestBiographyCopyAndReset(t *testing.T) {
	b := newFakeBackend(t)
	deps, clip := b.deps(true)
	bio := NewBiography(deps)
	bio.SetForm(BiographyForm{Name: "Jane Doe"})

	b.succeed(threeBios, nil)
	vs, err := bio.GenerateForSlot(context.Background(), SlotShort, nil)
	require.NoError(t, err)

	assert.True(t, bio.CopyVariation(0))
	assert.Equal(t, vs[0].Text, clip.Text())
	assert.False(t, bio.CopyVariation(9))

	bio.Reset()
	assert.Equal(t, BiographyForm{}, bio.Form())
	assert.Equal(t, StatusEmpty, bio.Slot(SlotShort).Status)
	assert.False(t, bio.HasContent())
}
