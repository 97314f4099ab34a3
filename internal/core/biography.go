package core

import (
	"context"
	"strings"
	"sync"

	"github.com/guestify/mediakit-ai/internal/content"
)

const TypeBiography = "biography"

var biographyLabels = map[SlotName][]string{
	SlotShort:  {"CONCISE", "PUNCHY", "ENGAGING", "PROFESSIONAL", "MEMORABLE"},
	SlotMedium: {"BALANCED", "STORYTELLING", "AUTHORITATIVE"},
	SlotLong:   {"COMPREHENSIVE", "NARRATIVE"},
}

// BiographyForm is the user input for biography generation. Empty Tone and POV fall back
// to the stored preferences.
type BiographyForm struct {
	Name         string
	Title        string
	Organization string
	Tone         string
	POV          string
	ExistingBio  string
	Notes        string
}

// Biography generates short, medium and long bios, each slot holding its own variations.
// Generating and refining the same slot concurrently is unsupported; the later result wins.
type Biography struct {
	*TypedGenerator[[]content.Variation]

	mu    sync.RWMutex
	form  BiographyForm
	slots *slotMachine
}

// NewBiography returns a biography generator with empty short, medium and long slots.
func NewBiography(deps Deps) *Biography {
	deps = deps.withDefaults()
	return &Biography{
		TypedGenerator: NewTypedGenerator[[]content.Variation](TypeBiography, deps, content.Variations, withSharedContext(deps.Store)),
		slots:          newSlotMachine(biographyLabels),
	}
}

// SetForm replaces the form fields sent with every request.
func (b *Biography) SetForm(f BiographyForm) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = f
}

// Form returns the current form.
func (b *Biography) Form() BiographyForm {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.form
}

// SetActiveSlot selects the slot that lock and refine act on.
func (b *Biography) SetActiveSlot(name SlotName) error { return b.slots.setActive(name) }

// ActiveSlot returns the selected slot name.
func (b *Biography) ActiveSlot() SlotName { return b.slots.activeSlot() }

// Slot returns a copy of the named slot.
func (b *Biography) Slot(name SlotName) Slot { return b.slots.get(name) }

// Slots returns a copy of every slot.
func (b *Biography) Slots() map[SlotName]Slot { return b.slots.all() }

// LockedBios returns the locked text of every locked slot.
func (b *Biography) LockedBios() map[SlotName]string { return b.slots.lockedTexts() }

func (b *Biography) params(slot SlotName) map[string]any {
	f := b.Form()
	prefs := b.Store().Preferences()
	if f.Tone == "" {
		f.Tone = prefs.DefaultTone
	}
	if f.POV == "" {
		f.POV = prefs.DefaultPOV
	}

	p := map[string]any{
		"length":         string(slot),
		"variationCount": VariationCounts[slot],
	}
	setIfPresent(p, "name", f.Name)
	setIfPresent(p, "title", f.Title)
	setIfPresent(p, "organization", f.Organization)
	setIfPresent(p, "tone", f.Tone)
	setIfPresent(p, "pov", f.POV)
	setIfPresent(p, "existingBio", f.ExistingBio)
	setIfPresent(p, "notes", f.Notes)
	return p
}

// GenerateForSlot generates variations for one slot. overrides replace form-derived params.
// On failure the slot is left empty.
func (b *Biography) GenerateForSlot(ctx context.Context, slot SlotName, overrides map[string]any) ([]content.Variation, error) {
	if _, err := b.slots.begin(slot); err != nil {
		return nil, err
	}

	vs, err := b.GenerateParsed(ctx, mergeParams(b.params(slot), overrides), "")
	if err != nil {
		b.slots.fail(slot)
		return nil, err
	}
	return b.slots.succeed(slot, vs), nil
}

// RefineVariations regenerates the active slot from its current drafts and feedback.
// On failure the existing variations stay and only the status is restored.
func (b *Biography) RefineVariations(ctx context.Context, feedback string) ([]content.Variation, error) {
	slot := b.ActiveSlot()
	current := b.slots.get(slot)
	if len(current.Variations) == 0 {
		return nil, ErrNoVariation
	}
	prev, err := b.slots.begin(slot)
	if err != nil {
		return nil, err
	}

	drafts := make([]string, len(current.Variations))
	for i, v := range current.Variations {
		drafts[i] = v.Text
	}
	p := b.params(slot)
	p["action"] = "refine"
	p["currentDrafts"] = drafts
	setIfPresent(p, "refinementFeedback", strings.TrimSpace(feedback))

	vs, err := b.GenerateParsed(ctx, p, "")
	if err != nil {
		b.slots.restore(slot, prev)
		return nil, err
	}
	if len(vs) == 0 {
		b.slots.restore(slot, prev)
		return current.Variations, nil
	}
	return b.slots.succeed(slot, vs), nil
}

// LockBio locks the active slot to the variation at index.
func (b *Biography) LockBio(index int) error {
	_, err := b.slots.lock(b.ActiveSlot(), index)
	return err
}

// UnlockBio unlocks the active slot.
func (b *Biography) UnlockBio() { b.slots.unlock(b.ActiveSlot()) }

// CopyVariation copies one variation of the active slot.
func (b *Biography) CopyVariation(index int) bool {
	s := b.slots.get(b.ActiveSlot())
	if index < 0 || index >= len(s.Variations) {
		return false
	}
	return b.copyText(s.Variations[index].Text)
}

// Reset clears the form, the slots and the engine state.
func (b *Biography) Reset() {
	b.Engine.Reset()
	b.mu.Lock()
	b.form = BiographyForm{}
	b.mu.Unlock()
	b.slots.reset()
}
