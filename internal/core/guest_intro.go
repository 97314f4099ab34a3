package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/guestify/mediakit-ai/internal/content"
)

const TypeGuestIntro = "guest_intro"

const (
	refinedSuffix     = " (Refined)"
	profileIntroLabel = "From Profile"
)

// GuestIntroTones and GuestIntroHookStyles are the accepted form values.
var (
	GuestIntroTones      = []string{"professional", "conversational", "warm", "authoritative"}
	GuestIntroHookStyles = []string{"question", "statistic", "problem", "authority"}
)

// Profile fields holding existing introductions, per slot.
var introProfileFields = map[SlotName]string{
	SlotShort:  "introduction_short",
	SlotMedium: "introduction",
	SlotLong:   "introduction_long",
}

type GuestIntroForm struct {
	GuestName    string
	GuestTitle   string
	EpisodeTitle string
	Topic        string
	Tone         string
	HookStyle    string
	Notes        string
}

// GuestIntro generates podcast guest introductions in three lengths.
type GuestIntro struct {
	*TypedGenerator[[]content.Variation]

	mu    sync.RWMutex
	form  GuestIntroForm
	slots *slotMachine
}

// NewGuestIntro returns a guest intro generator with professional tone and a question hook.
func NewGuestIntro(deps Deps) *GuestIntro {
	deps = deps.withDefaults()
	return &GuestIntro{
		TypedGenerator: NewTypedGenerator[[]content.Variation](TypeGuestIntro, deps, content.Variations, withSharedContext(deps.Store)),
		form:           GuestIntroForm{Tone: "professional", HookStyle: "question"},
		slots:          newSlotMachine(nil),
	}
}

// SetForm replaces the form. Unknown tones and hook styles are rejected.
func (g *GuestIntro) SetForm(f GuestIntroForm) error {
	if f.Tone != "" && !slices.Contains(GuestIntroTones, f.Tone) {
		return fmt.Errorf("unknown tone %q", f.Tone)
	}
	if f.HookStyle != "" && !slices.Contains(GuestIntroHookStyles, f.HookStyle) {
		return fmt.Errorf("unknown hook style %q", f.HookStyle)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.form = f
	return nil
}

// Form returns the current form.
func (g *GuestIntro) Form() GuestIntroForm {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.form
}

// CanGenerate reports whether the form names the guest and gives some context.
func (g *GuestIntro) CanGenerate() bool {
	f := g.Form()
	hasName := strings.TrimSpace(f.GuestName) != ""
	hasContext := strings.TrimSpace(f.GuestTitle) != "" ||
		strings.TrimSpace(f.Topic) != "" ||
		g.Store().HasValidAuthorityHook()
	return hasName && hasContext
}

// SetActiveSlot selects the slot that lock and refine act on.
func (g *GuestIntro) SetActiveSlot(name SlotName) error { return g.slots.setActive(name) }

// ActiveSlot returns the selected slot name.
func (g *GuestIntro) ActiveSlot() SlotName { return g.slots.activeSlot() }

// Slot returns a copy of the named slot.
func (g *GuestIntro) Slot(name SlotName) Slot { return g.slots.get(name) }

// Slots returns a copy of every slot.
func (g *GuestIntro) Slots() map[SlotName]Slot { return g.slots.all() }

// LockedIntros maps each locked slot to its text.
func (g *GuestIntro) LockedIntros() map[SlotName]string { return g.slots.lockedTexts() }

// Introduction is the locked text of the active slot, else its first variation.
func (g *GuestIntro) Introduction() string {
	s := g.slots.get(g.ActiveSlot())
	if s.Locked {
		return s.LockedText
	}
	if len(s.Variations) > 0 {
		return s.Variations[0].Text
	}
	return ""
}

func (g *GuestIntro) params(slot SlotName) map[string]any {
	f := g.Form()
	intro := g.Store().ImpactIntro()
	p := map[string]any{
		"length":         string(slot),
		"variationCount": VariationCounts[slot],
	}
	setIfPresent(p, "guestName", f.GuestName)
	setIfPresent(p, "guestTitle", f.GuestTitle)
	setIfPresent(p, "episodeTitle", f.EpisodeTitle)
	setIfPresent(p, "topic", f.Topic)
	setIfPresent(p, "tone", f.Tone)
	setIfPresent(p, "hookStyle", f.HookStyle)
	setIfPresent(p, "notes", f.Notes)
	setIfPresent(p, "achievements", strings.Join(intro.Achievements, ", "))
	return p
}

// GenerateForSlot generates variations for one slot. On failure the slot is left empty.
func (g *GuestIntro) GenerateForSlot(ctx context.Context, slot SlotName, overrides map[string]any, override AuthContext) ([]content.Variation, error) {
	if _, err := g.slots.begin(slot); err != nil {
		return nil, err
	}
	vs, err := g.GenerateParsed(ctx, mergeParams(g.params(slot), overrides), override)
	if err != nil {
		g.slots.fail(slot)
		return nil, err
	}
	return g.slots.succeed(slot, vs), nil
}

// RefineVariation rewrites one variation of the active slot following instructions.
// Blank instructions are a no-op.
func (g *GuestIntro) RefineVariation(ctx context.Context, index int, instructions string) (content.Variation, error) {
	slot := g.ActiveSlot()
	s := g.slots.get(slot)
	if index < 0 || index >= len(s.Variations) {
		return content.Variation{}, fmt.Errorf("%w: %d", ErrNoVariation, index)
	}
	original := s.Variations[index]
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return original, nil
	}

	p := map[string]any{
		"action":                 "refine",
		"currentDraft":           original.Text,
		"refinementInstructions": instructions,
		"length":                 string(slot),
		"variationCount":         1,
	}
	setIfPresent(p, "tone", g.Form().Tone)

	vs, err := g.GenerateParsed(ctx, p, "")
	if err != nil {
		return content.Variation{}, err
	}
	if len(vs) == 0 {
		return original, nil
	}

	refined := original
	refined.Text = vs[0].Text
	refined.WordCount = vs[0].WordCount
	if !strings.HasSuffix(refined.Label, refinedSuffix) {
		refined.Label += refinedSuffix
	}
	if err := g.slots.replace(slot, index, refined); err != nil {
		return content.Variation{}, err
	}
	return refined, nil
}

// LockVariation locks the active slot to the variation at index.
func (g *GuestIntro) LockVariation(index int) error {
	_, err := g.slots.lock(g.ActiveSlot(), index)
	return err
}

// UnlockSlot unlocks the active slot.
func (g *GuestIntro) UnlockSlot() { g.slots.unlock(g.ActiveSlot()) }

// CopyVariation copies one variation of the active slot.
func (g *GuestIntro) CopyVariation(index int) bool {
	s := g.slots.get(g.ActiveSlot())
	if index < 0 || index >= len(s.Variations) {
		return false
	}
	return g.copyText(s.Variations[index].Text)
}

// CopyLockedIntro copies the locked text of the active slot.
func (g *GuestIntro) CopyLockedIntro() bool {
	s := g.slots.get(g.ActiveSlot())
	if !s.Locked {
		return false
	}
	return g.copyText(s.LockedText)
}

// LoadFromProfileData fills the guest name and title and locks every slot that already
// has an introduction in the profile.
func (g *GuestIntro) LoadFromProfileData(data map[string]any) {
	if data == nil {
		return
	}

	g.mu.Lock()
	name := strings.TrimSpace(profileString(data, "first_name") + " " + profileString(data, "last_name"))
	if name != "" {
		g.form.GuestName = name
	}
	if title := profileString(data, "guest_title", "title"); title != "" {
		g.form.GuestTitle = title
	}
	g.mu.Unlock()

	for _, slot := range SlotNames {
		if text := profileString(data, introProfileFields[slot]); text != "" {
			g.slots.lockText(slot, profileIntroLabel, text)
		}
	}
}

// ProfileSaveData returns the locked introductions keyed by their profile field.
func (g *GuestIntro) ProfileSaveData() map[string]string {
	out := make(map[string]string)
	for slot, text := range g.slots.lockedTexts() {
		out[introProfileFields[slot]] = text
	}
	return out
}

// Reset clears the form, the slots and the engine state.
func (g *GuestIntro) Reset() {
	g.Engine.Reset()
	g.mu.Lock()
	g.form = GuestIntroForm{Tone: "professional", HookStyle: "question"}
	g.mu.Unlock()
	g.slots.reset()
}

// profileString returns the first non-blank string among keys.
func profileString(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
