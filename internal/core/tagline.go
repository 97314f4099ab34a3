package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/guestify/mediakit-ai/internal/aistore"
	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	TypeTagline         = "tagline"
	defaultTaglineCount = 10
	maxTaglines         = 10
)

var (
	TaglineStyles  = []string{"problem", "solution", "outcome", "authority"}
	TaglineTones   = []string{"bold", "professional", "clever", "inspirational"}
	TaglineIntents = []string{"brand", "podcast", "course"}
)

// TaglineForm is the tagline input beyond the shared authority hook.
type TaglineForm struct {
	Name             string
	Industry         string
	UniqueFactor     string
	ExistingTaglines string
	StyleFocus       string
	Tone             string
	Intent           string
	Count            int
}

// RefinementRound is one refine call: the taglines it started from and the feedback given.
type RefinementRound struct {
	Taglines []string `json:"taglines"`
	Feedback string   `json:"feedback"`
}

// Tagline generates tagline options and tracks which one is selected and locked.
type Tagline struct {
	*TypedGenerator[[]string]

	mu          sync.RWMutex
	form        TaglineForm
	taglines    []string
	selected    int
	locked      string
	history     []RefinementRound
	generations int
}

func parseTaglines(c content.Content) []string { return content.Taglines(c, maxTaglines) }

// NewTagline returns a tagline generator with the default form.
func NewTagline(deps Deps) *Tagline {
	deps = deps.withDefaults()
	return &Tagline{
		TypedGenerator: NewTypedGenerator[[]string](TypeTagline, deps, parseTaglines, withSharedContext(deps.Store)),
		form:           defaultTaglineForm(),
		selected:       -1,
	}
}

func defaultTaglineForm() TaglineForm {
	return TaglineForm{StyleFocus: "outcome", Intent: "brand", Count: defaultTaglineCount}
}

// SetForm replaces the form. Unknown styles, tones and intents are rejected.
func (t *Tagline) SetForm(f TaglineForm) error {
	if f.StyleFocus != "" && !slices.Contains(TaglineStyles, f.StyleFocus) {
		return fmt.Errorf("unknown style focus %q", f.StyleFocus)
	}
	if f.Tone != "" && !slices.Contains(TaglineTones, f.Tone) {
		return fmt.Errorf("unknown tone %q", f.Tone)
	}
	if f.Intent != "" && !slices.Contains(TaglineIntents, f.Intent) {
		return fmt.Errorf("unknown intent %q", f.Intent)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.form = f
	return nil
}

// Form returns the current form.
func (t *Tagline) Form() TaglineForm {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.form
}

// SetTone sets the form tone and saves it as the default tone preference.
func (t *Tagline) SetTone(tone string) error {
	if !slices.Contains(TaglineTones, tone) {
		return fmt.Errorf("unknown tone %q", tone)
	}
	t.mu.Lock()
	t.form.Tone = tone
	t.mu.Unlock()
	t.Store().UpdatePreferences(aistore.PreferencesPatch{DefaultTone: &tone})
	return nil
}

func (t *Tagline) params() map[string]any {
	f := t.Form()
	if f.Tone == "" {
		f.Tone = t.Store().Preferences().DefaultTone
	}
	if f.Count <= 0 {
		f.Count = defaultTaglineCount
	}

	p := map[string]any{"count": f.Count}
	hook := t.Store().AuthorityHook()
	for _, field := range aistore.AuthorityHookFields {
		v, _ := hook.Get(field)
		setIfPresent(p, field, v)
	}
	setIfPresent(p, "name", f.Name)
	setIfPresent(p, "industry", f.Industry)
	setIfPresent(p, "uniqueFactor", f.UniqueFactor)
	setIfPresent(p, "existingTaglines", f.ExistingTaglines)
	setIfPresent(p, "styleFocus", f.StyleFocus)
	setIfPresent(p, "tone", f.Tone)
	setIfPresent(p, "intent", f.Intent)
	return p
}

// Generate produces a fresh set of taglines. The selection and refinement history reset.
func (t *Tagline) Generate(ctx context.Context, overrides map[string]any, override AuthContext) ([]string, error) {
	out, err := t.GenerateParsed(ctx, mergeParams(t.params(), overrides), override)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.taglines = out
	t.selected = -1
	t.history = nil
	t.generations++
	return slices.Clone(out), nil
}

// Refine regenerates from the current taglines and feedback. Blank feedback, or nothing
// to refine, is a no-op.
func (t *Tagline) Refine(ctx context.Context, feedback string, override AuthContext) ([]string, error) {
	feedback = strings.TrimSpace(feedback)
	current := t.Taglines()
	if feedback == "" || len(current) == 0 {
		return current, nil
	}

	p := t.params()
	p["previousTaglines"] = current
	p["refinementFeedback"] = feedback

	out, err := t.GenerateParsed(ctx, p, override)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, RefinementRound{Taglines: current, Feedback: feedback})
	t.taglines = out
	t.selected = -1
	return slices.Clone(out), nil
}

// Taglines returns the latest generated taglines.
func (t *Tagline) Taglines() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.taglines)
}

// RefinementHistory lists earlier rounds of the current refinement loop, oldest first.
func (t *Tagline) RefinementHistory() []RefinementRound {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.history)
}

// GenerationCount counts successful generations since the last reset.
func (t *Tagline) GenerationCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generations
}

// Select marks the tagline at index as selected.
func (t *Tagline) Select(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.taglines) {
		return false
	}
	t.selected = index
	return true
}

// SelectNext and SelectPrevious move the selection, wrapping around.
func (t *Tagline) SelectNext() { t.step(1) }

// SelectPrevious moves the selection back one, wrapping to the last tagline.
func (t *Tagline) SelectPrevious() { t.step(-1) }

func (t *Tagline) step(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.taglines)
	if n == 0 {
		return
	}
	if t.selected < 0 {
		if delta > 0 {
			t.selected = 0
		} else {
			t.selected = n - 1
		}
		return
	}
	t.selected = ((t.selected+delta)%n + n) % n
}

// Selected returns the selected tagline and its index, or -1.
func (t *Tagline) Selected() (string, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.selected < 0 || t.selected >= len(t.taglines) {
		return "", -1
	}
	return t.taglines[t.selected], t.selected
}

// Lock pins the tagline at index as the chosen one.
func (t *Tagline) Lock(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.taglines) {
		return fmt.Errorf("%w: %d", ErrNoVariation, index)
	}
	t.locked = t.taglines[index]
	return nil
}

// LockSelected locks the current selection.
func (t *Tagline) LockSelected() error {
	_, idx := t.Selected()
	return t.Lock(idx)
}

// Unlock clears the locked tagline.
func (t *Tagline) Unlock() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked = ""
}

// Locked returns the locked tagline, or "".
func (t *Tagline) Locked() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locked
}

// IsLocked reports whether the tagline at index is the locked one.
func (t *Tagline) IsLocked(index int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.locked != "" && index >= 0 && index < len(t.taglines) && t.taglines[index] == t.locked
}

// CopySelected copies the selected tagline, else the locked one.
func (t *Tagline) CopySelected() bool {
	text, _ := t.Selected()
	if text == "" {
		text = t.Locked()
	}
	return t.copyText(text)
}

// LoadFromProfile fills the shared hook and locks the saved tagline.
func (t *Tagline) LoadFromProfile(data map[string]any) {
	if data == nil {
		return
	}
	t.Store().LoadFromProfileData(data)
	if where := profileString(data, "impact_intro_where"); where != "" {
		t.Store().UpdateAuthorityHook("where", where)
	}
	if why := profileString(data, "impact_intro_why"); why != "" {
		t.Store().UpdateAuthorityHook("why", why)
	}
	if saved := profileString(data, "tagline"); saved != "" {
		t.mu.Lock()
		t.locked = saved
		t.mu.Unlock()
	}
}

// ProfileData is what gets saved back to the profile: the locked tagline, else the selection.
func (t *Tagline) ProfileData() map[string]string {
	text := t.Locked()
	if text == "" {
		text, _ = t.Selected()
	}
	return map[string]string{"tagline": text}
}

// Reset clears the taglines, selection, lock and history.
func (t *Tagline) Reset() {
	t.Engine.Reset()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.form = defaultTaglineForm()
	t.taglines = nil
	t.selected = -1
	t.locked = ""
	t.history = nil
	t.generations = 0
}
