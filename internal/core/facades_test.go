package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestify/mediakit-ai/internal/aistore"
)

func TestAuthorityHookState(t *testing.T) {
	store := aistore.New()
	store.UpdateAuthorityHook("who", "coaches")
	h := NewAuthorityHookState(store)

	assert.Equal(t, "coaches", h.Get("who"))
	assert.Equal(t, 17, h.CompletionPercentage())
	assert.True(t, h.IsValid())
	assert.False(t, h.IsComplete())

	assert.False(t, h.Set("mood", "happy"))
	require.True(t, h.Set("what", "grow revenue"))
	assert.Equal(t, "grow revenue", store.AuthorityHook().What, "local writes reach the store")

	store.UpdateAuthorityHook("when", "they plateau")
	assert.Empty(t, h.Get("when"), "store writes are not observed until synced")
	h.SyncFromStore()
	assert.Equal(t, "they plateau", h.Get("when"))

	for _, f := range []string{"how", "where", "why"} {
		h.Set(f, f+" value")
	}
	assert.Equal(t, 100, h.CompletionPercentage())
	assert.True(t, h.IsComplete())
	assert.Equal(t, "I help coaches grow revenue when they plateau by how value in where value because why value", h.Summary())

	h.Reset()
	assert.Equal(t, aistore.AuthorityHook{}, h.Hook())
	assert.Equal(t, aistore.AuthorityHook{}, store.AuthorityHook())
	assert.Zero(t, h.CompletionPercentage())

	h.LoadFromProfileData(map[string]any{"hook_who": "authors", "mkcg_authority_hook_why": "stories matter"})
	assert.Equal(t, "authors", h.Get("who"))
	assert.Equal(t, "stories matter", h.Get("why"))
}

func TestImpactIntroStateLists(t *testing.T) {
	store := aistore.New()
	s := NewImpactIntroState(Deps{Store: store})

	assert.True(t, s.AddCredential(" PhD ", true))
	assert.False(t, s.AddCredential("PhD", true))
	assert.False(t, s.AddCredential("  ", true))
	assert.True(t, s.AddCredential("MBA", false))
	assert.True(t, s.AddCredential("TEDx speaker", true))
	assert.Equal(t, []string{"PhD", "MBA", "TEDx speaker"}, store.ImpactIntro().Credentials)

	assert.True(t, s.IsCredentialSelected("PhD"))
	assert.False(t, s.IsCredentialSelected("MBA"))
	assert.Equal(t, "PhD and TEDx speaker", s.SelectedCredentialsText())

	assert.True(t, s.ToggleCredential("MBA"))
	assert.Equal(t, "PhD, MBA, and TEDx speaker", s.SelectedCredentialsText())
	assert.False(t, s.ToggleCredential("MBA"))

	s.DeselectAllCredentials()
	assert.Empty(t, s.SelectedCredentials())
	s.SelectAllCredentials()
	assert.Len(t, s.SelectedCredentials(), 3)

	require.True(t, s.ReorderCredentials(2, 0))
	assert.Equal(t, []string{"TEDx speaker", "PhD", "MBA"}, s.Credentials())
	require.True(t, s.UpdateCredential(2, "MBA, Wharton"))
	assert.False(t, s.UpdateCredential(9, "x"))
	require.True(t, s.RemoveCredentialByValue("PhD"))
	assert.False(t, s.IsCredentialSelected("PhD"))
	assert.Equal(t, []string{"TEDx speaker", "MBA, Wharton"}, store.ImpactIntro().Credentials)

	for _, a := range []string{"Sold two companies", "Bestselling author", "Raised $10M"} {
		s.AddAchievement(a)
	}
	require.True(t, s.ReorderAchievements(0, 2))
	assert.Equal(t, []string{"Bestselling author", "Raised $10M", "Sold two companies"}, store.ImpactIntro().Achievements)
	require.True(t, s.RemoveAchievement(1))
	assert.False(t, s.RemoveAchievement(5))

	assert.Equal(t, "TEDx speaker, MBA, Wharton", s.CredentialsSummary())
	assert.Equal(t, "Bestselling author, Sold two companies", s.AchievementsSummary())
	assert.True(t, s.HasMinimumData())

	s.Reset()
	assert.False(t, s.HasMinimumData())
	assert.Empty(t, store.ImpactIntro().Credentials)
}

func TestImpactSummary(t *testing.T) {
	s := NewImpactIntroState(Deps{})
	assert.Empty(t, s.ImpactSummary())

	s.SetCredentials([]string{"A", "B", "C", "D"})
	assert.Equal(t, "A, B, C", s.ImpactSummary())

	s.SetAchievements([]string{"X", "Y", "Z"})
	assert.Equal(t, "A, B, C | X, Y", s.ImpactSummary())

	s.SetCredentials(nil)
	assert.Equal(t, "X, Y", s.ImpactSummary())
}

func TestProfileValues(t *testing.T) {
	tests := []struct {
		name  string
		data  map[string]any
		want  []string
		found bool
	}{
		{"plural array", map[string]any{"credentials": []any{"PhD", " ", "MBA"}, "hook_where": "ignored"}, []string{"PhD", "MBA"}, true},
		{"plural string", map[string]any{"credentials": "PhD, MBA"}, []string{"PhD", "MBA"}, true},
		{"plural empty", map[string]any{"credentials": ""}, []string{}, true},
		{"hook field", map[string]any{"hook_where": " Forbes "}, []string{"Forbes"}, true},
		{"empty hook field", map[string]any{"hook_where": ""}, []string{}, true},
		{"numbered", map[string]any{"credential_1": "PhD", "credential_3": "MBA", "credential_2": ""}, []string{"PhD", "MBA"}, true},
		{"numbered all empty", map[string]any{"credential_2": ""}, []string{}, true},
		{"nothing", map[string]any{"name": "Jane"}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ProfileValues(tt.data, "credentials", "hook_where", "credential")
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImpactIntroStateLoadFromProfile(t *testing.T) {
	store := aistore.New()
	store.SetAchievements([]string{"Kept"})
	s := NewImpactIntroState(Deps{Store: store})

	assert.False(t, s.LoadFromProfileData(nil))
	assert.False(t, s.LoadFromProfileData(map[string]any{"name": "Jane"}))
	assert.Equal(t, []string{"Kept"}, s.Achievements())

	require.True(t, s.LoadFromProfileData(map[string]any{"credential_1": "PhD", "credential_2": "MBA"}))
	assert.Equal(t, []string{"PhD", "MBA"}, s.SelectedCredentials())
	assert.Equal(t, []string{"Kept"}, store.ImpactIntro().Achievements, "absent fields do not overwrite")
	assert.Equal(t, []string{"PhD", "MBA"}, store.ImpactIntro().Credentials)
}

func TestImpactIntroStateSyncAndCopy(t *testing.T) {
	store := aistore.New()
	clip := &fakeClipboard{}
	s := NewImpactIntroState(Deps{Store: store, Clipboard: clip})

	assert.False(t, s.CopySummaryToClipboard())

	store.SetCredentials([]string{"PhD"})
	assert.Empty(t, s.Credentials())
	s.SyncFromStore()
	assert.Equal(t, []string{"PhD"}, s.Credentials())

	assert.True(t, s.CopySummaryToClipboard())
	assert.Equal(t, "PhD", clip.Text())

	clip.err = errors.New("denied")
	assert.False(t, s.CopySummaryToClipboard())
}

func TestImpactIntroStateMatchesStore(t *testing.T) {
	store := aistore.New()
	s := NewImpactIntroState(Deps{Store: store})

	require.True(t, s.AddCredential("PhD", true))
	require.True(t, s.AddCredential("MBA", false))
	assert.False(t, s.UpdateCredential(1, "PhD"), "renaming onto another entry is rejected")
	assert.False(t, s.UpdateCredential(1, "  "))
	assert.True(t, s.UpdateCredential(1, "MBA"))
	assert.Equal(t, []string{"PhD", "MBA"}, s.Credentials())
	assert.Equal(t, store.ImpactIntro().Credentials, s.Credentials())

	require.True(t, s.UpdateCredential(0, " Doctorate "))
	assert.True(t, s.IsCredentialSelected("Doctorate"), "selection follows a rename")
	assert.False(t, s.IsCredentialSelected("PhD"))
	assert.Equal(t, []string{"Doctorate", "MBA"}, store.ImpactIntro().Credentials)

	s.SetAchievements([]string{"Author", "Author", " "})
	assert.Equal(t, []string{"Author"}, s.Achievements())
	assert.Equal(t, store.ImpactIntro().Achievements, s.Achievements())

	s.SetCredentials([]string{" TEDx ", "TEDx", ""})
	assert.Equal(t, []string{"TEDx"}, s.Credentials())
	assert.Equal(t, "TEDx", s.CredentialsSummary())
	assert.Equal(t, "TEDx | Author", s.ImpactSummary())

	require.True(t, s.LoadFromProfileData(map[string]any{"credential_1": "PhD", "credential_2": "PhD"}))
	assert.Equal(t, []string{"PhD"}, s.Credentials())
	assert.Equal(t, store.ImpactIntro().Credentials, s.Credentials())
}
