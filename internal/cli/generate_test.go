package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestify/mediakit-ai/internal/content"
	"github.com/guestify/mediakit-ai/internal/core"
)

const bioReply = "OPTION 1: Jane Doe helps founders grow calm, durable companies.\n" +
	"OPTION 2: Jane Doe is the coach founders call before they scale."

type recordingBackend struct {
	mu      sync.Mutex
	bodies  []map[string]any
	headers []http.Header
	status  int
	content any
}

func newRecordingBackend(t *testing.T, generated any) (*recordingBackend, string) {
	t.Helper()
	b := &recordingBackend{status: http.StatusOK, content: generated}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		b.mu.Lock()
		b.bodies = append(b.bodies, body)
		b.headers = append(b.headers, r.Header.Clone())
		status, generated := b.status, b.content
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "backend down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"content": generated}})
	}))
	t.Cleanup(srv.Close)
	return b, srv.URL + "/wp-json/gmkb/v2"
}

func (b *recordingBackend) requests() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any(nil), b.bodies...)
}

func (b *recordingBackend) header(i int) http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headers[i]
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateBiographyAllSlots(t *testing.T) {
	b, url := newRecordingBackend(t, bioReply)

	out, err := runCLI(t, "generate", "biography", "--format", "json",
		"--rest-url", url, "--nonce", "builder-nonce",
		"-p", "name=Jane Doe", "-p", "tone=friendly", "--slot", "all")
	require.NoError(t, err)

	var got map[core.SlotName][]content.Variation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "CONCISE", got[core.SlotShort][0].Label)
	assert.Equal(t, "BALANCED", got[core.SlotMedium][0].Label)
	assert.Equal(t, "COMPREHENSIVE", got[core.SlotLong][0].Label)

	reqs := b.requests()
	require.Len(t, reqs, 3)
	lengths := map[any]bool{}
	for _, r := range reqs {
		params := r["params"].(map[string]any)
		lengths[params["length"]] = true
		assert.Equal(t, "Jane Doe", params["name"])
		assert.Equal(t, "friendly", params["tone"])
		assert.Equal(t, "builder", r["context"])
	}
	assert.Len(t, lengths, 3)
	assert.Equal(t, "builder-nonce", b.header(0).Get("X-WP-Nonce"))
}

func TestGenerateTopicsText(t *testing.T) {
	_, url := newRecordingBackend(t, "1. Scaling Remote Teams\n2. Building Culture at Distance")

	var copied string
	orig := systemClipboard
	systemClipboard = core.ClipboardFunc(func(text string) error {
		copied = text
		return nil
	})
	t.Cleanup(func() { systemClipboard = orig })

	out, err := runCLI(t, "generate", "topics", "--rest-url", url, "--nonce", "n",
		"-p", "expertise=remote teams", "-p", "count=2", "--copy")
	require.NoError(t, err)
	assert.Equal(t, "1. Scaling Remote Teams (Topic)\n2. Building Culture at Distance (Topic)\n", out)
	assert.Equal(t, "Scaling Remote Teams", copied)
}

func TestGeneratePublicContextWithProfile(t *testing.T) {
	b, url := newRecordingBackend(t, "1. I help founders raise capital with better stories.")
	profile := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(profile, []byte(`{"hook_who":"founders","hook_what":"raise capital"}`), 0o600))

	out, err := runCLI(t, "generate", "authority_hook", "--rest-url", url,
		"--context", "public", "--public-nonce", "pub", "--profile", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "I help founders raise capital")

	req := b.requests()[0]
	assert.Equal(t, "public", req["context"])
	assert.Equal(t, "pub", req["nonce"])
	assert.Equal(t, "founders", req["params"].(map[string]any)["who"])
}

func TestGenerateErrors(t *testing.T) {
	b, url := newRecordingBackend(t, "x")

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown type", []string{"generate", "limerick"}, ExitCommandError},
		{"bad param", []string{"generate", "topics", "-p", "expertise"}, ExitCommandError},
		{"bad count", []string{"generate", "topics", "-p", "count=many", "--rest-url", url}, ExitCommandError},
		{"bad slot", []string{"generate", "biography", "--slot", "huge"}, ExitCommandError},
		{"bad context", []string{"generate", "topics", "--context", "admin"}, ExitCommandError},
		{"validation", []string{"generate", "topics", "--rest-url", url, "--nonce", "n"}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.code, exitErr.Code)
		})
	}
	assert.Empty(t, b.requests())

	b.mu.Lock()
	b.status = http.StatusInternalServerError
	b.mu.Unlock()
	_, err := runCLI(t, "generate", "biography", "--rest-url", url, "--nonce", "n", "-p", "name=Jane", "--slot", "short,long")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
}

func TestRenderText(t *testing.T) {
	tiers := map[content.Tier][]content.Offer{
		content.TierPremium: {{Title: "VIP", Description: "A year"}},
		content.TierEntry:   {{Title: "Starter"}},
	}
	assert.Equal(t, "== ENTRY ==\n1. Starter\n== PREMIUM ==\n1. VIP\n   A year\n", renderText(tiers))
	assert.Equal(t, "Starter", firstText(tiers))

	vs := []content.Variation{{Text: "One", Label: "BOLD"}, {Text: "Two"}}
	assert.Equal(t, "1. [BOLD] One\n2. Two\n", renderText(vs))
	assert.Empty(t, firstText([]string{}))
}
