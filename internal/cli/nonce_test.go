package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestify/mediakit-ai/internal/auth"
)

func TestNonceCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"nonce", "--secret", "s3cret", "--subject", "42", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	subject, err := auth.NewNonceManager("s3cret", time.Hour).Verify(strings.TrimSpace(out.String()), auth.ActionREST)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestNonceCommandPublicJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"nonce", "--format", "json", "--context", "public", "--secret", "s3cret", "--ttl", "30m"})
	require.NoError(t, cmd.Execute())

	var got struct {
		Nonce     string `json:"nonce"`
		Context   string `json:"context"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "public", got.Context)
	assert.Equal(t, 1800, got.ExpiresIn)

	_, err := auth.NewNonceManager("s3cret", time.Hour).Verify(got.Nonce, auth.ActionPublicAI)
	require.NoError(t, err)
}

func TestNonceCommandErrors(t *testing.T) {
	t.Setenv("NONCE_SECRET", "")

	tests := []struct {
		name string
		args []string
	}{
		{"bad context", []string{"nonce", "--context", "admin", "--secret", "s"}},
		{"no secret", []string{"nonce"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, ExitCommandError, exitErr.Code)
		})
	}
}
