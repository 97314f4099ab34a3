package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"null", `null`, KindEmpty},
		{"missing", ``, KindEmpty},
		{"string", `"John is an expert..."`, KindText},
		{"list", `["a","b"]`, KindList},
		{"object", `{"variations":["a"]}`, KindStructured},
		{"number", `42`, KindText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromJSON([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind())
		})
	}

	_, err := FromJSON([]byte(`{"broken"`))
	assert.Error(t, err)
}

func TestContentRoundTrip(t *testing.T) {
	var payload struct {
		Content Content `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"content":"hello"}`), &payload))
	text, ok := payload.Content.Text()
	require.True(t, ok)
	assert.Equal(t, "hello", text)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"hello"}`, string(data))
}

func TestContentString(t *testing.T) {
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, "plain", Text("plain").String())
	assert.JSONEq(t, `["a","b"]`, List([]any{"a", "b"}).String())
	assert.JSONEq(t, `{"k":"v"}`, Structured(map[string]any{"k": "v"}).String())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.True(t, Text("").IsEmpty())
	assert.False(t, Text("x").IsEmpty())
	assert.False(t, List(nil).IsEmpty())
}

func TestFromValueTyped(t *testing.T) {
	c := FromValue([]map[string]string{{"text": "one"}})
	require.Equal(t, KindList, c.Kind())
	items, _ := c.List()
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"text": "one"}, items[0])
}
