package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelList_Unmarshal(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "array of strings", raw: `["llama3","mistral"]`, want: []string{"llama3", "mistral"}},
		{name: "array of objects", raw: `[{"name":"llama3"},{"name":"phi3"}]`, want: []string{"llama3", "phi3"}},
		{name: "ollama envelope", raw: `{"models":[{"name":"llama3:latest","size":1}]}`, want: []string{"llama3:latest"}},
		{name: "model key fallback", raw: `[{"model":"qwen2"}]`, want: []string{"qwen2"}},
		{name: "empty envelope", raw: `{}`, want: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var l ModelList
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &l))
			assert.Equal(t, tc.want, l.Names())
		})
	}
}

func TestModelList_UnmarshalInvalid(t *testing.T) {
	var l ModelList
	assert.Error(t, json.Unmarshal([]byte(`"llama3"`), &l))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &l))
}

func TestConversationUpdate_OmitsUnset(t *testing.T) {
	b, err := json.Marshal(ConversationUpdate{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	title := "Renamed"
	b, err = json.Marshal(ConversationUpdate{Title: &title})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Renamed"}`, string(b))
}
