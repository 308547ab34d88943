package openaicompat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ship-computer-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "http://localhost:8000/v1/chat/completions"},
		{"http://localhost:8000/", "http://localhost:8000/v1/chat/completions"},
		{"http://localhost:8000/v1", "http://localhost:8000/v1/chat/completions"},
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://generativelanguage.googleapis.com/v1beta/openai", "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"},
		{"http://host/v1/chat/completions", "http://host/v1/chat/completions"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveEndpoint(tt.base), "base %q", tt.base)
	}
}

func TestChat(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Acknowledged."}},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "secret", "test-model")
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be the ship"},
		{Role: "user", Content: "raise shields"},
	}, llm.WithTemperature(0.2))
	require.NoError(t, err)

	assert.Equal(t, "Acknowledged.", out)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.InDelta(t, 0.2, gotReq.Temperature, 1e-9)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "", "test-model")
	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}
