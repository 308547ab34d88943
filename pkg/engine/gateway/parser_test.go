package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantResponse string
		wantUpdates  map[string]int
		wantSuccess  bool
	}{
		{
			name:         "clean json",
			raw:          `{"updates": {"shields": 100}, "response": "Shields raised."}`,
			wantResponse: "Shields raised.",
			wantUpdates:  map[string]int{"shields": 100},
		},
		{
			name:         "fenced json",
			raw:          "```json\n{\"updates\": {}, \"response\": \"X\"}\n```",
			wantResponse: "X",
			wantUpdates:  map[string]int{},
		},
		{
			name:         "json embedded in prose",
			raw:          `Here: {"updates": {}, "response": "Y"} done`,
			wantResponse: "Y",
			wantUpdates:  map[string]int{},
		},
		{
			name:         "plain text fallback",
			raw:          "plain text",
			wantResponse: "plain text",
			wantUpdates:  map[string]int{},
		},
		{
			name:         "fence markers stripped in fallback",
			raw:          "```json\nnot actually json at all\n```",
			wantResponse: "not actually json at all",
			wantUpdates:  map[string]int{},
		},
		{
			name:         "mission success flag",
			raw:          `{"updates": {"warp": 90}, "response": "Engaged.", "mission_success": true}`,
			wantResponse: "Engaged.",
			wantUpdates:  map[string]int{"warp": 90},
			wantSuccess:  true,
		},
		{
			name:         "missing response defaults to completion line",
			raw:          `{"updates": {"phasers": 100}}`,
			wantResponse: "Processing complete.",
			wantUpdates:  map[string]int{"phasers": 100},
		},
		{
			name:         "stringified numeric update",
			raw:          `{"updates": {"shields": "50"}, "response": "Half power."}`,
			wantResponse: "Half power.",
			wantUpdates:  map[string]int{"shields": 50},
		},
		{
			name:         "non-object json becomes response",
			raw:          `"just a quoted string"`,
			wantResponse: "just a quoted string",
			wantUpdates:  map[string]int{},
		},
		{
			name:         "truncated json falls back to raw text",
			raw:          `{"updates": {"shields": 100}, "response": "cut of`,
			wantResponse: `{"updates": {"shields": 100}, "response": "cut of`,
			wantUpdates:  map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantResponse, res.Response)
			assert.Equal(t, tt.wantUpdates, res.Updates)
			assert.Equal(t, tt.wantSuccess, res.MissionSuccess)
		})
	}
}

func TestParseMalformedUpdates(t *testing.T) {
	_, err := Parse(`{"updates": {"shields": "full"}, "response": "X"}`)
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Parse(`{"updates": [1, 2], "response": "X"}`)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseIgnoresModelRankUp(t *testing.T) {
	res, err := Parse(`{"updates": {"rank_up": 1, "shields": 10}, "response": "X"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"shields": 10}, res.Updates)
	assert.Empty(t, res.RankUp)
}
