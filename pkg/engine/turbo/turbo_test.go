package turbo

import (
	"context"
	"strings"
	"testing"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/repository/memory"
	"ship-computer-be/pkg/engine/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(t *testing.T) (*Matcher, *state.Manager) {
	t.Helper()
	st := state.NewManager(memory.NewStateRepository(), logger.NewNopLogger())
	require.NoError(t, st.Initialize(context.Background()))
	return NewMatcher(st, logger.NewNopLogger()), st
}

func TestMatchRules(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMatch    bool
		wantUpdates  map[string]int
		wantContains string
	}{
		{
			name:         "shields up",
			text:         "Shields up!",
			wantMatch:    true,
			wantUpdates:  map[string]int{"shields": 100},
			wantContains: "Shields raised",
		},
		{
			name:        "raise the shields variant",
			text:        "please raise the shields",
			wantMatch:   true,
			wantUpdates: map[string]int{"shields": 100},
		},
		{
			name:        "shields down",
			text:        "lower shields",
			wantMatch:   true,
			wantUpdates: map[string]int{"shields": 0},
		},
		{
			name:        "red alert sets two gauges",
			text:        "RED ALERT",
			wantMatch:   true,
			wantUpdates: map[string]int{"shields": 100, "phasers": 100},
		},
		{
			name:        "warp engage",
			text:        "engage warp 5",
			wantMatch:   true,
			wantUpdates: map[string]int{"warp": 90},
		},
		{
			name:        "warp disengage",
			text:        "drop out of warp",
			wantMatch:   true,
			wantUpdates: map[string]int{"warp": 0},
		},
		{
			name:        "arm phasers",
			text:        "arm the phasers",
			wantMatch:   true,
			wantUpdates: map[string]int{"phasers": 100},
		},
		{
			name:         "self destruct easter egg",
			text:         "initiate self-destruct",
			wantMatch:    true,
			wantUpdates:  map[string]int{"shields": 0},
			wantContains: "Just kidding",
		},
		{
			name:         "wargames easter egg",
			text:         "my name is Joshua",
			wantMatch:    true,
			wantContains: "Professor Falken",
		},
		{
			name:         "bare wake word",
			text:         "Computer?",
			wantMatch:    true,
			wantContains: "Awaiting command",
		},
		{
			name:      "wake word with trailing command falls through",
			text:      "computer, plot a course to Vulcan",
			wantMatch: false,
		},
		{
			name:      "free-form command not matched",
			text:      "what is the airspeed velocity of an unladen swallow",
			wantMatch: false,
		},
	}

	m, _ := newTestMatcher(t)
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, matched, err := m.Match(ctx, tt.text, "kirk")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, matched)
			if !tt.wantMatch {
				return
			}
			if tt.wantUpdates != nil {
				assert.Equal(t, tt.wantUpdates, res.Updates)
			}
			if tt.wantContains != "" {
				assert.Contains(t, res.Response, tt.wantContains)
			}
		})
	}
}

func TestMatchOrderDestructBeatsStatus(t *testing.T) {
	// "self destruct status report" matches both tables; the destruct rule
	// sits earlier and must win.
	m, _ := newTestMatcher(t)
	res, matched, err := m.Match(context.Background(), "self destruct status report", "kirk")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Contains(t, res.Response, "Auto-destruct")
}

func TestStatusRule(t *testing.T) {
	m, _ := newTestMatcher(t)
	ctx := context.Background()

	res, matched, err := m.Match(ctx, "status report", "kirk")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Contains(t, res.Response, "All systems nominal")
	assert.Contains(t, res.Response, "shields: 100")
	assert.Empty(t, res.Updates)

	// Long sentences containing "report" are for the model, not the table.
	long := "please compile a detailed report " + strings.Repeat("of everything ", 5)
	_, matched, err = m.Match(ctx, long, "kirk")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestAuthorizationFlow(t *testing.T) {
	m, st := newTestMatcher(t)
	ctx := context.Background()

	_, err := st.RegisterUser(ctx, "scotty", "Montgomery Scott")
	require.NoError(t, err)

	res, matched, err := m.Match(ctx, "initiate auth", "scotty")
	require.NoError(t, err)
	require.True(t, matched)
	require.Contains(t, res.Response, "session code")

	// Pull the 4-digit code out of the narration.
	fields := strings.Fields(strings.TrimSuffix(res.Response, "."))
	code := fields[len(fields)-1]
	require.Len(t, code, 4)

	// An Ensign may not authorize.
	res, matched, err = m.Match(ctx, "authorize session "+code, "scotty")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Contains(t, res.Response, "Authorization level insufficient")

	// Promote a second officer to Commander and let them authorize.
	_, err = st.RegisterUser(ctx, "spock", "Spock")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		promoted, _, err := st.Promote(ctx, "spock")
		require.NoError(t, err)
		require.True(t, promoted)
	}

	res, matched, err = m.Match(ctx, "authorize session "+code, "spock")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Contains(t, res.Response, "has been authorized")
	assert.Equal(t, map[string]int{"shields": 0, "phasers": 0}, res.Updates)

	// The session is single-use.
	res, matched, err = m.Match(ctx, "authorize session "+code, "spock")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Contains(t, res.Response, "Invalid session code")

	// A bogus code never validates.
	res, _, err = m.Match(ctx, "authorize session 0000", "spock")
	require.NoError(t, err)
	assert.Contains(t, res.Response, "Invalid session code 0000")
}

func TestAuthorizeAwardsXPToBothParties(t *testing.T) {
	m, st := newTestMatcher(t)
	ctx := context.Background()

	_, err := st.RegisterUser(ctx, "uhura", "Nyota Uhura")
	require.NoError(t, err)
	_, err = st.RegisterUser(ctx, "kirk", "James Kirk")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, _, err := st.Promote(ctx, "kirk")
		require.NoError(t, err)
	}
	kirkBefore, err := st.UserContext(ctx, "kirk")
	require.NoError(t, err)

	res, _, err := m.Match(ctx, "initiate auth", "uhura")
	require.NoError(t, err)
	fields := strings.Fields(strings.TrimSuffix(res.Response, "."))
	code := fields[len(fields)-1]

	_, _, err = m.Match(ctx, "authorize session "+code, "kirk")
	require.NoError(t, err)

	uhura, err := st.UserContext(ctx, "uhura")
	require.NoError(t, err)
	kirk, err := st.UserContext(ctx, "kirk")
	require.NoError(t, err)
	assert.Equal(t, constant.XPAuthorize, uhura.XP)
	assert.Equal(t, kirkBefore.XP+constant.XPAuthorize, kirk.XP)
}
