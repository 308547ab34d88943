// Package turbo is the fast-path matcher: an ordered rule table that
// resolves the most common commands without touching the cache or the
// model. ORDER MATTERS - the first matching rule wins and rules are never
// combined within one invocation.
package turbo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine"
	"ship-computer-be/pkg/engine/state"
)

// statusMaxLength keeps the status rule from swallowing longer sentences
// that merely contain "report"; those still deserve the model.
const statusMaxLength = 64

type handlerFunc func(ctx context.Context, match []string, userID string) (*engine.Result, error)

type rule struct {
	name    string
	pattern *regexp.Regexp
	handler handlerFunc
}

type Matcher struct {
	state  *state.Manager
	logger logger.ILogger
	rules  []rule
}

func NewMatcher(st *state.Manager, log logger.ILogger) *Matcher {
	m := &Matcher{state: st, logger: log}
	m.rules = []rule{
		{
			name:    "destruct",
			pattern: regexp.MustCompile(`000-destruct-0|self[ -]destruct`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Auto-destruct sequence initiated. Five... four... three... Just kidding. Safety interlocks engaged. Shields lowered as penalty for your recklessness.")
				res.Updates["shields"] = 0
				return res, nil
			},
		},
		{
			name:    "wargames",
			pattern: regexp.MustCompile(`\bjoshua\b|sudo !!`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				return engine.NewResult("Greetings, Professor Falken. A strange game. The only winning move is not to play."), nil
			},
		},
		{
			name:    "status",
			pattern: regexp.MustCompile(`\b(status|report)\b`),
			handler: m.handleStatus,
		},
		{
			name:    "shields_up",
			pattern: regexp.MustCompile(`shields? up|raise (the )?shields?`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Shields raised to maximum.")
				res.Updates["shields"] = 100
				return res, nil
			},
		},
		{
			name:    "shields_down",
			pattern: regexp.MustCompile(`shields? down|lower (the )?shields?`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Shields lowered.")
				res.Updates["shields"] = 0
				return res, nil
			},
		},
		{
			name:    "red_alert",
			pattern: regexp.MustCompile(`red alert`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Red alert. Shields up, phasers armed. All hands to battle stations.")
				res.Updates["shields"] = 100
				res.Updates["phasers"] = 100
				return res, nil
			},
		},
		{
			name:    "warp_engage",
			pattern: regexp.MustCompile(`warp engage|engage warp`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Warp drive engaged.")
				res.Updates["warp"] = 90
				return res, nil
			},
		},
		{
			name:    "warp_disengage",
			pattern: regexp.MustCompile(`warp disengage|disengage warp|drop (out of|to) (warp|impulse)`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Warp drive disengaged. Reverting to impulse power.")
				res.Updates["warp"] = 0
				return res, nil
			},
		},
		{
			name:    "phasers_arm",
			pattern: regexp.MustCompile(`arm (the )?phasers?|phasers? arm|lock phasers?`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				res := engine.NewResult("Phasers armed and locked.")
				res.Updates["phasers"] = 100
				return res, nil
			},
		},
		{
			name:    "initiate_auth",
			pattern: regexp.MustCompile(`initiate auth`),
			handler: m.handleInitiateAuth,
		},
		{
			name:    "authorize_session",
			pattern: regexp.MustCompile(`authorize session (\d{4})`),
			handler: m.handleAuthorizeSession,
		},
		{
			name:    "wake_word",
			pattern: regexp.MustCompile(`^\s*computer[\s.,!?]*$`),
			handler: func(ctx context.Context, match []string, userID string) (*engine.Result, error) {
				return engine.NewResult("Awaiting command."), nil
			},
		},
	}
	return m
}

// Match runs the rule table over the lower-cased command text. The second
// return reports whether any rule fired.
func (m *Matcher) Match(ctx context.Context, text, userID string) (*engine.Result, bool, error) {
	lower := strings.ToLower(text)
	for _, r := range m.rules {
		match := r.pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		if r.name == "status" && len(text) > statusMaxLength {
			continue
		}
		m.logger.Info("Turbo", "Fast path triggered", map[string]interface{}{
			"user_id": userID,
			"rule":    r.name,
		})
		res, err := r.handler(ctx, match, userID)
		if err != nil {
			return nil, false, err
		}
		return res, true, nil
	}
	return nil, false, nil
}

func (m *Matcher) handleStatus(ctx context.Context, match []string, userID string) (*engine.Result, error) {
	systems, err := m.state.ShipStatus(ctx)
	if err != nil {
		return nil, err
	}
	return engine.NewResult("All systems nominal. Current ship status is: " + engine.FormatStatus(systems)), nil
}

func (m *Matcher) handleInitiateAuth(ctx context.Context, match []string, userID string) (*engine.Result, error) {
	code, err := m.state.CreateAuthSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	name := m.state.UserName(ctx, userID)
	return engine.NewResult(fmt.Sprintf("Authentication sequence initiated by %s. Your session code is %s.", name, code)), nil
}

func (m *Matcher) handleAuthorizeSession(ctx context.Context, match []string, userID string) (*engine.Result, error) {
	code := match[1]

	usr, err := m.state.UserContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Rank gate first: a too-junior officer never learns whether the code
	// was valid.
	if usr.RankLevel < constant.AuthorizeMinRankLevel {
		return engine.NewResult("Access Denied. Authorization level insufficient. Rank of Commander or higher required."), nil
	}

	initiatorID, ok, err := m.state.ConsumeAuthSession(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return engine.NewResult(fmt.Sprintf("Invalid session code %s.", code)), nil
	}

	if err := m.state.AwardXP(ctx, userID, constant.XPAuthorize); err != nil {
		return nil, err
	}
	if err := m.state.AwardXP(ctx, initiatorID, constant.XPAuthorize); err != nil {
		return nil, err
	}

	initiatorName := m.state.UserName(ctx, initiatorID)
	res := engine.NewResult(fmt.Sprintf("Session %s initiated by %s has been authorized by %s. Security systems disengaged.",
		code, initiatorName, m.state.UserName(ctx, userID)))
	res.Updates["shields"] = 0
	res.Updates["phasers"] = 0
	return res, nil
}
