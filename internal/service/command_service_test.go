package service

import (
	"context"
	"encoding/json"
	"testing"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/repository/memory"
	"ship-computer-be/pkg/engine/gateway"
	"ship-computer-be/pkg/engine/progression"
	"ship-computer-be/pkg/engine/semcache"
	"ship-computer-be/pkg/engine/state"
	"ship-computer-be/pkg/engine/turbo"
	"ship-computer-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider plays a scripted model: fixed reply or fixed error.
type stubProvider struct {
	reply string
	err   error
	calls int
	temp  float64
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	var o llm.Options
	for _, opt := range opts {
		opt(&o)
	}
	s.temp = o.Temperature
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// capturePublisher records broadcast frames instead of fanning them out.
type capturePublisher struct {
	frames []dto.BroadcastFrame
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	var frame dto.BroadcastFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return err
	}
	p.frames = append(p.frames, frame)
	return nil
}

type pipelineFixture struct {
	svc       ICommandService
	state     *state.Manager
	publisher *capturePublisher
	provider  *stubProvider
}

func newPipeline(t *testing.T, provider *stubProvider) *pipelineFixture {
	t.Helper()
	log := logger.NewNopLogger()
	store := memory.NewStateRepository()
	st := state.NewManager(store, log)
	require.NoError(t, st.Initialize(context.Background()))

	var llmProvider llm.LLMProvider
	if provider != nil {
		llmProvider = provider
	}
	gw := gateway.New(llmProvider, log, false)
	pub := &capturePublisher{}

	svc := NewCommandService(
		st,
		turbo.NewMatcher(st, log),
		semcache.NewCache(store, log),
		gw,
		progression.New(st, log),
		pub,
		nil,
		log,
	)
	return &pipelineFixture{svc: svc, state: st, publisher: pub, provider: provider}
}

func TestProcessLockout(t *testing.T) {
	f := newPipeline(t, nil)
	ctx := context.Background()
	require.NoError(t, f.state.SetRadiationLeak(ctx, true))

	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: "shields up", UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, constant.ResponseLockout, res.Response)
	assert.Equal(t, constant.AlertRadiationLeak, res.Alert)

	// The locked-out command must not have moved any gauge.
	systems, err := f.state.ShipStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, systems["shields"])
	assert.Empty(t, f.publisher.frames)
}

func TestProcessTurboShieldsUp(t *testing.T) {
	f := newPipeline(t, nil)
	ctx := context.Background()

	require.NoError(t, f.state.ApplyUpdates(ctx, map[string]int{"shields": 10}))
	f.publisher.frames = nil

	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: "Shields up", UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, "Shields raised to maximum.", res.Response)
	assert.Equal(t, map[string]int{"shields": 100}, res.Updates)

	systems, err := f.state.ShipStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, systems["shields"])

	usr, err := f.state.UserContext(ctx, "kirk")
	require.NoError(t, err)
	assert.Equal(t, constant.XPTurbo, usr.XP)

	require.Len(t, f.publisher.frames, 1)
	assert.Equal(t, "state", f.publisher.frames[0].Kind)
	assert.Equal(t, 100, f.publisher.frames[0].Systems["shields"])
}

func TestProcessLocationDenial(t *testing.T) {
	f := newPipeline(t, nil)
	ctx := context.Background()

	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: "eject warp core", UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, constant.AlertLocationDenied, res.Alert)
	assert.Equal(t, "Engineering", res.RequiredLocation)
	assert.Contains(t, res.Response, "Access Denied")
	assert.Empty(t, res.Updates)

	require.Len(t, f.publisher.frames, 1)
	assert.Equal(t, "alert", f.publisher.frames[0].Kind)

	// After walking to Engineering the same command reaches the model,
	// which answers with a mock filler here.
	require.NoError(t, f.state.SetLocation(ctx, "kirk", "Engineering"))
	res, err = f.svc.Process(ctx, dto.CommandRequest{Text: "eject warp core", UserID: "kirk"})
	require.NoError(t, err)
	assert.Empty(t, res.Alert)
}

func TestProcessModelPathCachesResult(t *testing.T) {
	provider := &stubProvider{reply: `{"updates": {"impulse": 50}, "response": "Impulse at half."}`}
	f := newPipeline(t, provider)
	ctx := context.Background()

	req := dto.CommandRequest{Text: "set impulse to one half", UserID: "kirk"}
	res, err := f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Impulse at half.", res.Response)
	assert.Equal(t, 1, provider.calls)

	systems, err := f.state.ShipStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, systems["impulse"])
	assert.InDelta(t, 0.1, provider.temp, 1e-9)

	usr, err := f.state.UserContext(ctx, "kirk")
	require.NoError(t, err)
	frames := len(f.publisher.frames)

	// Same command, same context: answered from the semantic cache. The
	// hit replays the narration only; gauges, XP and the broadcast bus
	// stay exactly where the first call left them.
	require.NoError(t, f.state.ApplyUpdates(ctx, map[string]int{"impulse": 25}))
	res, err = f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Impulse at half.", res.Response)
	assert.Equal(t, 1, provider.calls)

	systems, err = f.state.ShipStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, systems["impulse"], "cache hit must not re-apply gauge updates")

	after, err := f.state.UserContext(ctx, "kirk")
	require.NoError(t, err)
	assert.Equal(t, usr.XP, after.XP, "cache hit must not re-award XP")
	assert.Len(t, f.publisher.frames, frames, "cache hit must not re-broadcast")
}

func TestProcessGatewayTimeout(t *testing.T) {
	provider := &stubProvider{err: context.DeadlineExceeded}
	f := newPipeline(t, provider)
	ctx := context.Background()

	req := dto.CommandRequest{Text: "analyze the anomaly", UserID: "kirk"}
	res, err := f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, constant.ResponseTimeout, res.Response)
	assert.Empty(t, res.Updates)

	// Failures are never cached; the next attempt hits the model again.
	_, err = f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestProcessMalformedModelOutput(t *testing.T) {
	provider := &stubProvider{reply: `{"updates": {"shields": "lots"}, "response": "X"}`}
	f := newPipeline(t, provider)
	ctx := context.Background()

	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: "recalibrate shield harmonics slightly", UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, constant.ResponseMalformed, res.Response)

	systems, err := f.state.ShipStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, systems["shields"], "corrupt output must not mutate state")
}

func TestProcessMissionSuccessPromotes(t *testing.T) {
	provider := &stubProvider{reply: `{"updates": {"warp": 90}, "response": "Course plotted.", "mission_success": true}`}
	f := newPipeline(t, provider)
	ctx := context.Background()

	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: "plot a course and engage when ready", UserID: "pike"})
	require.NoError(t, err)
	assert.True(t, res.MissionSuccess)
	assert.Equal(t, "Ensign", res.RankUp)
	assert.Contains(t, res.Response, "promoted to the rank of Ensign")

	usr, err := f.state.UserContext(ctx, "pike")
	require.NoError(t, err)
	assert.Equal(t, 1, usr.RankLevel)
	assert.Equal(t, 2, usr.MissionStage)
	assert.Equal(t, constant.XPPromotion+constant.XPCommand, usr.XP)
}

func TestProcessCachedWinNotReplayed(t *testing.T) {
	provider := &stubProvider{reply: `{"updates": {"warp": 90}, "response": "Course plotted.", "mission_success": true}`}
	f := newPipeline(t, provider)
	ctx := context.Background()

	req := dto.CommandRequest{Text: "plot a course and engage when ready", UserID: "pike"}
	res, err := f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Ensign", res.RankUp)

	usr, err := f.state.UserContext(ctx, "pike")
	require.NoError(t, err)
	require.Equal(t, 1, usr.RankLevel)
	promotedXP := usr.XP

	// Pike's rank and stage changed, so the same text now keys a fresh
	// cache slot and reaches the model again.
	_, err = f.svc.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)

	// A different crew member in pike's old context hits the stored
	// entry: the decorated narration comes back, but no promotion, no
	// XP, no stage advance.
	res, err = f.svc.Process(ctx, dto.CommandRequest{Text: req.Text, UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
	assert.Equal(t, "Ensign", res.RankUp)

	kirk, err := f.state.UserContext(ctx, "kirk")
	require.NoError(t, err)
	assert.Equal(t, 0, kirk.RankLevel)
	assert.Equal(t, 1, kirk.MissionStage)
	assert.Equal(t, 0, kirk.XP)

	pike, err := f.state.UserContext(ctx, "pike")
	require.NoError(t, err)
	assert.Equal(t, promotedXP+constant.XPPromotion+constant.XPCommand, pike.XP)
}

func TestProcessRejectedCommandLeavesNoProfile(t *testing.T) {
	f := newPipeline(t, nil)
	ctx := context.Background()

	require.NoError(t, f.state.SetRadiationLeak(ctx, true))
	_, err := f.svc.Process(ctx, dto.CommandRequest{Text: "shields up", UserID: "ghost"})
	require.NoError(t, err)

	n, err := f.state.Store().Exists(ctx, constant.KeyUserPrefix+"ghost")
	require.NoError(t, err)
	assert.Zero(t, n, "locked-out first contact must not create a profile")

	require.NoError(t, f.state.SetRadiationLeak(ctx, false))
	_, err = f.svc.Process(ctx, dto.CommandRequest{Text: "eject warp core", UserID: "ghost"})
	require.NoError(t, err)

	n, err = f.state.Store().Exists(ctx, constant.KeyUserPrefix+"ghost")
	require.NoError(t, err)
	assert.Zero(t, n, "location denial must not create a profile")
}

func TestProcessTruncatesOversizedCommand(t *testing.T) {
	provider := &stubProvider{reply: `{"updates": {}, "response": "Understood."}`}
	f := newPipeline(t, provider)
	ctx := context.Background()

	long := make([]byte, constant.MaxCommandLength*2)
	for i := range long {
		long[i] = 'a'
	}
	res, err := f.svc.Process(ctx, dto.CommandRequest{Text: string(long), UserID: "kirk"})
	require.NoError(t, err)
	assert.Equal(t, "Understood.", res.Response)
	assert.Equal(t, 1, provider.calls)
}
