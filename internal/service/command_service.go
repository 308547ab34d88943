package service

import (
	"context"
	"encoding/json"
	"errors"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine"
	"ship-computer-be/pkg/engine/access"
	"ship-computer-be/pkg/engine/gateway"
	"ship-computer-be/pkg/engine/progression"
	"ship-computer-be/pkg/engine/semcache"
	"ship-computer-be/pkg/engine/state"
	"ship-computer-be/pkg/engine/turbo"
	"ship-computer-be/pkg/events"
	pktNats "ship-computer-be/pkg/nats"
)

type ICommandService interface {
	Process(ctx context.Context, req dto.CommandRequest) (*engine.Result, error)
}

// commandService runs the full interpretation pipeline for one command:
// lockout check, physical access gate, fast-path matching, semantic
// cache, model gateway, then progression and state mutation.
type commandService struct {
	state          *state.Manager
	turbo          *turbo.Matcher
	cache          *semcache.Cache
	gateway        *gateway.Gateway
	progression    *progression.Engine
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewCommandService(
	st *state.Manager,
	tb *turbo.Matcher,
	cache *semcache.Cache,
	gw *gateway.Gateway,
	prog *progression.Engine,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICommandService {
	return &commandService{
		state:          st,
		turbo:          tb,
		cache:          cache,
		gateway:        gw,
		progression:    prog,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *commandService) Process(ctx context.Context, req dto.CommandRequest) (*engine.Result, error) {
	text := req.Text
	if len(text) > constant.MaxCommandLength {
		text = text[:constant.MaxCommandLength]
	}

	// 1. Radiation lockout. Everything bounces until the leak is cleared
	// through the physical puzzle, which reports on a separate endpoint.
	locked, err := s.state.RadiationLeakActive(ctx)
	if err != nil {
		return engine.NewResult(constant.ResponseInternal), nil
	}
	if locked {
		res := engine.NewResult(constant.ResponseLockout)
		res.Alert = constant.AlertRadiationLeak
		return res, nil
	}

	usr, err := s.state.UserContext(ctx, req.UserID)
	if err != nil {
		s.logger.Error("Command", "Failed to load user context", map[string]interface{}{"user_id": req.UserID, "error": err.Error()})
		return engine.NewResult(constant.ResponseInternal), nil
	}

	// 2. Physical access gate.
	if denial := access.Check(text, usr.Location); denial != nil {
		res := engine.NewResult(denial.Response())
		res.Alert = constant.AlertLocationDenied
		res.RequiredLocation = denial.RequiredLocation
		s.publishAlert(ctx, constant.AlertLocationDenied, map[string]interface{}{
			"user_id":  req.UserID,
			"required": denial.RequiredLocation,
		})
		return res, nil
	}

	// Past the gates; rejected commands must leave no trace, so first
	// contact creates the profile only here.
	if err := s.state.EnsureUser(ctx, req.UserID); err != nil {
		s.logger.Error("Command", "Failed to ensure user record", map[string]interface{}{"user_id": req.UserID, "error": err.Error()})
		return engine.NewResult(constant.ResponseInternal), nil
	}

	// 3. Fast path.
	res, matched, err := s.turbo.Match(ctx, text, req.UserID)
	if err != nil {
		s.logger.Error("Command", "Fast path failed", map[string]interface{}{"user_id": req.UserID, "error": err.Error()})
		return engine.NewResult(constant.ResponseInternal), nil
	}
	if matched {
		if err := s.commit(ctx, req.UserID, res, constant.XPTurbo); err != nil {
			return engine.NewResult(constant.ResponseInternal), nil
		}
		return res, nil
	}

	// 4. Semantic cache. Keyed on rank, stage and location so a cached
	// answer is only replayed in the exact situation it was produced in.
	// XP and gauge writes happened when the entry was stored; a hit
	// replays the narration and nothing else.
	key := semcache.Key(text, usr.RankLevel, usr.MissionStage, usr.Location)
	if cached, hit := s.cache.Lookup(ctx, key); hit {
		s.logger.Info("Command", "Semantic cache hit", map[string]interface{}{"user_id": req.UserID})
		return cached, nil
	}

	// 5. Model gateway.
	systems, err := s.state.ShipStatus(ctx)
	if err != nil {
		return engine.NewResult(constant.ResponseInternal), nil
	}
	directive := s.state.MissionDirective(ctx, usr.MissionStage)

	res, err = s.gateway.Invoke(ctx, usr, systems, directive, text)
	if err != nil {
		return s.narrateFailure(err), nil
	}

	// 6. Promotion and state commit, then cache the finished result so
	// a later hit carries the decorated narration but no side effects.
	if err := s.finishModelResult(ctx, req.UserID, res); err != nil {
		return engine.NewResult(constant.ResponseInternal), nil
	}
	if err := s.cache.Store(ctx, key, res); err != nil {
		s.logger.Warn("Command", "Semantic cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return res, nil
}

// finishModelResult runs the tail of a fresh model result: promotion on
// mission success, then state commit.
func (s *commandService) finishModelResult(ctx context.Context, userID string, res *engine.Result) error {
	if res.MissionSuccess {
		if err := s.progression.HandleMissionSuccess(ctx, userID, res); err != nil {
			s.logger.Error("Command", "Promotion failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
			return err
		}
		if res.RankUp != "" && s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events.NewCrewPromoted(userID, res.RankUp)); err != nil {
				s.logger.Warn("Command", "Promotion event publish failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return s.commit(ctx, userID, res, constant.XPCommand)
}

// commit applies gauge updates, awards activity XP and pushes the fresh
// snapshot onto the broadcast bus. XP only flows when the command
// actually moved a gauge.
func (s *commandService) commit(ctx context.Context, userID string, res *engine.Result, xp int) error {
	if len(res.Updates) == 0 {
		return nil
	}

	if err := s.state.ApplyUpdates(ctx, res.Updates); err != nil {
		s.logger.Error("Command", "State update failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	if err := s.state.AwardXP(ctx, userID, xp); err != nil {
		s.logger.Warn("Command", "XP award failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}

	systems, err := s.state.ShipStatus(ctx)
	if err != nil {
		return err
	}
	frame, _ := json.Marshal(dto.BroadcastFrame{Kind: "state", Systems: systems})
	if err := s.publisher.Publish(ctx, frame); err != nil {
		s.logger.Warn("Command", "Broadcast publish failed", map[string]interface{}{"error": err.Error()})
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewStateChanged(systems)); err != nil {
			s.logger.Warn("Command", "State event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *commandService) publishAlert(ctx context.Context, alert string, detail map[string]interface{}) {
	frame, _ := json.Marshal(dto.BroadcastFrame{Kind: "alert", Alert: alert, Detail: detail})
	if err := s.publisher.Publish(ctx, frame); err != nil {
		s.logger.Warn("Command", "Alert publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// narrateFailure maps gateway failures onto fixed in-character lines.
// No state is touched and nothing is cached for any of these.
func (s *commandService) narrateFailure(err error) *engine.Result {
	switch {
	case errors.Is(err, gateway.ErrTimeout):
		return engine.NewResult(constant.ResponseTimeout)
	case errors.Is(err, gateway.ErrUpstream):
		return engine.NewResult(constant.ResponseUpstream)
	case errors.Is(err, gateway.ErrMalformed):
		return engine.NewResult(constant.ResponseMalformed)
	default:
		return engine.NewResult(constant.ResponseInternal)
	}
}
