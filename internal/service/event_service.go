package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"ship-computer-be/internal/config"
	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine/state"
	"ship-computer-be/pkg/events"
	pktNats "ship-computer-be/pkg/nats"
)

type IEventService interface {
	// Start launches the random incident ticker. It returns immediately;
	// the ticker stops when ctx is cancelled.
	Start(ctx context.Context)

	TriggerRadiationLeak(ctx context.Context) error
	ClearRadiationLeak(ctx context.Context) error
	RadiationStatus(ctx context.Context) (bool, error)
	ReportRadiationCleared(ctx context.Context, req dto.RadiationClearedRequest) error
}

// eventService owns the radiation leak lifecycle. A background ticker
// rolls the dice every interval; an active leak locks the whole command
// pipeline until a crew member solves the physical puzzle and the prop
// controller calls the cleared endpoint.
type eventService struct {
	state          *state.Manager
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	cfg            config.EventConfig
	logger         logger.ILogger
}

func NewEventService(
	st *state.Manager,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	cfg config.EventConfig,
	log logger.ILogger,
) IEventService {
	return &eventService{
		state:          st,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         log,
	}
}

func (s *eventService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.RadiationInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.roll(ctx)
			}
		}
	}()
}

func (s *eventService) roll(ctx context.Context) {
	active, err := s.state.RadiationLeakActive(ctx)
	if err != nil || active {
		return
	}
	if rand.Float64() >= s.cfg.RadiationProbability {
		return
	}
	s.logger.Warn("Event", "Random radiation leak triggered", nil)
	if err := s.startLeak(ctx, false); err != nil {
		s.logger.Error("Event", "Failed to start radiation leak", map[string]interface{}{"error": err.Error()})
	}
}

func (s *eventService) TriggerRadiationLeak(ctx context.Context) error {
	active, err := s.state.RadiationLeakActive(ctx)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("radiation leak already active")
	}
	return s.startLeak(ctx, true)
}

func (s *eventService) startLeak(ctx context.Context, forced bool) error {
	if err := s.state.SetRadiationLeak(ctx, true); err != nil {
		return err
	}
	s.broadcastAlert(ctx, constant.AlertRadiationLeak, map[string]interface{}{"active": true})
	s.broadcastState(ctx)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewRadiationAlert(forced)); err != nil {
			s.logger.Warn("Event", "Radiation event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *eventService) ClearRadiationLeak(ctx context.Context) error {
	return s.clear(ctx, "")
}

// ReportRadiationCleared is called by the prop controller when a crew
// member physically resolves the leak. That crew member gets the bounty.
func (s *eventService) ReportRadiationCleared(ctx context.Context, req dto.RadiationClearedRequest) error {
	active, err := s.state.RadiationLeakActive(ctx)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("no radiation leak active")
	}
	if err := s.clear(ctx, req.UserID); err != nil {
		return err
	}
	if err := s.state.AwardXP(ctx, req.UserID, constant.XPLeakCleared); err != nil {
		s.logger.Warn("Event", "Leak bounty award failed", map[string]interface{}{"user_id": req.UserID, "error": err.Error()})
	}
	return nil
}

func (s *eventService) clear(ctx context.Context, userID string) error {
	if err := s.state.SetRadiationLeak(ctx, false); err != nil {
		return err
	}
	s.logger.Info("Event", "Radiation leak cleared", map[string]interface{}{"user_id": userID})
	s.broadcastAlert(ctx, constant.AlertRadiationLeak, map[string]interface{}{"active": false})
	s.broadcastState(ctx)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewRadiationCleared(userID)); err != nil {
			s.logger.Warn("Event", "Cleared event publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *eventService) RadiationStatus(ctx context.Context) (bool, error) {
	return s.state.RadiationLeakActive(ctx)
}

func (s *eventService) broadcastState(ctx context.Context) {
	systems, err := s.state.ShipStatus(ctx)
	if err != nil {
		return
	}
	frame, _ := json.Marshal(dto.BroadcastFrame{Kind: "state", Systems: systems})
	if err := s.publisher.Publish(ctx, frame); err != nil {
		s.logger.Warn("Event", "State broadcast failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *eventService) broadcastAlert(ctx context.Context, alert string, detail map[string]interface{}) {
	frame, _ := json.Marshal(dto.BroadcastFrame{Kind: "alert", Alert: alert, Detail: detail})
	if err := s.publisher.Publish(ctx, frame); err != nil {
		s.logger.Warn("Event", "Alert broadcast failed", map[string]interface{}{"error": err.Error()})
	}
}
