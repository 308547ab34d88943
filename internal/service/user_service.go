package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/dto"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine/state"
)

type IUserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.CrewProfileResponse, error)
	GetProfile(ctx context.Context, userID string) (*dto.CrewProfileResponse, error)
	UpdateLocation(ctx context.Context, req dto.LocationUpdateRequest) (*dto.LocationUpdateResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntryResponse, error)
}

type userService struct {
	state  *state.Manager
	logger logger.ILogger
}

func NewUserService(st *state.Manager, log logger.ILogger) IUserService {
	return &userService{state: st, logger: log}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.CrewProfileResponse, error) {
	rank, err := s.state.RegisterUser(ctx, req.UserID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	s.logger.Info("User", "Crew member registered", map[string]interface{}{"user_id": req.UserID, "rank": rank})
	return s.GetProfile(ctx, req.UserID)
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.CrewProfileResponse, error) {
	usr, err := s.state.UserContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &dto.CrewProfileResponse{
		UserID:       usr.ID,
		Name:         usr.Name,
		Rank:         usr.RankTitle,
		RankLevel:    usr.RankLevel,
		Permissions:  usr.Permissions,
		MissionStage: usr.MissionStage,
		Location:     usr.Location,
		XP:           usr.XP,
	}, nil
}

// UpdateLocation decodes the scanned plaque token and moves the crew
// member. Tokens are plain base64 of the location name, which keeps the
// plaques printable without a signing ceremony.
func (s *userService) UpdateLocation(ctx context.Context, req dto.LocationUpdateRequest) (*dto.LocationUpdateResponse, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.Token))
	if err != nil {
		return nil, fmt.Errorf("undecodable location token")
	}
	location := strings.TrimSpace(string(raw))

	if !validLocation(location) {
		return nil, fmt.Errorf("unknown location %q", location)
	}

	if err := s.state.SetLocation(ctx, req.UserID, location); err != nil {
		return nil, fmt.Errorf("set location: %w", err)
	}
	s.logger.Info("User", "Crew member moved", map[string]interface{}{"user_id": req.UserID, "location": location})
	return &dto.LocationUpdateResponse{UserID: req.UserID, Location: location}, nil
}

func (s *userService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntryResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	entries, err := s.state.LeaderboardTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	out := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LeaderboardEntryResponse{Name: e.Name, Rank: e.Rank, XP: e.XP})
	}
	return out, nil
}

func validLocation(location string) bool {
	for _, l := range constant.Locations {
		if l == location {
			return true
		}
	}
	return false
}
