// Package state wraps the raw store contract with the world-state
// operations the pipeline works in: ship gauges, user profiles, rank and
// mission tables, XP and auth sessions. Every method is a discrete atomic
// store operation; the manager holds no locks of its own.
package state

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/repository/contract"
	"ship-computer-be/pkg/engine"
)

type Manager struct {
	store  contract.StateRepository
	logger logger.ILogger
}

func NewManager(store contract.StateRepository, log logger.ILogger) *Manager {
	return &Manager{store: store, logger: log}
}

// Store exposes the underlying repository for components that only need
// generic string get/set (semantic cache).
func (m *Manager) Store() contract.StateRepository {
	return m.store
}

// Initialize seeds the rank table, the mission table and the default ship
// systems. The max_rank_level sentinel makes the bootstrap idempotent:
// a second boot against the same store is a no-op.
func (m *Manager) Initialize(ctx context.Context) error {
	n, err := m.store.Exists(ctx, constant.KeyMaxRankLevel)
	if err != nil {
		return fmt.Errorf("bootstrap check: %w", err)
	}
	if n > 0 {
		return nil
	}
	m.logger.Info("State", "First run detected, seeding world state", nil)

	for level, rank := range constant.Ranks {
		key := constant.KeyRankPrefix + strconv.Itoa(level)
		if err := m.store.HSet(ctx, key, map[string]interface{}{
			"title":       rank.Title,
			"permissions": rank.Permissions,
		}); err != nil {
			return fmt.Errorf("seed rank %d: %w", level, err)
		}
	}

	for i, mission := range constant.Missions {
		key := constant.KeyMissionPrefix + strconv.Itoa(i+1)
		if err := m.store.HSet(ctx, key, map[string]interface{}{
			"name":                   mission.Name,
			"system_prompt_modifier": mission.SystemPromptModifier,
		}); err != nil {
			return fmt.Errorf("seed mission %d: %w", i+1, err)
		}
	}

	if exists, err := m.store.Exists(ctx, constant.KeyShipSystems); err != nil {
		return err
	} else if exists == 0 {
		fields := make(map[string]interface{}, len(constant.DefaultShipSystems))
		for k, v := range constant.DefaultShipSystems {
			fields[k] = v
		}
		if err := m.store.HSet(ctx, constant.KeyShipSystems, fields); err != nil {
			return fmt.Errorf("seed ship systems: %w", err)
		}
	}

	return m.store.Set(ctx, constant.KeyMaxRankLevel, strconv.Itoa(len(constant.Ranks)-1), 0)
}

// ShipStatus returns the full gauge snapshot as integers.
func (m *Manager) ShipStatus(ctx context.Context) (map[string]int, error) {
	raw, err := m.store.HGetAll(ctx, constant.KeyShipSystems)
	if err != nil {
		return nil, err
	}
	systems := make(map[string]int, len(raw))
	for k, v := range raw {
		n, _ := strconv.Atoi(v)
		systems[k] = n
	}
	return systems, nil
}

// clamp keeps gauges in their documented domain: [0,100] for power levels,
// 0/1 for the leak flag.
func clamp(system string, value int) int {
	max := 100
	if system == constant.SystemRadiationLeak {
		max = 1
	}
	if value < 0 {
		return 0
	}
	if value > max {
		return max
	}
	return value
}

// ApplyUpdates writes a batch of gauge changes as one hash update, so a
// concurrent status read never observes a partial application.
func (m *Manager) ApplyUpdates(ctx context.Context, updates map[string]int) error {
	if len(updates) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(updates))
	for system, value := range updates {
		fields[system] = clamp(system, value)
	}
	return m.store.HSet(ctx, constant.KeyShipSystems, fields)
}

func (m *Manager) RadiationLeakActive(ctx context.Context) (bool, error) {
	val, err := m.store.HGet(ctx, constant.KeyShipSystems, constant.SystemRadiationLeak)
	if errors.Is(err, contract.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	n, _ := strconv.Atoi(val)
	return n != 0, nil
}

func (m *Manager) SetRadiationLeak(ctx context.Context, active bool) error {
	flag := 0
	if active {
		flag = 1
	}
	return m.store.HSet(ctx, constant.KeyShipSystems, map[string]interface{}{
		constant.SystemRadiationLeak: flag,
	})
}

// UserContext joins the user hash with the rank table. Unknown users get
// the documented defaults without being persisted.
func (m *Manager) UserContext(ctx context.Context, userID string) (*engine.UserContext, error) {
	data, err := m.store.HGetAll(ctx, constant.KeyUserPrefix+userID)
	if err != nil {
		return nil, err
	}

	usr := &engine.UserContext{
		ID:           userID,
		Name:         data["name"],
		RankLevel:    0,
		MissionStage: 1,
		Location:     constant.DefaultLocation,
	}
	if v, ok := data["rank_level"]; ok {
		usr.RankLevel, _ = strconv.Atoi(v)
	}
	if v, ok := data["mission_stage"]; ok {
		usr.MissionStage, _ = strconv.Atoi(v)
	}
	if v, ok := data["current_location"]; ok && v != "" {
		usr.Location = v
	}
	if v, ok := data["xp"]; ok {
		usr.XP, _ = strconv.Atoi(v)
	}

	rank, err := m.store.HGetAll(ctx, constant.KeyRankPrefix+strconv.Itoa(usr.RankLevel))
	if err != nil {
		return nil, err
	}
	usr.RankTitle = rank["title"]
	usr.Permissions = rank["permissions"]
	if usr.RankTitle == "" {
		usr.RankTitle = constant.Ranks[0].Title
	}
	return usr, nil
}

// EnsureUser creates the profile hash on first contact so the leaderboard
// never carries nameless entries. Existing profiles are left untouched.
func (m *Manager) EnsureUser(ctx context.Context, userID string) error {
	key := constant.KeyUserPrefix + userID
	if _, err := m.store.HGet(ctx, key, "name"); err == nil {
		return nil
	} else if !errors.Is(err, contract.ErrNotFound) {
		return err
	}

	short := userID
	if len(short) > 5 {
		short = short[:5]
	}
	return m.store.HSet(ctx, key, map[string]interface{}{
		"name":             "Cadet " + short,
		"rank":             constant.Ranks[0].Title,
		"rank_level":       0,
		"mission_stage":    1,
		"current_location": constant.DefaultLocation,
	})
}

// RegisterUser creates (or renames) a profile explicitly. Registered crew
// start one step up the ladder, at Ensign.
func (m *Manager) RegisterUser(ctx context.Context, userID, name string) (string, error) {
	key := constant.KeyUserPrefix + userID
	title := constant.Ranks[1].Title
	if err := m.store.HSet(ctx, key, map[string]interface{}{
		"name":             name,
		"rank":             title,
		"rank_level":       1,
		"mission_stage":    1,
		"current_location": constant.DefaultLocation,
	}); err != nil {
		return "", err
	}
	return title, nil
}

// AwardXP increments the user's XP and upserts the leaderboard entry with
// the resulting total in the same operation.
func (m *Manager) AwardXP(ctx context.Context, userID string, amount int) error {
	if err := m.EnsureUser(ctx, userID); err != nil {
		return err
	}
	total, err := m.store.HIncrBy(ctx, constant.KeyUserPrefix+userID, "xp", int64(amount))
	if err != nil {
		return err
	}
	return m.store.ZAdd(ctx, constant.KeyLeaderboard, userID, float64(total))
}

func (m *Manager) SetLocation(ctx context.Context, userID, location string) error {
	if err := m.EnsureUser(ctx, userID); err != nil {
		return err
	}
	return m.store.HSet(ctx, constant.KeyUserPrefix+userID, map[string]interface{}{
		"current_location": location,
	})
}

// Promote advances the user one rank level and one mission stage, and pays
// out the promotion XP. At the ceiling it is a no-op and returns the top
// title with promoted=false.
func (m *Manager) Promote(ctx context.Context, userID string) (bool, string, error) {
	maxRaw, err := m.store.Get(ctx, constant.KeyMaxRankLevel)
	if err != nil {
		return false, "", err
	}
	maxLevel, _ := strconv.Atoi(maxRaw)

	userKey := constant.KeyUserPrefix + userID
	current := 0
	if v, err := m.store.HGet(ctx, userKey, "rank_level"); err == nil {
		current, _ = strconv.Atoi(v)
	} else if !errors.Is(err, contract.ErrNotFound) {
		return false, "", err
	}

	if current >= maxLevel {
		title, err := m.store.HGet(ctx, constant.KeyRankPrefix+strconv.Itoa(maxLevel), "title")
		if err != nil {
			return false, "", err
		}
		return false, title, nil
	}

	newLevel := current + 1
	title, err := m.store.HGet(ctx, constant.KeyRankPrefix+strconv.Itoa(newLevel), "title")
	if err != nil {
		return false, "", err
	}

	if err := m.store.HSet(ctx, userKey, map[string]interface{}{
		"rank_level": newLevel,
		"rank":       title,
	}); err != nil {
		return false, "", err
	}
	if _, err := m.store.HIncrBy(ctx, userKey, "mission_stage", 1); err != nil {
		return false, "", err
	}
	if err := m.AwardXP(ctx, userID, constant.XPPromotion); err != nil {
		return false, "", err
	}

	m.logger.Info("State", "User promoted", map[string]interface{}{"user_id": userID, "rank": title})
	return true, title, nil
}

// MissionDirective returns the narrative prompt fragment for a stage, or
// the generic persona when the stage is past the scripted campaign.
func (m *Manager) MissionDirective(ctx context.Context, stage int) string {
	data, err := m.store.HGetAll(ctx, constant.KeyMissionPrefix+strconv.Itoa(stage))
	if err != nil || data["system_prompt_modifier"] == "" {
		return constant.MissionFallbackPrompt
	}
	return data["system_prompt_modifier"]
}

// LeaderboardTop returns the top-n XP holders joined with their profiles.
func (m *Manager) LeaderboardTop(ctx context.Context, n int) ([]engine.LeaderboardEntry, error) {
	members, err := m.store.ZRevRangeWithScores(ctx, constant.KeyLeaderboard, 0, int64(n-1))
	if err != nil {
		return nil, err
	}
	entries := make([]engine.LeaderboardEntry, 0, len(members))
	for _, member := range members {
		profile, err := m.store.HGetAll(ctx, constant.KeyUserPrefix+member.Member)
		if err != nil {
			return nil, err
		}
		entries = append(entries, engine.LeaderboardEntry{
			Name: profile["name"],
			Rank: profile["rank"],
			XP:   int(member.Score),
		})
	}
	return entries, nil
}

// UserName returns the display name, falling back to the raw id.
func (m *Manager) UserName(ctx context.Context, userID string) string {
	name, err := m.store.HGet(ctx, constant.KeyUserPrefix+userID, "name")
	if err != nil || name == "" {
		return userID
	}
	return name
}

// CreateAuthSession stores a fresh 4-digit code for the initiator,
// replacing any live session, with the documented TTL.
func (m *Manager) CreateAuthSession(ctx context.Context, userID string) (string, error) {
	code := strconv.Itoa(1000 + rand.Intn(9000))
	err := m.store.Set(ctx, constant.KeyAuthPrefix+userID, code, constant.AuthSessionTTL)
	return code, err
}

// ConsumeAuthSession finds the live session matching code, deletes it and
// returns the initiator's id. ok=false when no session matches.
func (m *Manager) ConsumeAuthSession(ctx context.Context, code string) (string, bool, error) {
	keys, err := m.store.Keys(ctx, constant.KeyAuthPrefix+"*")
	if err != nil {
		return "", false, err
	}
	for _, key := range keys {
		stored, err := m.store.Get(ctx, key)
		if errors.Is(err, contract.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		if stored == code {
			if err := m.store.Delete(ctx, key); err != nil {
				return "", false, err
			}
			return key[len(constant.KeyAuthPrefix):], true, nil
		}
	}
	return "", false, nil
}
