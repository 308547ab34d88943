package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SHIP_STATE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Well-known event type codes.
const (
	TypeStateChanged     = "SHIP_STATE_CHANGED"
	TypeCrewPromoted     = "CREW_PROMOTED"
	TypeRadiationAlert   = "RADIATION_ALERT"
	TypeRadiationCleared = "RADIATION_CLEARED"
)

// NewStateChanged wraps a full ship-systems snapshot.
func NewStateChanged(systems map[string]int) Event {
	data := make(map[string]interface{}, len(systems))
	for k, v := range systems {
		data[k] = v
	}
	return BaseEvent{Type: TypeStateChanged, Data: data, OccurredAt: time.Now()}
}

// NewCrewPromoted records a rank advancement.
func NewCrewPromoted(userID, rank string) Event {
	return BaseEvent{
		Type:       TypeCrewPromoted,
		Data:       map[string]interface{}{"user_id": userID, "rank": rank},
		OccurredAt: time.Now(),
	}
}

// NewRadiationAlert records a leak starting or being forced by an admin.
func NewRadiationAlert(forced bool) Event {
	return BaseEvent{
		Type:       TypeRadiationAlert,
		Data:       map[string]interface{}{"forced": forced},
		OccurredAt: time.Now(),
	}
}

// NewRadiationCleared records the leak ending, with the crew member who
// resolved it when one did.
func NewRadiationCleared(userID string) Event {
	data := map[string]interface{}{}
	if userID != "" {
		data["user_id"] = userID
	}
	return BaseEvent{Type: TypeRadiationCleared, Data: data, OccurredAt: time.Now()}
}
