// Package access enforces location gating: certain command phrases may
// only be executed from one physical location on the ship. The check runs
// before the fast path, the cache and the model, so a denied command never
// touches any of them.
package access

import (
	"fmt"
	"strings"
)

// Restriction binds a command phrase to the single location it may be
// issued from. Matching is substring-based on the lower-cased command.
type Restriction struct {
	Phrase   string
	Location string
}

// Restrictions is evaluated in order; the first phrase present in the
// command decides the outcome.
var Restrictions = []Restriction{
	{Phrase: "eject warp core", Location: "Engineering"},
	{Phrase: "purge coolant", Location: "Engineering"},
	{Phrase: "medical override", Location: "Sickbay"},
	{Phrase: "quarantine", Location: "Sickbay"},
	{Phrase: "cargo release", Location: "Cargo Bay"},
	{Phrase: "jettison cargo", Location: "Cargo Bay"},
	{Phrase: "jefferies tube access", Location: "Jefferies Tube"},
}

// Denial describes a rejected command.
type Denial struct {
	Phrase           string
	RequiredLocation string
	CurrentLocation  string
}

// Response renders the fixed in-universe denial line.
func (d *Denial) Response() string {
	return fmt.Sprintf("Access Denied. Command '%s' requires physical presence in %s. Current location: %s.",
		d.Phrase, d.RequiredLocation, d.CurrentLocation)
}

// Check scans text for restricted phrases. It returns a Denial when a
// phrase is present and the user is elsewhere, nil when the command may
// proceed.
func Check(text, currentLocation string) *Denial {
	lower := strings.ToLower(text)
	for _, r := range Restrictions {
		if strings.Contains(lower, r.Phrase) && currentLocation != r.Location {
			return &Denial{
				Phrase:           r.Phrase,
				RequiredLocation: r.Location,
				CurrentLocation:  currentLocation,
			}
		}
	}
	return nil
}
