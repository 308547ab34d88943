package gateway

import (
	"fmt"
	"strings"

	"ship-computer-be/pkg/engine"
)

var mockFillers = []string{
	"Processing parameters.",
	"Working...",
	"Unable to comply with that specific request.",
	"Please restate the command.",
	"Input received.",
}

// MockResult produces a canned but state-aware reply for offline
// development. A handful of command families get themed narrations, the
// rest rotate through fillers keyed off the input length so repeated
// identical commands stay deterministic.
func MockResult(text string, systems map[string]int) *engine.Result {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "damage") || strings.Contains(lower, "report"):
		shields := systems["shields"]
		return engine.NewResult(fmt.Sprintf("Damage report: Shields at %d%%. Radiation levels nominal.", shields))
	case strings.Contains(lower, "scan"):
		return engine.NewResult("Scanning... No anomalies detected in this sector.")
	case strings.Contains(lower, "beam") || strings.Contains(lower, "transport"):
		return engine.NewResult("Transporter room standing by. Coordinates locked.")
	case strings.Contains(lower, "loki"):
		return engine.NewResult("Low Orbit Kinetic Interceptor online. Awaiting target designation.")
	}

	return engine.NewResult(mockFillers[len(text)%len(mockFillers)])
}
