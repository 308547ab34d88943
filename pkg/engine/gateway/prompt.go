package gateway

import (
	"fmt"
	"strings"

	"ship-computer-be/pkg/engine"
)

// BuildSystemPrompt assembles the instruction block the model sees before
// the crew member's command. The mission directive comes first so stage
// specific behavior dominates, followed by the identity of the speaker
// and the live ship snapshot, then the strict output contract.
func BuildSystemPrompt(usr *engine.UserContext, systems map[string]int, directive string) string {
	var b strings.Builder

	b.WriteString(directive)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "You are speaking with %s, rank %s (level %d). Permissions: %s. Current location: %s.\n",
		usr.Name, usr.RankTitle, usr.RankLevel, usr.Permissions, usr.Location)
	fmt.Fprintf(&b, "Current ship systems: %s.\n\n", engine.FormatStatus(systems))

	b.WriteString("Respond ONLY with a single JSON object, no prose outside it, shaped as:\n")
	b.WriteString(`{"updates": {"system_name": <integer 0-100>}, "response": "<spoken reply>"}` + "\n")
	b.WriteString("Only include systems that actually change in updates; leave it empty otherwise.\n")
	b.WriteString("Valid systems: shields, impulse, warp, phasers, life_support, radiation_leak.\n")
	b.WriteString("If the crew member fully accomplishes the current mission objective, add \"mission_success\": true to the object. Never set it otherwise.\n")
	b.WriteString("Stay in character as the ship's main computer. Be terse and procedural.")

	return b.String()
}
