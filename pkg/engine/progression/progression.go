package progression

import (
	"context"
	"fmt"

	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/pkg/engine"
	"ship-computer-be/pkg/engine/state"
)

// Engine advances a crew member through the rank ladder when the model
// judges the current mission objective accomplished.
type Engine struct {
	state  *state.Manager
	logger logger.ILogger
}

func New(st *state.Manager, log logger.ILogger) *Engine {
	return &Engine{state: st, logger: log}
}

// HandleMissionSuccess promotes the user and decorates the result with
// the new rank plus a congratulation line. At the top of the ladder the
// success flag is acknowledged without a promotion.
func (e *Engine) HandleMissionSuccess(ctx context.Context, userID string, res *engine.Result) error {
	promoted, title, err := e.state.Promote(ctx, userID)
	if err != nil {
		return fmt.Errorf("promote %s: %w", userID, err)
	}

	if !promoted {
		e.logger.Info("Progression", "Mission success at maximum rank", map[string]interface{}{
			"user_id": userID,
			"rank":    title,
		})
		return nil
	}

	res.RankUp = title
	res.Response = fmt.Sprintf("%s Mission objective complete. You have been promoted to the rank of %s.", res.Response, title)
	return nil
}
