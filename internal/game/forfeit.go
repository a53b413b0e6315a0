package game

import "context"

// Forfeit implements forfeit: immediately finalizes the game with the
// caller's opponent as winner, regardless of phase or trick state.
func (e *Engine) Forfeit(ctx context.Context, s *Session, caller string, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}

	if Opponent(slot) == SlotP1 {
		s.Outcome = OutcomeP1Win
	} else {
		s.Outcome = OutcomeP2Win
	}

	events := []Event{newEvent("PlayerForfeited", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	})}
	finalEvents, err := e.Finalize(ctx, s, nowLedger)
	if err != nil {
		return nil, err
	}
	return append(events, finalEvents...), nil
}
