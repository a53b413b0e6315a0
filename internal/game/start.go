package game

import "context"

// Start implements the start entry point. The caller (internal/app's
// envelope auth) checks one signature before Start is invoked, that of
// player1; player2 is not authenticated for start. Start itself only
// enforces the domain invariants: p1 != p2
// and session-id uniqueness (the latter enforced by the caller's
// storage layer refusing to overwrite an existing session; Start
// itself never sees an existing session to compare against).
//
// The hub is reported to before any session state is returned, so a
// hub failure aborts creation atomically: the caller must not persist
// the returned session if Start returns an error.
func (e *Engine) Start(ctx context.Context, sessionID uint32, gameID string, p1, p2 string, pts1, pts2 uint64, nowLedger int64) (*Session, []Event, error) {
	if p1 == p2 {
		return nil, nil, ErrSelfPlayNotAllowed
	}
	if e.Hub == nil {
		return nil, nil, ErrGameHubNotSet
	}
	if err := e.Hub.StartGame(ctx, gameID, sessionID, p1, p2, pts1, pts2); err != nil {
		return nil, nil, err
	}

	s := &Session{
		SessionID:      sessionID,
		GameID:         gameID,
		Player1:        p1,
		Player2:        p2,
		Pts1:           pts1,
		Pts2:           pts2,
		Phase:          PhaseSeedCommit,
		Outcome:        OutcomeUnresolved,
		TrickState:     TrickNone,
		TTLUntilLedger: nowLedger + SessionTTLLedgers,
	}

	ev := newEvent("GameStarted", map[string]string{
		"sessionId": fmtU32(sessionID),
		"player1":   p1,
		"player2":   p2,
	})
	hubEv := newEvent("HubStartReported", map[string]string{
		"sessionId": fmtU32(sessionID),
		"gameId":    gameID,
	})
	return s, []Event{ev, hubEv}, nil
}
