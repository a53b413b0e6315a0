package game

import "context"

// TickTimeout implements tick_timeout: rate-limited to one call per
// MinTickGapLedgers so an attacker cannot force the nonce deadline to
// expire ahead of the ledger deadline by rapid-firing ticks.
func (e *Engine) TickTimeout(s *Session, caller string, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if _, err := requirePlayer(s, caller); err != nil {
		return nil, err
	}
	if nowLedger-s.LastTickLedger < MinTickGapLedgers {
		return nil, ErrTickTooSoon
	}
	s.LastTickLedger = nowLedger
	s.touch(nowLedger)
	return []Event{newEvent("TimeoutTicked", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"caller":    caller,
	})}, nil
}

// ResolveTimeout implements resolve_timeout: once either deadline has
// passed, determines a phase-specific winner and finalizes.
func (e *Engine) ResolveTimeout(ctx context.Context, s *Session, caller string, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if _, err := requirePlayer(s, caller); err != nil {
		return nil, err
	}
	if s.DeadlineNonce == 0 && s.DeadlineLedger == 0 {
		return nil, ErrTimeoutNotConfigured
	}
	if s.ActionNonce < s.DeadlineNonce && nowLedger < s.DeadlineLedger {
		return nil, ErrTimeoutNotReached
	}

	switch s.Phase {
	case PhaseSeedCommit:
		c1, c2 := s.Seed[0].Commit != nil, s.Seed[1].Commit != nil
		switch {
		case c1 && !c2:
			s.Outcome = OutcomeP1Win
		case c2 && !c1:
			s.Outcome = OutcomeP2Win
		default:
			return nil, ErrTimeoutNotApplicable
		}
	case PhaseSeedReveal:
		r1, r2 := s.Seed[0].Revealed, s.Seed[1].Revealed
		switch {
		case r1 && !r2:
			s.Outcome = OutcomeP1Win
		case r2 && !r1:
			s.Outcome = OutcomeP2Win
		default:
			s.Outcome = OutcomeDraw
		}
	case PhasePlaying:
		switch s.TrickState {
		case TrickCommitWaitP1, TrickRevealWaitP1:
			s.Outcome = OutcomeP2Win
		case TrickCommitWaitP2, TrickRevealWaitP2:
			s.Outcome = OutcomeP1Win
		default: // CommitWaitBoth, RevealWaitBoth, None
			s.Outcome = determineWinner(s)
		}
	case PhaseFinished:
		return nil, ErrGameAlreadyEnded
	}

	events := []Event{newEvent("TimeoutResolved", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"phase":     string(s.Phase),
	})}
	finalEvents, err := e.Finalize(ctx, s, nowLedger)
	if err != nil {
		return nil, err
	}
	return append(events, finalEvents...), nil
}
