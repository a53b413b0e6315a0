package game

import (
	"context"

	"cangkulan/arbiter/internal/cards"
	"cangkulan/arbiter/internal/zkcrypto"
)

// resolveTrick runs once both players have revealed: the
// trick is scored, the loser's penalty (if any) applied, trick fields
// cleared, and either the session finalized or the next trick armed.
func (e *Engine) resolveTrick(ctx context.Context, s *Session, nowLedger int64) ([]Event, error) {
	p1 := s.Trick[SlotP1-1]
	p2 := s.Trick[SlotP2-1]

	events := []Event{}

	switch {
	case p1.Card != nil && p2.Card != nil:
		winner := SlotP1
		if p2.Card.Value() > p1.Card.Value() {
			winner = SlotP2
		}
		*s.tricksWon(winner) += 1
		events = append(events, newEvent("TrickResolved", map[string]string{
			"sessionId": fmtU32(s.SessionID),
			"winner":    fmtU32(uint32(winner)),
			"card1":     fmtU32(uint32(*p1.Card)),
			"card2":     fmtU32(uint32(*p2.Card)),
		}))

	case p1.Card != nil || p2.Card != nil:
		winner := SlotP1
		nonFollower := SlotP2
		attrs := map[string]string{
			"sessionId": fmtU32(s.SessionID),
		}
		if p1.Card == nil {
			winner = SlotP2
			nonFollower = SlotP1
			attrs["card2"] = fmtU32(uint32(*p2.Card))
		} else {
			attrs["card1"] = fmtU32(uint32(*p1.Card))
		}
		*s.tricksWon(winner) += 1
		attrs["winner"] = fmtU32(uint32(winner))
		events = append(events, newEvent("TrickResolved", attrs))
		if len(s.DrawPile) > 0 {
			penalty := s.DrawPile[0]
			s.DrawPile = s.DrawPile[1:]
			hand := s.hand(nonFollower)
			*hand = append(*hand, penalty)
			events = append(events, newEvent("PenaltyCardDrawn", map[string]string{
				"sessionId": fmtU32(s.SessionID),
				"player":    fmtU32(uint32(nonFollower)),
				"card":      fmtU32(uint32(penalty)),
			}))
		}

	default:
		// Waste trick: winner 0, no cards scored.
		events = append(events, newEvent("TrickResolved", map[string]string{
			"sessionId": fmtU32(s.SessionID),
			"winner":    "0",
		}))
	}

	s.Trick[0] = TrickSlot{}
	s.Trick[1] = TrickSlot{}

	if len(s.Hand1) == 0 || len(s.Hand2) == 0 || len(s.DrawPile) == 0 {
		s.TrickState = TrickNone
		finalEvents, err := e.Finalize(ctx, s, nowLedger)
		if err != nil {
			return nil, err
		}
		return append(events, finalEvents...), nil
	}

	s.FlippedCard = s.DrawPile[0]
	s.DrawPile = s.DrawPile[1:]
	s.TrickState = TrickCommitWaitBoth
	s.armDeadline(nowLedger)
	return events, nil
}

// determineWinner applies the natural-termination tie-break ladder:
// habis duluan, then tricks won, then cards remaining, then hand
// value, else Draw.
func determineWinner(s *Session) Outcome {
	h1, h2 := len(s.Hand1), len(s.Hand2)
	if h1 == 0 && h2 != 0 {
		return OutcomeP1Win
	}
	if h2 == 0 && h1 != 0 {
		return OutcomeP2Win
	}

	t1, t2 := s.TricksWon[0], s.TricksWon[1]
	if t1 != t2 {
		if t1 > t2 {
			return OutcomeP1Win
		}
		return OutcomeP2Win
	}

	if h1 != h2 {
		if h1 < h2 {
			return OutcomeP1Win
		}
		return OutcomeP2Win
	}

	v1 := cards.HandTotalValue(s.Hand1)
	v2 := cards.HandTotalValue(s.Hand2)
	if v1 != v2 {
		if v1 < v2 {
			return OutcomeP1Win
		}
		return OutcomeP2Win
	}

	return OutcomeDraw
}

// Finalize implements the finalization tail shared by natural
// termination, timeout resolution, and forfeit: determine or accept
// an outcome, report to the Hub, publish GameEnded, and clear
// deadlines. It does not write player history; internal/app appends
// history for both players after Finalize returns.
func (e *Engine) Finalize(ctx context.Context, s *Session, nowLedger int64) ([]Event, error) {
	if s.Outcome == OutcomeUnresolved {
		s.Outcome = determineWinner(s)
	}

	player1Won := s.Outcome == OutcomeP1Win
	if s.Outcome == OutcomeDraw {
		player1Won = drawCoinFlip(s) == SlotP1
	}

	if e.Hub == nil {
		return nil, ErrGameHubNotSet
	}
	if err := e.Hub.EndGame(ctx, s.SessionID, player1Won); err != nil {
		return nil, err
	}

	s.Phase = PhaseFinished
	s.DeadlineNonce = 0
	s.DeadlineLedger = 0

	return []Event{
		newEvent("GameEnded", map[string]string{
			"sessionId": fmtU32(s.SessionID),
			"outcome":   string(s.Outcome),
		}),
		newEvent("HubEndReported", map[string]string{
			"sessionId":  fmtU32(s.SessionID),
			"player1Won": boolStr(player1Won),
		}),
	}, nil
}

// drawCoinFlip derives the coin flip used to report a Draw to a Hub
// API that has no draw outcome: keyed off both seed commits, falling
// back to session_id mod 2 only in the theoretically-unreachable case
// a commit is missing at finalization time (finalization only ever
// runs after at least one commit).
func drawCoinFlip(s *Session) Slot {
	c1, c2 := s.Seed[0].Commit, s.Seed[1].Commit
	if c1 != nil && c2 != nil {
		h := zkcrypto.Keccak256(c1[:], c2[:])
		if h[0]%2 == 0 {
			return SlotP1
		}
		return SlotP2
	}
	if s.SessionID%2 == 0 {
		return SlotP1
	}
	return SlotP2
}
