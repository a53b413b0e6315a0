package game

import "cangkulan/arbiter/internal/cards"

// GameView is the privacy-redacted projection of a Session returned by
// the read-only query entry points. A nil slice or pointer means
// "redacted for this viewer", not "empty".
type GameView struct {
	SessionID uint32  `json:"sessionId"`
	GameID    string  `json:"gameId"`
	Player1   string  `json:"player1"`
	Player2   string  `json:"player2"`
	Phase     Phase   `json:"phase"`
	Outcome   Outcome `json:"outcome"`

	ActionNonce    uint64 `json:"actionNonce"`
	DeadlineNonce  uint64 `json:"deadlineNonce"`
	DeadlineLedger int64  `json:"deadlineLedger"`

	Hand1        []cards.Card `json:"hand1,omitempty"`
	Hand2        []cards.Card `json:"hand2,omitempty"`
	DrawPileSize int          `json:"drawPileSize"`
	DrawPile     []cards.Card `json:"drawPile,omitempty"`
	FlippedCard  *cards.Card  `json:"flippedCard,omitempty"`

	TrickState TrickState  `json:"trickState"`
	TrickCard1 *cards.Card `json:"trickCard1,omitempty"`
	TrickCard2 *cards.Card `json:"trickCard2,omitempty"`
	TricksWon  [2]uint32   `json:"tricksWon"`
}

// baseView copies every field that is never redacted regardless of
// viewer or phase.
func baseView(s *Session) GameView {
	v := GameView{
		SessionID:      s.SessionID,
		GameID:         s.GameID,
		Player1:        s.Player1,
		Player2:        s.Player2,
		Phase:          s.Phase,
		Outcome:        s.Outcome,
		ActionNonce:    s.ActionNonce,
		DeadlineNonce:  s.DeadlineNonce,
		DeadlineLedger: s.DeadlineLedger,
		DrawPileSize:   len(s.DrawPile),
		TrickState:     s.TrickState,
		TricksWon:      s.TricksWon,
	}
	if s.HasFlipped {
		c := s.FlippedCard
		v.FlippedCard = &c
	}
	return v
}

// revealGate applies the mid-reveal redaction: the opponent's
// already-submitted trick card stays hidden from the awaited revealer
// (and from any third party) until that revealer also commits to
// their own reveal, so no one can condition a reveal on the other's
// already-known card.
func (v *GameView) revealGate(s *Session, viewerSlot Slot) {
	switch s.TrickState {
	case TrickRevealWaitP1:
		if viewerSlot != SlotP2 {
			v.TrickCard2 = nil
		}
	case TrickRevealWaitP2:
		if viewerSlot != SlotP1 {
			v.TrickCard1 = nil
		}
	}
}

func trickCard(slot *TrickSlot) *cards.Card {
	if slot == nil || slot.Card == nil {
		return nil
	}
	c := *slot.Card
	return &c
}

// GetGame implements the public get_game: full state only once
// Finished, both hands and the draw pile redacted while play is in
// progress, regardless of who calls it.
func GetGame(s *Session) GameView {
	v := baseView(s)
	if s.Phase == PhaseFinished {
		v.Hand1 = s.Hand1
		v.Hand2 = s.Hand2
		v.DrawPile = s.DrawPile
		v.TrickCard1 = trickCard(&s.Trick[0])
		v.TrickCard2 = trickCard(&s.Trick[1])
		return v
	}
	return v
}

// GetGameView implements get_game_view: per-viewer redaction. Unknown
// viewers (slot 0) see both hands and the draw pile redacted; a player
// sees their own hand but not the opponent's, and is subject to the
// mid-reveal gate on the opponent's trick card.
func GetGameView(s *Session, viewer string) GameView {
	v := baseView(s)
	slot := s.PlayerSlot(viewer)

	switch slot {
	case SlotP1:
		v.Hand1 = s.Hand1
	case SlotP2:
		v.Hand2 = s.Hand2
	}

	v.TrickCard1 = trickCard(&s.Trick[0])
	v.TrickCard2 = trickCard(&s.Trick[1])
	v.revealGate(s, slot)

	if s.Phase == PhaseFinished {
		v.Hand1 = s.Hand1
		v.Hand2 = s.Hand2
		v.DrawPile = s.DrawPile
	}
	return v
}

// GetGameDebug implements get_game_debug: full, unredacted state.
// Authorization (admin-only) is enforced by the caller before this is
// invoked, mirroring the rest of the package trusting an
// already-authenticated identity.
func GetGameDebug(s *Session) GameView {
	v := baseView(s)
	v.Hand1 = s.Hand1
	v.Hand2 = s.Hand2
	v.DrawPile = s.DrawPile
	v.TrickCard1 = trickCard(&s.Trick[0])
	v.TrickCard2 = trickCard(&s.Trick[1])
	return v
}
