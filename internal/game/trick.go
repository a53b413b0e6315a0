package game

import (
	"context"

	"cangkulan/arbiter/internal/cards"
	"cangkulan/arbiter/internal/zkcrypto"
	"cangkulan/arbiter/internal/zkverifier"
)

// awaitingCommitter reports whether slot is awaited to commit in the
// current trick sub-state, and the sub-state to advance to once it
// commits.
func awaitingCommitter(ts TrickState, slot Slot) (awaited bool, next TrickState) {
	switch ts {
	case TrickCommitWaitBoth:
		if slot == SlotP1 {
			return true, TrickCommitWaitP2
		}
		return true, TrickCommitWaitP1
	case TrickCommitWaitP1:
		return slot == SlotP1, TrickRevealWaitBoth
	case TrickCommitWaitP2:
		return slot == SlotP2, TrickRevealWaitBoth
	default:
		return false, ts
	}
}

func (s *Session) requireCommitAwaited(slot Slot) (TrickState, error) {
	if s.TrickState == TrickNone || s.TrickState == TrickRevealWaitBoth ||
		s.TrickState == TrickRevealWaitP1 || s.TrickState == TrickRevealWaitP2 {
		return "", ErrNoTrickInProgress
	}
	awaited, next := awaitingCommitter(s.TrickState, slot)
	if !awaited {
		return "", ErrNotYourTurn
	}
	return next, nil
}

// submitCommit is the shared routine all three commit-play entry
// points converge into.
func (e *Engine) submitCommit(s *Session, caller string, expectedNonce uint64, commitHash [32]byte, zkFlag bool, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhasePlaying); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	if expectedNonce != s.ActionNonce {
		return nil, ErrInvalidNonce
	}
	next, err := s.requireCommitAwaited(slot)
	if err != nil {
		return nil, err
	}
	ts := s.trick(slot)
	if ts.PlayCommit != nil {
		return nil, ErrPlayCommitAlreadySubmitted
	}

	c := commitHash
	ts.PlayCommit = &c
	ts.ZKFlag = zkFlag
	s.TrickState = next
	s.touch(nowLedger)
	s.armDeadline(nowLedger)

	return []Event{newEvent("PlayCommitted", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	})}, nil
}

// CommitPlay implements commit_play: commit is keccak256(action ||
// salt) for a plain card id or the cannot-follow sentinel.
func (e *Engine) CommitPlay(s *Session, caller string, commitHash [32]byte, expectedNonce uint64, nowLedger int64) ([]Event, error) {
	return e.submitCommit(s, caller, expectedNonce, commitHash, false, nowLedger)
}

// CommitPlayZK implements commit_play_zk: the arbiter assembles the
// public valid set from the caller's own authoritative hand (never
// trusting a caller-supplied card list) and verifies a 1-of-N ring
// sigma proof (mode 7) that the Pedersen-committed card lies in it.
func (e *Engine) CommitPlayZK(s *Session, caller string, commitHash [32]byte, proof []byte, expectedNonce uint64, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhasePlaying); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireCommitAwaited(slot); err != nil {
		return nil, err
	}
	if expectedNonce != s.ActionNonce {
		return nil, ErrInvalidNonce
	}
	trickSuit := s.trickSuit()
	hand := *s.hand(slot)
	validSet := filterSuit(hand, trickSuit)
	if len(validSet) == 0 {
		return nil, ErrZkPlaySetEmpty
	}

	publicInputs := buildRingPublicInputs(commitHash, validSet, s.SessionID, caller)
	res := zkverifier.Verify(publicInputs, proof)
	if !res.OK {
		return nil, ErrZkPlayProofInvalid
	}

	events, err := e.submitCommit(s, caller, expectedNonce, commitHash, true, nowLedger)
	if err != nil {
		return nil, err
	}
	events = append(events, newEvent("ZkCardPlayVerified", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	}))
	return events, nil
}

// CommitCangkulZK implements commit_cangkul_zk: the prerequisite
// has_suit(hand, trick_suit) == false is checked before the verifier
// is even invoked, then a mode-8 aggregate Schnorr proof is verified
// over the caller's entire hand.
func (e *Engine) CommitCangkulZK(s *Session, caller string, commitHash [32]byte, proof []byte, expectedNonce uint64, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhasePlaying); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireCommitAwaited(slot); err != nil {
		return nil, err
	}
	if expectedNonce != s.ActionNonce {
		return nil, ErrInvalidNonce
	}
	trickSuit := s.trickSuit()
	hand := *s.hand(slot)
	if cards.HasSuit(hand, trickSuit) {
		return nil, ErrHasMatchingSuit
	}

	publicInputs := buildCangkulPublicInputs(commitHash, trickSuit, hand, s.SessionID, caller)
	res := zkverifier.Verify(publicInputs, proof)
	if !res.OK {
		return nil, ErrZkCangkulProofInvalid
	}

	events, err := e.submitCommit(s, caller, expectedNonce, commitHash, true, nowLedger)
	if err != nil {
		return nil, err
	}
	events = append(events, newEvent("ZkCangkulVerified", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
	}))
	return events, nil
}

func filterSuit(hand []cards.Card, suit uint8) []cards.Card {
	var out []cards.Card
	for _, c := range hand {
		if c.Suit() == suit {
			out = append(out, c)
		}
	}
	return out
}

func buildRingPublicInputs(commitHash [32]byte, validSet []cards.Card, sessionID uint32, player string) []byte {
	n := be4(uint32(len(validSet)))
	sid := sidBE(sessionID)
	out := make([]byte, 0, 32+4+4*len(validSet)+4+len(player))
	out = append(out, commitHash[:]...)
	out = append(out, n[:]...)
	for _, c := range validSet {
		cb := be4(uint32(c))
		out = append(out, cb[:]...)
	}
	out = append(out, sid[:]...)
	out = append(out, []byte(player)...)
	return out
}

func buildCangkulPublicInputs(commitHash [32]byte, trickSuit uint8, hand []cards.Card, sessionID uint32, player string) []byte {
	suitBE := be4(uint32(trickSuit))
	k := be4(uint32(len(hand)))
	sid := sidBE(sessionID)
	out := make([]byte, 0, 32+4+4+4*len(hand)+4+len(player))
	out = append(out, commitHash[:]...)
	out = append(out, suitBE[:]...)
	out = append(out, k[:]...)
	for _, c := range hand {
		cb := be4(uint32(c))
		out = append(out, cb[:]...)
	}
	out = append(out, sid[:]...)
	out = append(out, []byte(player)...)
	return out
}

// awaitingRevealer reports whether slot is awaited to reveal in the
// current trick sub-state, and the sub-state to advance to.
func awaitingRevealer(ts TrickState, slot Slot) (awaited bool, next TrickState, bothDone bool) {
	switch ts {
	case TrickRevealWaitBoth:
		if slot == SlotP1 {
			return true, TrickRevealWaitP2, false
		}
		return true, TrickRevealWaitP1, false
	case TrickRevealWaitP1:
		return slot == SlotP1, TrickNone, true
	case TrickRevealWaitP2:
		return slot == SlotP2, TrickNone, true
	default:
		return false, ts, false
	}
}

// RevealPlay implements reveal_play.
func (e *Engine) RevealPlay(ctx context.Context, s *Session, caller string, actionOrSentinel uint32, saltOrBlinding [32]byte, nowLedger int64) ([]Event, error) {
	if err := requireNotFinished(s); err != nil {
		return nil, err
	}
	if err := requirePhase(s, PhasePlaying); err != nil {
		return nil, err
	}
	slot, err := requirePlayer(s, caller)
	if err != nil {
		return nil, err
	}
	if s.TrickState == TrickNone || s.TrickState == TrickCommitWaitBoth ||
		s.TrickState == TrickCommitWaitP1 || s.TrickState == TrickCommitWaitP2 {
		return nil, ErrNoTrickInProgress
	}
	awaited, next, bothDone := awaitingRevealer(s.TrickState, slot)
	if !awaited {
		return nil, ErrNotYourTurn
	}
	ts := s.trick(slot)
	if ts.Revealed {
		return nil, ErrRevealAlreadySubmitted
	}
	if ts.PlayCommit == nil {
		return nil, ErrPlayCommitMissing
	}

	isSentinel := actionOrSentinel == cards.Sentinel
	trickSuit := s.trickSuit()
	hand := *s.hand(slot)

	if err := openCommit(ts, *ts.PlayCommit, isSentinel, actionOrSentinel, saltOrBlinding, hand); err != nil {
		return nil, err
	}

	if isSentinel {
		if cards.HasSuit(hand, trickSuit) {
			return nil, ErrHasMatchingSuit
		}
		ts.IsSentinel = true
		ts.Card = nil
	} else {
		if !cards.Valid(actionOrSentinel) {
			return nil, ErrInvalidCardID
		}
		card := cards.Card(actionOrSentinel)
		if !cards.Contains(hand, card) {
			return nil, ErrCardNotInHand
		}
		if card.Suit() != trickSuit {
			return nil, ErrWrongSuit
		}
		newHand, _ := cards.RemoveCard(hand, card)
		*s.hand(slot) = newHand
		ts.Card = &card
		ts.IsSentinel = false
	}
	ts.Revealed = true
	s.TrickState = next
	s.touch(nowLedger)

	events := []Event{newEvent("PlayRevealed", map[string]string{
		"sessionId": fmtU32(s.SessionID),
		"player":    caller,
		"cardId":    fmtU32(actionOrSentinel),
		"isCangkul": boolStr(isSentinel),
	})}

	if bothDone {
		resolveEvents, err := e.resolveTrick(ctx, s, nowLedger)
		if err != nil {
			return nil, err
		}
		events = append(events, resolveEvents...)
	} else {
		s.armDeadline(nowLedger)
	}
	return events, nil
}

// openCommit checks the commit opening. Legacy commits open as
// keccak256(action||salt); ZK commits open through the Pedersen
// commitment, per-card or aggregate-hand depending on the action.
func openCommit(ts *TrickSlot, commit [32]byte, isSentinel bool, action uint32, saltOrBlinding [32]byte, hand []cards.Card) error {
	var got [32]byte
	switch {
	case !ts.ZKFlag:
		actionBE := be4(action)
		got = zkcrypto.Keccak256(actionBE[:], saltOrBlinding[:])
	case ts.ZKFlag && !isSentinel:
		c := cards.Card(action)
		pt := zkcrypto.ScalarBaseMul(cardScalar(uint32(c))).Add(
			zkcrypto.HGenerator().ScalarMul(zkcrypto.ScalarFromWideBytesReduced(saltOrBlinding[:])))
		raw := pt.Serialize()
		got = zkcrypto.Keccak256(raw[:])
	default: // ZKFlag && isSentinel: aggregate opening over the current hand
		sum := zkcrypto.ScalarZero()
		for _, c := range hand {
			sum = sum.Add(cardScalar(uint32(c)))
		}
		pt := zkcrypto.ScalarBaseMul(sum).Add(
			zkcrypto.HGenerator().ScalarMul(zkcrypto.ScalarFromWideBytesReduced(saltOrBlinding[:])))
		raw := pt.Serialize()
		got = zkcrypto.Keccak256(raw[:])
	}
	if got != commit {
		return ErrPlayRevealMismatch
	}
	return nil
}

func cardScalar(cardID uint32) zkcrypto.Scalar {
	b := be4(cardID)
	var full [32]byte
	copy(full[28:], b[:])
	s, _ := zkcrypto.ScalarFromCanonicalBytes(full[:])
	return s
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
