package game

import (
	"context"
	"testing"

	"cangkulan/arbiter/internal/cards"
	"cangkulan/arbiter/internal/zkcrypto"
)

type fakeHub struct {
	started    bool
	ended      bool
	player1Won bool
	failStart  bool
}

func (f *fakeHub) StartGame(ctx context.Context, gameID string, sessionID uint32, p1, p2 string, pts1, pts2 uint64) error {
	if f.failStart {
		return errStartFailed
	}
	f.started = true
	return nil
}

func (f *fakeHub) EndGame(ctx context.Context, sessionID uint32, player1Won bool) error {
	f.ended = true
	f.player1Won = player1Won
	return nil
}

var errStartFailed = &hubError{"hub refused"}

type hubError struct{ msg string }

func (e *hubError) Error() string { return e.msg }

func newTestEngine(hub *fakeHub) *Engine {
	return &Engine{Hub: hub}
}

func mustStart(t *testing.T, e *Engine) *Session {
	t.Helper()
	s, _, err := e.Start(context.Background(), 1, "g1", "alice", "bob", 100, 100, 1000)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func nizkProof(seedHash [32]byte, commit [32]byte, sessionID uint32, player string) (proof []byte) {
	sid := be4(sessionID)
	blinding := [32]byte{}
	for i := range blinding {
		blinding[i] = 0xAA
	}
	challenge := zkcrypto.Keccak256(commit[:], sid[:], []byte(player), []byte(zkcrypto.DomainNIZKSeed))
	response := zkcrypto.Keccak256(seedHash[:], challenge[:], blinding[:])
	proof = append(proof, blinding[:]...)
	proof = append(proof, response[:]...)
	return proof
}

func bytesOf(b byte) []byte {
	out := make([]byte, 32)
	for i := range out {
		out[i] = b
	}
	return out
}

func distinctSeedHash(first byte) [32]byte {
	var h [32]byte
	for i := range h {
		h[i] = byte(int(first) + i)
	}
	return h
}

func TestStartRejectsSelfPlay(t *testing.T) {
	e := newTestEngine(&fakeHub{})
	_, _, err := e.Start(context.Background(), 1, "g1", "alice", "alice", 1, 1, 0)
	if err != ErrSelfPlayNotAllowed {
		t.Fatalf("expected ErrSelfPlayNotAllowed, got %v", err)
	}
}

func TestStartAbortsOnHubFailure(t *testing.T) {
	hub := &fakeHub{failStart: true}
	e := newTestEngine(hub)
	_, _, err := e.Start(context.Background(), 1, "g1", "alice", "bob", 1, 1, 0)
	if err == nil {
		t.Fatalf("expected hub failure to abort Start")
	}
}

func TestSeedCommitRevealReachesPlaying(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := mustStart(t, e)

	seedHash1 := distinctSeedHash(1)
	seedHash2 := distinctSeedHash(32)

	commit1 := zkcrypto.Keccak256(seedHash1[:], bytesOf(0xAA), []byte("alice"))
	commit2 := zkcrypto.Keccak256(seedHash2[:], bytesOf(0xAA), []byte("bob"))

	if _, err := e.CommitSeed(s, "alice", commit1, 1000); err != nil {
		t.Fatalf("CommitSeed alice: %v", err)
	}
	if s.Phase != PhaseSeedCommit {
		t.Fatalf("expected still SeedCommit after one commit")
	}
	if _, err := e.CommitSeed(s, "bob", commit2, 1001); err != nil {
		t.Fatalf("CommitSeed bob: %v", err)
	}
	if s.Phase != PhaseSeedReveal {
		t.Fatalf("expected SeedReveal after both commits, got %s", s.Phase)
	}

	proof1 := nizkProof(seedHash1, commit1, s.SessionID, "alice")
	if _, err := e.RevealSeed(context.Background(), s, "alice", seedHash1, proof1, 1002); err != nil {
		t.Fatalf("RevealSeed alice: %v", err)
	}
	if s.Phase != PhaseSeedReveal {
		t.Fatalf("expected still SeedReveal after one reveal")
	}

	proof2 := nizkProof(seedHash2, commit2, s.SessionID, "bob")
	if _, err := e.RevealSeed(context.Background(), s, "bob", seedHash2, proof2, 1003); err != nil {
		t.Fatalf("RevealSeed bob: %v", err)
	}

	if s.Phase != PhasePlaying {
		t.Fatalf("expected Playing after both reveals, got %s", s.Phase)
	}
	if len(s.Hand1) != cards.HandSize || len(s.Hand2) != cards.HandSize {
		t.Fatalf("expected hand sizes %d, got %d/%d", cards.HandSize, len(s.Hand1), len(s.Hand2))
	}
	if len(s.DrawPile) != cards.DeckSize-2*cards.HandSize-1 {
		t.Fatalf("unexpected draw pile size %d", len(s.DrawPile))
	}
	if s.TrickState != TrickCommitWaitBoth {
		t.Fatalf("expected CommitWaitBoth, got %s", s.TrickState)
	}
}

func dealtSession(t *testing.T, e *Engine) *Session {
	t.Helper()
	s := mustStart(t, e)
	seedHash1 := distinctSeedHash(1)
	seedHash2 := distinctSeedHash(32)
	commit1 := zkcrypto.Keccak256(seedHash1[:], bytesOf(0xAA), []byte("alice"))
	commit2 := zkcrypto.Keccak256(seedHash2[:], bytesOf(0xAA), []byte("bob"))
	if _, err := e.CommitSeed(s, "alice", commit1, 1000); err != nil {
		t.Fatalf("CommitSeed alice: %v", err)
	}
	if _, err := e.CommitSeed(s, "bob", commit2, 1001); err != nil {
		t.Fatalf("CommitSeed bob: %v", err)
	}
	proof1 := nizkProof(seedHash1, commit1, s.SessionID, "alice")
	proof2 := nizkProof(seedHash2, commit2, s.SessionID, "bob")
	if _, err := e.RevealSeed(context.Background(), s, "alice", seedHash1, proof1, 1002); err != nil {
		t.Fatalf("RevealSeed alice: %v", err)
	}
	if _, err := e.RevealSeed(context.Background(), s, "bob", seedHash2, proof2, 1003); err != nil {
		t.Fatalf("RevealSeed bob: %v", err)
	}
	return s
}

func TestLegacyCommitPlayAndReveal(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := dealtSession(t, e)

	trickSuit := s.trickSuit()
	aliceCard, ok := cards.FindFirstOfSuit(s.Hand1, trickSuit)
	if !ok {
		t.Skip("no matching-suit card in alice's dealt hand for this seed pair")
	}
	bobCard, ok := cards.FindFirstOfSuit(s.Hand2, trickSuit)
	if !ok {
		t.Skip("no matching-suit card in bob's dealt hand for this seed pair")
	}

	saltA := bytesOf(0x01)
	saltB := bytesOf(0x02)
	var saltA32, saltB32 [32]byte
	copy(saltA32[:], saltA)
	copy(saltB32[:], saltB)

	commitA := zkcrypto.Keccak256(be4Slice(uint32(aliceCard)), saltA)
	commitB := zkcrypto.Keccak256(be4Slice(uint32(bobCard)), saltB)

	nonce := s.ActionNonce
	if _, err := e.CommitPlay(s, "alice", commitA, nonce, 2000); err != nil {
		t.Fatalf("CommitPlay alice: %v", err)
	}
	if _, err := e.CommitPlay(s, "bob", commitB, s.ActionNonce, 2001); err != nil {
		t.Fatalf("CommitPlay bob: %v", err)
	}
	if s.TrickState != TrickRevealWaitBoth {
		t.Fatalf("expected RevealWaitBoth, got %s", s.TrickState)
	}

	if _, err := e.RevealPlay(context.Background(), s, "alice", uint32(aliceCard), saltA32, 2002); err != nil {
		t.Fatalf("RevealPlay alice: %v", err)
	}
	events, err := e.RevealPlay(context.Background(), s, "bob", uint32(bobCard), saltB32, 2003)
	if err != nil {
		t.Fatalf("RevealPlay bob: %v", err)
	}
	if findEvent(events, "TrickResolved") == nil {
		t.Fatalf("expected TrickResolved event, got %v", events)
	}
	if s.TrickState != TrickCommitWaitBoth && s.Phase != PhaseFinished {
		t.Fatalf("expected next trick or finish, got state=%s phase=%s", s.TrickState, s.Phase)
	}
}

func TestForfeitFinalizesWithOpponentAsWinner(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := dealtSession(t, e)

	events, err := e.Forfeit(context.Background(), s, "alice", 5000)
	if err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if s.Phase != PhaseFinished {
		t.Fatalf("expected Finished, got %s", s.Phase)
	}
	if s.Outcome != OutcomeP2Win {
		t.Fatalf("expected P2Win (opponent of alice), got %s", s.Outcome)
	}
	if !hub.ended || hub.player1Won {
		t.Fatalf("expected hub.EndGame(player1Won=false), got ended=%v won=%v", hub.ended, hub.player1Won)
	}
	if findEvent(events, "GameEnded") == nil {
		t.Fatalf("expected GameEnded event")
	}

	p1, p2 := BuildHistoryEntries(s, 5000)
	if p1.Result != "Loss" || p2.Result != "Win" {
		t.Fatalf("unexpected history results p1=%s p2=%s", p1.Result, p2.Result)
	}
}

func TestGetGameViewRedactsOpponentHand(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := dealtSession(t, e)

	v := GetGameView(s, "alice")
	if v.Hand1 == nil {
		t.Fatalf("expected alice's own hand visible")
	}
	if v.Hand2 != nil {
		t.Fatalf("expected bob's hand redacted from alice's view")
	}

	unknown := GetGameView(s, "carol")
	if unknown.Hand1 != nil || unknown.Hand2 != nil {
		t.Fatalf("expected both hands redacted from an unknown viewer")
	}

	pub := GetGame(s)
	if pub.Hand1 != nil || pub.Hand2 != nil {
		t.Fatalf("expected public get_game to redact hands mid-game")
	}
}

// dealtSessionWithSeeds is dealtSession parameterized on the seed
// bytes so a test can scan several seed pairs for a hand shape it
// needs (e.g. exactly one matching-suit card, or none at all).
func dealtSessionWithSeeds(t *testing.T, e *Engine, sessionID uint32, aFirst, bFirst byte) *Session {
	t.Helper()
	s, _, err := e.Start(context.Background(), sessionID, "g1", "alice", "bob", 100, 100, 1000)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	seedHash1 := distinctSeedHash(aFirst)
	seedHash2 := distinctSeedHash(bFirst)
	commit1 := zkcrypto.Keccak256(seedHash1[:], bytesOf(0xAA), []byte("alice"))
	commit2 := zkcrypto.Keccak256(seedHash2[:], bytesOf(0xAA), []byte("bob"))
	if _, err := e.CommitSeed(s, "alice", commit1, 1000); err != nil {
		t.Fatalf("CommitSeed alice: %v", err)
	}
	if _, err := e.CommitSeed(s, "bob", commit2, 1001); err != nil {
		t.Fatalf("CommitSeed bob: %v", err)
	}
	proof1 := nizkProof(seedHash1, commit1, s.SessionID, "alice")
	proof2 := nizkProof(seedHash2, commit2, s.SessionID, "bob")
	if _, err := e.RevealSeed(context.Background(), s, "alice", seedHash1, proof1, 1002); err != nil {
		t.Fatalf("RevealSeed alice: %v", err)
	}
	if _, err := e.RevealSeed(context.Background(), s, "bob", seedHash2, proof2, 1003); err != nil {
		t.Fatalf("RevealSeed bob: %v", err)
	}
	return s
}

func TestCommitPlayZKRingSigmaAccepted(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)

	var s *Session
	var aliceMatches []cards.Card
	for sid := uint32(1); sid <= 60; sid++ {
		cand := dealtSessionWithSeeds(t, e, sid, byte(sid), byte(sid+1))
		trickSuit := cand.trickSuit()
		m := filterSuit(cand.Hand1, trickSuit)
		if len(m) == 1 {
			s, aliceMatches = cand, m
			break
		}
	}
	if s == nil {
		t.Fatalf("no seed pair in range produced a single-candidate ring set for alice")
	}

	card := aliceMatches[0]
	r := zkcrypto.ScalarFromWideBytesReduced([]byte("ring-blinding"))
	k := zkcrypto.ScalarFromWideBytesReduced([]byte("ring-nonce"))
	cardFr := cardScalar(uint32(card))
	cPoint := zkcrypto.ScalarBaseMul(cardFr).Add(zkcrypto.HGenerator().ScalarMul(r))
	cRaw := cPoint.Serialize()
	r1 := zkcrypto.HGenerator().ScalarMul(k)
	r1Raw := r1.Serialize()

	sid := sidBE(s.SessionID)
	commitHash := zkcrypto.Keccak256(cRaw[:])
	e2 := zkcrypto.Challenge(zkcrypto.DomainRingSigma, cRaw[:], r1Raw[:], sid[:], []byte("alice"))
	z1 := k.Add(e2.Mul(r))

	nonce := s.ActionNonce
	eBytes := e2.Bytes()
	z1Bytes := z1.Bytes()
	var proof []byte
	proof = append(proof, cRaw[:]...)
	proof = append(proof, eBytes[:]...)
	proof = append(proof, z1Bytes[:]...)

	events, err := e.CommitPlayZK(s, "alice", commitHash, proof, nonce, 2000)
	if err != nil {
		t.Fatalf("CommitPlayZK: %v", err)
	}
	if findEvent(events, "ZkCardPlayVerified") == nil {
		t.Fatalf("expected ZkCardPlayVerified event, got %v", events)
	}
	if s.TrickState != TrickCommitWaitP2 && s.TrickState != TrickCommitWaitP1 {
		t.Fatalf("expected trick to advance past alice's commit, got %s", s.TrickState)
	}
}

func TestCommitCangkulZKAggregateAcceptedAndRevealed(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)

	var s *Session
	for sid := uint32(1); sid <= 60; sid++ {
		cand := dealtSessionWithSeeds(t, e, sid, byte(sid+3), byte(sid+9))
		trickSuit := cand.trickSuit()
		if !cards.HasSuit(cand.Hand1, trickSuit) {
			s = cand
			break
		}
	}
	if s == nil {
		t.Fatalf("no seed pair in range produced a cangkul (no-matching-suit) hand for alice")
	}

	trickSuit := s.trickSuit()
	hand := append([]cards.Card(nil), s.Hand1...)

	rAgg := zkcrypto.ScalarFromWideBytesReduced([]byte("agg-blinding"))
	k := zkcrypto.ScalarFromWideBytesReduced([]byte("agg-nonce"))
	sum := zkcrypto.ScalarZero()
	for _, c := range hand {
		sum = sum.Add(cardScalar(uint32(c)))
	}
	a := zkcrypto.ScalarBaseMul(sum).Add(zkcrypto.HGenerator().ScalarMul(rAgg))
	aRaw := a.Serialize()
	rr := zkcrypto.HGenerator().ScalarMul(k)
	rRaw := rr.Serialize()

	kBE := be4(uint32(len(hand)))
	trickSuitBE := be4(uint32(trickSuit))
	sid := sidBE(s.SessionID)

	challenge := zkcrypto.Challenge(zkcrypto.DomainAggregateHand, aRaw[:], rRaw[:], trickSuitBE[:], kBE[:], sid[:], []byte("alice"))
	z := k.Add(challenge.Mul(rAgg))

	commitHash := zkcrypto.Keccak256(aRaw[:])

	zBytes := z.Bytes()
	var proof []byte
	proof = append(proof, kBE[:]...)
	proof = append(proof, aRaw[:]...)
	proof = append(proof, rRaw[:]...)
	proof = append(proof, zBytes[:]...)

	nonce := s.ActionNonce
	events, err := e.CommitCangkulZK(s, "alice", commitHash, proof, nonce, 2000)
	if err != nil {
		t.Fatalf("CommitCangkulZK: %v", err)
	}
	if findEvent(events, "ZkCangkulVerified") == nil {
		t.Fatalf("expected ZkCangkulVerified event, got %v", events)
	}

	bobCard, ok := cards.FindFirstOfSuit(s.Hand2, trickSuit)
	if !ok {
		t.Skip("bob has no matching-suit card for this seed pair; legacy commit would also need a cangkul path")
	}
	saltB := bytesOf(0x02)
	var saltB32 [32]byte
	copy(saltB32[:], saltB)
	commitB := zkcrypto.Keccak256(be4Slice(uint32(bobCard)), saltB)
	if _, err := e.CommitPlay(s, "bob", commitB, s.ActionNonce, 2001); err != nil {
		t.Fatalf("CommitPlay bob: %v", err)
	}

	var ragg32 [32]byte
	raggBytes := rAgg.Bytes()
	copy(ragg32[:], raggBytes[:])
	if _, err := e.RevealPlay(context.Background(), s, "alice", cards.Sentinel, ragg32, 2002); err != nil {
		t.Fatalf("RevealPlay alice (cangkul): %v", err)
	}
}

// TestFullGameTerminates plays a whole game with both players using
// legacy commits, following suit with their first matching card or
// declaring cannot-follow, until natural termination.
func TestFullGameTerminates(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := dealtSession(t, e)

	playFor := func(slot Slot) uint32 {
		hand := *s.hand(slot)
		if c, ok := cards.FindFirstOfSuit(hand, s.trickSuit()); ok {
			return uint32(c)
		}
		return cards.Sentinel
	}
	commitFor := func(action uint32, salt [32]byte) [32]byte {
		return zkcrypto.Keccak256(be4Slice(action), salt[:])
	}

	ledger := int64(3000)
	for trick := 0; trick < 200 && s.Phase == PhasePlaying; trick++ {
		var saltA, saltB [32]byte
		saltA[0] = byte(trick)
		saltB[0] = byte(trick + 1)
		saltB[1] = 0xFF

		actionA := playFor(SlotP1)
		actionB := playFor(SlotP2)

		if _, err := e.CommitPlay(s, "alice", commitFor(actionA, saltA), s.ActionNonce, ledger); err != nil {
			t.Fatalf("trick %d: CommitPlay alice: %v", trick, err)
		}
		if _, err := e.CommitPlay(s, "bob", commitFor(actionB, saltB), s.ActionNonce, ledger); err != nil {
			t.Fatalf("trick %d: CommitPlay bob: %v", trick, err)
		}
		if _, err := e.RevealPlay(context.Background(), s, "alice", actionA, saltA, ledger); err != nil {
			t.Fatalf("trick %d: RevealPlay alice: %v", trick, err)
		}
		if _, err := e.RevealPlay(context.Background(), s, "bob", actionB, saltB, ledger); err != nil {
			t.Fatalf("trick %d: RevealPlay bob: %v", trick, err)
		}
		ledger++
	}

	if s.Phase != PhaseFinished {
		t.Fatalf("expected game to finish within 200 tricks, still %s", s.Phase)
	}
	if s.Outcome != OutcomeP1Win && s.Outcome != OutcomeP2Win && s.Outcome != OutcomeDraw {
		t.Fatalf("unexpected terminal outcome %s", s.Outcome)
	}
	if !hub.started || !hub.ended {
		t.Fatalf("expected hub to observe start and end, got started=%v ended=%v", hub.started, hub.ended)
	}
}

func TestCommitSeedTwiceRejected(t *testing.T) {
	e := newTestEngine(&fakeHub{})
	s := mustStart(t, e)
	commit := zkcrypto.Keccak256(distinctSeedHash(1)[:], bytesOf(0xAA), []byte("alice"))
	if _, err := e.CommitSeed(s, "alice", commit, 1000); err != nil {
		t.Fatalf("CommitSeed: %v", err)
	}
	if _, err := e.CommitSeed(s, "alice", commit, 1001); err != ErrCommitAlreadySubmitted {
		t.Fatalf("expected ErrCommitAlreadySubmitted, got %v", err)
	}
}

func TestCommitPlayStaleNonceRejected(t *testing.T) {
	e := newTestEngine(&fakeHub{})
	s := dealtSession(t, e)
	commit := zkcrypto.Keccak256(be4Slice(0), bytesOf(0x01))
	if _, err := e.CommitPlay(s, "alice", commit, s.ActionNonce+5, 2000); err != ErrInvalidNonce {
		t.Fatalf("expected ErrInvalidNonce, got %v", err)
	}
}

func TestRevealPlayWrongSaltRejected(t *testing.T) {
	e := newTestEngine(&fakeHub{})
	s := dealtSession(t, e)

	trickSuit := s.trickSuit()
	aliceCard, ok := cards.FindFirstOfSuit(s.Hand1, trickSuit)
	if !ok {
		t.Skip("no matching-suit card in alice's dealt hand for this seed pair")
	}
	bobCard, ok := cards.FindFirstOfSuit(s.Hand2, trickSuit)
	if !ok {
		t.Skip("no matching-suit card in bob's dealt hand for this seed pair")
	}

	commitA := zkcrypto.Keccak256(be4Slice(uint32(aliceCard)), bytesOf(0x01))
	commitB := zkcrypto.Keccak256(be4Slice(uint32(bobCard)), bytesOf(0x02))
	if _, err := e.CommitPlay(s, "alice", commitA, s.ActionNonce, 2000); err != nil {
		t.Fatalf("CommitPlay alice: %v", err)
	}
	if _, err := e.CommitPlay(s, "bob", commitB, s.ActionNonce, 2001); err != nil {
		t.Fatalf("CommitPlay bob: %v", err)
	}

	var wrongSalt [32]byte
	copy(wrongSalt[:], bytesOf(0x03))
	if _, err := e.RevealPlay(context.Background(), s, "alice", uint32(aliceCard), wrongSalt, 2002); err != ErrPlayRevealMismatch {
		t.Fatalf("expected ErrPlayRevealMismatch, got %v", err)
	}
}

func TestSentinelRevealWithMatchingSuitRejected(t *testing.T) {
	e := newTestEngine(&fakeHub{})
	s := dealtSession(t, e)

	trickSuit := s.trickSuit()
	if _, ok := cards.FindFirstOfSuit(s.Hand1, trickSuit); !ok {
		t.Skip("alice has no matching-suit card for this seed pair")
	}
	bobCard, ok := cards.FindFirstOfSuit(s.Hand2, trickSuit)
	if !ok {
		t.Skip("bob has no matching-suit card for this seed pair")
	}

	// Alice commits to the sentinel even though she can follow suit.
	commitA := zkcrypto.Keccak256(be4Slice(cards.Sentinel), bytesOf(0x01))
	commitB := zkcrypto.Keccak256(be4Slice(uint32(bobCard)), bytesOf(0x02))
	if _, err := e.CommitPlay(s, "alice", commitA, s.ActionNonce, 2000); err != nil {
		t.Fatalf("CommitPlay alice: %v", err)
	}
	if _, err := e.CommitPlay(s, "bob", commitB, s.ActionNonce, 2001); err != nil {
		t.Fatalf("CommitPlay bob: %v", err)
	}

	var saltA [32]byte
	copy(saltA[:], bytesOf(0x01))
	if _, err := e.RevealPlay(context.Background(), s, "alice", cards.Sentinel, saltA, 2002); err != ErrHasMatchingSuit {
		t.Fatalf("expected ErrHasMatchingSuit, got %v", err)
	}
}

func TestCommitPlayZKEmptySetRejectedWithoutVerifier(t *testing.T) {
	e := newTestEngine(&fakeHub{})

	var s *Session
	for sid := uint32(1); sid <= 60; sid++ {
		cand := dealtSessionWithSeeds(t, e, sid, byte(sid+3), byte(sid+9))
		if !cards.HasSuit(cand.Hand1, cand.trickSuit()) {
			s = cand
			break
		}
	}
	if s == nil {
		t.Fatalf("no seed pair in range left alice without a matching-suit card")
	}

	// A deliberately malformed proof: rejection must come from the
	// empty valid set, before any proof byte is looked at.
	if _, err := e.CommitPlayZK(s, "alice", [32]byte{}, []byte{0x01}, s.ActionNonce, 2000); err != ErrZkPlaySetEmpty {
		t.Fatalf("expected ErrZkPlaySetEmpty, got %v", err)
	}
}

func TestTickTimeoutRateLimited(t *testing.T) {
	hub := &fakeHub{}
	e := newTestEngine(hub)
	s := dealtSession(t, e)

	if _, err := e.TickTimeout(s, "alice", 2000); err != nil {
		t.Fatalf("TickTimeout: %v", err)
	}
	if _, err := e.TickTimeout(s, "alice", 2000); err != ErrTickTooSoon {
		t.Fatalf("expected ErrTickTooSoon, got %v", err)
	}
}

func be4Slice(v uint32) []byte {
	b := be4(v)
	return b[:]
}

func findEvent(events []Event, typ string) *Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}
