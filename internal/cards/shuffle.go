package cards

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

const shuffleSeedDomain = "cangkulan/shuffle/v1"

// deterministicStream produces an unbounded, deterministic sequence of
// pseudo-random uint64s from seed by hashing seed||domain||counter
// with keccak256.
type deterministicStream struct {
	seed    []byte
	counter uint64
}

func newDeterministicStream(seed []byte) *deterministicStream {
	return &deterministicStream{seed: seed}
}

func (s *deterministicStream) next() uint64 {
	buf := make([]byte, 0, len(s.seed)+len(shuffleSeedDomain)+8)
	buf = append(buf, s.seed...)
	buf = append(buf, shuffleSeedDomain...)
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], s.counter)
	buf = append(buf, ctr[:]...)
	s.counter++
	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}

// uniform returns a value drawn uniformly from [0, n] inclusive via
// rejection sampling, avoiding the modulo bias that a plain `% (n+1)`
// would introduce.
func (s *deterministicStream) uniform(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	rangeSize := n + 1
	// Largest multiple of rangeSize not exceeding the uint64 space;
	// draws at or above this threshold are discarded and redrawn.
	limit := (^uint64(0)) - (^uint64(0))%rangeSize
	for {
		draw := s.next()
		if draw < limit {
			return draw % rangeSize
		}
	}
}

// DeriveSeed computes the joint shuffle seed keccak256(h1 || h2 || sid_be4)
// from both players' revealed seed hashes and the session id.
func DeriveSeed(h1, h2 [32]byte, sessionID uint32) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(h1[:])
	h.Write(h2[:])
	var sidBuf [4]byte
	binary.BigEndian.PutUint32(sidBuf[:], sessionID)
	h.Write(sidBuf[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Shuffle performs an in-place Fisher-Yates permutation of deck driven
// by seed, descending from the last index to 1, sampling the swap
// partner uniformly from [0, idx] at each step.
func Shuffle(deck []Card, seed [32]byte) {
	stream := newDeterministicStream(seed[:])
	for idx := len(deck) - 1; idx > 0; idx-- {
		j := stream.uniform(uint64(idx))
		deck[idx], deck[j] = deck[j], deck[idx]
	}
}

// Deal is the outcome of ShuffleAndDeal: hand1 gets indices [0,5),
// hand2 gets [5,10), the rest is the draw pile with its head already
// split out as the first flipped card.
type Deal struct {
	Hand1       []Card
	Hand2       []Card
	DrawPile    []Card
	FlippedCard Card
}

// ShuffleAndDeal derives the deck order from the joint seed and
// session id, shuffles, and deals: indices 0..4 -> hand1, 5..9 ->
// hand2, 10..35 -> draw pile, with the draw pile's head immediately
// flipped as the first trick's lead.
func ShuffleAndDeal(h1, h2 [32]byte, sessionID uint32) Deal {
	seed := DeriveSeed(h1, h2, sessionID)
	deck := FullDeck()
	Shuffle(deck, seed)

	hand1 := append([]Card(nil), deck[0:HandSize]...)
	hand2 := append([]Card(nil), deck[HandSize:2*HandSize]...)
	rest := append([]Card(nil), deck[2*HandSize:]...)

	flipped := rest[0]
	drawPile := rest[1:]

	return Deal{
		Hand1:       hand1,
		Hand2:       hand2,
		DrawPile:    drawPile,
		FlippedCard: flipped,
	}
}

// VerifyShuffle recomputes the full deck order from the stored hashes
// so that anyone can audit fairness after both reveals; it returns the
// same permutation ShuffleAndDeal would have produced.
func VerifyShuffle(h1, h2 [32]byte, sessionID uint32) []Card {
	seed := DeriveSeed(h1, h2, sessionID)
	deck := FullDeck()
	Shuffle(deck, seed)
	return deck
}
