package zkverifier

import (
	"encoding/binary"

	"cangkulan/arbiter/internal/cards"
	"cangkulan/arbiter/internal/zkcrypto"
)

const (
	cangkulMinK = 1
	cangkulMaxK = 18
)

// cangkulPublicInputs is mode 8's layout: commit_hash(32) ||
// trick_suit(4) || k(4) || card_1..card_k(4 each) || sid_be4(4) ||
// player_bytes(rest).
type cangkulPublicInputs struct {
	commitHash [32]byte
	trickSuit  uint32
	k          uint32
	cardsList  []uint32
	sidBE      [4]byte
	player     []byte
}

func parseCangkulPublicInputs(b []byte) (cangkulPublicInputs, bool) {
	if len(b) < 32+4+4 {
		return cangkulPublicInputs{}, false
	}
	var out cangkulPublicInputs
	copy(out.commitHash[:], b[0:32])
	out.trickSuit = binary.BigEndian.Uint32(b[32:36])
	out.k = binary.BigEndian.Uint32(b[36:40])
	need := 40 + int(out.k)*4 + 4
	if len(b) < need {
		return cangkulPublicInputs{}, false
	}
	out.cardsList = make([]uint32, out.k)
	off := 40
	for i := range out.cardsList {
		out.cardsList[i] = binary.BigEndian.Uint32(b[off : off+4])
		off += 4
	}
	copy(out.sidBE[:], b[off:off+4])
	off += 4
	out.player = b[off:]
	return out, true
}

// verifyAggregateHand implements mode 8: an aggregate Pedersen
// commitment over a full hand, with a Schnorr proof of knowledge of
// the aggregate blinding, plus a public check that no declared card
// carries the trick suit.
func verifyAggregateHand(publicInputs, proof []byte) Result {
	pub, ok := parseCangkulPublicInputs(publicInputs)
	if !ok {
		return reject(ModeAggregateHand, ReasonProofWrongLength)
	}
	if pub.k < cangkulMinK || pub.k > cangkulMaxK {
		return reject(ModeAggregateHand, ReasonRingSetSizeInvalid)
	}
	if pub.trickSuit > 3 {
		return reject(ModeAggregateHand, ReasonCardOutOfRange)
	}
	if len(proof) != 228 {
		return reject(ModeAggregateHand, ReasonProofWrongLength)
	}

	kProof := binary.BigEndian.Uint32(proof[0:4])
	aRaw := proof[4:100]
	rRaw := proof[100:196]
	zRaw := proof[196:228]

	if kProof != pub.k {
		return reject(ModeAggregateHand, ReasonKMismatch)
	}

	for _, c := range pub.cardsList {
		if !cards.Valid(c) {
			return reject(ModeAggregateHand, ReasonCardOutOfRange)
		}
		if cards.Card(c).Suit() == uint8(pub.trickSuit) {
			return reject(ModeAggregateHand, ReasonCardMatchesSuit)
		}
	}

	a, err := zkcrypto.DecodePoint(aRaw)
	if err != nil {
		return reject(ModeAggregateHand, ReasonPointNotInSubgroup)
	}
	r, err := zkcrypto.DecodePoint(rRaw)
	if err != nil {
		return reject(ModeAggregateHand, ReasonPointNotInSubgroup)
	}
	z, ok := zkcrypto.ScalarFromCanonicalBytes(zRaw)
	if !ok {
		return reject(ModeAggregateHand, ReasonScalarNotCanonical)
	}

	got := zkcrypto.Keccak256(aRaw)
	if got != pub.commitHash {
		return reject(ModeAggregateHand, ReasonAggregateCommitmentMismatch)
	}

	sum := zkcrypto.ScalarZero()
	for _, c := range pub.cardsList {
		sum = sum.Add(cardToScalar(c))
	}
	cardSumPoint := zkcrypto.ScalarBaseMul(sum)
	delta := a.Sub(cardSumPoint)

	var trickSuitBE, kBE [4]byte
	binary.BigEndian.PutUint32(trickSuitBE[:], pub.trickSuit)
	binary.BigEndian.PutUint32(kBE[:], pub.k)

	e := zkcrypto.Challenge(zkcrypto.DomainAggregateHand,
		aRaw, rRaw, trickSuitBE[:], kBE[:], pub.sidBE[:], pub.player)

	lhs := zkcrypto.HGenerator().ScalarMul(z)
	rhs := r.Add(delta.ScalarMul(e))
	if !lhs.Equal(rhs) {
		return reject(ModeAggregateHand, ReasonSigmaCheckFailed)
	}
	return accept(ModeAggregateHand)
}
