package zkverifier

import (
	"encoding/binary"

	"cangkulan/arbiter/internal/zkcrypto"
)

const (
	ringMinN = 1
	ringMaxN = 9
)

// ringPublicInputs is mode 7's layout: commit_hash(32) || N(4) ||
// card_1..card_N(4 each) || sid_be4(4) || player_bytes(rest).
type ringPublicInputs struct {
	commitHash [32]byte
	n          uint32
	cards      []uint32
	sidBE      [4]byte
	player     []byte
}

func parseRingPublicInputs(b []byte) (ringPublicInputs, bool) {
	if len(b) < 32+4 {
		return ringPublicInputs{}, false
	}
	var out ringPublicInputs
	copy(out.commitHash[:], b[0:32])
	out.n = binary.BigEndian.Uint32(b[32:36])
	need := 36 + int(out.n)*4 + 4
	if len(b) < need {
		return ringPublicInputs{}, false
	}
	out.cards = make([]uint32, out.n)
	off := 36
	for i := range out.cards {
		out.cards[i] = binary.BigEndian.Uint32(b[off : off+4])
		off += 4
	}
	copy(out.sidBE[:], b[off:off+4])
	off += 4
	out.player = b[off:]
	return out, true
}

// verifyRingSigma implements mode 7: a 1-of-N ring sigma proof that the
// Pedersen-committed card lies in a public valid set (the cards in the
// player's hand matching the trick suit), without revealing which.
func verifyRingSigma(publicInputs, proof []byte) Result {
	pub, ok := parseRingPublicInputs(publicInputs)
	if !ok {
		return reject(ModeRingSigma, ReasonProofWrongLength)
	}
	if pub.n < ringMinN || pub.n > ringMaxN {
		return reject(ModeRingSigma, ReasonRingSetSizeInvalid)
	}
	wantProofLen := 96 + 64*int(pub.n)
	if len(proof) != wantProofLen {
		return reject(ModeRingSigma, ReasonProofWrongLength)
	}

	cRaw := proof[0:96]
	c, err := zkcrypto.DecodePoint(cRaw)
	if err != nil {
		return reject(ModeRingSigma, ReasonPointNotInSubgroup)
	}

	got := zkcrypto.Keccak256(cRaw)
	if got != pub.commitHash {
		return reject(ModeRingSigma, ReasonRingCommitMismatch)
	}

	es := make([]zkcrypto.Scalar, pub.n)
	zs := make([]zkcrypto.Scalar, pub.n)
	rRaws := make([][]byte, pub.n)
	off := 96
	for i := 0; i < int(pub.n); i++ {
		eRaw := proof[off : off+32]
		off += 32
		zRaw := proof[off : off+32]
		off += 32

		e, ok := zkcrypto.ScalarFromCanonicalBytes(eRaw)
		if !ok {
			return reject(ModeRingSigma, ReasonScalarNotCanonical)
		}
		z, ok := zkcrypto.ScalarFromCanonicalBytes(zRaw)
		if !ok {
			return reject(ModeRingSigma, ReasonScalarNotCanonical)
		}
		es[i] = e
		zs[i] = z

		cardScalar := cardToScalar(pub.cards[i])
		di := c.Sub(zkcrypto.ScalarBaseMul(cardScalar))
		ri := zkcrypto.HGenerator().ScalarMul(z).Sub(di.ScalarMul(e))
		rRaws[i] = rawPoint(ri)
	}

	hashParts := [][]byte{cRaw}
	hashParts = append(hashParts, rRaws...)
	hashParts = append(hashParts, pub.sidBE[:], pub.player)
	e := zkcrypto.Challenge(zkcrypto.DomainRingSigma, hashParts...)

	eSum := zkcrypto.ScalarZero()
	for _, ei := range es {
		eSum = eSum.Add(ei)
	}

	// Compared in the group rather than as bare Fr values so the check
	// never depends on scalar canonicalization subtleties.
	lhs := zkcrypto.ScalarBaseMul(eSum)
	rhs := zkcrypto.ScalarBaseMul(e)
	if !lhs.Equal(rhs) {
		return reject(ModeRingSigma, ReasonSigmaCheckFailed)
	}
	return accept(ModeRingSigma)
}

func cardToScalar(cardID uint32) zkcrypto.Scalar {
	var b [32]byte
	binary.BigEndian.PutUint32(b[28:32], cardID)
	s, _ := zkcrypto.ScalarFromCanonicalBytes(b[:])
	return s
}

func rawPoint(p zkcrypto.Point) []byte {
	s := p.Serialize()
	return s[:]
}
