package zkverifier

import "cangkulan/arbiter/internal/zkcrypto"

// pedersenPublicInputs is mode 4's layout: C(96) || seed_hash_as_Fr(32)
// || sid_be4(4) || player_bytes(rest).
type pedersenPublicInputs struct {
	cRaw     [96]byte
	seedHash [32]byte
	sidBE    [4]byte
	player   []byte
}

func parsePedersenPublicInputs(b []byte) (pedersenPublicInputs, bool) {
	if len(b) < 96+32+4+1 {
		return pedersenPublicInputs{}, false
	}
	var out pedersenPublicInputs
	copy(out.cRaw[:], b[0:96])
	copy(out.seedHash[:], b[96:128])
	copy(out.sidBE[:], b[128:132])
	out.player = b[132:]
	return out, true
}

// verifyPedersenSigma implements mode 4: a Chaum-Pedersen-style sigma
// proof of knowledge of the blinding r such that C - seed_hash*G = r*H.
func verifyPedersenSigma(publicInputs, proof []byte) Result {
	pub, ok := parsePedersenPublicInputs(publicInputs)
	if !ok {
		return reject(ModePedersenSigma, ReasonProofWrongLength)
	}
	if len(proof) != 128 {
		return reject(ModePedersenSigma, ReasonProofWrongLength)
	}
	rRaw := proof[0:96]
	zrRaw := proof[96:128]

	c, err := zkcrypto.DecodePoint(pub.cRaw[:])
	if err != nil {
		return reject(ModePedersenSigma, ReasonPointNotInSubgroup)
	}
	r, err := zkcrypto.DecodePoint(rRaw)
	if err != nil {
		return reject(ModePedersenSigma, ReasonPointNotInSubgroup)
	}
	zr, ok := zkcrypto.ScalarFromCanonicalBytes(zrRaw)
	if !ok {
		return reject(ModePedersenSigma, ReasonScalarNotCanonical)
	}

	// seed_hash is a keccak256 output and may exceed the Fr order;
	// reduce explicitly before using it as a scalar.
	seedHashFr := zkcrypto.ScalarFromWideBytesReduced(pub.seedHash[:])

	d := c.Sub(zkcrypto.ScalarBaseMul(seedHashFr))

	e := zkcrypto.Challenge(zkcrypto.DomainPedersen,
		pub.cRaw[:], rRaw, pub.seedHash[:], pub.sidBE[:], pub.player)

	lhs := zkcrypto.HGenerator().ScalarMul(zr)
	rhs := r.Add(d.ScalarMul(e))

	if !lhs.Equal(rhs) {
		return reject(ModePedersenSigma, ReasonSigmaCheckFailed)
	}
	return accept(ModePedersenSigma)
}
