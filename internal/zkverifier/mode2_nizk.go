package zkverifier

import (
	"bytes"

	"cangkulan/arbiter/internal/zkcrypto"
)

// nizkPublicInputs is the parsed layout of mode 2's public inputs:
// seed_hash(32) || commitment(32) || nullifier(32) || sid_be4(4) || player_bytes(rest).
type nizkPublicInputs struct {
	seedHash   [32]byte
	commitment [32]byte
	nullifier  [32]byte
	sidBE      [4]byte
	player     []byte
}

func parseNIZKPublicInputs(b []byte) (nizkPublicInputs, bool) {
	if len(b) < 101 {
		return nizkPublicInputs{}, false
	}
	var out nizkPublicInputs
	copy(out.seedHash[:], b[0:32])
	copy(out.commitment[:], b[32:64])
	copy(out.nullifier[:], b[64:96])
	copy(out.sidBE[:], b[96:100])
	out.player = b[100:]
	if len(out.player) == 0 {
		return nizkPublicInputs{}, false
	}
	return out, true
}

// verifyNIZKSeed implements mode 2: a hash-based NIZK of seed
// knowledge binding a commitment, a session-bound nullifier,
// and a Fiat-Shamir response, all over keccak256 rather than a group.
func verifyNIZKSeed(publicInputs, proof []byte) Result {
	pub, ok := parseNIZKPublicInputs(publicInputs)
	if !ok {
		return reject(ModeNIZKSeed, ReasonProofWrongLength)
	}
	if len(proof) != 64 {
		return reject(ModeNIZKSeed, ReasonProofWrongLength)
	}
	blinding := proof[0:32]
	response := proof[32:64]

	if !zkcrypto.EntropyFloor(pub.seedHash[:], 4) {
		return reject(ModeNIZKSeed, ReasonWeakSeedEntropy)
	}

	wantCommitment := zkcrypto.Keccak256(pub.seedHash[:], blinding, pub.player)
	if wantCommitment != pub.commitment {
		return reject(ModeNIZKSeed, ReasonCommitmentMismatch)
	}

	wantNullifier := zkcrypto.Keccak256(pub.seedHash[:], []byte(zkcrypto.DomainNullifier), pub.sidBE[:])
	if wantNullifier != pub.nullifier {
		return reject(ModeNIZKSeed, ReasonNullifierMismatch)
	}

	challenge := zkcrypto.Keccak256(pub.commitment[:], pub.sidBE[:], pub.player, []byte(zkcrypto.DomainNIZKSeed))
	wantResponse := zkcrypto.Keccak256(pub.seedHash[:], challenge[:], blinding)
	if !bytes.Equal(wantResponse[:], response) {
		return reject(ModeNIZKSeed, ReasonResponseMismatch)
	}

	return accept(ModeNIZKSeed)
}
