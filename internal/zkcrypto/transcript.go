package zkcrypto

import "golang.org/x/crypto/sha3"

// Domain-separation tags mixed into every Fiat-Shamir hash so a proof
// built for one mode can never replay as another.
const (
	DomainNullifier     = "NULL"
	DomainNIZKSeed      = "ZKV2"
	DomainPedersen      = "ZKP4"
	DomainRingSigma     = "ZKP7"
	DomainAggregateHand = "ZKP8"
)

// Keccak256 hashes the concatenation of parts with legacy Keccak-256
// (the Ethereum variant, not NIST SHA3-256).
func Keccak256(parts ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Challenge derives a Fiat-Shamir challenge scalar: keccak256 over the
// transcript parts with the mode's domain tag appended, reduced into
// Fr. The tag goes last so the transcript layout matches the wire
// order commitment-first provers hash in.
func Challenge(domain string, parts ...[]byte) Scalar {
	buf := make([][]byte, 0, len(parts)+1)
	buf = append(buf, parts...)
	buf = append(buf, []byte(domain))
	h := Keccak256(buf...)
	return ScalarFromWideBytesReduced(h[:])
}

// EntropyFloor reports whether b contains at least min distinct byte
// values, rejecting trivially-structured inputs (all-zero, repeated
// patterns) before they reach the shuffle seed derivation.
func EntropyFloor(b []byte, min int) bool {
	var seen [256]bool
	distinct := 0
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			distinct++
			if distinct >= min {
				return true
			}
		}
	}
	return false
}
