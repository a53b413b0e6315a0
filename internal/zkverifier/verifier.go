// Package zkverifier is the pure, stateless multi-mode zero-knowledge
// commitment verifier: a single Verify entrypoint dispatches on proof
// length to one of four proof systems and returns a diagnostic result,
// never touching storage.
package zkverifier

// Mode identifies which proof system a Verify call dispatched to.
type Mode int

const (
	ModeUnknown       Mode = 0
	ModeNIZKSeed      Mode = 2
	ModePedersenSigma Mode = 4
	ModeRingSigma     Mode = 7
	ModeAggregateHand Mode = 8
)

// Diagnostic reason codes published alongside every reject, and the
// mode published alongside every accept.
const (
	ReasonProofWrongLength            = "ProofWrongLength"
	ReasonWeakSeedEntropy             = "WeakSeedEntropy"
	ReasonCommitmentMismatch          = "CommitmentMismatch"
	ReasonNullifierMismatch           = "NullifierMismatch"
	ReasonResponseMismatch            = "ResponseMismatch"
	ReasonPointNotInSubgroup          = "PointNotInSubgroup"
	ReasonScalarNotCanonical          = "ScalarNotCanonical"
	ReasonSigmaCheckFailed            = "SigmaCheckFailed"
	ReasonRingSetSizeInvalid          = "RingSetSizeInvalid"
	ReasonRingCommitMismatch          = "RingCommitMismatch"
	ReasonKMismatch                   = "KMismatch"
	ReasonCardOutOfRange              = "CardOutOfRange"
	ReasonCardMatchesSuit             = "CardMatchesSuit"
	ReasonAggregateCommitmentMismatch = "AggregateCommitmentMismatch"
)

// Result is the outcome of a Verify call: either an accept carrying
// the mode that matched, or a reject carrying a diagnostic reason.
type Result struct {
	OK     bool
	Mode   Mode
	Reason string
}

func accept(mode Mode) Result {
	return Result{OK: true, Mode: mode}
}

func reject(mode Mode, reason string) Result {
	return Result{OK: false, Mode: mode, Reason: reason}
}

// Verify dispatches publicInputs/proof to the matching proof system
// purely by proof length. The dispatch order is load-bearing: an
// exact 128-byte proof is always mode 4, an exact
// 228-byte proof is always mode 8, a proof in the ring-sigma length
// family is mode 7, and only then is a 64-byte proof (with a public
// inputs length floor) accepted as mode 2. Anything else is rejected
// without invoking any mode-specific logic.
func Verify(publicInputs, proof []byte) Result {
	switch {
	case len(proof) == 0:
		return reject(ModeUnknown, ReasonProofWrongLength)
	case len(proof) == 128:
		return verifyPedersenSigma(publicInputs, proof)
	case len(proof) == 228:
		return verifyAggregateHand(publicInputs, proof)
	case len(proof) >= 160 && len(proof) <= 672 && (len(proof)-96)%64 == 0:
		return verifyRingSigma(publicInputs, proof)
	case len(proof) == 64 && len(publicInputs) >= 101:
		return verifyNIZKSeed(publicInputs, proof)
	default:
		return reject(ModeUnknown, ReasonProofWrongLength)
	}
}
