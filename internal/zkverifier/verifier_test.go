package zkverifier

import (
	"bytes"
	"encoding/binary"
	"testing"

	"cangkulan/arbiter/internal/zkcrypto"
)

func be4(v uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}

func TestVerifyDispatchesByLength(t *testing.T) {
	cases := []struct {
		name     string
		proofLen int
		wantMode Mode
	}{
		{"empty", 0, ModeUnknown},
		{"pedersen", 128, ModePedersenSigma},
		{"cangkul", 228, ModeAggregateHand},
		{"ring-n1", 160, ModeRingSigma},
		{"ring-n9", 96 + 9*64, ModeRingSigma},
		{"garbage", 17, ModeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			proof := make([]byte, c.proofLen)
			res := Verify(make([]byte, 200), proof)
			if res.OK {
				t.Fatalf("expected garbage proof to reject, got accept mode=%d", res.Mode)
			}
			if c.wantMode != ModeUnknown && res.Mode != c.wantMode {
				t.Fatalf("dispatched to mode %d, want %d", res.Mode, c.wantMode)
			}
		})
	}
}

func TestVerifyNIZKSeedHappyPath(t *testing.T) {
	seedHash := bytes.Repeat([]byte{0}, 32)
	for i := range seedHash {
		seedHash[i] = byte(i) // 32 distinct values, passes entropy floor
	}
	blinding := bytes.Repeat([]byte{0xAA}, 32)
	player := []byte("GPLAYERONE000000000000000000000000000")
	sid := be4(7)

	commitment := zkcrypto.Keccak256(seedHash, blinding, player)
	nullifier := zkcrypto.Keccak256(seedHash, []byte(zkcrypto.DomainNullifier), sid[:])
	challenge := zkcrypto.Keccak256(commitment[:], sid[:], player, []byte(zkcrypto.DomainNIZKSeed))
	response := zkcrypto.Keccak256(seedHash, challenge[:], blinding)

	var pub []byte
	pub = append(pub, seedHash...)
	pub = append(pub, commitment[:]...)
	pub = append(pub, nullifier[:]...)
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	var proof []byte
	proof = append(proof, blinding...)
	proof = append(proof, response[:]...)

	res := Verify(pub, proof)
	if !res.OK || res.Mode != ModeNIZKSeed {
		t.Fatalf("expected mode 2 accept, got %+v", res)
	}
}

func TestVerifyNIZKSeedWeakEntropyRejected(t *testing.T) {
	seedHash := bytes.Repeat([]byte{0x42}, 32) // 1 distinct value
	blinding := bytes.Repeat([]byte{0xAA}, 32)
	player := []byte("GPLAYERONE")
	sid := be4(1)

	commitment := zkcrypto.Keccak256(seedHash, blinding, player)
	nullifier := zkcrypto.Keccak256(seedHash, []byte(zkcrypto.DomainNullifier), sid[:])

	var pub []byte
	pub = append(pub, seedHash...)
	pub = append(pub, commitment[:]...)
	pub = append(pub, nullifier[:]...)
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	proof := make([]byte, 64)
	res := Verify(pub, proof)
	if res.OK || res.Reason != ReasonWeakSeedEntropy {
		t.Fatalf("expected WeakSeedEntropy reject, got %+v", res)
	}
}

func TestVerifyPedersenSigmaHappyPath(t *testing.T) {
	seedHash := bytes.Repeat([]byte{0x11}, 32)
	player := []byte("GPLAYERONE")
	sid := be4(3)

	r := zkcrypto.ScalarFromWideBytesReduced([]byte("blinding-r"))
	k := zkcrypto.ScalarFromWideBytesReduced([]byte("nonce-k"))
	seedHashFr := zkcrypto.ScalarFromWideBytesReduced(seedHash)

	c := zkcrypto.ScalarBaseMul(seedHashFr).Add(zkcrypto.HGenerator().ScalarMul(r))
	rr := zkcrypto.HGenerator().ScalarMul(k)

	cRaw := c.Serialize()
	rRaw := rr.Serialize()

	e := zkcrypto.Challenge(zkcrypto.DomainPedersen, cRaw[:], rRaw[:], seedHash, sid[:], player)
	zr := k.Add(e.Mul(r))

	var pub []byte
	pub = append(pub, cRaw[:]...)
	pub = append(pub, seedHash...)
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	zrBytes := zr.Bytes()
	var proof []byte
	proof = append(proof, rRaw[:]...)
	proof = append(proof, zrBytes[:]...)

	res := Verify(pub, proof)
	if !res.OK || res.Mode != ModePedersenSigma {
		t.Fatalf("expected mode 4 accept, got %+v", res)
	}
}

func TestVerifyRingSigmaSingleCandidate(t *testing.T) {
	player := []byte("GPLAYERONE")
	sid := be4(9)
	cardID := uint32(12)

	r := zkcrypto.ScalarFromWideBytesReduced([]byte("ring-blinding"))
	k := zkcrypto.ScalarFromWideBytesReduced([]byte("ring-nonce"))

	c := cardToScalar(cardID)
	cPoint := zkcrypto.ScalarBaseMul(c).Add(zkcrypto.HGenerator().ScalarMul(r))
	cRaw := cPoint.Serialize()

	r1 := zkcrypto.HGenerator().ScalarMul(k)
	r1Raw := r1.Serialize()

	e := zkcrypto.Challenge(zkcrypto.DomainRingSigma, cRaw[:], r1Raw[:], sid[:], player)
	z1 := k.Add(e.Mul(r))

	commitHash := zkcrypto.Keccak256(cRaw[:])

	var pub []byte
	pub = append(pub, commitHash[:]...)
	pub = append(pub, be4(1)[:]...)
	pub = append(pub, be4(cardID)[:]...)
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	eBytes := e.Bytes()
	z1Bytes := z1.Bytes()
	var proof []byte
	proof = append(proof, cRaw[:]...)
	proof = append(proof, eBytes[:]...)
	proof = append(proof, z1Bytes[:]...)

	res := Verify(pub, proof)
	if !res.OK || res.Mode != ModeRingSigma {
		t.Fatalf("expected mode 7 accept, got %+v", res)
	}
}

func TestVerifyAggregateHandHappyPath(t *testing.T) {
	player := []byte("GPLAYERONE")
	sid := be4(4)
	trickSuit := uint32(0)
	handCards := []uint32{9, 18} // suits 1 and 2, never 0

	rAgg := zkcrypto.ScalarFromWideBytesReduced([]byte("agg-blinding"))
	k := zkcrypto.ScalarFromWideBytesReduced([]byte("agg-nonce"))

	sum := zkcrypto.ScalarZero()
	for _, c := range handCards {
		sum = sum.Add(cardToScalar(c))
	}
	a := zkcrypto.ScalarBaseMul(sum).Add(zkcrypto.HGenerator().ScalarMul(rAgg))
	aRaw := a.Serialize()
	rr := zkcrypto.HGenerator().ScalarMul(k)
	rRaw := rr.Serialize()

	kBE := be4(uint32(len(handCards)))
	trickSuitBE := be4(trickSuit)

	e := zkcrypto.Challenge(zkcrypto.DomainAggregateHand, aRaw[:], rRaw[:], trickSuitBE[:], kBE[:], sid[:], player)
	z := k.Add(e.Mul(rAgg))

	commitHash := zkcrypto.Keccak256(aRaw[:])

	var pub []byte
	pub = append(pub, commitHash[:]...)
	pub = append(pub, trickSuitBE[:]...)
	pub = append(pub, kBE[:]...)
	for _, c := range handCards {
		cb := be4(c)
		pub = append(pub, cb[:]...)
	}
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	zBytes := z.Bytes()
	var proof []byte
	proof = append(proof, kBE[:]...)
	proof = append(proof, aRaw[:]...)
	proof = append(proof, rRaw[:]...)
	proof = append(proof, zBytes[:]...)

	res := Verify(pub, proof)
	if !res.OK || res.Mode != ModeAggregateHand {
		t.Fatalf("expected mode 8 accept, got %+v", res)
	}
}

func TestVerifyAggregateHandRejectsSuitMatch(t *testing.T) {
	player := []byte("GPLAYERONE")
	sid := be4(4)
	trickSuit := uint32(0)
	handCards := []uint32{1} // suit 0: matches trick suit, must reject

	kBE := be4(uint32(len(handCards)))
	trickSuitBE := be4(trickSuit)
	var pub []byte
	pub = append(pub, make([]byte, 32)...)
	pub = append(pub, trickSuitBE[:]...)
	pub = append(pub, kBE[:]...)
	cb := be4(handCards[0])
	pub = append(pub, cb[:]...)
	pub = append(pub, sid[:]...)
	pub = append(pub, player...)

	proof := make([]byte, 228)
	copy(proof[0:4], kBE[:])

	res := Verify(pub, proof)
	if res.OK || res.Reason != ReasonCardMatchesSuit {
		t.Fatalf("expected CardMatchesSuit reject, got %+v", res)
	}
}
