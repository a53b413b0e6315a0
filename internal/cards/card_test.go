package cards

import "testing"

func TestCardSuitValue(t *testing.T) {
	cases := []struct {
		id    Card
		suit  uint8
		value uint8
	}{
		{0, 0, 2},
		{8, 0, 10},
		{9, 1, 2},
		{35, 3, 10},
	}
	for _, c := range cases {
		if got := c.id.Suit(); got != c.suit {
			t.Errorf("Card(%d).Suit() = %d, want %d", c.id, got, c.suit)
		}
		if got := c.id.Value(); got != c.value {
			t.Errorf("Card(%d).Value() = %d, want %d", c.id, got, c.value)
		}
	}
}

func TestHasSuitAndFindFirst(t *testing.T) {
	hand := []Card{2, 11, 20}
	if !HasSuit(hand, 2) {
		t.Fatalf("expected suit 2 present")
	}
	if HasSuit(hand, 3) {
		t.Fatalf("expected suit 3 absent")
	}
	c, ok := FindFirstOfSuit(hand, 1)
	if !ok || c != 11 {
		t.Fatalf("FindFirstOfSuit = %v,%v want 11,true", c, ok)
	}
}

func TestHandTotalValue(t *testing.T) {
	hand := []Card{0, 9, 18} // values 2,2,2
	if got := HandTotalValue(hand); got != 6 {
		t.Fatalf("HandTotalValue = %d, want 6", got)
	}
}

func TestRemoveCard(t *testing.T) {
	hand := []Card{1, 2, 3}
	out, ok := RemoveCard(hand, 2)
	if !ok {
		t.Fatalf("expected removal to succeed")
	}
	if len(out) != 2 || Contains(out, 2) {
		t.Fatalf("unexpected hand after removal: %v", out)
	}
	if _, ok := RemoveCard(hand, 99); ok {
		t.Fatalf("expected removal of absent card to fail")
	}
}
