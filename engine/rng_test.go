package engine

import "testing"

func TestRNGDeterminism(t *testing.T) {
	a := NewRNG(99)
	b := NewRNG(99)

	for i := 0; i < 50; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed should produce the same sequence")
		}
	}
	if a.Position() != 50 || a.Seed() != 99 {
		t.Errorf("position=%d seed=%d", a.Position(), a.Seed())
	}
}

func TestShuffleDeterministic(t *testing.T) {
	mk := func(seed int64) []int {
		v := []int{0, 1, 2, 3, 4, 5, 6, 7}
		NewRNG(seed).Shuffle(len(v), func(i, j int) { v[i], v[j] = v[j], v[i] })
		return v
	}

	x, y := mk(7), mk(7)
	for i := range x {
		if x[i] != y[i] {
			t.Fatal("same seed should produce the same shuffle")
		}
	}

	z := mk(8)
	same := true
	for i := range x {
		if x[i] != z[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds should (almost surely) differ on 8 elements")
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	v := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	NewRNG(3).Shuffle(len(v), func(i, j int) { v[i], v[j] = v[j], v[i] })

	seen := map[int]bool{}
	for _, n := range v {
		seen[n] = true
	}
	if len(seen) != 10 {
		t.Errorf("shuffle lost elements: %v", v)
	}
}

func TestShuffleCountsDraws(t *testing.T) {
	r := NewRNG(1)
	r.Shuffle(5, func(i, j int) {})
	if r.Position() != 4 {
		t.Errorf("position = %d, want one draw per swap", r.Position())
	}
}
