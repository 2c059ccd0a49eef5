package ring

import "testing"

func TestPushWithinCapacity(t *testing.T) {
	b := New[int](5)
	for i := 0; i < 3; i++ {
		b.Push(i)
	}
	if b.Len() != 3 {
		t.Fatalf("len = %d, want 3", b.Len())
	}
	got := b.Slice()
	want := []int{0, 1, 2}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("slice[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestPushEvictsOldest(t *testing.T) {
	b := New[int](3)
	for i := 0; i < 8; i++ {
		b.Push(i)
	}
	if b.Len() != 3 {
		t.Fatalf("len = %d, want 3", b.Len())
	}
	got := b.Slice()
	want := []int{5, 6, 7}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("slice[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestBoundHoldsUnderLargeSequence(t *testing.T) {
	const cap = 5000
	b := New[int](cap)
	const total = cap + 12345
	for i := 0; i < total; i++ {
		b.Push(i)
	}
	if b.Len() != cap {
		t.Fatalf("len = %d, want %d", b.Len(), cap)
	}
	got := b.Slice()
	for i, v := range got {
		want := total - cap + i
		if v != want {
			t.Fatalf("slice[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestClear(t *testing.T) {
	b := New[string](2)
	b.Push("a")
	b.Push("b")
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("len = %d, want 0 after clear", b.Len())
	}
	b.Push("c")
	got := b.Slice()
	if len(got) != 1 || got[0] != "c" {
		t.Fatalf("slice = %v, want [c]", got)
	}
}
