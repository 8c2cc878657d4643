package sbg

import "testing"

func TestLostSequence_WorkedExample(t *testing.T) {
	active := []int{1000, 869, 743, 653, 593, 551, 517, 491}
	lost, err := LostSequence(active)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int{0, 131, 126, 90, 60, 42, 34, 26}
	if len(lost) != len(active) {
		t.Fatalf("got length %d, want %d", len(lost), len(active))
	}
	for i := range want {
		if lost[i] != want[i] {
			t.Fatalf("lost[%d] = %d, want %d", i, lost[i], want[i])
		}
	}
}

func TestLostSequence_SumIdentity(t *testing.T) {
	cases := [][]int{
		{1000, 869, 743, 653, 593, 551, 517, 491},
		{10, 10, 10},
		{5, 3, 0},
		{100, 50},
	}
	for _, active := range cases {
		lost, err := LostSequence(active)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", active, err)
		}
		sum := 0
		for _, l := range lost[1:] {
			sum += l
		}
		if want := active[0] - active[len(active)-1]; sum != want {
			t.Fatalf("sum(lost) = %d, want %d for %v", sum, want, active)
		}
	}
}

func TestLostSequence_RejectsIncreasing(t *testing.T) {
	if _, err := LostSequence([]int{100, 90, 95, 80}); err == nil {
		t.Fatal("expected error for increasing sequence, got nil")
	}
}

func TestLostSequence_RejectsNegative(t *testing.T) {
	if _, err := LostSequence([]int{100, -1, 50}); err == nil {
		t.Fatal("expected error for negative count, got nil")
	}
}

func TestLostSequence_RejectsTooShort(t *testing.T) {
	if _, err := LostSequence([]int{100}); err == nil {
		t.Fatal("expected error for single-period input, got nil")
	}
}

func TestNewCohort(t *testing.T) {
	c, err := NewCohort([]int{1000, 869, 743})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Periods() != 3 {
		t.Fatalf("got %d periods, want 3", c.Periods())
	}
	if c.Lost[2] != 126 {
		t.Fatalf("lost[2] = %d, want 126", c.Lost[2])
	}
	if _, err := NewCohort([]int{10, 20}); err == nil {
		t.Fatal("expected error for increasing cohort, got nil")
	}
}
