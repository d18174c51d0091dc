package services

import (
	"slices"
	"testing"
)

type scored struct {
	name  string
	count int
}

func countOf(s scored) int { return s.count }

func TestTopByCount_SortsDescending(t *testing.T) {
	in := []scored{{"a", 1}, {"b", 5}, {"c", 3}}
	got := TopByCount(in, countOf, 10)

	want := []string{"b", "c", "a"}
	for i, s := range got {
		if s.name != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, s.name, want[i])
		}
	}
}

func TestTopByCount_StableTies(t *testing.T) {
	in := []scored{{"a", 2}, {"b", 2}, {"c", 7}, {"d", 2}, {"e", 0}}
	for i := 0; i < 10; i++ {
		got := TopByCount(in, countOf, 10)
		names := make([]string, len(got))
		for j, s := range got {
			names[j] = s.name
		}
		if !slices.Equal(names, []string{"c", "a", "b", "d", "e"}) {
			t.Fatalf("unstable tie order: %v", names)
		}
	}
}

func TestTopByCount_Truncates(t *testing.T) {
	in := []scored{{"a", 1}, {"b", 2}, {"c", 3}}
	got := TopByCount(in, countOf, 2)
	if len(got) != 2 || got[0].name != "c" || got[1].name != "b" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestTopByCount_DoesNotMutateInput(t *testing.T) {
	in := []scored{{"a", 1}, {"b", 2}}
	_ = TopByCount(in, countOf, 1)
	if in[0].name != "a" || in[1].name != "b" {
		t.Fatalf("input mutated: %+v", in)
	}
}
