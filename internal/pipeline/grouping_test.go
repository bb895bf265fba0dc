package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"uiforge/internal/protocol"
)

func TestGroupByCategory_FirstSeenRepresentative(t *testing.T) {
	records := []protocol.ElementRecord{
		{ID: "1:1", Name: "Button 1", Category: "button"},
		{ID: "1:2", Name: "Search", Category: "input"},
		{ID: "1:3", Name: "Button 2", Category: "button"},
		{ID: "1:4", Name: "Button 3", Category: "button"},
	}

	groups := GroupByCategory(records)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// First-seen order, first-seen representative.
	if groups[0].Category != "button" || groups[1].Category != "input" {
		t.Fatalf("group order = %s, %s", groups[0].Category, groups[1].Category)
	}
	if groups[0].Representative.Name != "Button 1" {
		t.Fatalf("representative = %q, want Button 1", groups[0].Representative.Name)
	}
	if len(groups[0].Instances) != 3 {
		t.Fatalf("button instances = %d, want 3", len(groups[0].Instances))
	}
	if groups[0].Instances[0] != groups[0].Representative {
		t.Fatal("representative must be the first instance")
	}
}

func TestGroupByCategory_Deterministic(t *testing.T) {
	records := []protocol.ElementRecord{
		{ID: "2:1", Name: "a", Category: "card"},
		{ID: "2:2", Name: "b", Category: "button"},
		{ID: "2:3", Name: "c", Category: "card"},
		{ID: "2:4", Name: "d", Category: "badge"},
		{ID: "2:5", Name: "e", Category: "button"},
	}

	first := GroupByCategory(records)
	for i := 0; i < 20; i++ {
		if diff := cmp.Diff(first, GroupByCategory(records)); diff != "" {
			t.Fatalf("grouping not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestGroupByCategory_Empty(t *testing.T) {
	if groups := GroupByCategory(nil); len(groups) != 0 {
		t.Fatalf("got %d groups from empty input", len(groups))
	}
}

func TestNormalizeSectionCategory(t *testing.T) {
	if got := NormalizeSectionCategory("hero"); got != SectionHero {
		t.Fatalf("got %q", got)
	}
	if got := NormalizeSectionCategory("sidebar"); got != SectionGeneric {
		t.Fatalf("unknown category = %q, want generic-section", got)
	}
	if got := NormalizeSectionCategory(""); got != SectionGeneric {
		t.Fatalf("empty category = %q, want generic-section", got)
	}
}
