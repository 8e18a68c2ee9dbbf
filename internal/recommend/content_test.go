// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "stop words and punctuation", text: "The Red-Leather boots, for a walk", want: []string{"red", "leather", "boots", "walk"}},
		{name: "short tokens", text: "x 2 xl 42", want: []string{"xl", "42"}},
		{name: "unicode", text: "Café Crème", want: []string{"café", "crème"}},
		{name: "empty", text: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestProductDocument(t *testing.T) {
	t.Parallel()

	p := Product{Name: "Boots", Description: " ", Category: "Shoes", Gender: "Women"}
	if got := ProductDocument(p); got != "Boots Shoes Women" {
		t.Errorf("ProductDocument() = %q", got)
	}
}

func TestContentIndex_Similar(t *testing.T) {
	t.Parallel()

	store := marketplaceFixture()
	idx := BuildContentIndex(store.products)

	if idx.Len() != len(store.products) {
		t.Fatalf("Len() = %d, want %d", idx.Len(), len(store.products))
	}
	if idx.VocabularySize() == 0 {
		t.Fatal("expected a non-empty vocabulary")
	}

	got := idx.Similar([]string{"p1"}, 3, nil)
	if len(got) == 0 {
		t.Fatal("expected similar items for p1")
	}
	if got[0].ItemID != "p2" {
		t.Errorf("most similar to p1 = %s, want p2", got[0].ItemID)
	}
	for i, s := range got {
		if s.ItemID == "p1" {
			t.Error("liked item returned")
		}
		if s.Score < 0 || s.Score > 1+1e-9 {
			t.Errorf("score %v out of [0, 1]", s.Score)
		}
		if i > 0 && got[i-1].Score < s.Score {
			t.Errorf("results not sorted by score: %+v", got)
		}
	}
}

func TestContentIndex_SimilarSkip(t *testing.T) {
	t.Parallel()

	idx := BuildContentIndex(marketplaceFixture().products)

	got := idx.Similar([]string{"p1"}, 5, func(id string) bool { return id == "p2" })
	for _, s := range got {
		if s.ItemID == "p2" {
			t.Error("skipped item returned")
		}
	}
}

func TestContentIndex_SimilarFillsWithZeroScores(t *testing.T) {
	t.Parallel()

	idx := BuildContentIndex([]Product{
		{ID: "liked", Name: "silk gown"},
		{ID: "c0", Name: "leather wallet"},
		{ID: "c1", Name: "silk scarf"},
		{ID: "c2", Name: "canvas tote"},
		{ID: "c3", Name: "denim jacket"},
		{ID: "c4", Name: "wool hat"},
	})

	got := idx.Similar([]string{"liked"}, 4, nil)
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ItemID)
	}
	if want := []string{"c1", "c0", "c2", "c3"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("Similar() = %v, want %v", ids, want)
	}
	if got[0].Score <= 0 {
		t.Errorf("overlapping item score = %v, want > 0", got[0].Score)
	}
	for _, s := range got[1:] {
		if s.Score != 0 {
			t.Errorf("%s score = %v, want 0", s.ItemID, s.Score)
		}
	}

	// Skipped items do not count toward k.
	got = idx.Similar([]string{"liked"}, 10, func(id string) bool { return id == "c0" })
	if len(got) != 4 {
		t.Errorf("Similar() with skip returned %d items, want 4", len(got))
	}
}

func TestContentIndex_SimilarEmptyCentroid(t *testing.T) {
	t.Parallel()

	idx := BuildContentIndex([]Product{
		{ID: "blank"},
		{ID: "a", Name: "wool scarf"},
		{ID: "b", Name: "wool hat"},
	})

	got := idx.Similar([]string{"blank"}, 2, nil)
	if len(got) != 2 || got[0].ItemID != "a" || got[1].ItemID != "b" {
		t.Errorf("Similar() = %+v, want a and b in index order", got)
	}
}

func TestContentIndex_SimilarEdgeCases(t *testing.T) {
	t.Parallel()

	idx := BuildContentIndex(marketplaceFixture().products)

	if got := idx.Similar(nil, 4, nil); len(got) != 0 {
		t.Errorf("no liked items should yield nothing, got %v", got)
	}
	if got := idx.Similar([]string{"unknown"}, 4, nil); len(got) != 0 {
		t.Errorf("unindexed liked items should yield nothing, got %v", got)
	}
	if got := idx.Similar([]string{"p1"}, 0, nil); len(got) != 0 {
		t.Errorf("k=0 should yield nothing, got %v", got)
	}

	var nilIdx *ContentIndex
	if got := nilIdx.Similar([]string{"p1"}, 4, nil); got != nil {
		t.Errorf("nil index should yield nil, got %v", got)
	}
	if nilIdx.Len() != 0 || nilIdx.VocabularySize() != 0 {
		t.Error("nil index should be empty")
	}
}

func TestBuildContentIndex_DuplicateIDs(t *testing.T) {
	t.Parallel()

	idx := BuildContentIndex([]Product{
		{ID: "a", Name: "wool scarf"},
		{ID: "a", Name: "leather wallet"},
	})
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}
