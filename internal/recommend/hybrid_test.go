// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

// quotaScenario has four content matches (c*), three top collaborative
// items (k*) and three unrelated items (r*). The liked item L is indexed
// but no longer eligible.
func quotaScenario() (eligible []Product, content *ContentIndex, state *ModelState) {
	eligible = []Product{
		{ID: "c1", Name: "silk dress blue"},
		{ID: "c2", Name: "silk dress red"},
		{ID: "c3", Name: "evening silk gown"},
		{ID: "c4", Name: "evening dress green"},
		{ID: "k1", Name: "cotton socks"},
		{ID: "k2", Name: "denim jeans"},
		{ID: "k3", Name: "wool beanie"},
		{ID: "r1", Name: "rubber boots"},
		{ID: "r2", Name: "canvas tote"},
		{ID: "r3", Name: "steel watch"},
	}
	indexed := append([]Product{{ID: "L", Name: "silk dress evening"}}, eligible...)
	content = BuildContentIndex(indexed)

	itemIDs := []string{"k1", "k2", "k3", "c1", "c2", "c3", "c4", "r1", "r2", "r3", "L"}
	scores := make([]float64, len(itemIDs))
	for i := range scores {
		scores[i] = float64(len(itemIDs) - i)
	}
	state = NewModelState("test", "stub", []string{"u1"}, itemIDs, nil, nil, &stubParams{Scores: scores}, 0)
	return eligible, content, state
}

func seededRanker(quota QuotaConfig) *Ranker {
	return NewRanker(quota, rand.New(rand.NewPCG(1, 2)))
}

func sources(recs []Recommendation) []Source {
	out := make([]Source, len(recs))
	for i, r := range recs {
		out[i] = r.Source
	}
	return out
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func assertUnique(t *testing.T, recs []Recommendation) {
	t.Helper()
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if _, dup := seen[r.ID]; dup {
			t.Errorf("duplicate item %s in %v", r.ID, ids(recs))
		}
		seen[r.ID] = struct{}{}
	}
}

func TestRanker_QuotaLaw(t *testing.T) {
	t.Parallel()

	eligible, content, state := quotaScenario()
	r := seededRanker(DefaultConfig().Quota)

	got := r.Rank(RankInput{
		UserID:     "u1",
		Count:      10,
		Eligible:   eligible,
		Interacted: map[string]struct{}{"L": {}},
		Liked:      []string{"L"},
		Content:    content,
		State:      state,
	})

	if len(got) != 10 {
		t.Fatalf("Rank() returned %d items, want 10: %v", len(got), ids(got))
	}
	assertUnique(t, got)

	wantSources := []Source{
		SourceContent, SourceContent, SourceContent, SourceContent,
		SourceCollaborative, SourceCollaborative, SourceCollaborative,
		SourceRandom, SourceRandom, SourceRandom,
	}
	if !reflect.DeepEqual(sources(got), wantSources) {
		t.Errorf("sources = %v, want %v", sources(got), wantSources)
	}

	contentIDs := map[string]bool{"c1": true, "c2": true, "c3": true, "c4": true}
	for _, rec := range got[:4] {
		if !contentIDs[rec.ID] {
			t.Errorf("content slot holds %s", rec.ID)
		}
	}
	if !reflect.DeepEqual(ids(got[4:7]), []string{"k1", "k2", "k3"}) {
		t.Errorf("collaborative slots = %v, want [k1 k2 k3]", ids(got[4:7]))
	}
	randomIDs := map[string]bool{"r1": true, "r2": true, "r3": true}
	for _, rec := range got[7:] {
		if !randomIDs[rec.ID] {
			t.Errorf("random slot holds %s", rec.ID)
		}
		if rec.Score != 0 {
			t.Errorf("random item %s has score %v", rec.ID, rec.Score)
		}
	}
	for _, rec := range got {
		if rec.ID == "L" {
			t.Error("ineligible liked item returned")
		}
		if rec.Name == "" {
			t.Errorf("item %s missing product attributes", rec.ID)
		}
	}
}

func TestRanker_ExcludesInteracted(t *testing.T) {
	t.Parallel()

	eligible, content, state := quotaScenario()
	r := seededRanker(DefaultConfig().Quota)

	got := r.Rank(RankInput{
		UserID:     "u1",
		Count:      10,
		Eligible:   eligible,
		Interacted: map[string]struct{}{"L": {}, "k1": {}},
		Liked:      []string{"L"},
		Content:    content,
		State:      state,
	})

	// k1 is gone; collaborative takes k2, k3 and the best remaining r1,
	// and the random slots can only fill two.
	if len(got) != 9 {
		t.Fatalf("Rank() returned %d items, want 9: %v", len(got), ids(got))
	}
	assertUnique(t, got)
	for _, rec := range got {
		if rec.ID == "k1" {
			t.Error("interacted item returned")
		}
	}
	if !reflect.DeepEqual(ids(got[4:7]), []string{"k2", "k3", "r1"}) {
		t.Errorf("collaborative slots = %v, want [k2 k3 r1]", ids(got[4:7]))
	}
}

func TestRanker_Truncates(t *testing.T) {
	t.Parallel()

	eligible, content, state := quotaScenario()
	r := seededRanker(DefaultConfig().Quota)

	got := r.Rank(RankInput{
		UserID:   "u1",
		Count:    5,
		Eligible: eligible,
		Liked:    []string{"L"},
		Content:  content,
		State:    state,
	})

	want := []Source{SourceContent, SourceContent, SourceContent, SourceContent, SourceCollaborative}
	if !reflect.DeepEqual(sources(got), want) {
		t.Errorf("sources = %v, want %v", sources(got), want)
	}
	if got[4].ID != "k1" {
		t.Errorf("collaborative item = %s, want k1", got[4].ID)
	}
}

func TestRanker_PadsLargeCounts(t *testing.T) {
	t.Parallel()

	eligible, content, state := quotaScenario()
	eligible = append(eligible,
		Product{ID: "e1", Name: "extra one"},
		Product{ID: "e2", Name: "extra two"},
		Product{ID: "e3", Name: "extra three"},
	)
	r := seededRanker(DefaultConfig().Quota)

	got := r.Rank(RankInput{
		UserID:   "u1",
		Count:    12,
		Eligible: eligible,
		Liked:    []string{"L"},
		Content:  content,
		State:    state,
	})

	if len(got) != 12 {
		t.Fatalf("Rank() returned %d items, want 12", len(got))
	}
	assertUnique(t, got)
	for _, rec := range got[7:] {
		if rec.Source != SourceRandom {
			t.Errorf("slot for %s has source %s, want random", rec.ID, rec.Source)
		}
	}
}

func TestRanker_NoModelNoLikes(t *testing.T) {
	t.Parallel()

	eligible, _, _ := quotaScenario()
	r := seededRanker(DefaultConfig().Quota)

	got := r.Rank(RankInput{UserID: "u1", Count: 10, Eligible: eligible})
	if len(got) != 10 {
		t.Fatalf("Rank() returned %d items, want 10", len(got))
	}
	assertUnique(t, got)
	for _, rec := range got {
		if rec.Source != SourceRandom {
			t.Errorf("%s has source %s, want random", rec.ID, rec.Source)
		}
	}
}

func TestRanker_EmptyInputs(t *testing.T) {
	t.Parallel()

	r := seededRanker(DefaultConfig().Quota)

	if got := r.Rank(RankInput{UserID: "u1", Count: 10}); len(got) != 0 {
		t.Errorf("empty catalog should yield nothing, got %v", ids(got))
	}
	eligible, _, _ := quotaScenario()
	if got := r.Rank(RankInput{UserID: "u1", Count: 0, Eligible: eligible}); len(got) != 0 {
		t.Errorf("zero count should yield nothing, got %v", ids(got))
	}

	all := make(map[string]struct{}, len(eligible))
	for _, p := range eligible {
		all[p.ID] = struct{}{}
	}
	if got := r.Rank(RankInput{UserID: "u1", Count: 10, Eligible: eligible, Interacted: all}); len(got) != 0 {
		t.Errorf("fully interacted catalog should yield nothing, got %v", ids(got))
	}
}

func TestRanker_SeededIsDeterministic(t *testing.T) {
	t.Parallel()

	eligible, _, _ := quotaScenario()
	in := RankInput{UserID: "u1", Count: 10, Eligible: eligible}

	a := seededRanker(DefaultConfig().Quota).Rank(in)
	b := seededRanker(DefaultConfig().Quota).Rank(in)
	if !reflect.DeepEqual(ids(a), ids(b)) {
		t.Errorf("same seed produced %v and %v", ids(a), ids(b))
	}
}

func TestRanker_CollaborativeTiesKeepIndexOrder(t *testing.T) {
	t.Parallel()

	itemIDs := []string{"a", "b", "c", "d"}
	state := NewModelState("test", "stub", []string{"u1"}, itemIDs, nil, nil,
		&stubParams{Scores: []float64{1, 1, 1, 1}}, 0)
	r := seededRanker(DefaultConfig().Quota)

	got := r.collaborative(state, "u1", 3, func(id string) bool { return id == "b" })
	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("collaborative() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].ItemID != want[i] {
			t.Errorf("collaborative()[%d] = %s, want %s", i, got[i].ItemID, want[i])
		}
	}

	if got := r.collaborative(state, "stranger", 3, func(string) bool { return false }); got != nil {
		t.Errorf("unknown user should yield nil, got %v", got)
	}
}
