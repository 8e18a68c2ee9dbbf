// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// ScoredItem is an item id with a ranking score.
type ScoredItem struct {
	ItemID string
	Score  float64
}

type termWeight struct {
	term   int
	weight float64
}

// ContentIndex is a TF-IDF vector space over item text attributes.
// It is immutable once built and safe for concurrent use.
type ContentIndex struct {
	itemIDs []string
	index   map[string]int
	vectors [][]termWeight
	vocab   int
}

// minTokenLength drops single-character tokens.
const minTokenLength = 2

var stopWords = func() map[string]struct{} {
	words := strings.Fields(`
		a about above after again against all am an and any are as at be because
		been before being below between both but by can could did do does doing
		down during each few for from further had has have having he her here hers
		herself him himself his how if in into is it its itself just me more most
		my myself no nor not now of off on once only or other our ours ourselves
		out over own same she should so some such than that the their theirs them
		themselves then there these they this those through to too under until up
		very was we were what when where which while who whom why will with you
		your yours yourself yourselves`)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// ProductDocument concatenates the text and categorical attributes of a product.
func ProductDocument(p Product) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{p.Name, p.Description, p.Category, p.Brand, p.Gender} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Tokenize lowercases text, splits on non-alphanumerics and drops stop words
// and short tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minTokenLength {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// BuildContentIndex computes L2-normalized TF-IDF vectors for products using
// smoothed inverse document frequency: ln((1+n)/(1+df)) + 1.
func BuildContentIndex(products []Product) *ContentIndex {
	c := &ContentIndex{
		itemIDs: make([]string, 0, len(products)),
		index:   make(map[string]int, len(products)),
		vectors: make([][]termWeight, 0, len(products)),
	}

	terms := make(map[string]int)
	docs := make([]map[int]int, 0, len(products))
	df := make(map[int]int)

	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.itemIDs)
		c.itemIDs = append(c.itemIDs, p.ID)

		tf := make(map[int]int)
		for _, tok := range Tokenize(ProductDocument(p)) {
			id, ok := terms[tok]
			if !ok {
				id = len(terms)
				terms[tok] = id
			}
			tf[id]++
		}
		for id := range tf {
			df[id]++
		}
		docs = append(docs, tf)
	}

	c.vocab = len(terms)
	n := float64(len(docs))
	for _, tf := range docs {
		vec := make([]termWeight, 0, len(tf))
		var norm float64
		for term, count := range tf {
			idf := math.Log((1+n)/(1+float64(df[term]))) + 1
			w := float64(count) * idf
			vec = append(vec, termWeight{term: term, weight: w})
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := range vec {
				vec[i].weight /= norm
			}
		}
		sort.Slice(vec, func(i, j int) bool { return vec[i].term < vec[j].term })
		c.vectors = append(c.vectors, vec)
	}

	return c
}

// Len returns the number of indexed items.
func (c *ContentIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.itemIDs)
}

// VocabularySize returns the number of distinct terms.
func (c *ContentIndex) VocabularySize() int {
	if c == nil {
		return 0
	}
	return c.vocab
}

// Similar ranks items by cosine similarity to the centroid of the liked items.
// Liked items and items rejected by skip are never returned. Every other item
// is ranked, so k results come back whenever k candidates exist; ties,
// including zero similarity, keep index order. An empty result is returned
// when no liked item is indexed.
func (c *ContentIndex) Similar(liked []string, k int, skip func(itemID string) bool) []ScoredItem {
	if c.Len() == 0 || k <= 0 {
		return nil
	}

	likedSet := make(map[string]struct{}, len(liked))
	centroid := make(map[int]float64)
	var n int
	for _, id := range liked {
		if _, dup := likedSet[id]; dup {
			continue
		}
		likedSet[id] = struct{}{}
		idx, ok := c.index[id]
		if !ok {
			continue
		}
		for _, tw := range c.vectors[idx] {
			centroid[tw.term] += tw.weight
		}
		n++
	}
	if n == 0 {
		return nil
	}

	var norm float64
	for term, w := range centroid {
		w /= float64(n)
		centroid[term] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)

	scored := make([]ScoredItem, 0, len(c.itemIDs))
	for idx, id := range c.itemIDs {
		if _, ok := likedSet[id]; ok {
			continue
		}
		if skip != nil && skip(id) {
			continue
		}
		var score float64
		if norm > 0 {
			for _, tw := range c.vectors[idx] {
				score += centroid[tw.term] * tw.weight
			}
			score /= norm
		}
		scored = append(scored, ScoredItem{ItemID: id, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
