// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package algorithms

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/swiperec/internal/recommend"
)

// Loss selects the pairwise ranking objective.
type Loss string

const (
	// LossWARP is Weighted Approximate-Rank Pairwise loss. Negatives are
	// sampled until one violates the margin; the update is scaled by the
	// estimated rank of the positive item.
	LossWARP Loss = "warp"

	// LossBPR is Bayesian Personalized Ranking loss over one sampled negative.
	LossBPR Loss = "bpr"
)

// ErrDiverged is returned when training produces non-finite parameters.
var ErrDiverged = errors.New("factorization diverged")

// parallelPredictThreshold is the candidate count below which Predict stays
// on the calling goroutine.
const parallelPredictThreshold = 2048

func init() {
	gob.Register(&Params{})
}

// Factorization is a hybrid matrix factorization model. Users and items are
// represented as the sum of an identity embedding and the embeddings of their
// categorical features, so items with shared tags share signal.
//
// Reference: "Metadata Embeddings for User and Item Cold-start
// Recommendations" (Kula, 2015), and for WARP: "WSABIE: Scaling Up To Large
// Vocabulary Image Annotation" (Weston, Bengio, Usunier, 2011).
type Factorization struct {
	loss Loss
}

// NewWARP creates a factorization model trained with WARP loss.
func NewWARP() *Factorization {
	return &Factorization{loss: LossWARP}
}

// NewBPR creates a factorization model trained with BPR loss.
func NewBPR() *Factorization {
	return &Factorization{loss: LossBPR}
}

// NewFactorization creates a factorization model for the named loss.
func NewFactorization(loss Loss) (*Factorization, error) {
	switch loss {
	case LossWARP, LossBPR:
		return &Factorization{loss: loss}, nil
	case "":
		return NewWARP(), nil
	default:
		return nil, fmt.Errorf("unknown loss %q (want %q or %q)", loss, LossWARP, LossBPR)
	}
}

// Name returns the algorithm identifier.
func (m *Factorization) Name() string {
	return string(m.loss)
}

// Params are fitted factorization parameters. Embedding rows
// [0, NumUsers) are user identities and rows NumUsers+f are user feature f;
// items are laid out the same way.
type Params struct {
	Factors         int
	NumUsers        int
	NumItems        int
	NumUserFeatures int
	NumItemFeatures int

	UserEmbeddings [][]float64
	ItemEmbeddings [][]float64
	UserBiases     []float64
	ItemBiases     []float64

	Threads int
}

// trainer holds the mutable state of one Fit call.
type trainer struct {
	hp   recommend.Hyperparams
	loss Loss
	rng  *rand.Rand
	p    *Params

	userRows  [][]int
	itemRows  [][]int
	positives []map[int]struct{}

	// scratch vectors, reused across updates
	pu, qi, qj []float64
}

// Fit trains new parameters. It runs on a single goroutine so results are
// reproducible for a fixed seed.
//
//nolint:gocritic // hp passed by value to match the interface
func (m *Factorization) Fit(ctx context.Context, data *recommend.TrainingData, hp recommend.Hyperparams) (recommend.ModelParams, error) {
	if data == nil || data.NumUsers <= 0 || data.NumItems <= 0 {
		return nil, errors.New("training data must contain at least one user and one item")
	}
	if hp.Factors <= 0 {
		return nil, fmt.Errorf("factors must be positive, got %d", hp.Factors)
	}
	for _, in := range data.Interactions {
		if in.User < 0 || in.User >= data.NumUsers || in.Item < 0 || in.Item >= data.NumItems {
			return nil, fmt.Errorf("interaction (%d, %d) outside %dx%d universe",
				in.User, in.Item, data.NumUsers, data.NumItems)
		}
	}

	seed := uint64(hp.Seed) //nolint:gosec // G115: seed bits, sign irrelevant
	t := &trainer{
		hp:   hp,
		loss: m.loss,
		//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		p: &Params{
			Factors:         hp.Factors,
			NumUsers:        data.NumUsers,
			NumItems:        data.NumItems,
			NumUserFeatures: data.UserFeatures.NumFeatures(),
			NumItemFeatures: data.ItemFeatures.NumFeatures(),
			Threads:         hp.Threads,
		},
		pu: make([]float64, hp.Factors),
		qi: make([]float64, hp.Factors),
		qj: make([]float64, hp.Factors),
	}
	t.init(data)

	order := make([]int, len(data.Interactions))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < hp.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		t.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		for _, idx := range order {
			in := data.Interactions[idx]
			if in.Weight <= 0 {
				continue
			}
			t.step(in.User, in.Item, in.Weight)
		}
	}

	if !t.p.finite() {
		return nil, ErrDiverged
	}
	return t.p, nil
}

func (t *trainer) init(data *recommend.TrainingData) {
	p := t.p
	scale := 1.0 / float64(p.Factors)

	newMatrix := func(rows int) [][]float64 {
		m := make([][]float64, rows)
		for r := range m {
			m[r] = make([]float64, p.Factors)
			for f := range m[r] {
				m[r][f] = (t.rng.Float64() - 0.5) * scale
			}
		}
		return m
	}
	p.UserEmbeddings = newMatrix(p.NumUsers + p.NumUserFeatures)
	p.ItemEmbeddings = newMatrix(p.NumItems + p.NumItemFeatures)
	p.UserBiases = make([]float64, p.NumUsers+p.NumUserFeatures)
	p.ItemBiases = make([]float64, p.NumItems+p.NumItemFeatures)

	t.userRows = make([][]int, p.NumUsers)
	for u := range t.userRows {
		t.userRows[u] = p.userRows(u, data.UserFeatures)
	}
	t.itemRows = make([][]int, p.NumItems)
	for i := range t.itemRows {
		t.itemRows[i] = p.itemRows(i, data.ItemFeatures)
	}

	t.positives = make([]map[int]struct{}, p.NumUsers)
	for _, in := range data.Interactions {
		if t.positives[in.User] == nil {
			t.positives[in.User] = make(map[int]struct{})
		}
		t.positives[in.User][in.Item] = struct{}{}
	}
}

// step applies one stochastic update for a positive (user, item) pair.
func (t *trainer) step(u, i int, weight float64) {
	p := t.p
	if p.NumItems < 2 {
		return
	}

	uRows, iRows := t.userRows[u], t.itemRows[i]
	p.represent(p.UserEmbeddings, uRows, t.pu)
	p.represent(p.ItemEmbeddings, iRows, t.qi)
	pos := dot(t.pu, t.qi) + sum(p.ItemBiases, iRows)

	switch t.loss {
	case LossBPR:
		j, ok := t.sampleNegative(u)
		if !ok {
			return
		}
		jRows := t.itemRows[j]
		p.represent(p.ItemEmbeddings, jRows, t.qj)
		neg := dot(t.pu, t.qj) + sum(p.ItemBiases, jRows)
		t.update(uRows, iRows, jRows, weight*sigmoid(neg-pos))

	default:
		for sampled := 1; sampled <= t.hp.MaxSampled; sampled++ {
			j, ok := t.sampleNegative(u)
			if !ok {
				return
			}
			jRows := t.itemRows[j]
			p.represent(p.ItemEmbeddings, jRows, t.qj)
			neg := dot(t.pu, t.qj) + sum(p.ItemBiases, jRows)
			if neg > pos-1 {
				rank := math.Floor(float64(p.NumItems-1) / float64(sampled))
				t.update(uRows, iRows, jRows, weight*math.Log(math.Max(rank, 1)+1))
				return
			}
		}
	}
}

// sampleNegative draws an item the user has no recorded interaction with.
func (t *trainer) sampleNegative(u int) (int, bool) {
	pos := t.positives[u]
	if len(pos) >= t.p.NumItems {
		return 0, false
	}
	for tries := 0; tries < 100; tries++ {
		j := t.rng.IntN(t.p.NumItems)
		if _, ok := pos[j]; !ok {
			return j, true
		}
	}
	return 0, false
}

// update moves the user and both items along the gradient of
// g * (score(u, i) - score(u, j)) with L2 penalties.
func (t *trainer) update(uRows, iRows, jRows []int, g float64) {
	p := t.p
	lr := t.hp.LearningRate
	ua, ia := t.hp.UserAlpha, t.hp.ItemAlpha

	for _, r := range uRows {
		row := p.UserEmbeddings[r]
		for f := range row {
			row[f] += lr * (g*(t.qi[f]-t.qj[f]) - ua*row[f])
		}
	}
	for _, r := range iRows {
		row := p.ItemEmbeddings[r]
		for f := range row {
			row[f] += lr * (g*t.pu[f] - ia*row[f])
		}
		p.ItemBiases[r] += lr * (g - ia*p.ItemBiases[r])
	}
	for _, r := range jRows {
		row := p.ItemEmbeddings[r]
		for f := range row {
			row[f] += lr * (-g*t.pu[f] - ia*row[f])
		}
		p.ItemBiases[r] += lr * (-g - ia*p.ItemBiases[r])
	}
}

// Predict returns one score per candidate item. Candidates are split across
// up to Threads goroutines when the list is large.
func (p *Params) Predict(user int, items []int, userFeatures, itemFeatures *recommend.FeatureMatrix) []float64 {
	scores := make([]float64, len(items))
	if user < 0 || user >= p.NumUsers {
		return scores
	}

	pu := make([]float64, p.Factors)
	uRows := p.userRows(user, userFeatures)
	p.represent(p.UserEmbeddings, uRows, pu)
	ub := sum(p.UserBiases, uRows)

	scoreRange := func(lo, hi int) {
		qi := make([]float64, p.Factors)
		for k := lo; k < hi; k++ {
			i := items[k]
			if i < 0 || i >= p.NumItems {
				scores[k] = math.Inf(-1)
				continue
			}
			iRows := p.itemRows(i, itemFeatures)
			p.represent(p.ItemEmbeddings, iRows, qi)
			scores[k] = dot(pu, qi) + ub + sum(p.ItemBiases, iRows)
		}
	}

	threads := p.Threads
	if threads <= 1 || len(items) < parallelPredictThreshold {
		scoreRange(0, len(items))
		return scores
	}

	var g errgroup.Group
	chunk := (len(items) + threads - 1) / threads
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		g.Go(func() error {
			scoreRange(lo, hi)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never fail
	return scores
}

// userRows lists the embedding rows that make up user u.
func (p *Params) userRows(u int, features *recommend.FeatureMatrix) []int {
	return composeRows(u, p.NumUsers, p.NumUserFeatures, features)
}

// itemRows lists the embedding rows that make up item i.
func (p *Params) itemRows(i int, features *recommend.FeatureMatrix) []int {
	return composeRows(i, p.NumItems, p.NumItemFeatures, features)
}

func composeRows(id, numIDs, numFeatures int, features *recommend.FeatureMatrix) []int {
	row := features.Row(id)
	rows := make([]int, 0, 1+len(row))
	rows = append(rows, id)
	for _, f := range row {
		// Features outside the trained vocabulary carry no parameters.
		if f >= 0 && f < numFeatures {
			rows = append(rows, numIDs+f)
		}
	}
	return rows
}

// represent writes the sum of the given embedding rows into out.
func (p *Params) represent(emb [][]float64, rows []int, out []float64) {
	for f := range out {
		out[f] = 0
	}
	for _, r := range rows {
		for f, v := range emb[r] {
			out[f] += v
		}
	}
}

func (p *Params) finite() bool {
	for _, m := range [][][]float64{p.UserEmbeddings, p.ItemEmbeddings, {p.UserBiases, p.ItemBiases}} {
		for _, row := range m {
			for _, v := range row {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return false
				}
			}
		}
	}
	return true
}

func sum(v []float64, rows []int) float64 {
	var s float64
	for _, r := range rows {
		s += v[r]
	}
	return s
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
