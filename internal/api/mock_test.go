// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swiperec/internal/models"
	"github.com/tomtom215/swiperec/internal/recommend"
)

type recordedInteraction struct {
	userID, itemID string
	signal         recommend.SignalType
}

// fakeEngine implements Recommender with canned results.
type fakeEngine struct {
	mu sync.Mutex

	recResp   *recommend.Response
	recErr    error
	lastUser  string
	lastCount int

	recordErr error
	recorded  []recordedInteraction

	trainErr   error
	triggers   []string
	scheduleOK bool
	scheduled  []string

	saveErr error
	saved   []string
	loadErr error
	loaded  []string

	status recommend.Status
}

func (f *fakeEngine) GetRecommendations(_ context.Context, userID string, count int) (*recommend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUser, f.lastCount = userID, count
	if f.recErr != nil {
		return nil, f.recErr
	}
	if f.recResp != nil {
		return f.recResp, nil
	}
	return &recommend.Response{
		UserID:   userID,
		Items:    []recommend.Recommendation{},
		Metadata: recommend.ResponseMetadata{Strategy: recommend.StrategyPopular, Timestamp: time.Now().UTC()},
	}, nil
}

func (f *fakeEngine) RecordInteraction(_ context.Context, userID, itemID string, signal recommend.SignalType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, recordedInteraction{userID, itemID, signal})
	if signal.IsSwipe() {
		f.status.SwipesSinceRetrain++
	}
	return nil
}

func (f *fakeEngine) TrainWithTrigger(_ context.Context, trigger string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, trigger)
	if f.trainErr != nil {
		return f.trainErr
	}
	f.status.Trained = true
	f.status.ModelVersion = recommend.DefaultModelVersion
	return nil
}

func (f *fakeEngine) ScheduleRetrain(trigger string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.scheduleOK {
		return false
	}
	f.scheduled = append(f.scheduled, trigger)
	f.status.RetrainInProgress = true
	return true
}

func (f *fakeEngine) SaveModel(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, path)
	return nil
}

func (f *fakeEngine) LoadModel(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = append(f.loaded, path)
	return nil
}

func (f *fakeEngine) Status() recommend.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// fakeCatalog implements Catalog over a fixed product list.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[string]recommend.Product
	err      error
	pingErr  error
	lastIDs  []string
}

func newFakeCatalog(products ...recommend.Product) *fakeCatalog {
	c := &fakeCatalog{products: make(map[string]recommend.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) ProductsByIDs(_ context.Context, ids []string) ([]recommend.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastIDs = append([]string(nil), ids...)
	if c.err != nil {
		return nil, c.err
	}
	var out []recommend.Product
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Ping(context.Context) error {
	return c.pingErr
}

// envelope decodes models.APIResponse keeping data raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestRouter(engine *fakeEngine, catalog *fakeCatalog, cfg HandlerConfig) http.Handler {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	return NewRouter(NewHandler(engine, catalog, cfg), NewChiMiddleware(mwCfg)).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an API envelope: %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusError || env.Error == nil {
		t.Fatalf("envelope = %+v, want error", env)
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}
