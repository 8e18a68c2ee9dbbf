// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/swiperec/internal/database"
	"github.com/tomtom215/swiperec/internal/models"
	"github.com/tomtom215/swiperec/internal/recommend"
)

func TestRecommendations_Success(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{recResp: &recommend.Response{
		UserID: "user-1",
		Items: []recommend.Recommendation{
			{Product: recommend.Product{ID: "p1", Name: "Running Shoe", Price: 1200}, Score: 0.9, Source: recommend.SourceContent},
			{Product: recommend.Product{ID: "p2", Name: "Tote", Price: 3200}, Score: 0.4, Source: recommend.SourceCollaborative},
		},
		Metadata: recommend.ResponseMetadata{
			Strategy:  recommend.StrategyHybrid,
			CacheHit:  true,
			LatencyMS: 7,
			Timestamp: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		},
	}}
	router := newTestRouter(engine, newFakeCatalog(), HandlerConfig{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/user-1?count=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if env.Status != models.StatusSuccess {
		t.Errorf("status = %q", env.Status)
	}
	if !env.Metadata.Cached || env.Metadata.QueryTimeMS != 7 {
		t.Errorf("metadata = %+v, want cached with 7ms", env.Metadata)
	}
	if env.Metadata.RequestID == "" || env.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id %q does not match header %q", env.Metadata.RequestID, rec.Header().Get("X-Request-ID"))
	}

	var data recommend.Response
	decodeData(t, env, &data)
	if len(data.Items) != 2 || data.Items[0].ID != "p1" || data.Items[0].Source != recommend.SourceContent {
		t.Errorf("items = %+v", data.Items)
	}
	if engine.lastUser != "user-1" || engine.lastCount != 2 {
		t.Errorf("engine called with (%q, %d)", engine.lastUser, engine.lastCount)
	}
}

func TestRecommendations_EmptyListIsOK(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeEngine{}, newFakeCatalog(), HandlerConfig{})
	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/stranger", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an unknown user", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"items":[]`) {
		t.Errorf("body = %s, want an empty items array", rec.Body.String())
	}
}

func TestRecommendations_BadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{"non-numeric count", "/api/v1/recommendations/u1?count=ten"},
		{"negative count", "/api/v1/recommendations/u1?count=-1"},
		{"count above bound", "/api/v1/recommendations/u1?count=1001"},
		{"whitespace user id", "/api/v1/recommendations/a%20b"},
		{"oversized user id", "/api/v1/recommendations/" + strings.Repeat("u", 129)},
	}
	router := newTestRouter(&fakeEngine{}, newFakeCatalog(), HandlerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doRequest(t, router, http.MethodGet, tt.path, "")
			expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)
		})
	}
}

func TestRecommendations_EngineError(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeEngine{recErr: errors.New("boom")}, newFakeCatalog(), HandlerConfig{})
	rec := doRequest(t, router, http.MethodGet, "/api/v1/recommendations/u1", "")
	expectError(t, rec, http.StatusInternalServerError, ErrCodeInternal)
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("internal error detail leaked to the client")
	}
}

func TestRecordInteraction_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		signal string
		want   recommend.SignalType
		swipe  bool
	}{
		{"view", recommend.SignalView, false},
		{"wishlist", recommend.SignalWishlist, false},
		{"like", recommend.SignalSwipeLike, true},
		{"cart", recommend.SignalSwipeCart, true},
		{"dislike", recommend.SignalSwipeDislike, true},
	}
	for _, tt := range tests {
		t.Run(tt.signal, func(t *testing.T) {
			t.Parallel()

			engine := &fakeEngine{}
			router := newTestRouter(engine, newFakeCatalog(), HandlerConfig{})
			body := fmt.Sprintf(`{"user_id":"u1","product_id":"p1","signal":%q}`, tt.signal)

			rec := doRequest(t, router, http.MethodPost, "/api/v1/interactions", body)
			if rec.Code != http.StatusCreated {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if len(engine.recorded) != 1 || engine.recorded[0] != (recordedInteraction{"u1", "p1", tt.want}) {
				t.Errorf("recorded = %+v", engine.recorded)
			}

			var ack InteractionResponse
			decodeData(t, decodeEnvelope(t, rec), &ack)
			if ack.Signal != tt.signal {
				t.Errorf("signal = %q, want %q", ack.Signal, tt.signal)
			}
			var wantCount int64
			if tt.swipe {
				wantCount = 1
			}
			if ack.SwipesSinceRetrain != wantCount {
				t.Errorf("swipes_since_retrain = %d, want %d", ack.SwipesSinceRetrain, wantCount)
			}
		})
	}
}

func TestRecordInteraction_BadRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"empty body", "", ""},
		{"malformed json", `{"user_id":`, ""},
		{"unknown field", `{"user_id":"u1","product_id":"p1","signal":"like","extra":1}`, ""},
		{"missing user", `{"product_id":"p1","signal":"like"}`, "user_id"},
		{"unknown signal", `{"user_id":"u1","product_id":"p1","signal":"superlike"}`, "signal"},
		{"uppercase signal", `{"user_id":"u1","product_id":"p1","signal":"LIKE"}`, "signal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := &fakeEngine{}
			router := newTestRouter(engine, newFakeCatalog(), HandlerConfig{})
			rec := doRequest(t, router, http.MethodPost, "/api/v1/interactions", tt.body)
			expectError(t, rec, http.StatusBadRequest, ErrCodeValidation)

			if tt.wantField != "" {
				env := decodeEnvelope(t, rec)
				if env.Error.Details["field"] != tt.wantField {
					t.Errorf("details = %v, want field %s", env.Error.Details, tt.wantField)
				}
			}
			if len(engine.recorded) != 0 {
				t.Errorf("invalid request reached the engine: %+v", engine.recorded)
			}
		})
	}
}

func TestRecordInteraction_StoreErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown user", database.ErrUnknownUser, http.StatusNotFound, ErrCodeNotFound},
		{"unknown product", database.ErrUnknownProduct, http.StatusNotFound, ErrCodeNotFound},
		{"duplicate wishlist", database.ErrAlreadyWishlisted, http.StatusConflict, ErrCodeConflict},
		{"unknown signal", recommend.ErrUnknownSignal, http.StatusBadRequest, ErrCodeValidation},
		{"store down", errors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// The engine wraps store errors.
			engine := &fakeEngine{recordErr: fmt.Errorf("record wishlist interaction: %w", tt.err)}
			router := newTestRouter(engine, newFakeCatalog(), HandlerConfig{})
			rec := doRequest(t, router, http.MethodPost, "/api/v1/interactions",
				`{"user_id":"u1","product_id":"p1","signal":"wishlist"}`)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestProducts(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog(
		recommend.Product{ID: "p1", Name: "Running Shoe", Category: "shoes", Price: 1200, WishlistCount: 9},
		recommend.Product{ID: "p2", Name: "Tote", Category: "bags", Price: 3200},
	)
	router := newTestRouter(&fakeEngine{}, catalog, HandlerConfig{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?ids=p1,%20p2,,p1,missing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if want := []string{"p1", "p2", "missing"}; !reflect.DeepEqual(catalog.lastIDs, want) {
		t.Errorf("catalog ids = %v, want %v", catalog.lastIDs, want)
	}

	var data struct {
		Products []recommend.Product `json:"products"`
		Count    int                 `json:"count"`
	}
	decodeData(t, decodeEnvelope(t, rec), &data)
	if data.Count != 2 || len(data.Products) != 2 {
		t.Fatalf("data = %+v", data)
	}
	if strings.Contains(rec.Body.String(), "wishlist") {
		t.Error("internal wishlist counter exposed")
	}
}

func TestProducts_BadRequest(t *testing.T) {
	t.Parallel()

	many := make([]string, maxProductLookup+1)
	for i := range many {
		many[i] = fmt.Sprintf("p%d", i)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing ids", "/api/v1/products"},
		{"only separators", "/api/v1/products?ids=,,"},
		{"too many ids", "/api/v1/products?ids=" + strings.Join(many, ",")},
	}
	router := newTestRouter(&fakeEngine{}, newFakeCatalog(), HandlerConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectError(t, doRequest(t, router, http.MethodGet, tt.path, ""), http.StatusBadRequest, ErrCodeValidation)
		})
	}
}

func TestProducts_StoreError(t *testing.T) {
	t.Parallel()

	catalog := newFakeCatalog()
	catalog.err = errors.New("duckdb: closed")
	router := newTestRouter(&fakeEngine{}, catalog, HandlerConfig{})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?ids=p1", "")
	expectError(t, rec, http.StatusInternalServerError, ErrCodeInternal)
}

func TestProducts_NoMatchesIsEmptyArray(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeEngine{}, newFakeCatalog(), HandlerConfig{})
	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?ids=ghost", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"products":[]`) {
		t.Errorf("body = %s, want an empty products array", rec.Body.String())
	}
}
