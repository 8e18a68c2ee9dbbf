// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParseCommaSeparated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ,, c ", []string{"a", "b", "c"}},
		{"b,a,b,a", []string{"b", "a"}},
		{",,,", []string{}},
	}
	for _, tt := range tests {
		if got := parseCommaSeparated(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestGetIntParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"count=3", 3, false},
		{"count=-2", -2, false},
		{"count=abc", 0, true},
		{"count=1.5", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		got, err := getIntParam(r, "count", 7)
		if (err != nil) != tt.wantErr || (!tt.wantErr && got != tt.want) {
			t.Errorf("getIntParam(%q) = %d, %v", tt.query, got, err)
		}
	}
}

func TestResolveModelPath(t *testing.T) {
	t.Parallel()

	h := NewHandler(&fakeEngine{}, newFakeCatalog(), HandlerConfig{ModelPath: "data/models/model.bin"})

	tests := []struct {
		requested string
		want      string
		wantErr   error
	}{
		{"", "data/models/model.bin", nil},
		{"v2.bin", "data/models/v2.bin", nil},
		{"./nested/../v3.bin", "data/models/v3.bin", nil},
		{"../model.bin", "", ErrPathOutsideModelDir},
		{"/etc/passwd", "", ErrPathOutsideModelDir},
	}
	for _, tt := range tests {
		got, err := h.resolveModelPath(tt.requested)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("resolveModelPath(%q) = %q, %v; want %q, %v", tt.requested, got, err, tt.want, tt.wantErr)
		}
	}

	unset := NewHandler(&fakeEngine{}, newFakeCatalog(), HandlerConfig{})
	if _, err := unset.resolveModelPath("x.bin"); !errors.Is(err, ErrNoModelPath) {
		t.Errorf("resolveModelPath without config = %v, want ErrNoModelPath", err)
	}
}
