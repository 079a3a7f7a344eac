// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/freyrlabs/freyr/freyr"
)

func TestReadIntFromUInt64Flag_WithinRange(t *testing.T) {
	got, err := readIntFromUInt64Flag(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("want 42, got %d", got)
	}
}

func TestReadIntFromUInt64Flag_MaxInt(t *testing.T) {
	val := uint64(math.MaxInt)
	got, err := readIntFromUInt64Flag(val)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != int(val) {
		t.Fatalf("want %d, got %d", val, got)
	}
}

func TestReadIntFromUInt64Flag_TooLarge(t *testing.T) {
	val := uint64(math.MaxInt) + 1
	if _, err := readIntFromUInt64Flag(val); err == nil {
		t.Fatalf("expected error for value > MaxInt")
	}
}

func TestHandleXGenesisID(t *testing.T) {
	genesisID := freyr.BytesToBytes32([]byte("genesis"))
	handler := handleXGenesisID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), genesisID)

	// absent header passes through
	req := httptest.NewRequest(http.MethodGet, "/ledger/global", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("x-genesis-id"); got != genesisID.String() {
		t.Fatalf("response header not set, got %q", got)
	}

	// matching header passes through
	req = httptest.NewRequest(http.MethodGet, "/ledger/global", nil)
	req.Header.Set("x-genesis-id", genesisID.String())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	// mismatching header is rejected
	req = httptest.NewRequest(http.MethodGet, "/ledger/global", strings.NewReader("body"))
	req.Header.Set("x-genesis-id", freyr.BytesToBytes32([]byte("other")).String())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
	if got := rec.Header().Get("x-genesis-id"); got != genesisID.String() {
		t.Fatalf("response header not set on rejection, got %q", got)
	}

	// query param works like the header
	req = httptest.NewRequest(http.MethodGet, "/ledger/global?x-genesis-id="+genesisID.String(), nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestHandleXFreyrVersion(t *testing.T) {
	handler := handleXFreyrVersion(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/node", nil))
	if got := rec.Header().Get("x-freyr-ver"); got == "" {
		t.Fatal("x-freyr-ver header not set")
	}
}

func TestRequestBodyLimit(t *testing.T) {
	handler := requestBodyLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stakers", strings.NewReader("small body")))
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 for small body, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stakers", strings.NewReader(strings.Repeat("x", 97*1024))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413 for oversized body, got %d", rec.Code)
	}
}
