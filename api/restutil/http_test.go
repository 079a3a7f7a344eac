// Copyright (c) 2026 The Freyr developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyrlabs/freyr/farm/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"no error", nil, http.StatusOK, ""},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "boom"},
		{"bad request", BadRequest(errors.New("bad input")), http.StatusBadRequest, "bad input"},
		{"forbidden", Forbidden(errors.New("nope")), http.StatusForbidden, "nope"},
		{"custom status", HTTPError(errors.New("gone"), http.StatusGone), http.StatusGone, "gone"},
		{"status only", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, strings.TrimSpace(rec.Body.String()))
		})
	}
}

func TestConvertRevert(t *testing.T) {
	assert.NoError(t, ConvertRevert(nil))

	err := ConvertRevert(reverts.ErrUnauthorized)
	he, ok := err.(*httpError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.status)

	err = ConvertRevert(reverts.ErrInvalidAmount)
	he, ok = err.(*httpError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.status)

	plain := errors.New("database broke")
	assert.Equal(t, plain, ConvertRevert(plain))
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"name":"freyr"}`), &v))
	assert.Equal(t, "freyr", v.Name)

	assert.Error(t, ParseJSON(strings.NewReader(`{"name":"freyr","extra":1}`), &v))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, M{"ok": true}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
