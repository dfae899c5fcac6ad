package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"simple", "/api/transactions/tx_1", "/api/transactions/", "", "tx_1"},
		{"with suffix", "/api/ledgers/main/rebuild", "/api/ledgers/", "/rebuild", "main"},
		{"trailing segment ignored", "/api/transactions/tx_1/extra", "/api/transactions/", "", "tx_1"},
		{"wrong prefix", "/other/tx_1", "/api/transactions/", "", ""},
		{"missing suffix returns rest", "/api/ledgers/main", "/api/ledgers/", "/rebuild", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.want, PathParam(r, tt.prefix, tt.suffix))
		})
	}
}

func TestRequireMethod(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/x", nil)
	rec := httptest.NewRecorder()
	assert.False(t, RequireMethod(rec, r, http.MethodGet))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/x", nil)
	rec = httptest.NewRecorder()
	assert.True(t, RequireMethod(rec, r, http.MethodGet, http.MethodHead))
}

func TestSplitTickers(t *testing.T) {
	assert.Nil(t, splitTickers(""))
	assert.Equal(t, []string{"ABC", "XYZ"}, splitTickers("ABC, XYZ,"))
}
