package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMux(t *testing.T) {
	srv := httptest.NewServer(newMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/valuation", "application/json",
		strings.NewReader(`{"financials": {"fcf": 100, "shares_outstanding": 100}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEnvOr(t *testing.T) {
	t.Setenv("DCF_ADDR", "")
	assert.Equal(t, ":8080", envOr("DCF_ADDR", ":8080"))
	t.Setenv("DCF_ADDR", ":9090")
	assert.Equal(t, ":9090", envOr("DCF_ADDR", ":8080"))
}
