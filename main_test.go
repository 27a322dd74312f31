package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"Timber/internal/app"
	"Timber/internal/cache"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/sizing"
	"Timber/internal/catalog"
	"Timber/internal/config"
	"Timber/internal/material"
)

func server(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		DeflectionLimitCommercial:  360,
		DeflectionLimitResidential: 300,
		PricePerM3:                 1500,
		CacheTTL:                   time.Minute,
		RateLimitRPS:               100,
		RateLimitBurst:             100,
	}
	tables := sizing.Tables{Catalog: catalog.Default(), Materials: material.Default()}
	env := app.Env(tables, "test", cfg, cache.NewMemoryCache(time.Minute, time.Minute))
	r := mux.NewRouter()
	HandleList(r, cfg, env, nil)
	return CORS(r)
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	server(t).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tools/joist/calc", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}

func TestJoistRoute(t *testing.T) {
	body, _ := json.Marshal(joist.Input{
		SpanM: 9, SpacingMM: 800, LoadKPa: 3, Grade: "LVL", WidthMM: 250, DeflectionLimit: 300,
	})
	rec := httptest.NewRecorder()
	server(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tools/joist/calc", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res sizing.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Depth != 335 {
		t.Errorf("expected 335, got %d", res.Depth)
	}
}

func TestUserRoutesDisabledWithoutDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	server(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/designs", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
