package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/accounts"
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/fee"
	"github.com/chris/remittance-ledger/pkg/handlers"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	guardmem "github.com/chris/remittance-ledger/pkg/idempotency/memory"
	"github.com/chris/remittance-ledger/pkg/limits"
	"github.com/chris/remittance-ledger/pkg/storage/memory"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New(10 * time.Second)
	svc := accounts.NewService(store, nil)
	eng := engine.New(store, guardmem.New(), fee.NewStandardEngine(time.UTC), limits.NewTracker(time.UTC),
		engine.Options{GuardTTL: time.Minute})
	router := chi.NewRouter()
	api.HandlerFromMux(handlers.NewApiHandler(svc, eng, svc), router, respond.Error)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestScenarios(t *testing.T) {
	srv := newServer(t)
	c := newClient(srv.URL, 10*time.Second)

	for _, name := range scenarioNames() {
		t.Run(name, func(t *testing.T) {
			r, err := runScenario(context.Background(), name, c, 20)

			require.NoError(t, err)
			assert.Len(t, r.Outcomes, 20)
			for _, chk := range r.Checks {
				assert.True(t, chk.ok(), "%s: expected %d, got %d", chk.Name, chk.Expected, chk.Actual)
			}

			var buf bytes.Buffer
			assert.True(t, printReport(&buf, r))
			assert.Contains(t, buf.String(), "PASS")
		})
	}

	t.Run("Unknown Scenario", func(t *testing.T) {
		_, err := runScenario(context.Background(), "nope", c, 1)
		assert.Error(t, err)
	})
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(sorted, 50))
	assert.Equal(t, time.Duration(10), percentile(sorted, 95))
	assert.Equal(t, time.Duration(10), percentile(sorted, 100))
	assert.Zero(t, percentile(nil, 50))
}
