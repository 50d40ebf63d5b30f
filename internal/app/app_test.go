package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbs-ytbot/internal/config"
)

func TestNew_WiresComponents(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: sqlite3\n  dsn: \":memory:\"\nlog_level: error\n"))
	require.NoError(t, err)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	assert.NotNil(t, a.Indexer)
	assert.NotNil(t, a.Drafts)
	assert.NotNil(t, a.Worker)
	assert.NotNil(t, a.Scheduler)

	router := a.Router()
	for _, path := range []string{"/stats", "/jobs", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestNew_RejectsUnknownDriver(t *testing.T) {
	cfg, err := config.Parse([]byte("database:\n  driver: sqlite3\n  dsn: \":memory:\"\n"))
	require.NoError(t, err)
	cfg.Database.Driver = "oracle"

	_, err = New(cfg)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	SetupLogging("not-a-level", "json")
	SetupLogging("debug", "text")
}
