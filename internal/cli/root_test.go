package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dino-park/internal/domain/reconcile"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "seed", "reconcile"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServeFlags(t *testing.T) {
	cmd := NewRootCommand()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	for _, name := range []string{"gateway", "handlers", "reconciler"} {
		f := serve.Flags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "true", f.DefValue)
	}
	require.NotNil(t, cmd.PersistentFlags().Lookup("store"))
}

func TestReconcile_MemoryStore(t *testing.T) {
	out, err := execute(t, "reconcile", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "cells=416")
	assert.Contains(t, out, "failures=0")
}

func TestRoot_InvalidStoreFlag(t *testing.T) {
	_, err := execute(t, "reconcile", "--store", "mongo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}

func TestSeed_RequiresURL(t *testing.T) {
	_, err := execute(t, "seed", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestSeedThenReconcile_SQLiteStore(t *testing.T) {
	t.Setenv("DB_FILE", filepath.Join(t.TempDir(), "park.db"))

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"events":[
			{"kind":"dino_added","id":2,"name":"Blue","species":"Velociraptor","herbivore":false,"digestion_period_in_hours":2,"time":"2024-01-01T00:00:01Z"},
			{"kind":"dino_added","id":1,"name":"Littlefoot","species":"Apatosaurus","herbivore":true,"digestion_period_in_hours":8,"time":"2024-01-01T00:00:00Z"},
			{"kind":"dino_teleported","id":3,"time":"2024-01-01T00:00:00Z"}
		]}`))
	}))
	defer feed.Close()

	out, err := execute(t, "seed", "--store", "sqlite", "--url", feed.URL, "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "published=2") && strings.Contains(out, "unroutable=1"), out)

	out, err = execute(t, "reconcile", "--store", "sqlite", "--json", "--log-level", "error")
	require.NoError(t, err)

	var rep reconcile.TickReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.DinosScanned)
	assert.Equal(t, 416, rep.CellsScanned)
	assert.Equal(t, 0, rep.Failures)
}
