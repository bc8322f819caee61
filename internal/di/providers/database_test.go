package providers

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placarapp/placar-server/internal/config"
)

func TestOpenStore_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "placar.db")

	st, err := OpenStore(context.Background(), config.StoreConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: path,
	}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	assert.NoError(t, st.Ping(context.Background()))
	assert.FileExists(t, path)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StoreConfig{Driver: "mysql"}, slog.New(slog.DiscardHandler))
	assert.ErrorContains(t, err, "mysql")
}
