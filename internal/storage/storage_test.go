package storage

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/config"
)

func TestInitDB_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}

	db, err := InitDB(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, model := range repository.Models() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(config.DatabaseConfig{Driver: "oracle"}, zerolog.Nop())
	assert.Error(t, err)
}
