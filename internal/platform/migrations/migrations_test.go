package migrations

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_labels.sql",
		"00003_create_recipes.sql",
	}, files)
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	migrations, err := goose.CollectMigrations(Dir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(3), migrations[2].Version)
}

func TestMigrationsDeclareUpAndDown(t *testing.T) {
	files, err := Files()
	require.NoError(t, err)

	for _, name := range files {
		content, err := embedded.ReadFile(Dir + "/" + name)
		require.NoError(t, err)
		assert.Contains(t, string(content), "-- +goose Up", name)
		assert.Contains(t, string(content), "-- +goose Down", name)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = Run(context.Background(), db, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("applied %d migrations", 3)
	l.Fatalf("failed at version %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"applied 3 migrations"`)
	assert.Contains(t, lines[0], `"level":"INFO"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
}
