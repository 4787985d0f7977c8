package library

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/automize/automize/internal/iac"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "library.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func form(t *testing.T, selected []string, values map[string]string) *iac.Form {
	t.Helper()
	f, err := iac.NewForm(selected, values)
	require.NoError(t, err)
	return f
}

func TestSaveGet(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	cfg := &Config{Owner: "42", Name: "web tier", Form: form(t, []string{"provider"}, map[string]string{"provider": "aws"})}
	require.NoError(t, s.Save(ctx, cfg))
	require.NotEmpty(t, cfg.ID)
	assert.False(t, cfg.CreatedAt.IsZero())

	got, err := s.Get(ctx, "42", cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "web tier", got.Name)
	assert.Equal(t, cfg.Form.Render(), got.Document())
	assert.Equal(t, []string{"provider"}, got.Form.Selected())
}

func TestSave_DefaultName(t *testing.T) {
	s := openTest(t)
	cfg := &Config{Owner: "42", Name: "  "}
	require.NoError(t, s.Save(context.Background(), cfg))
	assert.Equal(t, "Untitled configuration", cfg.Name)
	assert.Equal(t, iac.Header, cfg.Document())
}

func TestSave_RequiresOwner(t *testing.T) {
	s := openTest(t)
	assert.Error(t, s.Save(context.Background(), &Config{Name: "x"}))
}

func TestSave_Update(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	cfg := &Config{Owner: "42", Name: "a", Form: iac.EmptyForm()}
	require.NoError(t, s.Save(ctx, cfg))

	clock = clock.Add(time.Hour)
	cfg.Name = "b"
	cfg.Form.Select(iac.Tags, true)
	cfg.Form.Set(iac.Tags, "prod")
	require.NoError(t, s.Save(ctx, cfg))

	got, err := s.Get(ctx, "42", cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, clock, got.UpdatedAt)
	assert.True(t, got.CreatedAt.Before(got.UpdatedAt))
	assert.Contains(t, got.Document(), "prod")

	other := &Config{ID: cfg.ID, Owner: "7", Name: "hijack"}
	assert.ErrorIs(t, s.Save(ctx, other), ErrNotFound)
}

func TestList_ScopedAndOrdered(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	for _, name := range []string{"first", "second"} {
		require.NoError(t, s.Save(ctx, &Config{Owner: "42", Name: name}))
	}
	require.NoError(t, s.Save(ctx, &Config{Owner: "7", Name: "someone else"}))

	list, err := s.List(ctx, "42")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "first", list[1].Name)

	empty, err := s.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	cfg := &Config{Owner: "42", Name: "x"}
	require.NoError(t, s.Save(ctx, cfg))

	assert.ErrorIs(t, s.Delete(ctx, "7", cfg.ID), ErrNotFound, "other owners cannot delete")
	require.NoError(t, s.Delete(ctx, "42", cfg.ID))
	_, err := s.Get(ctx, "42", cfg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "42", cfg.ID), ErrNotFound)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck // test cleanup
	require.NoError(t, s.Save(context.Background(), &Config{Owner: "1", Name: "m"}))
}

func TestCorruptTimestamp(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	cfg := &Config{Owner: "42", Name: "web tier"}
	require.NoError(t, s.Save(ctx, cfg))
	_, err := s.db.ExecContext(ctx, `UPDATE configs SET updated_at = ? WHERE id = ?`, "yesterday", cfg.ID)
	require.NoError(t, err)

	_, err = s.Get(ctx, "42", cfg.ID)
	var perr *time.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), cfg.ID)

	_, err = s.List(ctx, "42")
	assert.ErrorAs(t, err, &perr)
}
