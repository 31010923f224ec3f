package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends runs fn against every KV implementation.
func backends(t *testing.T, fn func(t *testing.T, kv KV)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) {
		db, err := OpenMemory()
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })
		fn(t, db)
	})
}

func TestGetSet(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()

		_, ok, err := kv.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, kv.Set(ctx, "mirror", "https://rezka.ag"))
		require.NoError(t, kv.Set(ctx, "mirror", "https://hdrezka.me"))

		v, ok, err := kv.Get(ctx, "mirror")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://hdrezka.me", v)
	})
}

func TestStrings(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()

		got, err := kv.GetStrings(ctx, KeyFavorites)
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, kv.SetStrings(ctx, KeyFavorites, []string{"b", "a", "b", "c"}))
		got, err = kv.GetStrings(ctx, KeyFavorites)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "a", "c"}, got)

		require.NoError(t, kv.SetStrings(ctx, KeyFavorites, nil))
		got, err = kv.GetStrings(ctx, KeyFavorites)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStringsCorruptValue(t *testing.T) {
	backends(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		require.NoError(t, kv.Set(ctx, KeyHistory, "{not json"))
		_, err := kv.GetStrings(ctx, KeyHistory)
		assert.Error(t, err)
	})
}

func TestOpenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.db")
	ctx := context.Background()

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, SetTheme(ctx, db, ThemeDark))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	theme, err := GetTheme(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestMirrorOverride(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	v, err := MirrorOverride(ctx, kv)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, SetMirrorOverride(ctx, kv, " https://hdrezka.me \n"))
	v, err = MirrorOverride(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "https://hdrezka.me", v)

	require.NoError(t, SetMirrorOverride(ctx, kv, ""))
	v, err = MirrorOverride(ctx, kv)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestLastMirrorIsSeparateFromOverride(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	require.NoError(t, SetLastMirror(ctx, kv, "https://rezka.fi\n"))
	v, err := LastMirror(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, "https://rezka.fi", v)

	override, err := MirrorOverride(ctx, kv)
	require.NoError(t, err)
	assert.Empty(t, override)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	theme, err := GetTheme(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, ThemeAuto, theme)

	require.NoError(t, kv.Set(ctx, KeyTheme, "SEPIA"))
	theme, err = GetTheme(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, ThemeAuto, theme)

	require.NoError(t, SetTheme(ctx, kv, ThemeLight))
	theme, err = GetTheme(ctx, kv)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"DARK", ThemeDark, false},
		{"auto", ThemeAuto, false},
		{"", ThemeAuto, false},
		{"sepia", ThemeAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
