package i18n

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSLoaderFlattensNestedTables(t *testing.T) {
	l := NewFSLoader(fstest.MapFS{
		"en-US/menu.toml": {Data: []byte("[macOS]\nabout = \"About\"\n[edit.sub]\nx = \"X\"\n")},
	})

	table, err := l.Load(context.Background(), "en-US", "menu")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"macOS.about": "About", "edit.sub.x": "X"}, table)
}

func TestFSLoaderOverlayOverrides(t *testing.T) {
	base := fstest.MapFS{"en-US/common.toml": {Data: []byte("[actions]\nok = \"OK\"\ndelete = \"Delete\"\n")}}
	override := fstest.MapFS{"en-US/common.toml": {Data: []byte("[actions]\nok = \"Okay\"\n")}}

	table, err := NewFSLoader(base, override).Load(context.Background(), "en-US", "common")
	require.NoError(t, err)
	assert.Equal(t, "Okay", table["actions.ok"])
	assert.Equal(t, "Delete", table["actions.delete"])
}

func TestFSLoaderMissing(t *testing.T) {
	_, err := NewFSLoader(fstest.MapFS{}).Load(context.Background(), "fr-FR", "menu")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestFSLoaderBadToml(t *testing.T) {
	l := NewFSLoader(fstest.MapFS{"en-US/menu.toml": {Data: []byte("[edit\n")}})
	_, err := l.Load(context.Background(), "en-US", "menu")
	assert.Error(t, err)
}

func TestResolveLanguage(t *testing.T) {
	supported := []string{"en-US", "zh-CN"}

	assert.Equal(t, "zh-CN", ResolveLanguage("zh_CN.UTF-8", supported, "en-US"))
	assert.Equal(t, "en-US", ResolveLanguage("en-GB", supported, "zh-CN"))
	assert.Equal(t, "en-US", ResolveLanguage("not a locale", supported, "en-US"))
	assert.Equal(t, "zh-CN", ResolveLanguage("fr-FR", nil, "zh-CN"))
}
