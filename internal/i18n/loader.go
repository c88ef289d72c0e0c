package i18n

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed locales
var embedded embed.FS

// ErrResourceNotFound is returned when no source carries the requested
// (language, namespace) table.
var ErrResourceNotFound = errors.New("i18n: resource not found")

// Loader fetches the key → string table of one namespace.
type Loader interface {
	Load(ctx context.Context, lang, namespace string) (map[string]string, error)
	Languages() []string
}

// FSLoader reads <lang>/<namespace>.toml from one or more file systems.
// Later file systems override keys of earlier ones.
type FSLoader struct {
	layers []fs.FS
}

func NewFSLoader(layers ...fs.FS) *FSLoader {
	return &FSLoader{layers: layers}
}

// DefaultLoader serves the bundled tables, overlaid by dir when it is set.
func DefaultLoader(dir string) *FSLoader {
	bundled, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(err)
	}
	if dir == "" {
		return NewFSLoader(bundled)
	}
	return NewFSLoader(bundled, os.DirFS(dir))
}

func (l *FSLoader) Load(ctx context.Context, lang, namespace string) (map[string]string, error) {
	name := path.Join(lang, namespace+".toml")
	merged := make(map[string]string)
	found := false

	for _, layer := range l.layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(layer, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}

		var tree map[string]interface{}
		if _, err := toml.Decode(string(data), &tree); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		flatten("", tree, merged)
		found = true
	}

	if !found {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}
	return merged, nil
}

// Languages lists every language directory across layers.
func (l *FSLoader) Languages() []string {
	seen := make(map[string]bool)
	for _, layer := range l.layers {
		entries, err := fs.ReadDir(layer, ".")
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}
