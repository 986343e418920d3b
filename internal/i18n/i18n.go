// Package i18n resolves user-facing message keys against embedded
// locale catalogs. Vietnamese is the default catalog; English is the
// fallback for keys a catalog does not carry.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const (
	LangVI = "vi"
	LangEN = "en"
)

type Translator struct {
	defaultLang string
	catalogs    map[string]map[string]string
}

// New loads every embedded catalog. An unknown default language falls
// back to Vietnamese.
func New(defaultLang string) (*Translator, error) {
	catalogs := map[string]map[string]string{}

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".yaml")
		raw, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		var nested map[string]any
		if err := yaml.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		catalog := map[string]string{}
		flatten("", nested, catalog)
		catalogs[lang] = catalog
	}

	if _, ok := catalogs[defaultLang]; !ok {
		defaultLang = LangVI
	}
	return &Translator{defaultLang: defaultLang, catalogs: catalogs}, nil
}

// T resolves key for lang, falling back to English and finally to the
// key itself so a missing entry never hides the message entirely.
func (t *Translator) T(lang, key string) string {
	if catalog, ok := t.catalogs[lang]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if catalog, ok := t.catalogs[LangEN]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	return key
}

// Tf resolves key and applies fmt-style arguments.
func (t *Translator) Tf(lang, key string, args ...any) string {
	msg := t.T(lang, key)
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Default resolves key in the configured default language.
func (t *Translator) Default(key string) string {
	return t.T(t.defaultLang, key)
}

// Defaultf resolves key in the default language and applies fmt-style
// arguments.
func (t *Translator) Defaultf(key string, args ...any) string {
	return t.Tf(t.defaultLang, key, args...)
}

func flatten(prefix string, nested map[string]any, out map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch value := v.(type) {
		case string:
			out[key] = value
		case map[string]any:
			flatten(key, value, out)
		}
	}
}
