// Package i18n holds the Norwegian and English dictionaries of the builder.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/artsapp/builder/pkg/constants"
	"github.com/artsapp/builder/pkg/errors"
)

//go:embed locales/*.yaml
var locales embed.FS

// Dictionary maps dotted keys ("error.conflict.group") to text
type Dictionary map[string]string

// Dictionaries holds one dictionary per supported language
type Dictionaries struct {
	byLanguage map[string]Dictionary
}

// Load reads the embedded dictionaries of every supported language.
func Load() (*Dictionaries, error) {
	d := &Dictionaries{byLanguage: make(map[string]Dictionary)}
	for _, lang := range constants.SupportedLanguages {
		data, err := locales.ReadFile("locales/" + lang + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s dictionary: %w", lang, err)
		}
		var tree map[string]interface{}
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parse %s dictionary: %w", lang, err)
		}
		dict := make(Dictionary)
		flatten("", tree, dict)
		d.byLanguage[lang] = dict
	}
	return d, nil
}

// MustLoad is Load for program start-up
func MustLoad() *Dictionaries {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

func flatten(prefix string, node map[string]interface{}, out Dictionary) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// For returns the dictionary of a language, falling back to the default language.
func (d *Dictionaries) For(language string) Dictionary {
	if dict, ok := d.byLanguage[language]; ok {
		return dict
	}
	return d.byLanguage[constants.DefaultLanguage]
}

// Translate looks key up in language, then in the default language; unknown
// keys are returned as is.
func (d *Dictionaries) Translate(language, key string) string {
	if s, ok := d.For(language)[key]; ok {
		return s
	}
	if s, ok := d.byLanguage[constants.DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Message localizes an error by its message key, falling back to the error's
// description. Errors outside the taxonomy read as an internal error.
func (d *Dictionaries) Message(language string, err error) string {
	be, ok := errors.AsBuilderError(err)
	if !ok {
		return d.Translate(language, "error.internal")
	}
	if s := d.lookup(language, be.MessageKey()); s != "" {
		return s
	}
	if be.Description() != "" {
		return be.Description()
	}
	return d.Translate(language, "error.internal")
}

func (d *Dictionaries) lookup(language, key string) string {
	if key == "" {
		return ""
	}
	if s, ok := d.For(language)[key]; ok {
		return s
	}
	return ""
}

// Keys returns the sorted keys of a language's dictionary
func (d *Dictionaries) Keys(language string) []string {
	dict := d.For(language)
	out := make([]string, 0, len(dict))
	for k := range dict {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Section returns the entries below prefix, e.g. "premise"
func (d *Dictionaries) Section(language, prefix string) Dictionary {
	out := make(Dictionary)
	for k, v := range d.For(language) {
		if prefix == "" || k == prefix || strings.HasPrefix(k, prefix+".") {
			out[k] = v
		}
	}
	return out
}
