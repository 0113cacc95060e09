package models

import "github.com/artsapp/builder/pkg/constants"

// Translations holds a text per language code
type Translations map[string]string

// Get returns the text for lang, or "" if it is missing
func (t Translations) Get(lang string) string {
	if t == nil {
		return ""
	}
	return t[lang]
}

// Best returns the text for lang, falling back to the other supported languages in order
func (t Translations) Best(lang string) string {
	if v := t.Get(lang); v != "" {
		return v
	}
	for _, l := range constants.SupportedLanguages {
		if v := t.Get(l); v != "" {
			return v
		}
	}
	return ""
}

// Clone returns a copy of t
func (t Translations) Clone() Translations {
	if t == nil {
		return nil
	}
	out := make(Translations, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
