package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"medminder/internal/models"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.Spanish,
})

// T returns the translation of key in lang, falling back to English and then
// to the key itself.
func T(lang models.Language, key string) string {
	if table, ok := tables[lang]; ok {
		if s, ok := table[key]; ok && s != "" {
			return s
		}
	}
	if s, ok := english[key]; ok && s != "" {
		return s
	}
	return key
}

// TOr is T with an explicit fallback for keys built from data.
func TOr(lang models.Language, key, fallback string) string {
	if s := T(lang, key); s != key {
		return s
	}
	return fallback
}

// Format translates key and substitutes {name} style placeholders.
func Format(lang models.Language, key string, args map[string]string) string {
	s := T(lang, key)
	for k, v := range args {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

// Match picks the supported language closest to an Accept-Language header.
func Match(acceptLanguage string) models.Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return models.LanguageEnglish
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return models.LanguageEnglish
	}
	if index == 1 {
		return models.LanguageSpanish
	}
	return models.LanguageEnglish
}

// Has reports whether key exists in the English table.
func Has(key string) bool {
	_, ok := english[key]
	return ok
}

var tables = map[models.Language]map[string]string{
	models.LanguageEnglish: english,
	models.LanguageSpanish: spanish,
}
