// Package i18n provides the user-facing strings attached to imported bookmarks.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// ImportedFrom is the comment suffix; the argument is the client name.
const ImportedFrom = "Imported from %s"

var supported = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
}

var translations = map[language.Tag]map[string]string{
	language.English: {ImportedFrom: "Imported from %s"},
	language.French:  {ImportedFrom: "Importé depuis %s"},
	language.German:  {ImportedFrom: "Importiert aus %s"},
	language.Spanish: {ImportedFrom: "Importado de %s"},
}

// Localizer formats message keys for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New picks the closest supported language for lang (a BCP 47 tag such
// as "fr" or "de-CH"); anything unknown falls back to English.
func New(lang string) *Localizer {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// SetString only fails on malformed catalog entries.
			_ = builder.SetString(tag, key, msg)
		}
	}

	tag := language.English
	if requested, err := language.Parse(lang); err == nil {
		_, idx, conf := language.NewMatcher(supported).Match(requested)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}
}

// Format renders key with args.
func (l *Localizer) Format(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Language is the tag actually used.
func (l *Localizer) Language() language.Tag {
	return l.tag
}
