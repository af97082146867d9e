// Package i18n renders localized user-facing message templates.
package i18n

import (
	"fmt"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NaN is the placeholder shown for absent numeric fields.
const NaN = "NaN"

// Translator resolves message keys to localized text. Safe for concurrent
// use after construction.
type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

// New builds a Translator with the built-in catalog. defaultLang is the
// fallback for requesters without a usable language tag.
func New(defaultLang string) *Translator {
	bundle := goi18n.NewBundle(language.English)
	bundle.AddMessages(language.English, englishMessages...)

	if strings.TrimSpace(defaultLang) == "" {
		defaultLang = "en"
	}

	return &Translator{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// Render resolves a message key for a language tag, substituting template
// data. Unknown keys render as the key itself so a missing catalog entry is
// visible but never fatal.
func (t *Translator) Render(lang, key string, data map[string]interface{}) string {
	localizer := goi18n.NewLocalizer(t.bundle, lang, t.defaultLang)

	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}

	return msg
}

// SortIcon returns the icon prefix of a sort-order label (its first token).
func (t *Translator) SortIcon(lang, sortKey string) string {
	label := t.Render(lang, "sort_order_"+sortKey, nil)
	if fields := strings.Fields(label); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// FormatInt renders an integer with the locale's digit grouping.
func (t *Translator) FormatInt(lang string, n int64) string {
	return t.printer(lang).Sprintf("%d", n)
}

// FormatFloat renders a float with the locale's digit grouping and no
// trailing decimals.
func (t *Translator) FormatFloat(lang string, f float64) string {
	return t.printer(lang).Sprintf("%.0f", f)
}

// FormatFraction renders a [0,1] fraction as a percentage.
func (t *Translator) FormatFraction(fraction float64) string {
	return fmt.Sprintf("%.2f%%", fraction*100)
}

func (t *Translator) printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag, err = language.Parse(t.defaultLang)
		if err != nil {
			tag = language.English
		}
	}
	return message.NewPrinter(tag)
}
