package catalog

import (
	"golang.org/x/text/language"
)

// SupportedLocales are the storefront languages, first one is the default
var SupportedLocales = []language.Tag{
	language.English,
	language.Ukrainian,
}

var matcher = language.NewMatcher(SupportedLocales)

// NegotiateLocale picks a supported locale from an explicit preference (e.g. a ?lang=
// value) or an Accept-Language header. Unparseable input falls back to the default.
func NegotiateLocale(preferred, acceptLanguage string) language.Tag {
	var wanted []language.Tag

	if preferred != "" {
		if tag, err := language.Parse(preferred); err == nil {
			wanted = append(wanted, tag)
		}
	}

	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			wanted = append(wanted, tags...)
		}
	}

	_, idx, _ := matcher.Match(wanted...)
	return SupportedLocales[idx]
}
