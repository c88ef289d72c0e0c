package i18n

import (
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// SystemLocale returns the host UI locale as a BCP 47 string, or "" when it
// cannot be determined.
func SystemLocale() string {
	loc, err := golocale.GetLocale()
	if err != nil {
		return ""
	}
	return normalizeLocale(loc)
}

func normalizeLocale(loc string) string {
	if i := strings.IndexAny(loc, ".@"); i >= 0 {
		loc = loc[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(loc), "_", "-")
}

// ResolveLanguage picks the supported language closest to requested. An
// empty request means the system locale. Without a usable match the
// fallback wins.
func ResolveLanguage(requested string, supported []string, fallback string) string {
	if requested == "" {
		requested = SystemLocale()
	}
	if requested == "" || len(supported) == 0 {
		return fallback
	}

	want, err := language.Parse(normalizeLocale(requested))
	if err != nil {
		return fallback
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return fallback
	}

	_, index, confidence := language.NewMatcher(tags).Match(want)
	if confidence == language.No {
		return fallback
	}
	return tags[index].String()
}
