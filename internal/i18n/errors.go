package i18n

import "fmt"

// TranslationMissError is a soft failure handed to the diagnostics sink.
// With Fallback set the fallback language's text was rendered, otherwise
// the key itself was.
type TranslationMissError struct {
	Language  string
	Namespace string
	Key       string
	Fallback  bool
}

func (e *TranslationMissError) Error() string {
	if e.Fallback {
		return fmt.Sprintf("i18n: no translation for %s:%s in %s, used fallback", e.Namespace, e.Key, e.Language)
	}
	return fmt.Sprintf("i18n: no translation for %s:%s in %s", e.Namespace, e.Key, e.Language)
}
