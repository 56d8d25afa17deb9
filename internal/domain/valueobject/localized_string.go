package valueobject

import "sort"

// LocalizedString maps a locale code (e.g., "en-US") to a translated text.
type LocalizedString map[string]string

// NewLocalizedString copies the given translations into a new LocalizedString.
// A nil input yields an empty, non-nil value.
func NewLocalizedString(values map[string]string) LocalizedString {
	ls := make(LocalizedString, len(values))
	for locale, text := range values {
		ls[locale] = text
	}
	return ls
}

// Clone returns an independent copy. Cloning nil returns nil.
func (ls LocalizedString) Clone() LocalizedString {
	if ls == nil {
		return nil
	}
	return NewLocalizedString(ls)
}

// Locales returns the locale codes in sorted order.
func (ls LocalizedString) Locales() []string {
	locales := make([]string, 0, len(ls))
	for locale := range ls {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}
