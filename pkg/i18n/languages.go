package i18n

import "fmt"

// Language is an ISO 639-1 code from the kiosk's fixed supported set.
type Language string

// DefaultLanguage is the fallback when a requested code is unset or unknown.
const DefaultLanguage Language = "en"

// Direction is the layout direction a language renders in.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

var supportedLanguages = []Language{
	"en", "fr", "es", "de", "it", "pt", "nl", "pl",
	"ru", "uk", "tr", "el", "cs", "hu", "ro", "vi",
	"th", "ko", "ja", "zh", "hi", "pa", "ta", "tl",
	"ar", "he", "fa", "ur",
}

var rtlLanguages = map[Language]struct{}{
	"ar": {},
	"he": {},
	"fa": {},
	"ur": {},
}

// Supported returns the full supported language set in display order.
func Supported() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the value is a supported language code.
func (l Language) IsValid() bool {
	for _, candidate := range supportedLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// Direction returns the layout direction for the language.
func (l Language) Direction() Direction {
	if _, ok := rtlLanguages[l]; ok {
		return DirectionRTL
	}
	return DirectionLTR
}

// ParseLanguage converts raw input into a supported Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range supportedLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", value)
}

// Normalize maps raw input to a supported language, falling back to English.
func Normalize(value string) Language {
	if lang, err := ParseLanguage(value); err == nil {
		return lang
	}
	return DefaultLanguage
}
