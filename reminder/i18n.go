package reminder

import "golang.org/x/text/language"

// DefaultMessage is the reminder text used when none is configured.
const DefaultMessage = "Order before it's too late!"

var translations = map[string]map[string]string{
	"fr": {
		DefaultMessage: "Commandez avant qu'il ne soit trop tard !",
	},
	"es": {
		DefaultMessage: "¡Ordene antes de que sea demasiado tarde!",
	},
	"it": {
		DefaultMessage: "Ordina prima che sia troppo tardi!",
	},
	"pt": {
		DefaultMessage: "Encomende antes que seja tarde demais!",
	},
	"de": {
		DefaultMessage: "Bestellen, bevor es zu spät ist!",
	},
}

// Translate localizes text for the given locale. Only the primary language
// subtag is considered; unsupported locales and unknown strings pass through
// unchanged.
func Translate(locale, text string) string {
	if table, ok := translations[primarySubtag(locale)]; ok {
		if translated, ok := table[text]; ok {
			return translated
		}
	}
	return text
}

// NewTranslator binds Translate to a locale.
func NewTranslator(locale string) Translator {
	return func(text string) string {
		return Translate(locale, text)
	}
}

func primarySubtag(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
