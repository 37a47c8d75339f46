package reminder

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		text   string
		want   string
	}{
		{name: "bare language", locale: "fr", text: DefaultMessage, want: "Commandez avant qu'il ne soit trop tard !"},
		{name: "regional tag uses primary subtag", locale: "pt-BR", text: DefaultMessage, want: "Encomende antes que seja tarde demais!"},
		{name: "german", locale: "de-DE", text: DefaultMessage, want: "Bestellen, bevor es zu spät ist!"},
		{name: "unsupported locale passes through", locale: "ja", text: DefaultMessage, want: DefaultMessage},
		{name: "unknown string passes through", locale: "fr", text: "Free shipping!", want: "Free shipping!"},
		{name: "empty locale passes through", locale: "", text: DefaultMessage, want: DefaultMessage},
		{name: "garbage locale passes through", locale: "not a locale", text: DefaultMessage, want: DefaultMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.locale, tt.text); got != tt.want {
				t.Fatalf("Translate(%q, %q) = %q, want %q", tt.locale, tt.text, got, tt.want)
			}
		})
	}
}

func TestNewTranslatorBindsLocale(t *testing.T) {
	translate := NewTranslator("es")
	if got := translate(DefaultMessage); got != "¡Ordene antes de que sea demasiado tarde!" {
		t.Fatalf("translate = %q", got)
	}
}
