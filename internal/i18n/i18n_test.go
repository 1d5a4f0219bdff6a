//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetTranslator(t *testing.T) {
	translator1 := GetTranslator()
	translator2 := GetTranslator()
	assert.NotNil(t, translator1)
	assert.Same(t, translator1, translator2)
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{name: "portuguese message", key: ErrKeyInvalidRequest, locale: "pt", expected: "Requisição inválida"},
		{name: "english message", key: ErrKeyInvalidRequest, locale: "en", expected: "Invalid request"},
		{name: "dutch message", key: ErrKeyInvalidRequest, locale: "nl", expected: "Ongeldig verzoek"},
		{name: "empty locale uses default", key: ErrKeyInvalidCode, locale: "", expected: "Código FIPE inválido"},
		{name: "unsupported locale falls back", key: ErrKeyInvalidCode, locale: "fr", expected: "Código FIPE inválido"},
		{name: "unknown key returns key", key: "unknown.key", locale: "en", expected: "unknown.key"},
		{name: "unknown key in unsupported locale", key: "unknown.key", locale: "fr", expected: "unknown.key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestTranslator_Translatef(t *testing.T) {
	translator := NewTranslator()
	assert.Equal(t, "3 marcas encontradas", translator.Translatef(SuccessKeyBrandsFound, "pt", 3))
	assert.Equal(t, "Compared 2 vehicles", translator.Translatef(SuccessKeyComparison, "en", 2))
}

func TestMessages_EveryLocaleHasEveryKey(t *testing.T) {
	for key := range defaultMessages[DefaultLocale] {
		for locale, messages := range defaultMessages {
			msg, ok := messages[key]
			assert.True(t, ok, "%s missing in %s", key, locale)
			assert.Equal(t, strings.Count(defaultMessages[DefaultLocale][key], "%d"), strings.Count(msg, "%d"),
				"%s in %s has a different number of arguments", key, locale)
		}
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		acceptLanguage string
		expected       string
	}{
		{name: "no header returns default", acceptLanguage: "", expected: DefaultLocale},
		{name: "english header", acceptLanguage: "en", expected: "en"},
		{name: "portuguese header", acceptLanguage: "pt", expected: "pt"},
		{name: "brazilian portuguese", acceptLanguage: "pt-BR", expected: "pt"},
		{name: "dutch header", acceptLanguage: "nl", expected: "nl"},
		{name: "full locale with region", acceptLanguage: "en-US", expected: "en"},
		{name: "multiple languages", acceptLanguage: "en-US,en;q=0.9,pt;q=0.8", expected: "en"},
		{name: "quality weights decide", acceptLanguage: "nl;q=0.5,en;q=0.9", expected: "en"},
		{name: "unsupported language defaults", acceptLanguage: "fr", expected: DefaultLocale},
		{name: "case insensitive", acceptLanguage: "EN", expected: "en"},
		{name: "malformed header", acceptLanguage: ";;;", expected: DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.acceptLanguage != "" {
				req.Header.Set(AcceptLanguageHeader, tt.acceptLanguage)
			}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			assert.Equal(t, tt.expected, GetLocale(c))
		})
	}
}
