// Package i18n, web arayüzü metinleri için çoklu dil desteği sağlar.
//
// Dil önce "lang" cookie'sinden, sonra Accept-Language header'ından seçilir;
// ikisi de desteklenmiyorsa varsayılan dil (en) kullanılır.
//
//	loc := i18n.NewLocalizer("tr")
//	loc.T("nav.login") // → "Giriş yap"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"slices"
	"strings"
	"sync"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, varsayılan dil.
const DefaultLanguage = "en"

// LangCookie, kullanıcının seçtiği dili tutan cookie adı.
const LangCookie = "lang"

// translations: map[lang]map[key]value. Load sonrası sadece okunur.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error
)

// Load, her dil için <lang>.json dosyasını localesFS'ten yükler.
// Programın ömründe bir kez çalışır; sonraki çağrılar ilk sonucu döner.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string, len(SupportedLanguages))

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			log.Printf("[i18n] loaded %d keys for language: %s", len(flat), lang)
		}

		translations = loaded
	})

	return loadErr
}

// LoadEmbedded, binary'ye gömülü çevirileri yükler.
func LoadEmbedded() error {
	sub, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(sub)
}

// Localizer, tek bir dil için çeviri yapar.
type Localizer struct {
	lang string
}

// NewLocalizer, desteklenmeyen dilde varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !IsSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın dil kodu (html lang attribute'u için).
func (l *Localizer) Lang() string {
	return l.lang
}

// T, anahtarın çevirisi. Yoksa İngilizce'ye, o da yoksa anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, {{param}} yer tutucularını doldurur.
//
//	loc.TWithParams("board.postCount", map[string]string{"count": "12"})
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, Accept-Language header'ından ilk desteklenen dili seçer.
// Header formatı: "tr-TR,tr;q=0.9,en-US;q=0.8"
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	for part := range strings.SplitSeq(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(part, ";")
		lang, _, _ := strings.Cut(strings.TrimSpace(tag), "-")
		lang = strings.ToLower(lang)

		if IsSupported(lang) {
			return lang
		}
	}

	return DefaultLanguage
}

// ResolveLanguage, cookie tercihi geçerliyse onu, değilse header'ı kullanır.
func ResolveLanguage(cookieValue, acceptLanguage string) string {
	if IsSupported(cookieValue) {
		return cookieValue
	}
	return DetectLanguage(acceptLanguage)
}

// IsSupported, dil kodu destekleniyor mu?
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// flattenMap: {"auth": {"login": "Giriş"}} → {"auth.login": "Giriş"}
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
