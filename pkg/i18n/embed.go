package i18n

import "embed"

// EmbeddedLocales, locales/*.json çeviri dosyaları. Binary harici dosya istemez.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
