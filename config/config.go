// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Tek binary iki yüzey taşır: Board API (/api) ve web arayüzü (/).
// İkisi ayrı ayrı açılıp kapatılabilir — web arayüzü başka bir sunucudaki
// API'ye WEB_API_URL ile bağlanabilir.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultDatabasePath = "./data/pano.db"

// defaultTrustedProxies: aynı process'teki web katmanı API'ye loopback'ten bağlanır.
const defaultTrustedProxies = "127.0.0.0/8,::1/128"

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	API      APIConfig
	Web      WebConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int

	// TrustedProxies, X-Forwarded-For / X-Real-IP başlığına güvenilen kaynak adresler.
	// Diğer bağlantılarda client IP her zaman RemoteAddr'dır.
	TrustedProxies []netip.Prefix
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/pano.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// APIConfig, Board API yüzeyi ayarları.
type APIConfig struct {
	Enabled        bool
	AllowedOrigins []string // CORS — boşsa CORS middleware eklenmez
}

// WebConfig, server-rendered web arayüzü ayarları.
type WebConfig struct {
	Enabled      bool
	APIURL       string // Web katmanının konuştuğu API base URL'i (ör: http://127.0.0.1:9090)
	CookieSecure bool   // Production'da HTTPS arkasında true olmalı
	PrettyHTML   bool   // Geliştirme için render edilen HTML'i formatla
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	apiEnabled, err := getBool("API_ENABLED", true)
	if err != nil {
		return nil, err
	}
	webEnabled, err := getBool("WEB_ENABLED", true)
	if err != nil {
		return nil, err
	}
	cookieSecure, err := getBool("WEB_COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	prettyHTML, err := getBool("WEB_PRETTY_HTML", false)
	if err != nil {
		return nil, err
	}

	if !apiEnabled && !webEnabled {
		return nil, fmt.Errorf("at least one of API_ENABLED or WEB_ENABLED must be true")
	}

	// JWT secret sadece token üreten/doğrulayan API tarafında gerekli.
	// Sadece web arayüzü çalıştıran bir instance secret'ı bilmez.
	jwtSecret := getEnv("JWT_SECRET", "")
	if apiEnabled && jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	trustedProxies, err := ParseTrustedProxies(getEnv("TRUSTED_PROXIES", defaultTrustedProxies))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			TrustedProxies: trustedProxies,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", defaultDatabasePath),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		API: APIConfig{
			Enabled:        apiEnabled,
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Web: WebConfig{
			Enabled:      webEnabled,
			APIURL:       strings.TrimRight(getEnv("WEB_API_URL", fmt.Sprintf("http://127.0.0.1:%d", port)), "/"),
			CookieSecure: cookieSecure,
			PrettyHTML:   prettyHTML,
		},
	}

	if !apiEnabled && os.Getenv("WEB_API_URL") == "" {
		return nil, fmt.Errorf("WEB_API_URL is required when API_ENABLED=false")
	}

	return cfg, nil
}

// LoadDatabase, sadece veritabanı ayarını okur. CLI komutları JWT_SECRET
// gibi sunucu ayarlarına ihtiyaç duymadan çalışabilsin diye ayrıdır.
func LoadDatabase() (*DatabaseConfig, error) {
	_ = godotenv.Load()

	path := strings.TrimSpace(getEnv("DATABASE_PATH", defaultDatabasePath))
	if path == "" {
		return nil, fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return &DatabaseConfig{Path: path}, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// getBool, "true/false/1/0" formatındaki env değerini okur.
func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// ParseTrustedProxies, virgülle ayrılmış IP veya CIDR listesini okur.
// Tek IP, tam uzunlukta prefix olarak saklanır.
func ParseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range splitList(raw) {
		if strings.Contains(item, "/") {
			prefix, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, err
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// splitList, virgülle ayrılmış listeyi parçalar, boş elemanları atar.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
