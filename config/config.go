// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Tüm ayarlar tek bir Config struct'ında toplanır — her yerde ayrı ayrı
// os.Getenv() çağırmak yerine wire-up sırasında tek bir nesne taşınır.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Queue    QueueConfig
	Poll     PollConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/chatsync.db)
}

// RedisConfig, ephemeral event queue için Redis ayarları.
// Addr boşsa Redis kullanılmaz — in-memory queue devreye girer
// (tek instance deploy için yeterli, test'lerde de bu kullanılır).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// QueueConfig, ephemeral event queue davranış ayarları.
//
// TTL: Bir queue key'inin son append'ten sonra ne kadar yaşayacağı.
// Süresi dolan key tamamen düşer — Durable Store fallback devreye girer.
// MaxLen: Key başına tutulan en fazla entry sayısı; aşılırsa en eskiler atılır.
type QueueConfig struct {
	TTL    time.Duration // Varsayılan: 240s
	MaxLen int           // Varsayılan: 100
}

// PollConfig, senkronizasyon poll endpoint'inin ayarları.
//
// MaxTimeout: Blocking poll'ün sunucu tarafında clamp edilen üst sınırı.
// Client daha büyük bir değer isterse bu sınıra indirilir — worker havuzunu
// sınırsız meşgul etmemek için.
// Interval: Blocking poll'ün re-check aralığı.
// FallbackLimit: Queue boş çıktığında DB range sorgusunun satır limiti.
type PollConfig struct {
	MaxTimeout    time.Duration // Varsayılan: 30s
	Interval      time.Duration // Varsayılan: 1s
	FallbackLimit int           // Varsayılan: 20
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
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

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	queueTTL, err := strconv.Atoi(getEnv("QUEUE_TTL_SECONDS", "240"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_TTL_SECONDS: %w", err)
	}

	queueMaxLen, err := strconv.Atoi(getEnv("QUEUE_MAX_LEN", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUEUE_MAX_LEN: %w", err)
	}

	pollMaxTimeout, err := strconv.Atoi(getEnv("POLL_MAX_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_MAX_TIMEOUT_SECONDS: %w", err)
	}

	pollIntervalMs, err := strconv.Atoi(getEnv("POLL_INTERVAL_MS", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL_MS: %w", err)
	}

	fallbackLimit, err := strconv.Atoi(getEnv("POLL_FALLBACK_LIMIT", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_FALLBACK_LIMIT: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/chatsync.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Queue: QueueConfig{
			TTL:    time.Duration(queueTTL) * time.Second,
			MaxLen: queueMaxLen,
		},
		Poll: PollConfig{
			MaxTimeout:    time.Duration(pollMaxTimeout) * time.Second,
			Interval:      time.Duration(pollIntervalMs) * time.Millisecond,
			FallbackLimit: fallbackLimit,
		},
	}

	return cfg, nil
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
