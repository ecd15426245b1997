package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Kafka    KafkaConfig
	Search   SearchConfig
	Realtime RealtimeConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Port string
	Env  string
}

// IsProduction reports whether APP_ENV is production
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

type DBConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	TimeZone       string
	MaxIdleConns   int
	MaxOpenConns   int
	MigrateOnStart bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig describes how identity provider tokens are verified
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type PaymentConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
}

// KafkaConfig - an empty broker list disables event publishing
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SearchConfig - an empty URL disables fuzzy search
type SearchConfig struct {
	URL      string
	Username string
	Password string
	Index    string
}

type RealtimeConfig struct {
	Channel string
}

type CacheConfig struct {
	IdentityTTL time.Duration
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	identityTTL, err := time.ParseDuration(v.GetString("IDENTITY_CACHE_TTL"))
	if err != nil {
		identityTTL = 10 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port: v.GetString("APP_PORT"),
			Env:  v.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			Name:           v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			TimeZone:       v.GetString("DB_TIMEZONE"),
			MaxIdleConns:   v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns:   v.GetInt("DB_MAX_OPEN_CONNS"),
			MigrateOnStart: v.GetBool("DB_MIGRATE_ON_START"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("AUTH_TOKEN_SECRET"),
			Issuer:   v.GetString("AUTH_ISSUER"),
			Audience: v.GetString("AUTH_AUDIENCE"),
		},
		Payment: PaymentConfig{
			KeyID:     v.GetString("RAZORPAY_KEY_ID"),
			KeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
			Currency:  strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_ORDER_TOPIC"),
		},
		Search: SearchConfig{
			URL:      v.GetString("ES_URL"),
			Username: v.GetString("ES_USER"),
			Password: v.GetString("ES_PASSWORD"),
			Index:    v.GetString("ES_MEDICINE_INDEX"),
		},
		Realtime: RealtimeConfig{
			Channel: v.GetString("REALTIME_MEDICINE_CHANNEL"),
		},
		Cache: CacheConfig{
			IdentityTTL: identityTTL,
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MIGRATE_ON_START", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("KAFKA_ORDER_TOPIC", "medimarket.orders")
	v.SetDefault("ES_MEDICINE_INDEX", "medicines")
	v.SetDefault("REALTIME_MEDICINE_CHANNEL", "medicines:changes")
	v.SetDefault("IDENTITY_CACHE_TTL", "10m")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
