package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	DB     DBConfig
	Redis  RedisConfig
	Mongo  MongoConfig
	Minio  MinioConfig
	JWT    JWTConfig
	Clinic ClinicConfig
	Cron   CronConfig
}

type AppConfig struct {
	Port            string
	Env             string
	LogLevel        string
	RequestTimeout  time.Duration
	PublicRateLimit int
	CORSOrigins     []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI      string
	Database string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// ClinicConfig holds the scheduling rules of the clinic.
type ClinicConfig struct {
	Timezone            string
	SlotMinutes         int
	CancelledFreesSlot  bool
	OnlineBookingReason string
	DefaultAvatar       string
	RevenueWindowDays   int
}

type CronConfig struct {
	ResyncSpec string
}

// Location resolves the clinic time zone, falling back to UTC.
func (c ClinicConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlotDuration returns the slot granularity.
func (c ClinicConfig) SlotDuration() time.Duration {
	return time.Duration(c.SlotMinutes) * time.Minute
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("APP_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("APP_PUBLIC_RATE_LIMIT", 5)
	viper.SetDefault("APP_CORS_ORIGINS", "*")

	viper.SetDefault("DB_TIMEZONE", "Asia/Riyadh")

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "shefaa")

	viper.SetDefault("MINIO_BUCKET", "avatars")

	viper.SetDefault("CLINIC_TIMEZONE", "Asia/Riyadh")
	viper.SetDefault("CLINIC_SLOT_MINUTES", 30)
	viper.SetDefault("CLINIC_CANCELLED_FREES_SLOT", false)
	viper.SetDefault("CLINIC_ONLINE_BOOKING_REASON", "Online booking")
	viper.SetDefault("CLINIC_DEFAULT_AVATAR", "https://placehold.co/100x100.png")
	viper.SetDefault("CLINIC_REVENUE_WINDOW_DAYS", 30)

	viper.SetDefault("CRON_RESYNC_SPEC", "5 0 * * *")
}

func LoadConfig() (*Config, error) {
	setDefaults()
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Environment variables alone are enough in containers.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	requestTimeout, err := time.ParseDuration(viper.GetString("APP_REQUEST_TIMEOUT"))
	if err != nil {
		requestTimeout = 15 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port:            viper.GetString("APP_PORT"),
			Env:             viper.GetString("APP_ENV"),
			LogLevel:        viper.GetString("APP_LOG_LEVEL"),
			RequestTimeout:  requestTimeout,
			PublicRateLimit: viper.GetInt("APP_PUBLIC_RATE_LIMIT"),
			CORSOrigins:     strings.Split(viper.GetString("APP_CORS_ORIGINS"), ","),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DATABASE"),
		},
		Minio: MinioConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			PublicURL: viper.GetString("MINIO_PUBLIC_URL"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Clinic: ClinicConfig{
			Timezone:            viper.GetString("CLINIC_TIMEZONE"),
			SlotMinutes:         viper.GetInt("CLINIC_SLOT_MINUTES"),
			CancelledFreesSlot:  viper.GetBool("CLINIC_CANCELLED_FREES_SLOT"),
			OnlineBookingReason: viper.GetString("CLINIC_ONLINE_BOOKING_REASON"),
			DefaultAvatar:       viper.GetString("CLINIC_DEFAULT_AVATAR"),
			RevenueWindowDays:   viper.GetInt("CLINIC_REVENUE_WINDOW_DAYS"),
		},
		Cron: CronConfig{
			ResyncSpec: viper.GetString("CRON_RESYNC_SPEC"),
		},
	}

	if config.Clinic.SlotMinutes <= 0 {
		config.Clinic.SlotMinutes = 30
	}

	return config, nil
}
