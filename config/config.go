package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisPresenceDB      int    `mapstructure:"REDIS_PRESENCE_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Appointment slots.
	SlotsOpenTime   string `mapstructure:"SLOTS_OPEN_TIME"`
	SlotsCloseTime  string `mapstructure:"SLOTS_CLOSE_TIME"`
	SlotsMinutes    int    `mapstructure:"SLOTS_DURATION_MINUTES"`
	SlotsBreaks     string `mapstructure:"SLOTS_BREAKS"`
	TestSlotsOpen   string `mapstructure:"TEST_SLOTS_OPEN_TIME"`
	TestSlotsClose  string `mapstructure:"TEST_SLOTS_CLOSE_TIME"`
	TestSlotsMinute int    `mapstructure:"TEST_SLOTS_DURATION_MINUTES"`
	TestSlotsBreaks string `mapstructure:"TEST_SLOTS_BREAKS"`

	// Outbound collaborators.
	StripeKey               string `mapstructure:"STRIPE_KEY"`
	PaymentCurrency         string `mapstructure:"PAYMENT_CURRENCY"`
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`
	SMTPHost                string `mapstructure:"SMTP_HOST"`
	SMTPPort                int    `mapstructure:"SMTP_PORT"`
	SMTPUsername            string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword            string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom                string `mapstructure:"SMTP_FROM"`
	AMQPURL                 string `mapstructure:"AMQP_URL"`
	AMQPExchange            string `mapstructure:"AMQP_EXCHANGE"`

	ReminderLeadTime time.Duration `mapstructure:"REMINDER_LEAD_TIME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("DATABASE_NAME", "medconnect")
	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_PRESENCE_DB", 1)
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)

	v.SetDefault("SLOTS_OPEN_TIME", "9:00")
	v.SetDefault("SLOTS_CLOSE_TIME", "17:00")
	v.SetDefault("SLOTS_DURATION_MINUTES", 20)
	v.SetDefault("SLOTS_BREAKS", "11:00/10,13:00/60,15:30/10")
	v.SetDefault("TEST_SLOTS_OPEN_TIME", "7:00")
	v.SetDefault("TEST_SLOTS_CLOSE_TIME", "15:00")
	v.SetDefault("TEST_SLOTS_DURATION_MINUTES", 30)
	v.SetDefault("TEST_SLOTS_BREAKS", "12:00/60")

	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("FIREBASE_CREDENTIALS_PATH", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@medconnect.local")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "medconnect.bookings")
	v.SetDefault("REMINDER_LEAD_TIME", 24*time.Hour)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves the configured clinic timezone, falling back to UTC.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil || AppConfig.Timezone == "" {
		return time.UTC
	}
	return loc
}
