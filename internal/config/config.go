package config

import (
	"github.com/spf13/viper"
)

// The bot is expected to run in a container with its settings provided as
// environment variables. Defaults target the local docker-compose setup,
// apart from BOT_TOKEN which has no useful default.

type Config struct {
	BotToken        string  `mapstructure:"BOT_TOKEN"`
	DBHost          string  `mapstructure:"DB_HOST"`
	DBPort          string  `mapstructure:"DB_PORT"`
	DBUser          string  `mapstructure:"DB_USER"`
	DBPassword      string  `mapstructure:"DB_PASSWORD"`
	DBName          string  `mapstructure:"DB_NAME"`
	OpsPort         string  `mapstructure:"OPS_PORT"`
	OfficeTimezone  string  `mapstructure:"OFFICE_TZ"`
	GeofenceRadiusM float64 `mapstructure:"GEOFENCE_RADIUS_M"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	IsLocalDev      bool    `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("BOT_TOKEN", "")
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("OPS_PORT", "8080")
	viper.SetDefault("OFFICE_TZ", "Asia/Almaty")
	// Deployments disagree on how strict the geofence should be (10m vs 100m),
	// so the radius is configuration rather than a constant.
	viper.SetDefault("GEOFENCE_RADIUS_M", 100.0)
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
