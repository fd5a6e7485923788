package config

import (
	"github.com/UnknownOlympus/zones/internal/zone"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Supported agent sources.
const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// Config holds the configuration settings for a zone census run.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server, 0 disables it.
// - Source: Where agents are read from (json, postgres).
// - Input: Path of the JSON agent file.
// - OutputDir: Directory the charts are written to.
// - ChartWidth, ChartHeight: Chart size in centimetres.
// - Grid: Extent and cell size of the zone grid.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env         string
	Port        int
	Source      string
	Input       string
	OutputDir   string
	ChartWidth  float64
	ChartHeight float64
	Grid        zone.GridConfig
	Database    PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port, 5432 unless DB_PORT is set.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration from the environment (and a .env file, if present)
// and returns a Config struct. It panics if a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	defaults := zone.DefaultGridConfig()
	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("ZONES_ENV", "production")
	env.SetDefault("ZONES_HEALTH_PORT", 0)
	env.SetDefault("ZONES_SOURCE", SourceJSON)
	env.SetDefault("ZONES_INPUT", "agents-100k.json")
	env.SetDefault("ZONES_OUTPUT_DIR", "charts")
	env.SetDefault("ZONES_CHART_WIDTH_CM", 16)
	env.SetDefault("ZONES_CHART_HEIGHT_CM", 12)
	env.SetDefault("ZONES_MIN_LONGITUDE", defaults.MinLongitude)
	env.SetDefault("ZONES_MAX_LONGITUDE", defaults.MaxLongitude)
	env.SetDefault("ZONES_MIN_LATITUDE", defaults.MinLatitude)
	env.SetDefault("ZONES_MAX_LATITUDE", defaults.MaxLatitude)
	env.SetDefault("ZONES_WIDTH_DEGREES", defaults.Width)
	env.SetDefault("ZONES_HEIGHT_DEGREES", defaults.Height)
	env.SetDefault("ZONES_EARTH_RADIUS_KM", defaults.EarthRadiusKm)
	env.SetDefault("DB_PORT", "5432")

	healthPort, err := cast.ToIntE(env.Get("ZONES_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	source := env.GetString("ZONES_SOURCE")
	if source != SourceJSON && source != SourcePostgres {
		panic("unsupported agent source in configuration, must be json or postgres")
	}

	return &Config{
		Env:         env.GetString("ZONES_ENV"),
		Port:        healthPort,
		Source:      source,
		Input:       env.GetString("ZONES_INPUT"),
		OutputDir:   env.GetString("ZONES_OUTPUT_DIR"),
		ChartWidth:  mustFloat(env, "ZONES_CHART_WIDTH_CM"),
		ChartHeight: mustFloat(env, "ZONES_CHART_HEIGHT_CM"),
		Grid: zone.GridConfig{
			MinLongitude:  mustFloat(env, "ZONES_MIN_LONGITUDE"),
			MaxLongitude:  mustFloat(env, "ZONES_MAX_LONGITUDE"),
			MinLatitude:   mustFloat(env, "ZONES_MIN_LATITUDE"),
			MaxLatitude:   mustFloat(env, "ZONES_MAX_LATITUDE"),
			Width:         mustFloat(env, "ZONES_WIDTH_DEGREES"),
			Height:        mustFloat(env, "ZONES_HEIGHT_DEGREES"),
			EarthRadiusKm: mustFloat(env, "ZONES_EARTH_RADIUS_KM"),
		},
		Database: PostgresConfig{
			Host:     env.GetString("DB_HOST"),
			Port:     env.GetString("DB_PORT"),
			User:     env.GetString("DB_USERNAME"),
			Password: env.GetString("DB_PASSWORD"),
			Name:     env.GetString("DB_NAME"),
		},
	}
}

func mustFloat(env *viper.Viper, key string) float64 {
	value, err := cast.ToFloat64E(env.Get(key))
	if err != nil {
		panic("failed to parse " + key + " from configuration, must be a number")
	}

	return value
}
