package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone database for TIMEZONE on minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values of STORE_DRIVER.
const (
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
)

// Config holds every setting the service reads at start-up.
type Config struct {
	AppPort     string
	StoreDriver string
	DatabaseDSN string
	MongoURL    string
	MongoDB     string

	JWTSecret []byte
	TokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RabbitMQURL   string

	LogLevel  string
	LogFormat string

	CORSOrigins []string
	Location    *time.Location

	// TrustClientPrices snapshots order lines from the request body instead of the catalog.
	TrustClientPrices bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "feira.db")
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "feira")
	v.SetDefault("JWT_SECRET", "changeme-unsafe")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("ORDER_TRUST_CLIENT_PRICES", false)
}

// Load reads configuration from the environment, after loading a .env file
// when one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive, got %s", ttl)
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	driver := strings.ToLower(v.GetString("STORE_DRIVER"))
	switch driver {
	case DriverSQLite, DriverPostgres, DriverMySQL, DriverSQLServer, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver, mongo, memory)", driver)
	}

	secret := v.GetString("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	return &Config{
		AppPort:           v.GetString("APP_PORT"),
		StoreDriver:       driver,
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		MongoURL:          v.GetString("MONGO_URL"),
		MongoDB:           v.GetString("MONGO_DB"),
		JWTSecret:         []byte(secret),
		TokenTTL:          ttl,
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		Location:          loc,
		TrustClientPrices: v.GetBool("ORDER_TRUST_CLIENT_PRICES"),
	}, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
