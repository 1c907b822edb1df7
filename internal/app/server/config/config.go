package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = "localhost:8080"
	defaultDatabase   = "fleetlog-stub.db"
	// Fixed dev token: the stub exists so the client can be exercised
	// without the portal's real auth service.
	defaultToken = "dev-token"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
	Check  check
}

type db struct {
	Path string `env:"DATABASE_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
	Token      string `env:"API_TOKEN"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// check holds the maintenance interval the stub derives to-next-check
// columns from. Real figures come from the airworthiness system; these
// defaults just produce plausible numbers.
type check struct {
	Hours float64 `env:"CHECK_HOURS"`
	Days  int     `env:"CHECK_DAYS"`
}

func MustLoad() *Config {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	viper.AutomaticEnv()
	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
	viper.SetDefault("DATABASE_PATH", defaultDatabase)
	viper.SetDefault("API_TOKEN", defaultToken)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("APP_ENV", EnvLocal)
	viper.SetDefault("CHECK_HOURS", 50.0)
	viper.SetDefault("CHECK_DAYS", 90)

	return &Config{
		Env: viper.GetString("APP_ENV"),
		DB: db{
			Path: viper.GetString("DATABASE_PATH"),
		},
		Server: server{
			RunAddress: viper.GetString("RUN_ADDRESS"),
			Token:      viper.GetString("API_TOKEN"),
		},
		Logger: logger{LogLevel: viper.GetString("LOG_LEVEL")},
		Check: check{
			Hours: viper.GetFloat64("CHECK_HOURS"),
			Days:  viper.GetInt("CHECK_DAYS"),
		},
	}
}
