package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded into the process environment if it exists.
var envFile = ".env"

// parseEnv overlays values from the environment. A .env file in the working
// directory is loaded first; variables already set in the environment win.
// Malformed numeric or boolean values panic, like bad flags do.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		panic(err)
	}

	lookupString("HTTP_ADDR", &config.HTTPAddr)
	lookupString("GRPC_ADDR", &config.GRPCAddr)
	lookupString("DATABASE_DSN", &config.DatabaseDSN)
	lookupString("JWT_SECRET", &config.SecretKey)
	lookupString("LOG_LEVEL", &config.LogLevel)
	lookupString("S3_ROOT_USER", &config.S3RootUser)
	lookupString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	lookupString("S3_BUCKET", &config.S3Bucket)
	lookupString("S3_REGION", &config.S3Region)
	lookupString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenTTL = d
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("ALLOW_PASSWORD_RESET"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.AllowPasswordReset = b
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
