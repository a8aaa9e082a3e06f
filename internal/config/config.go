package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabasePath   string        `yaml:"database_path"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	UploadDir      string        `yaml:"upload_dir"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	AdminUsername  string        `yaml:"admin_username"`
	AdminPassword  string        `yaml:"admin_password"`
	Production     bool          `yaml:"production"`
}

// LoadConfig builds the configuration from defaults, environment variables
// (optionally populated from a .env file) and, when path is non-empty, a YAML
// file that overrides both.
func LoadConfig(path string) (*Config, error) {
	// best effort; absence of a .env file is the normal case in production
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnv("JOBBOARD_ADDR", ":8080"),
		JWTSecret:      getEnv("JOBBOARD_JWT_SECRET", "supersecretkey"),
		APITimeout:     15 * time.Second,
		DatabasePath:   getEnv("JOBBOARD_DATABASE_PATH", "jobboard.db"),
		TokenDuration:  24 * time.Hour,
		UploadDir:      getEnv("JOBBOARD_UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getEnvInt64("JOBBOARD_MAX_UPLOAD_BYTES", 5<<20),
		AdminUsername:  getEnv("JOBBOARD_ADMIN_USERNAME", ""),
		AdminPassword:  getEnv("JOBBOARD_ADMIN_PASSWORD", ""),
		Production:     getEnv("JOBBOARD_ENV", "") == "production",
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}

	return def
}
