package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database types accepted by -t / DATABASE_TYPE
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	LogLevel  string
	LogFormat string
	LogFile   string

	CookieSecure bool
	SessionTTL   time.Duration
	EnforceCSRF  bool
	BcryptCost   int

	LoginRPS   float64
	LoginBurst int

	// TrustProxy honours X-Forwarded-For / X-Real-IP. Only enable behind a
	// reverse proxy that overwrites them.
	TrustProxy bool
}

// ParseFlags validates flags and fills the rest from the environment.
// Precedence: CLI flag, then environment, then .env file, then defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string
	var port, bcryptCost, loginBurst int
	var loginRPS float64
	var sessionTTL, cookieSecure, enforceCSRF, trustProxy string

	fs := flag.NewFlagSet("bug-tracker", flag.ContinueOnError)

	// Network / storage
	fs.IntVar(&port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Also write logs to this file (rotated)")

	// Sessions and auth
	fs.StringVar(&cookieSecure, "cookie-secure", "", "Mark the session cookie Secure (true/false)")
	fs.StringVar(&sessionTTL, "session-ttl", "", "Session lifetime (e.g. 720h)")
	fs.StringVar(&enforceCSRF, "enforce-csrf", "", "Reject authenticated POSTs without a valid CSRF token (true/false)")
	fs.IntVar(&bcryptCost, "bcrypt-cost", 0, "bcrypt cost factor")
	fs.Float64Var(&loginRPS, "login-rps", 0, "Login attempts per second per client")
	fs.IntVar(&loginBurst, "login-burst", 0, "Login attempt burst per client")
	fs.StringVar(&trustProxy, "trust-proxy", "", "Take the client IP from X-Forwarded-For/X-Real-IP (true/false)")

	fs.StringVar(&envFile, "env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// A missing .env is fine; real environment variables win over it.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var err error
	if cfg.Port, err = intSetting(port, "PORT", 3318); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:bugtracker.db"
	}

	cfg.LogLevel = stringSetting(cfg.LogLevel, "LOG_LEVEL", "info")
	cfg.LogFormat = stringSetting(cfg.LogFormat, "LOG_FORMAT", "text")
	cfg.LogFile = stringSetting(cfg.LogFile, "LOG_FILE", "")

	if cfg.CookieSecure, err = boolSetting(cookieSecure, "COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.EnforceCSRF, err = boolSetting(enforceCSRF, "ENFORCE_CSRF", true); err != nil {
		return Config{}, err
	}

	ttl := stringSetting(sessionTTL, "SESSION_TTL", "720h")
	if cfg.SessionTTL, err = time.ParseDuration(ttl); err != nil || cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("invalid session TTL %q", ttl)
	}

	if cfg.BcryptCost, err = intSetting(bcryptCost, "BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("bcrypt cost %d out of range 4-31", cfg.BcryptCost)
	}

	if loginRPS == 0 {
		loginRPS = 1
		if s := os.Getenv("LOGIN_RPS"); s != "" {
			if loginRPS, err = strconv.ParseFloat(s, 64); err != nil {
				return Config{}, errors.New("invalid LOGIN_RPS env variable")
			}
		}
	}
	cfg.LoginRPS = loginRPS
	if cfg.LoginBurst, err = intSetting(loginBurst, "LOGIN_BURST", 10); err != nil {
		return Config{}, err
	}
	if cfg.TrustProxy, err = boolSetting(trustProxy, "TRUST_PROXY", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func stringSetting(flagVal, env, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func intSetting(flagVal int, env string, def int) (int, error) {
	if flagVal != 0 {
		return flagVal, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return v, nil
}

func boolSetting(flagVal, env string, def bool) (bool, error) {
	s := stringSetting(flagVal, env, "")
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q for %s", s, env)
	}
	return v, nil
}
