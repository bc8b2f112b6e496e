package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/TechXTT/surveydb/internal/driver"
)

// Config holds the connection and logging settings.
type Config struct {
	Driver   string
	DSN      string
	LogLevel string
	LogFile  string
}

// Load reads settings from the environment, after merging envFile into it
// when that file exists. Variables already set in the environment win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{
		Driver:   os.Getenv("SURVEYDB_DRIVER"),
		DSN:      os.Getenv("SURVEYDB_DSN"),
		LogLevel: os.Getenv("SURVEYDB_LOG_LEVEL"),
		LogFile:  os.Getenv("SURVEYDB_LOG_FILE"),
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	if cfg.DSN == "" {
		if d, ok := DescriptorFromEnv(); ok {
			cfg.DSN = d.String()
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Driver != "" {
		if _, err := driver.Resolve(cfg.Driver); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Descriptor is a keyword/value PostgreSQL connection descriptor.
type Descriptor struct {
	Host           string
	Port           int
	DBName         string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout int
}

// DescriptorFromEnv builds a Descriptor from the libpq PG* variables. It
// reports false when none of them is set.
func DescriptorFromEnv() (Descriptor, bool) {
	d := Descriptor{
		Host:     os.Getenv("PGHOST"),
		DBName:   os.Getenv("PGDATABASE"),
		User:     os.Getenv("PGUSER"),
		Password: os.Getenv("PGPASSWORD"),
		SSLMode:  os.Getenv("PGSSLMODE"),
	}
	if p, err := strconv.Atoi(os.Getenv("PGPORT")); err == nil {
		d.Port = p
	}
	if t, err := strconv.Atoi(os.Getenv("PGCONNECT_TIMEOUT")); err == nil {
		d.ConnectTimeout = t
	}
	return d, d != Descriptor{}
}

// String renders the descriptor as "host=... port=... dbname=...". Empty
// fields are omitted.
func (d Descriptor) String() string {
	var parts []string
	add := func(key, val string) {
		if val != "" {
			parts = append(parts, key+"="+quote(val))
		}
	}
	add("host", d.Host)
	if d.Port > 0 {
		add("port", strconv.Itoa(d.Port))
	}
	add("dbname", d.DBName)
	add("user", d.User)
	add("password", d.Password)
	add("sslmode", d.SSLMode)
	if d.ConnectTimeout > 0 {
		add("connect_timeout", strconv.Itoa(d.ConnectTimeout))
	}
	return strings.Join(parts, " ")
}

// quote applies libpq quoting: values with spaces, quotes or backslashes
// are wrapped in single quotes with ' and \ escaped.
func quote(v string) string {
	if !strings.ContainsAny(v, " '\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// Normalize fills driver defaults into dsn. For PostgreSQL drivers SSL is
// disabled unless the DSN says otherwise.
func Normalize(driverName, dsn string) string {
	if !driver.IsPostgres(driverName) || strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "sslmode=disable"
	}
	return strings.TrimSpace(dsn) + " sslmode=disable"
}

var (
	passwordKV  = regexp.MustCompile(`(password\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)
	mysqlUserPw = regexp.MustCompile(`^([^:@/]*):[^@]*@(tcp|unix)\(`)
)

// Redact hides the password in a DSN so it can be logged.
func Redact(dsn string) string {
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "xxxxx")
			}
			return u.String()
		}
	}
	if mysqlUserPw.MatchString(dsn) {
		return mysqlUserPw.ReplaceAllString(dsn, "${1}:xxxxx@${2}(")
	}
	return passwordKV.ReplaceAllString(dsn, "${1}xxxxx")
}
