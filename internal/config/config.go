// Package config loads the server configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the whole server configuration
type Config struct {
	File      string          `yaml:"-"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Content   ContentConfig   `yaml:"content"`
	Mail      MailConfig      `yaml:"mail"`
	Admin     AdminConfig     `yaml:"admin"`
	Retention RetentionConfig `yaml:"retention"`
	Contact   ContactConfig   `yaml:"contact"`
}

type ServerConfig struct {
	// RunMode is the gin mode: debug, release or test
	RunMode  string `yaml:"run-mode" default:"release"`
	HttpPort string `yaml:"http-port" default:"8080"`
	// PageCacheSize is the number of rendered pages kept, one per theme variant
	PageCacheSize int `yaml:"page-cache-size" default:"8"`
	ReadTimeout   int `yaml:"read-timeout" default:"15"`
	WriteTimeout  int `yaml:"write-timeout" default:"30"`
}

type LogConfig struct {
	// Level is parsed by zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// Production switches to JSON output
	Production bool `yaml:"production" default:"false"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" default:"storage/portfolio.sqlite3"`
}

type ContentConfig struct {
	// File overrides the built-in profile. Empty serves the defaults.
	File string `yaml:"file"`
	// Watch reloads File when it changes
	Watch bool `yaml:"watch"`
	// Resume is a PDF on disk served instead of the embedded one
	Resume string `yaml:"resume"`
}

type MailConfig struct {
	Host     string `yaml:"host" default:"smtp.gmail.com"`
	Port     int    `yaml:"port" default:"587"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	To       string `yaml:"to" default:"nibinkurian@example.com"`
}

// Configured reports whether credentials are present
func (m MailConfig) Configured() bool {
	return m.User != "" && m.Password != ""
}

type AdminConfig struct {
	Username string `yaml:"username" default:"admin"`
	Password string `yaml:"password" default:"admin123"`
	// SessionHours is the lifetime of the admin cookie
	SessionHours int `yaml:"session-hours" default:"24"`
	// HashSalt salts visitor IP hashes. Empty draws a fresh salt per process,
	// so hashes are only comparable within one run.
	HashSalt string `yaml:"hash-salt"`
}

type RetentionConfig struct {
	// Schedule is a cron spec for the visitor purge
	Schedule string `yaml:"schedule" default:"@daily"`
	Months   int    `yaml:"months" default:"12"`
}

type ContactConfig struct {
	// Burst messages per client, refilled one every RefillMinutes
	Burst         int64 `yaml:"burst" default:"3"`
	RefillMinutes int   `yaml:"refill-minutes" default:"10"`
	MaxMessage    int   `yaml:"max-message" default:"5000"`

	// TrackedClients bounds the rate limit buckets kept in memory
	TrackedClients int `yaml:"tracked-clients" default:"4096"`
}

// Default is the configuration without any file
func Default() *Config {
	c := new(Config)
	_ = defaults.Set(c)
	return c
}

// Load reads f over the defaults. A missing file is not an error; the defaults
// are used and File stays empty. Environment overrides are applied last.
func Load(f string) (*Config, error) {
	c := Default()
	if f != "" {
		realpath, err := filepath.Abs(f)
		if err != nil {
			return nil, errors.Wrap(err, "resolve config path failed")
		}
		realpath = filepath.Clean(realpath)

		file, err := os.ReadFile(realpath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrap(err, "read config file failed")
		default:
			if err := yaml.Unmarshal(file, c); err != nil {
				return nil, errors.Wrap(err, "parse config file failed")
			}
			// fills keys present in the file but left empty
			if err := defaults.Set(c); err != nil {
				return nil, errors.Wrap(err, "re-set default config failed")
			}
			c.File = realpath
		}
	}
	c.applyEnv(os.Getenv)
	return c, nil
}

// applyEnv layers the deployment variables over the file, the same names the
// .env file carries
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Server.HttpPort, "PORT")
	set(&c.Server.RunMode, "GIN_MODE")
	set(&c.Mail.Host, "SMTP_HOST")
	set(&c.Mail.User, "SMTP_USER")
	set(&c.Mail.Password, "SMTP_PASS")
	set(&c.Mail.To, "TO_EMAIL")
	set(&c.Admin.Username, "ADMIN_USERNAME")
	set(&c.Admin.Password, "ADMIN_PASSWORD")
	set(&c.Content.File, "CONTENT_FILE")
	set(&c.Database.Path, "DATABASE_PATH")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Admin.HashSalt, "HASH_SALT")
	set(&c.Content.Resume, "RESUME_FILE")
	if v := getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Mail.Port = p
		}
	}
}

// Addr is the listen address
func (c *Config) Addr() string {
	if p := c.Server.HttpPort; p != "" && p[0] == ':' {
		return p
	}
	return ":" + c.Server.HttpPort
}
