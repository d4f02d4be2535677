package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Project holds the connection parameters for one data-warehouse project.
type Project struct {
	Driver   string
	Server   string
	Database string
	User     string
	Password string
}

// Config is the full runtime configuration: one connection record per project
// plus pool tuning shared by all of them.
type Config struct {
	Projects    map[string]Project
	PoolSize    int
	MaxOverflow int
}

// DefaultProject is the project every helper falls back to when the caller
// does not name one. Its credentials are mandatory; the others are optional.
const DefaultProject = "projeto1"

// Labels maps project IDs to the short site codes used in report headers.
var Labels = map[string]string{
	"projeto1": "FAS",
	"projeto2": "FAC",
	"projeto3": "FES",
	"projeto4": "FET",
	"projeto5": "FPB",
}

var envKeys = map[string]string{
	"driver":   "DB_DRIVER",
	"server":   "DB_SERVER",
	"database": "DB_NAME",
	"user":     "DB_USER",
	"password": "DB_PASSWORD",
}

const projectCount = 5

// Load reads connection parameters for all projects from the environment,
// loading a .env file first if one is present. Credentials for projeto1 are
// mandatory; other projects are skipped with a warning when incomplete.
func Load(log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	godotenv.Load()

	cfg := &Config{
		Projects:    map[string]Project{},
		PoolSize:    intEnv("DB_POOL_SIZE", 5),
		MaxOverflow: intEnv("DB_MAX_OVERFLOW", 10),
	}

	for i := 1; i <= projectCount; i++ {
		name := fmt.Sprintf("projeto%d", i)
		suffix := ""
		if i > 1 {
			suffix = fmt.Sprintf("_PROJETO%d", i)
		}
		p := Project{
			Driver:   os.Getenv(envKeys["driver"] + suffix),
			Server:   os.Getenv(envKeys["server"] + suffix),
			Database: os.Getenv(envKeys["database"] + suffix),
			User:     os.Getenv(envKeys["user"] + suffix),
			Password: os.Getenv(envKeys["password"] + suffix),
		}
		if missing := p.missing(suffix); len(missing) > 0 {
			if name == DefaultProject {
				err := fmt.Errorf("missing environment variables for %s: %s",
					name, strings.Join(missing, ", "))
				log.Error("database configuration incomplete", zap.Error(err))
				return nil, err
			}
			log.Warn("skipping project with incomplete configuration",
				zap.String("project", name),
				zap.Strings("missing", missing))
			continue
		}
		cfg.Projects[name] = p
	}

	log.Debug("database configuration loaded",
		zap.Strings("projects", cfg.ProjectNames()))
	return cfg, nil
}

// ProjectNames returns the configured project IDs in stable order.
func (c *Config) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxOpenConns is the pool ceiling handed to sql.DB: the steady pool size
// plus the allowed overflow.
func (c *Config) MaxOpenConns() int {
	return c.PoolSize + c.MaxOverflow
}

func (p Project) missing(suffix string) []string {
	var out []string
	for field, key := range envKeys {
		var v string
		switch field {
		case "driver":
			v = p.Driver
		case "server":
			v = p.Server
		case "database":
			v = p.Database
		case "user":
			v = p.User
		case "password":
			v = p.Password
		}
		if v == "" {
			out = append(out, key+suffix)
		}
	}
	sort.Strings(out)
	return out
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
