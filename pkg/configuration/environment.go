package configuration

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/taskwall/taskwall/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

func Use() *Configuration {
	return singleton()
}

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"taskwall"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// ConnectionStringFor builds the DSN for a tenant database. Tenant databases
// share the cluster and credentials of the default database and differ only
// by name: "<DB_NAME>_<tenant>".
func (d *DatabaseOptions) ConnectionStringFor(tenantID string) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s_%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, tenantID, d.Password,
	)
}

type MultitenancyOptions struct {
	Enabled bool `env:"MULTITENANCY_ENABLED" envDefault:"false"`
	// Requests arrive on "<tenant>.<BASE_DOMAIN>"; the first label is the
	// tenant hint. The header is the escape hatch for path-based deployments
	// and local tooling.
	BaseDomain   string `env:"MULTITENANCY_BASE_DOMAIN" envDefault:"localhost"`
	TenantHeader string `env:"MULTITENANCY_TENANT_HEADER" envDefault:"X-Tenant-ID"`
}

type RealtimeOptions struct {
	// Transport is "redis" or "postgres".
	Transport     string `env:"REALTIME_TRANSPORT" envDefault:"redis"`
	ChannelPrefix string `env:"REALTIME_CHANNEL_PREFIX" envDefault:"taskwall:events"`
}

func (r *RealtimeOptions) Validate() error {
	if r.Transport != "redis" && r.Transport != "postgres" {
		return fmt.Errorf("realtime Transport must be 'redis' or 'postgres', got '%s'", r.Transport)
	}
	return nil
}

// ProxyOptions configure batched transaction execution against a remote SQL
// proxy, used when the process has no direct database connection.
type ProxyOptions struct {
	Enabled  bool          `env:"DB_PROXY_ENABLED" envDefault:"false"`
	BatchURL string        `env:"DB_PROXY_BATCH_URL"`
	Timeout  time.Duration `env:"DB_PROXY_TIMEOUT" envDefault:"10s"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database     DatabaseOptions
	Multitenancy MultitenancyOptions
	Realtime     RealtimeOptions
	Proxy        ProxyOptions
	Prometheus   PrometheusOptions

	RedisURL         string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	ServerPort       int    `env:"PORT" envDefault:"3200"`
	SocketAddress    string `env:"-"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	// Looked up on the request; a random uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	RealIPHeader    string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`
	MigrateOnStart  bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	logger *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) load(envFiles []string) error {
	if _, err := LoadEnv(envFiles); err != nil {
		return err
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.Realtime.Validate(); err != nil {
		return err
	}
	if c.Proxy.Enabled && strings.TrimSpace(c.Proxy.BatchURL) == "" {
		return fmt.Errorf("DB_PROXY_BATCH_URL is required when DB_PROXY_ENABLED is set")
	}
	c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	if c.GoAppEnvironment == Production {
		c.logger = logging.JSONLogger(c.LogrusLogLevel())
	} else {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}
	return nil
}
