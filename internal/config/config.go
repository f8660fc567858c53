package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port          string              `mapstructure:"port"`
	Origin        string              `mapstructure:"origin"`
	Environment   string              `mapstructure:"environment"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Service       ServiceConfig       `mapstructure:"service"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Uploads       UploadsConfig       `mapstructure:"uploads"`
}

// AuthConfig holds session token and login settings
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"`
	JWTExpirationMinutes int           `mapstructure:"jwt_expiration_minutes"`
	Latency              time.Duration `mapstructure:"latency"`
	RateLimitPerMinute   int           `mapstructure:"rate_limit_per_minute"`
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // mysql or sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Path     string `mapstructure:"path"` // sqlite file
	DSN      string `mapstructure:"dsn"`
}

// StorageConfig selects the key-value backend holding state blobs
type StorageConfig struct {
	Backend    string `mapstructure:"backend"` // sql or badger
	BadgerPath string `mapstructure:"badger_path"`
}

// ServiceConfig holds simulated remote service settings
type ServiceConfig struct {
	Latency time.Duration `mapstructure:"latency"`
}

// NotificationsConfig holds reminder scheduler settings
type NotificationsConfig struct {
	CheckInterval    time.Duration `mapstructure:"check_interval"`
	MedicationWindow time.Duration `mapstructure:"medication_window"`
	OverdueWindow    time.Duration `mapstructure:"overdue_window"`
	RefireWindow     time.Duration `mapstructure:"refire_window"`
	AppointmentLead  time.Duration `mapstructure:"appointment_lead"`
}

// UploadsConfig holds health record file limits
type UploadsConfig struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// LoadConfig loads configuration from defaults, an optional config file and
// MEDMINDER_* environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = getEnv("MEDMINDER_CONFIG", "")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("MEDMINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// PORT is honoured for hosting environments that only set it
	cfg.Port = getEnv("PORT", cfg.Port)

	if cfg.Database.DSN == "" && cfg.Database.Driver == "mysql" {
		// Build DSN (Data Source Name) for MySQL connection
		cfg.Database.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3001")
	v.SetDefault("origin", "http://localhost:3001")
	v.SetDefault("environment", "development")

	v.SetDefault("auth.jwt_secret", "default_jwt_secret")
	v.SetDefault("auth.jwt_expiration_minutes", 60*24)
	v.SetDefault("auth.latency", 500*time.Millisecond)
	v.SetDefault("auth.rate_limit_per_minute", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "medminder")
	v.SetDefault("database.path", "medminder.db")

	v.SetDefault("storage.backend", "sql")
	v.SetDefault("storage.badger_path", "data/badger")

	v.SetDefault("service.latency", 700*time.Millisecond)

	v.SetDefault("notifications.check_interval", 30*time.Second)
	v.SetDefault("notifications.medication_window", time.Minute)
	v.SetDefault("notifications.overdue_window", 2*time.Hour)
	v.SetDefault("notifications.refire_window", time.Hour)
	v.SetDefault("notifications.appointment_lead", 30*time.Minute)

	v.SetDefault("uploads.max_file_bytes", 2<<20)
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	switch cfg.Storage.Backend {
	case "sql", "badger":
	default:
		return fmt.Errorf("unsupported storage.backend %q", cfg.Storage.Backend)
	}
	if cfg.Notifications.CheckInterval <= 0 {
		return fmt.Errorf("notifications.check_interval must be positive")
	}
	if cfg.Uploads.MaxFileBytes <= 0 {
		return fmt.Errorf("uploads.max_file_bytes must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
