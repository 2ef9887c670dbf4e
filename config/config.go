package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name    string
		Port    string
		Env     string
		BaseURL string
	}
	Log struct {
		Level  string
		Format string
		Output string
	}
	Database struct {
		Driver        string
		Dsn           string
		MaxIdleConns  int
		MaxOpenConns  int
		LogLevel      string
		SlowThreshold time.Duration
	}
	Redis struct {
		Addr     string
		DB       int
		Password string
	}
	RabbitMQ struct {
		Url   string
		Queue string
	}
	JWT struct {
		Secret     string
		Issuer     string
		Expiration time.Duration
	}
	Storage struct {
		Driver       string
		MediaRoot    string
		MediaURL     string
		Bucket       string
		Endpoint     string
		Region       string
		AccessKey    string
		SecretKey    string
		UsePathStyle bool
		PublicURL    string
	}
	Cors struct {
		AllowOrigins []string
	}
	RateLimit struct {
		AuthPerMinute int
		Burst         int
	}
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "foodgram")
	v.SetDefault("app.port", "8000")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.baseurl", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxidleconns", 10)
	v.SetDefault("database.maxopenconns", 100)
	v.SetDefault("database.loglevel", "warn")
	v.SetDefault("database.slowthreshold", 200*time.Millisecond)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "foodgram.activity")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "foodgram")
	v.SetDefault("jwt.expiration", 24*time.Hour)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.mediaroot", "./media")
	v.SetDefault("storage.mediaurl", "/media")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.usepathstyle", true)
	v.SetDefault("storage.publicurl", "")
	v.SetDefault("cors.alloworigins", []string{"*"})
	v.SetDefault("ratelimit.authperminute", 20)
	v.SetDefault("ratelimit.burst", 5)
}

// LoadConfig reads the yml config (./config/config.yml when path is empty) and applies
// FOODGRAM_* environment overrides, e.g. FOODGRAM_DATABASE_DSN.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FOODGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	return nil
}

// InitConfig loads the configuration and connects every backend the server needs.
// An empty path searches ./config/config.yml.
func InitConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	AppConfig = cfg

	InitLogger()
	if err := InitDB(); err != nil {
		return err
	}
	if err := InitRedis(); err != nil {
		return err
	}
	if err := InitRabbit(); err != nil {
		return err
	}
	return InitStorage()
}
