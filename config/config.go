package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "TEESHOP_CONFIG_FILE"
	envPrefix         = "TEESHOP"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverLevelDB  = "leveldb"
	DriverPostgres = "postgres"
)

type storage struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	Namespace    string `mapstructure:"namespace"`
	SaveAttempts int    `mapstructure:"save_attempts"`
}

type checkout struct {
	Latency   time.Duration `mapstructure:"latency"`
	FailEvery int           `mapstructure:"fail_every"`
}

type customizer struct {
	AddDelay time.Duration `mapstructure:"add_delay"`
}

type contact struct {
	SendDelay time.Duration `mapstructure:"send_delay"`
}

type history struct {
	CustomizationsCap int `mapstructure:"customizations_cap"`
	OrdersCap         int `mapstructure:"orders_cap"`
	SubscribersCap    int `mapstructure:"subscribers_cap"`
	MessagesCap       int `mapstructure:"messages_cap"`
}

type images struct {
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
	Quality   int `mapstructure:"quality"`
	MaxBytes  int `mapstructure:"max_bytes"`
	MaxPixels int `mapstructure:"max_pixels"`
}

type topics struct {
	Orders      string `mapstructure:"orders"`
	Subscribers string `mapstructure:"subscribers"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all certificate files are set.
func (t tlsFiles) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPHandlerTimeout time.Duration `mapstructure:"http_handler_timeout"`
	Storage            storage       `mapstructure:"storage"`
	Checkout           checkout      `mapstructure:"checkout"`
	Customizer         customizer    `mapstructure:"customizer"`
	Contact            contact       `mapstructure:"contact"`
	History            history       `mapstructure:"history"`
	Images             images        `mapstructure:"images"`
	Broker             broker        `mapstructure:"broker"`
}

// Load reads .env, then the config file, then TEESHOP_* environment
// overrides. Missing values fall back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		die(err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := getConfigFilepath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			die(err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		die(err)
	}

	if err := cfg.validate(); err != nil {
		die(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", "127.0.0.1:8000")
	v.SetDefault("http_handler_timeout", 10*time.Second)

	v.SetDefault("storage.driver", DriverLevelDB)
	v.SetDefault("storage.path", "./data/teeshop")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.namespace", "customTee")
	v.SetDefault("storage.save_attempts", 3)

	v.SetDefault("checkout.latency", 2*time.Second)
	v.SetDefault("checkout.fail_every", 0)

	v.SetDefault("customizer.add_delay", 800*time.Millisecond)

	v.SetDefault("contact.send_delay", 1500*time.Millisecond)

	v.SetDefault("history.customizations_cap", 50)
	v.SetDefault("history.orders_cap", 100)
	v.SetDefault("history.subscribers_cap", 1000)
	v.SetDefault("history.messages_cap", 100)

	v.SetDefault("images.max_width", 1024)
	v.SetDefault("images.max_height", 1024)
	v.SetDefault("images.quality", 85)
	v.SetDefault("images.max_bytes", 5<<20)
	v.SetDefault("images.max_pixels", 0)

	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.seed_brokers", []string{"127.0.0.1:9094"})
	v.SetDefault("broker.schema_registry_urls", []string{"http://127.0.0.1:8081"})
	v.SetDefault("broker.topics.orders", "teeshop-orders")
	v.SetDefault("broker.topics.subscribers", "teeshop-subscribers")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func (c Config) validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverLevelDB:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path: required for leveldb"))
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn: required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q", c.Storage.Driver))
	}

	if c.Storage.SaveAttempts < 1 {
		errs = append(errs, errors.New("storage.save_attempts: must be positive"))
	}

	// Simulated delays run inside a request and must finish before
	// the handler times out.
	if c.HTTPHandlerTimeout <= 0 {
		errs = append(errs, errors.New("http_handler_timeout: must be positive"))
	}
	delays := []struct {
		key string
		d   time.Duration
	}{
		{"checkout.latency", c.Checkout.Latency},
		{"customizer.add_delay", c.Customizer.AddDelay},
		{"contact.send_delay", c.Contact.SendDelay},
	}
	for _, delay := range delays {
		if delay.d < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative", delay.key))
		}
		if c.HTTPHandlerTimeout > 0 && delay.d >= c.HTTPHandlerTimeout {
			errs = append(errs, fmt.Errorf(
				"%s: must be less than http_handler_timeout (%s)",
				delay.key, c.HTTPHandlerTimeout,
			))
		}
	}

	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		errs = append(errs, errors.New("images.quality: must be in [1, 100]"))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.StringP("config", "c", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPHandlerTimeout=%s

	Storage:
	Driver=%q
	Path=%q
	Namespace=%q
	SaveAttempts=%d

	Checkout:
	Latency=%s
	FailEvery=%d

	Customizer:
	AddDelay=%s

	Contact:
	SendDelay=%s

	History:
	CustomizationsCap=%d
	OrdersCap=%d
	SubscribersCap=%d
	MessagesCap=%d

	Images:
	MaxWidth=%d
	MaxHeight=%d
	Quality=%d
	MaxBytes=%d
	MaxPixels=%d

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Orders=%q
		Subscribers=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPHandlerTimeout,
		c.Storage.Driver,
		c.Storage.Path,
		c.Storage.Namespace,
		c.Storage.SaveAttempts,
		c.Checkout.Latency,
		c.Checkout.FailEvery,
		c.Customizer.AddDelay,
		c.Contact.SendDelay,
		c.History.CustomizationsCap,
		c.History.OrdersCap,
		c.History.SubscribersCap,
		c.History.MessagesCap,
		c.Images.MaxWidth,
		c.Images.MaxHeight,
		c.Images.Quality,
		c.Images.MaxBytes,
		c.Images.MaxPixels,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Orders,
		c.Broker.Topics.Subscribers,
	)
}
