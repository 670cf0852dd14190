package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
)

// Backend is the configuration of the REST inventory backend
type Backend struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

type Logger struct {
	Format string
	Level  string
}

type Config struct {
	Backend          Backend
	Logger           Logger
	BindHost         string
	IAPAudience      string
	PatchIncludeDate bool
	PolicyFile       string
	Port             string
	RefreshInterval  time.Duration
	RunAs            string
}

// New parses the process flags, exiting on errors
func New() *Config {
	cfg, flags := newFlagSet(flag.ExitOnError)
	_ = flags.Parse(os.Args[1:])
	return cfg
}

// NewFromArgs parses the given arguments
func NewFromArgs(args []string) (*Config, error) {
	cfg, flags := newFlagSet(flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(handling flag.ErrorHandling) (*Config, *flag.FlagSet) {
	cfg := &Config{}
	flags := flag.NewFlagSet("inventory-backend", handling)

	flags.StringVar(&cfg.BindHost, "bind-host", os.Getenv("BIND_HOST"), "Bind host")
	flags.StringVar(&cfg.Port, "port", envOrDefault("PORT", "8080"), "Port to listen on")
	flags.StringVar(&cfg.Backend.Endpoint, "backend-endpoint", envOrDefault("BACKEND_ENDPOINT", "http://localhost:3000"), "Inventory backend endpoint")
	flags.StringVar(&cfg.Backend.Token, "backend-token", os.Getenv("BACKEND_TOKEN"), "Bearer token for the inventory backend")
	flags.DurationVar(&cfg.Backend.Timeout, "backend-timeout", durationEnv("BACKEND_TIMEOUT", 30*time.Second), "Timeout for each request to the inventory backend")
	flags.DurationVar(&cfg.RefreshInterval, "refresh-interval", durationEnv("REFRESH_INTERVAL", 5*time.Minute), "How long fetched data is served before it is fetched again")
	flags.StringVar(&cfg.PolicyFile, "policy-file", os.Getenv("POLICY_FILE"), "YAML file with open statuses, watch list and default status")
	flags.BoolVar(&cfg.PatchIncludeDate, "patch-include-date", boolEnv("PATCH_INCLUDE_DATE", false), "Send the patch date with bulk patch requests")
	flags.StringVar(&cfg.RunAs, "run-as", os.Getenv("RUN_AS"), "Statically configured session, 'admin' or 'analyst:<id>'")
	flags.StringVar(&cfg.IAPAudience, "iap-audience", os.Getenv("IAP_AUDIENCE"), "IAP audience")
	flags.StringVar(&cfg.Logger.Format, "log-format", envOrDefault("LOG_FORMAT", "json"), "which log format to use")
	flags.StringVar(&cfg.Logger.Level, "log-level", envOrDefault("LOG_LEVEL", "info"), "which log level to output")

	return cfg, flags
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func boolEnv(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}
