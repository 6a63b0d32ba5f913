package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nflverse/nflassets/internal/platform/logging"
	"github.com/nflverse/nflassets/internal/platform/resilience"
)

// Config stores runtime configuration for the toolkit.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level

	CacheDir       string `validate:"required"`
	Offline        bool
	FuzzyThreshold float64 `validate:"gt=0,lte=1"`

	AssetTTL      time.Duration `validate:"gt=0"`
	FetchTimeout  time.Duration `validate:"gt=0"`
	FetchRetries  int           `validate:"gte=0"`
	MaxAssetBytes int64         `validate:"gt=0"`
	CacheMaxBytes int64         `validate:"gte=0"`
	CacheMaxAge   time.Duration `validate:"gte=0"`

	WarmWorkers     int `validate:"gte=0,lte=64"`
	URLCheckWorkers int `validate:"gte=0,lte=64"`

	DatasetEnabled bool
	DatasetSource  string
	DatasetTTL     time.Duration `validate:"gt=0"`
	DatasetTimeout time.Duration `validate:"gt=0"`
	DatasetRetries int           `validate:"gte=0"`

	CircuitEnabled        bool
	CircuitFailureCount   int           `validate:"gte=1"`
	CircuitOpenTimeout    time.Duration `validate:"gt=0"`
	CircuitHalfOpenMaxReq int           `validate:"gte=1"`

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	offline, err := strconv.ParseBool(getEnv("NFLASSETS_OFFLINE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_OFFLINE: %w", err)
	}

	fuzzyThreshold, err := getEnvAsFloat("NFLASSETS_FUZZY_THRESHOLD", 0.85)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_FUZZY_THRESHOLD: %w", err)
	}

	assetTTL, err := time.ParseDuration(getEnv("NFLASSETS_ASSET_TTL", "720h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_ASSET_TTL: %w", err)
	}

	fetchTimeout, err := time.ParseDuration(getEnv("NFLASSETS_FETCH_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_FETCH_TIMEOUT: %w", err)
	}

	fetchRetries, err := getEnvAsInt("NFLASSETS_FETCH_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_FETCH_RETRIES: %w", err)
	}

	maxAssetBytes, err := getEnvAsInt64("NFLASSETS_MAX_ASSET_BYTES", 10<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_MAX_ASSET_BYTES: %w", err)
	}

	cacheMaxBytes, err := getEnvAsInt64("NFLASSETS_CACHE_MAX_BYTES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CACHE_MAX_BYTES: %w", err)
	}

	cacheMaxAge, err := time.ParseDuration(getEnv("NFLASSETS_CACHE_MAX_AGE", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CACHE_MAX_AGE: %w", err)
	}

	warmWorkers, err := getEnvAsInt("NFLASSETS_WARM_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_WARM_WORKERS: %w", err)
	}

	urlCheckWorkers, err := getEnvAsInt("NFLASSETS_URLCHECK_WORKERS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_URLCHECK_WORKERS: %w", err)
	}

	datasetEnabled, err := strconv.ParseBool(getEnv("NFLASSETS_DATASET_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_DATASET_ENABLED: %w", err)
	}
	datasetTTL, err := time.ParseDuration(getEnv("NFLASSETS_DATASET_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_DATASET_TTL: %w", err)
	}
	datasetTimeout, err := time.ParseDuration(getEnv("NFLASSETS_DATASET_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_DATASET_TIMEOUT: %w", err)
	}
	datasetRetries, err := getEnvAsInt("NFLASSETS_DATASET_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_DATASET_RETRIES: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("NFLASSETS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("NFLASSETS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("NFLASSETS_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("NFLASSETS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NFLASSETS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "nflassets"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CacheDir:                   strings.TrimSpace(getEnv("NFLASSETS_CACHE_DIR", defaultCacheDir())),
		Offline:                    offline,
		FuzzyThreshold:             fuzzyThreshold,
		AssetTTL:                   assetTTL,
		FetchTimeout:               fetchTimeout,
		FetchRetries:               fetchRetries,
		MaxAssetBytes:              maxAssetBytes,
		CacheMaxBytes:              cacheMaxBytes,
		CacheMaxAge:                cacheMaxAge,
		WarmWorkers:                warmWorkers,
		URLCheckWorkers:            urlCheckWorkers,
		DatasetEnabled:             datasetEnabled,
		DatasetSource:              strings.TrimSpace(getEnv("NFLASSETS_PLAYERS_DATASET", "")),
		DatasetTTL:                 datasetTTL,
		DatasetTimeout:             datasetTimeout,
		DatasetRetries:             datasetRetries,
		CircuitEnabled:             circuitEnabled,
		CircuitFailureCount:        circuitFailureCount,
		CircuitOpenTimeout:         circuitOpenTimeout,
		CircuitHalfOpenMaxReq:      circuitHalfOpenMaxReq,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// CircuitBreaker maps the breaker knobs onto the resilience config the
// fetcher consumes.
func (c Config) CircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.CircuitEnabled,
		FailureThreshold: c.CircuitFailureCount,
		OpenTimeout:      c.CircuitOpenTimeout,
		HalfOpenMaxReq:   c.CircuitHalfOpenMaxReq,
	}
}

func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil && base != "" {
		return filepath.Join(base, "nflassets")
	}
	return ".nflassets-cache"
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
