package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// kafka notification sink
	KafkaBrokerAddr        string `toml:"kafka_broker_addr"`
	NotificationsTopic     string `toml:"notifications_topic"`
	CheckinRateLimitPerMin int    `toml:"checkin_rate_limit_per_min"`

	// nightly batch; empty means the external scheduler is the only trigger
	BatchCronSchedule string `toml:"batch_cron_schedule"`

	// engine tunables (spec-level knobs, not invariants)
	Engine EngineConfig `toml:"engine"`
}

// EngineConfig carries the tunable weights and thresholds of the
// readiness/decision engine. Defaults mirror the values the coaching staff
// runs in production; override per environment via the toml file.
type EngineConfig struct {
	// readiness composite weights, normalized internally
	HRVWeight      float64 `toml:"hrv_weight"`
	RHRWeight      float64 `toml:"rhr_weight"`
	WellnessWeight float64 `toml:"wellness_weight"`
	SleepWeight    float64 `toml:"sleep_weight"`
	ACWRWeight     float64 `toml:"acwr_weight"`

	// red flag thresholds
	PainRedFlag      float64 `toml:"pain_red_flag"`
	ReadinessRedFlag float64 `toml:"readiness_red_flag"`
	SleepRedFlag     float64 `toml:"sleep_red_flag"`
	StressRedFlag    float64 `toml:"stress_red_flag"`

	// pace synthesis
	SourceMismatchThreshold float64 `toml:"source_mismatch_threshold"`

	// injury cascade
	SubstitutionWindowDays int `toml:"substitution_window_days"`

	// deload prescription
	DeloadLoadReduction float64 `toml:"deload_load_reduction"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HRVWeight:               0.25,
		RHRWeight:               0.15,
		WellnessWeight:          0.25,
		SleepWeight:             0.15,
		ACWRWeight:              0.20,
		PainRedFlag:             5,
		ReadinessRedFlag:        5.5,
		SleepRedFlag:            5,
		StressRedFlag:           8,
		SourceMismatchThreshold: 0.15,
		SubstitutionWindowDays:  14,
		DeloadLoadReduction:     0.05,
	}
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	tomlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var configsToml Toml
	if err := toml.Unmarshal(tomlBytes, &configsToml); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	cfg, err := configsToml.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] empty", env)
	}

	cfg.Environment = env

	// zero engine section means "not configured", fall back to defaults
	if cfg.Engine == (EngineConfig{}) {
		cfg.Engine = DefaultEngineConfig()
	}

	return cfg, nil
}
