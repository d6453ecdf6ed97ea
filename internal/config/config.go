package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Security SecurityConfig `mapstructure:"security"`
	Executor ExecutorConfig `mapstructure:"executor"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DBConfig selects the repository backend. An empty DSN keeps everything in
// process memory.
type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type MonitorConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// TickSpec is a robfig/cron spec with seconds field.
	TickSpec     string `mapstructure:"tick_spec"`
	SecurityScan string `mapstructure:"security_scan"`
}

type FeedsConfig struct {
	FTSO    FTSOFeedConfig    `mapstructure:"ftso"`
	Stream  StreamFeedConfig  `mapstructure:"stream"`
	Threats ThreatFeedsConfig `mapstructure:"threats"`
}

type FTSOFeedConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Endpoint     string        `mapstructure:"endpoint"`
	Symbols      []string      `mapstructure:"symbols"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type StreamFeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ThreatFeedsConfig struct {
	Sources []ThreatSourceConfig `mapstructure:"sources"`
	// AnomalyPct is the absolute percentage move between scans that is
	// reported as a HIGH price-anomaly threat.
	AnomalyPct float64 `mapstructure:"anomaly_pct"`
}

type ThreatSourceConfig struct {
	Name     string        `mapstructure:"name"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type SecurityConfig struct {
	// AdminAddress may call the posture reset endpoint.
	AdminAddress string `mapstructure:"admin_address"`
	// Denylist addresses always report unsafe from the check endpoint.
	Denylist []string `mapstructure:"denylist"`
}

type ExecutorConfig struct {
	DryRun  bool          `mapstructure:"dry_run"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)

	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.tick_spec", "@every 30s")
	v.SetDefault("monitor.security_scan", "@every 30s")

	v.SetDefault("feeds.ftso.enabled", false)
	v.SetDefault("feeds.ftso.endpoint", "https://flr-data-availability.flare.network/api/v0/ftso/price")
	v.SetDefault("feeds.ftso.symbols", []string{"BTC", "ETH", "FLR", "XRP"})
	v.SetDefault("feeds.ftso.poll_interval", "15s")
	v.SetDefault("feeds.ftso.timeout", "10s")
	v.SetDefault("feeds.stream.enabled", false)
	v.SetDefault("feeds.stream.url", "")
	v.SetDefault("feeds.threats.anomaly_pct", 20.0)

	v.SetDefault("security.admin_address", "")
	v.SetDefault("security.denylist", []string{})

	v.SetDefault("executor.dry_run", true)
	v.SetDefault("executor.timeout", "10s")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
