package config

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/errors"
	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"github.com/thurmanmarka/risetrans/internal/ephemeris"
)

// EnvPrefix prefixes every environment override, e.g. RISETRANS_SERVER_PORT.
const EnvPrefix = "RISETRANS"

type Server struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"required|uint|min:1|max:65535"`
	Mode         string        `mapstructure:"mode" validate:"required|in:debug,release,test"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Format string `mapstructure:"format" validate:"required|in:console,json"`
	// Dir, when set, receives risetrans.log in addition to stderr.
	Dir  string `mapstructure:"dir"`
	Mode uint32 `mapstructure:"mode"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Size    int           `mapstructure:"size"` // bytes
	TTL     time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TransitConfig tunes the transition engine.
type TransitConfig struct {
	Cadence       float64       `mapstructure:"cadence" validate:"required|min:1|max:60"`
	PolarLatitude float64       `mapstructure:"polar_latitude" validate:"min:0|max:90"`
	MaxPolarDays  int           `mapstructure:"max_polar_days" validate:"required|min:1|max:366"`
	RiseSetMode   string        `mapstructure:"rise_set_mode" validate:"required"`
	DayCacheTTL   time.Duration `mapstructure:"day_cache_ttl"`
}

// Mode parses RiseSetMode.
func (t TransitConfig) Mode() (ephemeris.RiseSetMode, error) {
	return ephemeris.ParseRiseSetMode(t.RiseSetMode)
}

type EphemerisConfig struct {
	// Serialize puts a mutex around every oracle call.
	Serialize bool `mapstructure:"serialize"`
	// SearchSpan is how many days the rise/set primitive looks ahead.
	SearchSpan float64 `mapstructure:"search_span" validate:"min:0.5|max:30"`
	// SearchGrid is the bracketing cadence of that search in minutes.
	SearchGrid float64 `mapstructure:"search_grid" validate:"min:1|max:60"`
}

type Config struct {
	Path  string `mapstructure:"-"`
	Debug bool   `mapstructure:"debug"`

	Server    Server          `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Transit   TransitConfig   `mapstructure:"transit"`
	Ephemeris EphemerisConfig `mapstructure:"ephemeris"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8089)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.dir", "")
	v.SetDefault("logger.mode", 0o644)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 32*1024*1024)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("transit.cadence", 5.0)
	v.SetDefault("transit.polar_latitude", 60.0)
	v.SetDefault("transit.max_polar_days", 183)
	v.SetDefault("transit.rise_set_mode", ephemeris.CenterDiscNoRefraction.String())
	v.SetDefault("transit.day_cache_ttl", 30*time.Minute)

	v.SetDefault("ephemeris.serialize", false)
	v.SetDefault("ephemeris.search_span", 2.0)
	v.SetDefault("ephemeris.search_grid", 10.0)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c, err := Load("")
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads path (YAML or JSON, optional) and RISETRANS_* environment
// overrides on top of the defaults, then validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	conf.Path = path

	if err := Validate(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks the struct tags and the rules that span fields.
func Validate(c *Config) error {
	errs := &errors.M{}

	v := validate.Struct(c)
	if !v.Validate() {
		errs.Append(fmt.Errorf("invalid config: %s", v.Errors.String()))
	}

	if _, err := c.Transit.Mode(); err != nil {
		errs.Append(err)
	}
	if c.Cache.Enabled && c.Cache.Size <= 0 {
		errs.Append(errors.New("cache.size must be positive when the cache is enabled"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		errs.Append(errors.New("rate_limit needs a positive rps and burst"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs.Append(fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}
	return errs.Err()
}
