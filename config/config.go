package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"

	"stremjack/logging"
	"stremjack/utils"
)

// DefaultIgnoreTitles blacklists camera and telesync releases.
const DefaultIgnoreTitles = `\b(Telecine|CAMRip)\b|\b(?:HD-?)?T(?:ELE)?S(?:YNC)?\b|\b(?:HD-?)?CAM\b|\b(?:HQ-?)?CAM\b`

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Port        int
	MetricsPort int
	Name        string
	Debug       bool

	JackettURL    string
	JackettAPIKey string

	TMDBAPIKey string
	Languages  []string

	AdditionalYearSearch   bool
	AdditionalSeasonSearch bool

	MaximumSizeBytes int64
	MinimumSeeders   int
	MaximumCount     int

	RequestTimeout  time.Duration
	HostConcurrency int64

	IgnoreTitles *regexp.Regexp

	CacheEnabled    bool
	CacheTTL        time.Duration
	CacheMaxEntries int
	CacheBackend    string
	RedisHost       string
}

// Load reads the configuration from the environment, applying defaults and
// downgrading invalid cache settings to a disabled cache rather than failing.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 7000)
	v.SetDefault("METRICS_PORT", 8081)
	v.SetDefault("NAME", "Jackett (S/H)")
	v.SetDefault("DEBUG", false)
	v.SetDefault("JACKETT_URL", "http://127.0.0.1:9117")
	v.SetDefault("LANGUAGES", "en-US")
	v.SetDefault("ADDITIONAL_YEAR_SEARCH", false)
	v.SetDefault("ADDITIONAL_SEASON_SEARCH", false)
	v.SetDefault("MAXIMUM_SIZE", "10GB")
	v.SetDefault("MINIMUM_SEEDERS", 5)
	v.SetDefault("MAXIMUM_COUNT", 10)
	v.SetDefault("REQUEST_TIMEOUT", "8s")
	v.SetDefault("HOST_CONCURRENCY", 16)
	v.SetDefault("IGNORE_TITLES", DefaultIgnoreTitles)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_MAXIMUM_SIZE", 100)
	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("REDIS_HOST", "localhost")

	cfg := &Config{
		Port:                   v.GetInt("PORT"),
		MetricsPort:            v.GetInt("METRICS_PORT"),
		Name:                   v.GetString("NAME"),
		Debug:                  v.GetBool("DEBUG"),
		JackettURL:             strings.TrimRight(v.GetString("JACKETT_URL"), "/"),
		JackettAPIKey:          v.GetString("JACKETT_API_KEY"),
		TMDBAPIKey:             v.GetString("TMDB_API_KEY"),
		Languages:              splitCSV(v.GetString("LANGUAGES")),
		AdditionalYearSearch:   v.GetBool("ADDITIONAL_YEAR_SEARCH"),
		AdditionalSeasonSearch: v.GetBool("ADDITIONAL_SEASON_SEARCH"),
		MinimumSeeders:         v.GetInt("MINIMUM_SEEDERS"),
		MaximumCount:           v.GetInt("MAXIMUM_COUNT"),
		HostConcurrency:        v.GetInt64("HOST_CONCURRENCY"),
		CacheEnabled:           v.GetBool("CACHE_ENABLED"),
		CacheMaxEntries:        v.GetInt("CACHE_MAXIMUM_SIZE"),
		CacheBackend:           v.GetString("CACHE_BACKEND"),
		RedisHost:              v.GetString("REDIS_HOST"),
	}

	cfg.RequestTimeout = parseDuration(v.GetString("REQUEST_TIMEOUT"), 8*time.Second, "REQUEST_TIMEOUT")
	cfg.CacheTTL = parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute, "CACHE_TTL")

	size, err := utils.ParseSize(v.GetString("MAXIMUM_SIZE"))
	if err != nil {
		logging.Warn().Err(err).Msg("Invalid MAXIMUM_SIZE, falling back to 10GB")
		size = utils.DefaultMaxSize
	}
	cfg.MaximumSizeBytes = size

	pattern := v.GetString("IGNORE_TITLES")
	cfg.IgnoreTitles, err = regexp.Compile("(?i)" + pattern)
	if err != nil {
		logging.Warn().Err(err).Str("pattern", pattern).Msg("Invalid IGNORE_TITLES, using default blacklist")
		cfg.IgnoreTitles = regexp.MustCompile("(?i)" + DefaultIgnoreTitles)
	}

	if cfg.CacheEnabled && (cfg.CacheMaxEntries <= 0 || cfg.CacheTTL <= 0) {
		logging.Warn().Msg("CACHE_TTL and CACHE_MAXIMUM_SIZE should be greater than zero, disabling cache")
		cfg.CacheEnabled = false
	}

	if cfg.HostConcurrency <= 0 {
		cfg.HostConcurrency = 16
	}

	return cfg
}

func parseDuration(s string, fallback time.Duration, name string) time.Duration {
	d, err := str2duration.ParseDuration(s)
	if err != nil || d <= 0 {
		logging.Warn().Str("value", s).Msgf("Invalid %s, using %s", name, fallback)
		return fallback
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
