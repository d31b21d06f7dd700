package config

import "time"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text|json
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MastodonConfig identifies the destination account.
type MastodonConfig struct {
	AppName  string `mapstructure:"app_name"`
	Instance string `mapstructure:"instance"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Timeout  string `mapstructure:"timeout"` // duration string, e.g., "30s"
}

// ArchiveConfig locates files inside an unpacked export.
type ArchiveConfig struct {
	TweetsFile string `mapstructure:"tweets_file"`
	MediaDir   string `mapstructure:"media_dir"`
}

// LinksConfig controls shortened-link resolution.
type LinksConfig struct {
	Timeout     string   `mapstructure:"timeout"`
	UserAgent   string   `mapstructure:"user_agent"`
	SelfDomains []string `mapstructure:"self_domains"`
	Cache       bool     `mapstructure:"cache"`     // cache resolutions in redis
	CacheTTL    string   `mapstructure:"cache_ttl"` // e.g., "720h"
}

// RateConfig paces calls against the remote instance.
type RateConfig struct {
	BatchSize int    `mapstructure:"batch_size"`
	Cooldown  string `mapstructure:"cooldown"`   // e.g., "40m"
	PostDelay string `mapstructure:"post_delay"` // pause after each status
}

// MediaConfig controls attachment handling before upload.
type MediaConfig struct {
	MaxImageBytes int64  `mapstructure:"max_image_bytes"` // 0 disables re-encoding
	WebPQuality   int    `mapstructure:"webp_quality"`
	MaxDimension  int    `mapstructure:"max_dimension"` // longest side after re-encoding, 0 keeps size
	Describe      bool   `mapstructure:"describe"`      // generate alt text with OpenAI
	Language      string `mapstructure:"language"`
}

// OpenAIConfig configures the alt-text describer.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// UploadConfig holds defaults for the upload command.
type UploadConfig struct {
	Privacy         string `mapstructure:"privacy"`
	DateStamp       bool   `mapstructure:"date_stamp"`
	DateStampLayout string `mapstructure:"date_stamp_layout"` // Go time layout
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mastodon MastodonConfig `mapstructure:"mastodon"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Links    LinksConfig    `mapstructure:"links"`
	Rate     RateConfig     `mapstructure:"rate"`
	Media    MediaConfig    `mapstructure:"media"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Upload   UploadConfig   `mapstructure:"upload"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Mastodon.AppName == "" {
		c.Mastodon.AppName = "tweet-to-toot"
	}
	if c.Mastodon.Timeout == "" {
		c.Mastodon.Timeout = "60s"
	}
	if c.Archive.TweetsFile == "" {
		c.Archive.TweetsFile = "data/tweets.js"
	}
	if c.Archive.MediaDir == "" {
		c.Archive.MediaDir = "data/tweets_media"
	}
	if c.Links.Timeout == "" {
		c.Links.Timeout = "10s"
	}
	if len(c.Links.SelfDomains) == 0 {
		c.Links.SelfDomains = []string{"x.com", "twitter.com", "t.co"}
	}
	if c.Links.CacheTTL == "" {
		c.Links.CacheTTL = "720h"
	}
	if c.Rate.BatchSize == 0 {
		c.Rate.BatchSize = 30
	}
	if c.Rate.Cooldown == "" {
		c.Rate.Cooldown = "40m"
	}
	if c.Rate.PostDelay == "" {
		c.Rate.PostDelay = "1s"
	}
	if c.Media.WebPQuality == 0 {
		c.Media.WebPQuality = 85
	}
	if c.Media.MaxDimension == 0 {
		c.Media.MaxDimension = 4096
	}
	if c.Upload.Privacy == "" {
		c.Upload.Privacy = "public"
	}
	if c.Upload.DateStampLayout == "" {
		c.Upload.DateStampLayout = "2006-01-02"
	}
}

// Durations holds the parsed duration strings of a Config.
type Durations struct {
	MastodonTimeout time.Duration
	LinkTimeout     time.Duration
	LinkCacheTTL    time.Duration
	Cooldown        time.Duration
	PostDelay       time.Duration
}

// ParseDurations validates and parses every duration string in the config.
func (c *Config) ParseDurations() (Durations, error) {
	var d Durations
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"mastodon.timeout", c.Mastodon.Timeout, &d.MastodonTimeout},
		{"links.timeout", c.Links.Timeout, &d.LinkTimeout},
		{"links.cache_ttl", c.Links.CacheTTL, &d.LinkCacheTTL},
		{"rate.cooldown", c.Rate.Cooldown, &d.Cooldown},
		{"rate.post_delay", c.Rate.PostDelay, &d.PostDelay},
	}
	for _, f := range fields {
		v, err := time.ParseDuration(f.raw)
		if err != nil {
			return Durations{}, &DurationError{Key: f.name, Err: err}
		}
		*f.dst = v
	}
	return d, nil
}

// DurationError reports an unparsable duration setting.
type DurationError struct {
	Key string
	Err error
}

func (e *DurationError) Error() string { return "invalid " + e.Key + ": " + e.Err.Error() }

func (e *DurationError) Unwrap() error { return e.Err }
