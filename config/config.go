package config

import (
	_ "embed"
	"os"
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Thread selects the content to narrate.
type Thread struct {
	ID             string `toml:"id"`
	IncludeBody    bool   `toml:"include_body"`
	MaxReplies     int    `toml:"max_replies"`
	MinReplyLength int    `toml:"min_reply_length"`
	MaxReplyLength int    `toml:"max_reply_length"`
	APIBaseURL     string `toml:"api_base_url"`
}

// TTS selects the narration provider and voice. Provider secrets (API keys,
// session cookies) come from the environment, never from this file.
type TTS struct {
	Provider        string  `toml:"provider"`
	Voice           string  `toml:"voice"`
	ElevenAPIURL    string  `toml:"eleven_api_url"`
	ElevenModel     string  `toml:"eleven_model"`
	ElevenStability float64 `toml:"eleven_stability"`
	ElevenBoost     float64 `toml:"eleven_similarity_boost"`
	PollyRegion     string  `toml:"polly_region"`
	GTTSLanguage    string  `toml:"gtts_language"`
}

// Render selects the visual style for segment cards.
type Render struct {
	Style      string `toml:"style"`
	Theme      string `toml:"theme"`
	Width      int    `toml:"width"`
	MaxLines   int    `toml:"max_lines"`
	HCTIAPIURL string `toml:"hcti_api_url"`
}

// Background names the footage and music behind the narration.
type Background struct {
	Video       string  `toml:"video"`
	Audio       string  `toml:"audio"`
	AudioVolume float64 `toml:"audio_volume"`
	DuckFactor  float64 `toml:"duck_factor"`
}

// Output controls the encoded artifact.
type Output struct {
	Directory string `toml:"directory"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	FrameRate int    `toml:"framerate"`
}

// Pipeline tunes timing, retries and concurrency.
type Pipeline struct {
	PaddingMs        int     `toml:"padding_ms"`
	IntroOffsetMs    int     `toml:"intro_offset_ms"`
	MaxDurationS     int     `toml:"max_duration_s"`
	Strict           bool    `toml:"strict"`
	RetryAttempts    int     `toml:"retry_attempts"`
	RetryBaseDelayMs int     `toml:"retry_base_delay_ms"`
	Workers          int     `toml:"workers"`
	CacheDir         string  `toml:"cache_dir"`
	AssetsDir        string  `toml:"assets_dir"`
	OverlayOpacity   float64 `toml:"overlay_opacity"`
	LogLevel         string  `toml:"log_level"`
}

// Publish optionally uploads the finished video to S3.
type Publish struct {
	Enabled bool   `toml:"enabled"`
	Bucket  string `toml:"bucket"`
	Region  string `toml:"region"`
}

// Secrets are read from the environment at load time so that no component
// touches ambient state after startup.
type Secrets struct {
	ElevenLabsAPIKey string
	TikTokSessionID  string
	HCTIUserID       string
	HCTIAPIKey       string
}

// Config is the immutable configuration for one run. It is constructed once
// by Load, validated, and passed by reference into every constructor.
type Config struct {
	Thread     Thread     `toml:"thread"`
	TTS        TTS        `toml:"tts"`
	Render     Render     `toml:"render"`
	Background Background `toml:"background"`
	Output     Output     `toml:"output"`
	Pipeline   Pipeline   `toml:"pipeline"`
	Publish    Publish    `toml:"publish"`
	Secrets    Secrets    `toml:"-"`
}

// Option adjusts the configuration after the file is parsed but before
// validation, so command-line overrides go through the same checks.
type Option func(*Config)

// WithThreadID overrides the thread selected in the settings file.
func WithThreadID(id string) Option {
	return func(c *Config) { c.Thread.ID = id }
}

// Load reads the TOML settings file, applies defaults, pulls secrets from
// the environment, applies overrides and validates the result. Any problem
// is reported as a domain.ConfigurationError before pipeline execution
// begins.
func Load(path string, opts ...Option) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigurationError{Key: path, Err: err}
	}

	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, &domain.ConfigurationError{Key: path, Err: err}
	}

	cfg.Secrets = Secrets{
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		TikTokSessionID:  os.Getenv("TIKTOK_SESSION_ID"),
		HCTIUserID:       os.Getenv("HCTI_USER_ID"),
		HCTIAPIKey:       os.Getenv("HCTI_API_KEY"),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Sample returns the embedded annotated sample configuration.
func Sample() string { return sampleConfig }

func (c *Config) Padding() time.Duration {
	return time.Duration(c.Pipeline.PaddingMs) * time.Millisecond
}

func (c *Config) IntroOffset() time.Duration {
	return time.Duration(c.Pipeline.IntroOffsetMs) * time.Millisecond
}

// MaxDuration returns the output length cap, or zero when uncapped.
func (c *Config) MaxDuration() time.Duration {
	return time.Duration(c.Pipeline.MaxDurationS) * time.Second
}

func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.Pipeline.RetryBaseDelayMs) * time.Millisecond
}
