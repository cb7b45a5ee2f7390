package config

import (
	"errors"
	"fmt"

	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

var knownProviders = map[string]bool{
	"tiktok":          true,
	"streamlabspolly": true,
	"elevenlabs":      true,
	"awspolly":        true,
	"googletranslate": true,
}

var knownStyles = map[string]bool{"card": true, "hcti": true}

var knownThemes = map[string]bool{"dark": true, "light": true, "transparent": true}

func (c *Config) validate() error {
	if c.Thread.ID == "" {
		return confErr("thread.id", "a thread identifier is required")
	}
	if c.Thread.MaxReplies < 0 {
		return confErr("thread.max_replies", "must not be negative")
	}
	if !knownProviders[c.TTS.Provider] {
		return confErr("tts.provider", fmt.Sprintf("unknown provider %q", c.TTS.Provider))
	}
	if c.TTS.Voice == "" {
		return confErr("tts.voice", "a voice must be selected")
	}
	if !knownStyles[c.Render.Style] {
		return confErr("render.style", fmt.Sprintf("unknown style %q", c.Render.Style))
	}
	if !knownThemes[c.Render.Theme] {
		return confErr("render.theme", fmt.Sprintf("unknown theme %q", c.Render.Theme))
	}
	if c.Render.Width <= 0 {
		return confErr("render.width", "must be positive")
	}
	if c.Background.Video == "" {
		return confErr("background.video", "a background video is required")
	}
	if c.Background.AudioVolume < 0 || c.Background.AudioVolume > 1 {
		return confErr("background.audio_volume", "must be within [0, 1]")
	}
	if c.Background.DuckFactor < 0 || c.Background.DuckFactor > 1 {
		return confErr("background.duck_factor", "must be within [0, 1]")
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return confErr("output", "resolution must be positive")
	}
	if c.Output.FrameRate <= 0 {
		return confErr("output.framerate", "must be positive")
	}
	if c.Pipeline.PaddingMs < 0 || c.Pipeline.IntroOffsetMs < 0 || c.Pipeline.MaxDurationS < 0 {
		return confErr("pipeline", "durations must not be negative")
	}
	if c.Pipeline.OverlayOpacity <= 0 || c.Pipeline.OverlayOpacity > 1 {
		return confErr("pipeline.overlay_opacity", "must be within (0, 1]")
	}
	if c.Pipeline.RetryAttempts < 1 {
		return confErr("pipeline.retry_attempts", "at least one attempt is required")
	}
	if c.Pipeline.Workers < 1 {
		return confErr("pipeline.workers", "at least one worker is required")
	}
	if c.Pipeline.CacheDir == "" {
		return confErr("pipeline.cache_dir", "a cache directory is required")
	}
	if c.Output.Directory == "" {
		return confErr("output.directory", "an output directory is required")
	}

	switch c.TTS.Provider {
	case "tiktok":
		if c.Secrets.TikTokSessionID == "" {
			return confErr("TIKTOK_SESSION_ID", "the tiktok provider requires a session id in the environment")
		}
	case "elevenlabs":
		if c.Secrets.ElevenLabsAPIKey == "" {
			return confErr("ELEVENLABS_API_KEY", "the elevenlabs provider requires an API key in the environment")
		}
	}
	if c.Render.Style == "hcti" && (c.Secrets.HCTIUserID == "" || c.Secrets.HCTIAPIKey == "") {
		return confErr("HCTI_USER_ID/HCTI_API_KEY", "the hcti renderer requires credentials in the environment")
	}
	if c.Publish.Enabled && (c.Publish.Bucket == "" || c.Publish.Region == "") {
		return confErr("publish", "bucket and region are required when publishing is enabled")
	}
	return nil
}

func confErr(key, msg string) error {
	return &domain.ConfigurationError{Key: key, Err: errors.New(msg)}
}
