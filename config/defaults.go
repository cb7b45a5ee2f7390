package config

func defaults() *Config {
	return &Config{
		Thread: Thread{
			IncludeBody:    true,
			MaxReplies:     20,
			MinReplyLength: 1,
			MaxReplyLength: 500,
			APIBaseURL:     "https://www.reddit.com",
		},
		TTS: TTS{
			Provider:        "tiktok",
			Voice:           "en_us_001",
			ElevenAPIURL:    "https://api.elevenlabs.io/v1/text-to-speech",
			ElevenModel:     "eleven_monolingual_v1",
			ElevenStability: 0.5,
			ElevenBoost:     0.75,
			PollyRegion:     "us-east-1",
			GTTSLanguage:    "en",
		},
		Render: Render{
			Style:      "card",
			Theme:      "dark",
			Width:      720,
			MaxLines:   22,
			HCTIAPIURL: "https://hcti.io/v1/image",
		},
		Background: Background{
			Video:       "minecraft",
			Audio:       "",
			AudioVolume: 0.15,
			DuckFactor:  0.4,
		},
		Output: Output{
			Directory: "results",
			Width:     1080,
			Height:    1920,
			FrameRate: 30,
		},
		Pipeline: Pipeline{
			PaddingMs:        500,
			IntroOffsetMs:    0,
			MaxDurationS:     0,
			Strict:           false,
			RetryAttempts:    3,
			RetryBaseDelayMs: 500,
			Workers:          4,
			CacheDir:         "assets/cache",
			AssetsDir:        "assets",
			OverlayOpacity:   0.9,
			LogLevel:         "info",
		},
		Publish: Publish{Enabled: false},
	}
}
