package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// catalogEntry is a well-known downloadable background track.
type catalogEntry struct {
	url      string
	filename string
}

var videoCatalog = map[string]catalogEntry{
	"minecraft":       {"https://www.youtube.com/watch?v=n_Dv4JMiwK8", "minecraft-parkour.mp4"},
	"gta":             {"https://www.youtube.com/watch?v=qGa9kWREOnE", "gta-ramp.mp4"},
	"rocket-league":   {"https://www.youtube.com/watch?v=2X9QGY__0II", "rocket-league.mp4"},
	"motor-gta":       {"https://www.youtube.com/watch?v=vw5L4xCPy9Q", "motor-gta.mp4"},
	"csgo-surf":       {"https://www.youtube.com/watch?v=E-8JlyO59Io", "csgo-surf.mp4"},
	"cluster-truck":   {"https://www.youtube.com/watch?v=uVKxtdMgJVU", "cluster-truck.mp4"},
	"minecraft-2":     {"https://www.youtube.com/watch?v=Pt5_GSKIWQM", "minecraft-2.mp4"},
	"multiversus":     {"https://www.youtube.com/watch?v=TDDhjJlQGeg", "multiversus.mp4"},
	"fall-guys":       {"https://www.youtube.com/watch?v=vAZIhYbKqUE", "fall-guys.mp4"},
	"steep":           {"https://www.youtube.com/watch?v=z6cyDf8I0t4", "steep.mp4"},
}

var audioCatalog = map[string]catalogEntry{
	"lofi":     {"https://www.youtube.com/watch?v=zPLBTO1fjfc", "lofi.mp3"},
	"lofi-2":   {"https://www.youtube.com/watch?v=3OsnYbMIIDg", "lofi-2.mp3"},
	"chill":    {"https://www.youtube.com/watch?v=PXoOlVCmmLk", "chill.mp3"},
}

type backgroundManager struct {
	logger     outbound.LoggerPort
	video      string
	audio      string
	assetsDir  string
	downloader string
}

// NewBackgroundManager resolves the configured video and audio background
// names. A value that is an existing file path is used as-is; a catalog name
// is downloaded once into <assetsDir>/backgrounds via yt-dlp.
func NewBackgroundManager(logger outbound.LoggerPort, video, audio, assetsDir string) outbound.BackgroundProviderPort {
	return &backgroundManager{
		logger:     logger,
		video:      video,
		audio:      audio,
		assetsDir:  assetsDir,
		downloader: "yt-dlp",
	}
}

func (m *backgroundManager) Ensure(ctx context.Context) (*outbound.BackgroundTracks, error) {
	videoPath, err := m.resolve(ctx, m.video, videoCatalog, "bestvideo[height<=1080][ext=mp4]")
	if err != nil {
		return nil, err
	}

	tracks := &outbound.BackgroundTracks{VideoPath: videoPath}
	if m.audio != "" {
		audioPath, err := m.resolve(ctx, m.audio, audioCatalog, "bestaudio[ext=m4a]/bestaudio")
		if err != nil {
			return nil, err
		}
		tracks.AudioPath = audioPath
	}
	return tracks, nil
}

func (m *backgroundManager) resolve(ctx context.Context, name string, catalog map[string]catalogEntry, format string) (string, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return name, nil
	}

	entry, ok := catalog[name]
	if !ok {
		return "", &domain.ConfigurationError{
			Key: "background",
			Err: fmt.Errorf("%q is neither an existing file nor a known background name", name),
		}
	}

	dir := filepath.Join(m.assetsDir, "backgrounds")
	target := filepath.Join(dir, entry.filename)
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backgrounds dir: %w", err)
	}

	m.logger.InfoWithFields("downloading background", map[string]interface{}{
		"name": name,
		"url":  entry.url,
	})
	if err := m.download(ctx, entry.url, format, target); err != nil {
		return "", err
	}
	return target, nil
}

func (m *backgroundManager) download(ctx context.Context, url, format, target string) error {
	// Download to a partial name so an interrupted run never leaves a
	// half-written file that a later Stat would mistake for a cached track.
	partial := target + ".part"
	cmd := exec.CommandContext(ctx, m.downloader,
		"--quiet",
		"--no-playlist",
		"-f", format,
		"-o", partial,
		url)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(partial)
		return fmt.Errorf("%s %s: %w: %s", m.downloader, url, err, strings.TrimSpace(stderr.String()))
	}
	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return fmt.Errorf("move downloaded background: %w", err)
	}
	return nil
}
