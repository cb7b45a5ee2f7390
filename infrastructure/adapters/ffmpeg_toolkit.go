package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

// backgroundMargin is the initial safety margin kept around the random
// background window; it halves until a window fits inside the clip.
const backgroundMargin = 180 * time.Second

type ffmpegToolkit struct {
	logger outbound.LoggerPort
	rng    *rand.Rand
}

func NewFFmpegToolkit(logger outbound.LoggerPort) outbound.MediaToolkitPort {
	return &ffmpegToolkit{
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (t *ffmpegToolkit) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration for %s: %w", path, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (t *ffmpegToolkit) PrepareBackground(ctx context.Context, req outbound.PrepareBackgroundRequest) (*outbound.PreparedBackground, error) {
	videoOut := filepath.Join(req.WorkDir, "background.mp4")
	if err := t.prepareVideo(ctx, req, videoOut); err != nil {
		return nil, err
	}

	prepared := &outbound.PreparedBackground{VideoPath: videoOut}
	if req.AudioPath != "" {
		audioOut := filepath.Join(req.WorkDir, "background.mp3")
		if err := t.prepareAudio(ctx, req, audioOut); err != nil {
			return nil, err
		}
		prepared.AudioPath = audioOut
	}
	return prepared, nil
}

func (t *ffmpegToolkit) prepareVideo(ctx context.Context, req outbound.PrepareBackgroundRequest, out string) error {
	clipLen, err := t.ProbeDuration(ctx, req.VideoPath)
	if err != nil {
		return err
	}

	crop := fmt.Sprintf("crop=ih*(%d/%d):ih", req.Width, req.Height)
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if clipLen <= req.Duration {
		// Clip shorter than the timeline: loop it instead of picking a window.
		args = append(args, "-stream_loop", "-1", "-i", req.VideoPath)
	} else {
		start, pickErr := pickWindow(clipLen, req.Duration, t.rng)
		if pickErr != nil {
			return pickErr
		}
		args = append(args, "-ss", formatSeconds(start), "-i", req.VideoPath)
	}
	args = append(args,
		"-t", formatSeconds(req.Duration),
		"-vf", crop,
		"-an",
		"-c:v", "libx264", "-preset", "veryfast", "-b:v", "20M",
		out)
	return t.run(ctx, args)
}

func (t *ffmpegToolkit) prepareAudio(ctx context.Context, req outbound.PrepareBackgroundRequest, out string) error {
	clipLen, err := t.ProbeDuration(ctx, req.AudioPath)
	if err != nil {
		return err
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if clipLen <= req.Duration {
		args = append(args, "-stream_loop", "-1", "-i", req.AudioPath)
	} else {
		start, pickErr := pickWindow(clipLen, req.Duration, t.rng)
		if pickErr != nil {
			return pickErr
		}
		args = append(args, "-ss", formatSeconds(start), "-i", req.AudioPath)
	}
	args = append(args, "-t", formatSeconds(req.Duration), "-vn", "-c:a", "libmp3lame", out)
	return t.run(ctx, args)
}

func (t *ffmpegToolkit) Render(ctx context.Context, job domain.RenderJob, bg *outbound.PreparedBackground, outPath string) error {
	args, err := buildRenderArgs(job, bg, outPath)
	if err != nil {
		return err
	}
	return t.run(ctx, args)
}

func (t *ffmpegToolkit) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	t.logger.DebugWithFields("running ffmpeg", map[string]interface{}{"args": strings.Join(args, " ")})
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 1024 {
			msg = msg[len(msg)-1024:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, msg)
	}
	return nil
}

// pickWindow chooses a random start offset so that [start, start+need)
// stays inside a clip of length clipLen, keeping a safety margin that is
// halved until a window fits.
func pickWindow(clipLen, need time.Duration, rng *rand.Rand) (time.Duration, error) {
	margin := backgroundMargin
	for clipLen <= need+margin {
		if margin < time.Second {
			return 0, errors.New("background clip is too short for this video length")
		}
		margin /= 2
	}
	span := clipLen - need - margin
	start := margin
	if span > 0 {
		start += time.Duration(rng.Int63n(int64(span)))
	}
	return start, nil
}

// buildRenderArgs assembles the full ffmpeg invocation for one job: the
// prepared background as the base track, one timed overlay per timeline
// entry, narration clips delayed to their start offsets, and background
// audio ducked while narration plays.
func buildRenderArgs(job domain.RenderJob, bg *outbound.PreparedBackground, outPath string) ([]string, error) {
	entries := visibleEntries(job.Timeline)
	if len(entries) == 0 {
		return nil, errors.New("timeline has no entries with a positive duration")
	}

	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", bg.VideoPath}
	for _, e := range entries {
		args = append(args, "-i", e.Image.Path)
	}
	for _, e := range entries {
		args = append(args, "-i", e.Audio.Path)
	}
	bgAudioIdx := -1
	if bg.AudioPath != "" && job.BackgroundVolume > 0 {
		bgAudioIdx = 1 + 2*len(entries)
		args = append(args, "-i", bg.AudioPath)
	}

	var graph []string
	overlayWidth := job.Width * 45 / 100

	// Video chain: scale each card, then overlay it centered during its
	// timeline interval.
	prev := "[0:v]"
	for i, e := range entries {
		filters := fmt.Sprintf("scale=%d:-1", overlayWidth)
		if i > 0 && job.OverlayOpacity < 1 {
			filters += fmt.Sprintf(",colorchannelmixer=aa=%s", formatFloat(job.OverlayOpacity))
		}
		graph = append(graph, fmt.Sprintf("[%d:v]%s[img%d]", 1+i, filters, i))

		label := fmt.Sprintf("[v%d]", i)
		graph = append(graph, fmt.Sprintf(
			"%s[img%d]overlay=(main_w-overlay_w)/2:(main_h-overlay_h)/2:enable='between(t,%s,%s)'%s",
			prev, i, formatSeconds(e.Start), formatSeconds(e.End), label))
		prev = label
	}
	graph = append(graph, fmt.Sprintf("%sscale=%d:%d,fps=%d[vout]", prev, job.Width, job.Height, job.FrameRate))

	// Audio chain: delay each narration clip to its start offset.
	var audioLabels []string
	for i, e := range entries {
		delayMs := e.Start.Milliseconds()
		label := fmt.Sprintf("[na%d]", i)
		graph = append(graph, fmt.Sprintf("[%d:a]adelay=%d|%d%s", 1+len(entries)+i, delayMs, delayMs, label))
		audioLabels = append(audioLabels, label)
	}
	if bgAudioIdx >= 0 {
		var intervals []string
		for _, e := range entries {
			intervals = append(intervals, fmt.Sprintf("between(t,%s,%s)", formatSeconds(e.Start), formatSeconds(e.End)))
		}
		ducked := job.BackgroundVolume * job.DuckFactor
		graph = append(graph, fmt.Sprintf("[%d:a]volume='if(%s,%s,%s)':eval=frame[abg]",
			bgAudioIdx, strings.Join(intervals, "+"), formatFloat(ducked), formatFloat(job.BackgroundVolume)))
		audioLabels = append(audioLabels, "[abg]")
	}

	if len(audioLabels) == 1 {
		graph = append(graph, fmt.Sprintf("%sanull[aout]", audioLabels[0]))
	} else {
		graph = append(graph, fmt.Sprintf("%samix=inputs=%d:duration=longest:normalize=0[aout]",
			strings.Join(audioLabels, ""), len(audioLabels)))
	}

	args = append(args,
		"-filter_complex", strings.Join(graph, ";"),
		"-map", "[vout]", "-map", "[aout]",
		"-c:v", "libx264", "-preset", "medium", "-b:v", "20M", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", "192k",
		"-t", formatSeconds(job.Timeline.Duration),
		outPath)
	return args, nil
}

// visibleEntries drops zero-width intervals: they stay on the Timeline for
// ordinal traceability but have nothing to show or play.
func visibleEntries(tl domain.Timeline) []domain.TimelineEntry {
	entries := make([]domain.TimelineEntry, 0, len(tl.Entries))
	for _, e := range tl.Entries {
		if e.End > e.Start {
			entries = append(entries, e)
		}
	}
	return entries
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
