package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/inbound"
	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
	"github.com/kennydd0/RedditVideoMakerBot/domain"
)

type composer struct {
	logger  outbound.LoggerPort
	toolkit outbound.MediaToolkitPort
}

func NewComposer(logger outbound.LoggerPort, toolkit outbound.MediaToolkitPort) inbound.ComposerPort {
	return &composer{logger: logger, toolkit: toolkit}
}

// Compose prepares the background, renders the composed tracks into a
// temporary file and moves it to the job's output path only on success.
// A failed run never leaves a file at the output path.
func (c *composer) Compose(ctx context.Context, job domain.RenderJob) (string, error) {
	if len(job.Timeline.Entries) == 0 {
		return "", &domain.CompositionError{Err: errors.New("timeline is empty")}
	}
	if job.BackgroundVideo == "" {
		return "", &domain.CompositionError{Err: errors.New("background video is missing")}
	}
	if _, err := os.Stat(job.BackgroundVideo); err != nil {
		return "", &domain.CompositionError{Err: fmt.Errorf("background video: %w", err)}
	}

	bg, err := c.toolkit.PrepareBackground(ctx, outbound.PrepareBackgroundRequest{
		VideoPath: job.BackgroundVideo,
		AudioPath: job.BackgroundAudio,
		Duration:  job.Timeline.Duration,
		Width:     job.Width,
		Height:    job.Height,
		WorkDir:   job.WorkDir,
	})
	if err != nil {
		return "", &domain.CompositionError{Err: fmt.Errorf("prepare background: %w", err)}
	}

	tmpOut := filepath.Join(job.WorkDir, "render-"+uuid.NewString()+".mp4")
	if err := c.toolkit.Render(ctx, job, bg, tmpOut); err != nil {
		if rmErr := os.Remove(tmpOut); rmErr != nil && !os.IsNotExist(rmErr) {
			c.logger.Error(rmErr, "failed to remove partial render output")
		}
		return "", &domain.CompositionError{Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		_ = os.Remove(tmpOut)
		return "", &domain.CompositionError{Err: err}
	}
	if err := moveFile(tmpOut, job.OutputPath); err != nil {
		_ = os.Remove(tmpOut)
		_ = os.Remove(job.OutputPath)
		return "", &domain.CompositionError{Err: fmt.Errorf("move output into place: %w", err)}
	}

	c.logger.InfoWithFields("video composed", map[string]interface{}{
		"output":   job.OutputPath,
		"duration": job.Timeline.Duration.String(),
		"segments": len(job.Timeline.Entries),
	})
	return job.OutputPath, nil
}

// moveFile renames src to dst, falling back to a copy when the rename
// crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
