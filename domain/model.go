package domain

import (
	"fmt"
	"time"
)

// SegmentKind tells the renderer and narrator what part of the thread a
// segment came from.
type SegmentKind string

const (
	PostTitleSegment SegmentKind = "title"
	PostBodySegment  SegmentKind = "body"
	ReplySegment     SegmentKind = "reply"
)

// Segment is one narratable unit of content: the post title, the post body,
// or a single reply. Segments are produced by the thread fetcher and are
// read-only for the rest of the pipeline.
type Segment struct {
	ID       string
	ThreadID string
	Kind     SegmentKind
	Author   string
	Text     string
	Ordinal  int
	Depth    int
}

func NewSegment(threadID string, kind SegmentKind, author string, text string, ordinal int) Segment {
	return Segment{
		ID:       fmt.Sprintf("%s-%s-%d", threadID, kind, ordinal),
		ThreadID: threadID,
		Kind:     kind,
		Author:   author,
		Text:     text,
		Ordinal:  ordinal,
	}
}

// AudioArtifact is the synthesized narration for one segment. Duration is
// probed from the stored audio, never estimated from text length.
type AudioArtifact struct {
	Path     string
	Duration time.Duration
}

// ImageArtifact is the rendered visual for one segment. Truncated is set
// when the renderer had to cut the text to fit the canvas.
type ImageArtifact struct {
	Path      string
	Width     int
	Height    int
	Truncated bool
}

// SegmentMedia pairs a segment with both of its resolved artifacts. It is
// the unit the timeline builder consumes.
type SegmentMedia struct {
	Segment
	Audio AudioArtifact
	Image ImageArtifact
}

// TimelineEntry is a segment scheduled on the output timeline. The interval
// is half-open: the overlay and narration are active during [Start, End).
type TimelineEntry struct {
	SegmentMedia
	Start time.Duration
	End   time.Duration
}

// Timeline is the ordered, non-overlapping schedule for a run. Duration is
// the last entry's End. Dropped counts trailing entries removed to satisfy
// the maximum output duration.
type Timeline struct {
	Entries  []TimelineEntry
	Duration time.Duration
	Dropped  int
}

// RenderJob carries everything the composer needs for one output file. It
// is consumed exactly once and not persisted beyond the run.
type RenderJob struct {
	RunID            string
	ThreadID         string
	BackgroundVideo  string
	BackgroundAudio  string
	BackgroundVolume float64
	DuckFactor       float64
	OverlayOpacity   float64
	Timeline         Timeline
	WorkDir          string
	OutputPath       string
	Width            int
	Height           int
	FrameRate        int
}

// SegmentFailure records a per-segment synthesis or render failure for the
// post-run summary.
type SegmentFailure struct {
	Ordinal int
	Stage   string
	Err     error
}

// RunResult is the terminal outcome of one pipeline run.
type RunResult struct {
	RunID        string
	ThreadID     string
	OutputPath   string
	PublishedKey string
	Failures     []SegmentFailure
	DroppedByCap int
}
