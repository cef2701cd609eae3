// Package encode assembles captured frames into MP4 clips with ffmpeg.
package encode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const framePattern = "frame_%06d.png"

// Options configures the x264 encoder.
type Options struct {
	FPS     int
	Preset  string
	CRF     int
	Workers int
}

// Encoder runs ffmpeg inside a private work directory.
type Encoder struct {
	opts    Options
	workDir string
	logger  *zap.Logger
}

// New creates an Encoder whose scratch files live under a fresh directory
// inside baseDir.
func New(baseDir string, opts Options, logger *zap.Logger) (*Encoder, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid fps %d", opts.FPS)
	}
	if opts.Preset == "" {
		opts.Preset = "medium"
	}
	if opts.CRF <= 0 {
		opts.CRF = 20
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	workDir := filepath.Join(baseDir, "demoreel-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	return &Encoder{opts: opts, workDir: workDir, logger: logger.Named("encode")}, nil
}

// WorkDir is the scratch directory for this run.
func (e *Encoder) WorkDir() string { return e.workDir }

// Cleanup removes the work directory.
func (e *Encoder) Cleanup() error {
	return os.RemoveAll(e.workDir)
}

// WriteFrames writes frames as a numbered PNG sequence into dir and returns
// the ffmpeg input pattern.
func (e *Encoder) WriteFrames(ctx context.Context, frames []image.Image, dir string) (string, error) {
	if len(frames) == 0 {
		return "", errors.New("no frames to write")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, frame := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writePNG(filepath.Join(dir, fmt.Sprintf(framePattern, i)), frame)
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to write frames: %w", err)
	}
	return filepath.Join(dir, framePattern), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Clip is one segment of the final video.
type Clip struct {
	Frames []image.Image
	// Audio is an optional narration file muxed into the clip.
	Audio string
	// AudioSec is the narration length. When it exceeds the frames, the last
	// frame is held until the narration ends.
	AudioSec float64
}

// EncodeClip writes c as an MP4 at out.
func (e *Encoder) EncodeClip(ctx context.Context, name string, c Clip, out string) error {
	pattern, err := e.WriteFrames(ctx, c.Frames, filepath.Join(e.workDir, name))
	if err != nil {
		return err
	}
	videoSec := float64(len(c.Frames)) / float64(e.opts.FPS)
	stream := e.clipStream(pattern, c.Audio, padSeconds(videoSec, c.AudioSec), out)

	e.logger.Debug("Encoding clip",
		zap.String("clip", name),
		zap.Int("frames", len(c.Frames)),
		zap.Bool("audio", c.Audio != ""),
	)
	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("ffmpeg clip %s: %w", name, err)
	}
	return nil
}

func (e *Encoder) clipStream(pattern, audio string, pad float64, out string) *ffmpeg.Stream {
	video := ffmpeg.Input(pattern, ffmpeg.KwArgs{"framerate": strconv.Itoa(e.opts.FPS)})

	args := ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"preset":  e.opts.Preset,
		"crf":     strconv.Itoa(e.opts.CRF),
		"r":       strconv.Itoa(e.opts.FPS),
	}
	if pad > 0 {
		args["vf"] = fmt.Sprintf("tpad=stop_mode=clone:stop_duration=%.3f", pad)
	}
	if audio == "" {
		return video.Output(out, args).OverWriteOutput()
	}

	args["c:a"] = "aac"
	args["b:a"] = "192k"
	return ffmpeg.Output([]*ffmpeg.Stream{video, ffmpeg.Input(audio)}, out, args).OverWriteOutput()
}

// padSeconds is how long the last frame must be held so the video covers
// the narration.
func padSeconds(videoSec, audioSec float64) float64 {
	return max(0, audioSec-videoSec)
}

// Concat joins clips encoded with identical settings into out.
func (e *Encoder) Concat(ctx context.Context, clips []string, out string) error {
	if len(clips) == 0 {
		return errors.New("no clips to concatenate")
	}
	if len(clips) == 1 {
		return copyFile(clips[0], out)
	}

	listPath := filepath.Join(e.workDir, "clips.txt")
	list, err := concatList(clips)
	if err != nil {
		return err
	}
	if err := os.WriteFile(listPath, []byte(list), 0o644); err != nil {
		return err
	}

	stream := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(out, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput()
	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}

func concatList(clips []string) (string, error) {
	var b strings.Builder
	for _, c := range clips {
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return b.String(), nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

// ProbeDuration returns the container duration of a media file in seconds.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeDuration(out)
}

func parseProbeDuration(probe string) (float64, error) {
	var info struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probe), &info); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if info.Format.Duration == "" {
		return 0, errors.New("ffprobe reported no duration")
	}
	d, err := strconv.ParseFloat(info.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", info.Format.Duration, err)
	}
	return d, nil
}

// run executes the compiled ffmpeg command and kills it when ctx is done.
func run(ctx context.Context, s *ffmpeg.Stream) error {
	var stderr strings.Builder
	cmd := s.Compile()
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %s", err, lastLines(stderr.String(), 5))
		}
		return nil
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
