package transcode

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var timeRegex = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}\.\d+)`)

// extractTime pulls the current timestamp out of one line of ffmpeg stderr
// output, or returns "" when the line carries none.
func extractTime(line string) string {
	match := timeRegex.FindStringSubmatch(line)
	if len(match) > 1 {
		return match[1]
	}
	return ""
}

// timeToSeconds converts an ffmpeg "HH:MM:SS.ss" timestamp to seconds.
func timeToSeconds(timeStr string) (float64, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time format: %s", timeStr)
	}
	h, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, err
	}
	m, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	return h*3600 + m*60 + s, nil
}

// probeDuration asks ffprobe for the source duration in seconds. The
// duration anchors percentage math for every variant of the job.
func probeDuration(ctx context.Context, inputPath string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	}

	out, err := exec.CommandContext(ctx, "ffprobe", args...).Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	durationStr := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", durationStr, err)
	}
	return duration, nil
}

// scanStatsLines splits on carriage returns as well as newlines. ffmpeg
// terminates its periodic stats lines with \r so they overwrite in place on
// a terminal; a newline-only scanner would sit on them until the encode
// ends.
func scanStatsLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// monitorProgress reads ffmpeg stderr line by line and reports the current
// percentage for every timestamp it sees. It drains the pipe even when the
// caller stops caring, so the subprocess never blocks on a full pipe.
func monitorProgress(stderr io.Reader, totalDuration float64, report func(percent float64)) {
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanStatsLines)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "time=") {
			continue
		}
		timeStr := extractTime(line)
		if timeStr == "" || totalDuration <= 0 {
			continue
		}
		currentSec, err := timeToSeconds(timeStr)
		if err != nil {
			continue
		}
		report(currentSec / totalDuration * 100)
	}
}

// throttled wraps a progress reporter so it only fires when the percentage
// crosses a new 20% boundary relative to the last reported value. This
// bounds the write volume against the progress record to at most five
// writes per phase per task.
func throttled(report func(percent float64)) func(percent float64) {
	var last float64
	return func(percent float64) {
		if math.Floor(percent/20) > math.Floor(last/20) {
			report(percent)
			last = percent
		}
	}
}

func ffmpegArgs(inputPath, outputPath string, v Variant) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-s", v.Size,
		"-c:v", v.Codec,
		outputPath,
	}
}

// runFFmpeg transcodes one variant, streaming progress percentages to
// report as the encode advances.
func runFFmpeg(ctx context.Context, inputPath, outputPath string, v Variant, duration float64, report func(percent float64)) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs(inputPath, outputPath, v)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg for %s: %w", v.Task, err)
	}

	monitorProgress(stderr, duration, report)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed for %s: %w", v.Task, err)
	}
	return nil
}
