package transcode

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"snowhub/blobstore"
	"snowhub/logger"
	"snowhub/models"
	"snowhub/progress"
	"snowhub/recordstore"

	"golang.org/x/sync/errgroup"
)

// Pipeline turns one raw upload into the four renditions of the fixed
// matrix. Per job: download the source, fan out the transcodes, fan out the
// uploads, finalize the metadata record, delete the source, and always
// release the local scratch files.
type Pipeline struct {
	blobs         blobstore.Store
	records       recordstore.Store
	tracker       *progress.Tracker
	metadataTable string
	workDir       string

	// Subprocess seams, replaceable in tests.
	probe func(ctx context.Context, inputPath string) (float64, error)
	run   func(ctx context.Context, inputPath, outputPath string, v Variant, duration float64, report func(float64)) error
}

func NewPipeline(blobs blobstore.Store, records recordstore.Store, tracker *progress.Tracker, metadataTable, workDir string) *Pipeline {
	return &Pipeline{
		blobs:         blobs,
		records:       records,
		tracker:       tracker,
		metadataTable: metadataTable,
		workDir:       workDir,
		probe:         probeDuration,
		run:           runFFmpeg,
	}
}

// Process runs the whole pipeline for one job. Any returned error fails the
// job as a unit; a retried job redoes every variant from scratch.
func (p *Pipeline) Process(ctx context.Context, job models.Job) error {
	inputPath := filepath.Join(p.workDir, job.VideoID+"-input.mp4")
	outputDir := filepath.Join(p.workDir, "transcoded", job.VideoID)

	// Scratch files are released on every exit path, including failures in
	// the finalize and source-delete steps.
	defer func() {
		if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
			logger.Errorf("Failed to remove temp input %s: %v", inputPath, err)
		}
		if err := os.RemoveAll(outputDir); err != nil {
			logger.Errorf("Failed to remove output dir %s: %v", outputDir, err)
		}
	}()

	if err := p.download(ctx, job.S3FileLocation, inputPath); err != nil {
		return fmt.Errorf("download %s: %w", job.S3FileLocation, err)
	}

	duration, err := p.probe(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("probe %s: %w", inputPath, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := p.transcodeAll(ctx, job.VideoID, inputPath, outputDir, duration); err != nil {
		return err
	}
	logger.Infof("All renditions transcoded for %s", job.VideoID)

	if err := p.uploadAll(ctx, job.VideoID, outputDir); err != nil {
		return err
	}
	logger.Infof("All renditions uploaded for %s", job.VideoID)

	record := models.VideoRecord{
		SiteUsername: job.Metadata.SiteUsername,
		VideoID:      job.Metadata.VideoID,
		LocationName: job.Metadata.LocationName,
		UploadDate:   job.Metadata.UploadDate,
		UserName:     job.Metadata.UserName,
		VideoTitle:   job.Metadata.VideoTitle,
	}
	if err := p.records.Put(ctx, p.metadataTable, record.Item()); err != nil {
		return fmt.Errorf("finalize metadata for %s: %w", job.VideoID, err)
	}

	if err := p.blobs.Delete(ctx, job.S3FileLocation); err != nil {
		return fmt.Errorf("delete source %s: %w", job.S3FileLocation, err)
	}

	return nil
}

func (p *Pipeline) download(ctx context.Context, key, localPath string) error {
	body, err := p.blobs.Get(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return err
	}
	return nil
}

// transcodeAll fans out one task per variant and waits for all of them.
// No shared cancellation: when one variant fails the others still run to
// completion, then the job as a whole fails.
func (p *Pipeline) transcodeAll(ctx context.Context, videoID, inputPath, outputDir string, duration float64) error {
	var g errgroup.Group
	for _, v := range Variants {
		g.Go(func() error {
			field := progress.TranscodingField(v.Task)
			report := throttled(func(pct float64) {
				if err := p.tracker.Update(ctx, videoID, field, pct); err != nil {
					logger.Errorf("Failed to report %s for %s: %v", field, videoID, err)
				}
			})

			outputPath := filepath.Join(outputDir, v.FileName(videoID))
			if err := p.run(ctx, inputPath, outputPath, v, duration, report); err != nil {
				return fmt.Errorf("transcode %s: %w", v.Task, err)
			}

			if err := p.tracker.Update(ctx, videoID, field, 100); err != nil {
				logger.Errorf("Failed to report %s for %s: %v", field, videoID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// uploadAll fans out one upload per rendition and waits for all. Each
// upload reports its phase as a single jump to 100.
func (p *Pipeline) uploadAll(ctx context.Context, videoID, outputDir string) error {
	var g errgroup.Group
	for _, v := range Variants {
		g.Go(func() error {
			name := v.FileName(videoID)
			f, err := os.Open(filepath.Join(outputDir, name))
			if err != nil {
				return fmt.Errorf("open rendition %s: %w", name, err)
			}
			defer f.Close()

			if err := p.blobs.Put(ctx, name, f); err != nil {
				return fmt.Errorf("upload %s: %w", name, err)
			}

			field := progress.UploadField(v.Task)
			if err := p.tracker.Update(ctx, videoID, field, 100); err != nil {
				logger.Errorf("Failed to report %s for %s: %v", field, videoID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
