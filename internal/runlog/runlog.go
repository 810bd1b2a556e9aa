// Package runlog persists one JSON record per run for audit. The log is
// append-only and observational: nothing reads it back to make decisions.
package runlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/ignite/review-responder/internal/config"
	"github.com/ignite/review-responder/internal/pkg/logger"
)

// Store appends run records to a local file and, when configured,
// mirrors each record to S3 under runlog/<runID>.json.
type Store struct {
	localPath string
	s3Bucket  string
	s3Client  *s3.Client
}

// New creates a run log store. S3 mirroring is set up only for type "s3".
func New(ctx context.Context, cfg appconfig.RunLogConfig) (*Store, error) {
	s := &Store{localPath: cfg.LocalPath}

	if cfg.Type == "s3" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config for run log: %w", err)
		}
		s.s3Client = s3.NewFromConfig(awsCfg)
		s.s3Bucket = cfg.S3Bucket
	}

	return s, nil
}

// Append writes one run record. The local write is the source of record; a
// failed S3 mirror is logged and does not fail the run.
func (s *Store) Append(ctx context.Context, runID string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling run record: %w", err)
	}

	if err := s.appendLocal(data); err != nil {
		return err
	}

	if s.s3Client != nil {
		if err := s.mirrorToS3(ctx, runID, data); err != nil {
			logger.Warn("run log S3 mirror failed", "run_id", runID, "error", err.Error())
		}
	}

	return nil
}

func (s *Store) appendLocal(data []byte) error {
	if dir := filepath.Dir(s.localPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating run log directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.localPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending run record: %w", err)
	}
	return nil
}

func (s *Store) mirrorToS3(ctx context.Context, runID string, data []byte) error {
	key := fmt.Sprintf("runlog/%s.json", runID)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}
