package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/kennydd0/RedditVideoMakerBot/application/ports/outbound"
)

type s3VideoPublisher struct {
	logger outbound.LoggerPort
	s3Svc  *s3.S3
	bucket string
}

func NewS3VideoPublisher(logger outbound.LoggerPort, bucket, region string) (outbound.VideoPublisherPort, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return &s3VideoPublisher{
		logger: logger,
		s3Svc:  s3.New(sess),
		bucket: bucket,
	}, nil
}

func (s *s3VideoPublisher) Publish(ctx context.Context, req outbound.PublishVideoRequest) (string, error) {
	key := s.itemKey(req)

	file, err := os.Open(req.VideoPath)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.Error(closeErr, "Failed to close video file")
		}
	}()

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("video/mp4"),
	}

	if _, err = s.s3Svc.PutObjectWithContext(ctx, putInput); err != nil {
		s.logger.Error(err, "Failed to upload object to S3")
		return "", err
	}

	s.logger.InfoWithFields("published video", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
	})
	return key, nil
}

func (s *s3VideoPublisher) itemKey(req outbound.PublishVideoRequest) string {
	return fmt.Sprintf("threads/%s/runs/%s/%s", req.ThreadID, req.RunID, filepath.Base(req.VideoPath))
}
