package receipts

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	appconfig "workshop-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver uploads rendered receipts to an S3-compatible bucket. A nil
// Archiver (archive disabled) is safe to call: Upload becomes a no-op.
type Archiver struct {
	client *s3.Client
	bucket string
}

// NewArchiver builds the S3 client from the receipt archive settings.
// Returns nil when the archive is disabled.
func NewArchiver(cfg *appconfig.Config) (*Archiver, error) {
	ra := cfg.ReceiptArchive
	if !ra.Enabled {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			ra.AccessKey,
			ra.SecretKey,
			"",
		)),
		awsconfig.WithRegion(ra.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure receipt archive: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ra.Endpoint != "" {
			o.BaseEndpoint = aws.String(ra.Endpoint)
		}
	})

	return &Archiver{client: client, bucket: ra.Bucket}, nil
}

// Upload stores a rendered receipt under key. Failures are logged, not
// returned: the receipt was already served to the caller and a missed
// archive copy must not fail the request.
func (a *Archiver) Upload(ctx context.Context, key string, pdf []byte) {
	if a == nil {
		return
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		log.Printf("[Receipt Archive] upload %s failed: %v", key, err)
		return
	}
	log.Printf("[Receipt Archive] stored %s (%d bytes)", key, len(pdf))
}
