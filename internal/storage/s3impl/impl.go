package s3impl

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/satyapal28/archive-server/internal/storage"
	"github.com/satyapal28/archive-server/pkg/config"
	"github.com/satyapal28/archive-server/pkg/errors"
	"github.com/satyapal28/archive-server/pkg/logger"
	"github.com/satyapal28/archive-server/pkg/retry"
	"go.uber.org/fx"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Impl struct {
	client   *s3.S3
	bucket   string
	endpoint string
	region   string
	logger   logger.Logger
}

func New(opts Opts) (*Impl, error) {
	cfg := opts.Config.Storage
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}

	// A custom endpoint means MinIO or another S3 compatible store.
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create aws session")
	}

	return &Impl{
		client:   s3.New(sess),
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
		region:   cfg.Region,
		logger:   opts.Logger.WithComponent("Storage"),
	}, nil
}

var _ storage.Client = (*Impl)(nil)

func (i *Impl) UploadImage(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := i.objectKey(name)

	err := retry.Do(ctx, i.logger, "s3 upload", func() error {
		_, err := i.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(i.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}, retry.DefaultConfig())
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}

	return i.publicURL(key), nil
}

func (i *Impl) objectKey(name string) string {
	name = unsafeKeyChars.ReplaceAllString(name, "_")
	return fmt.Sprintf("posts/%d_%s_%s", time.Now().Unix(), uuid.NewString()[:8], name)
}

func (i *Impl) publicURL(key string) string {
	if i.endpoint != "" && !strings.Contains(i.endpoint, "amazonaws.com") {
		base := strings.TrimPrefix(strings.TrimPrefix(i.endpoint, "https://"), "http://")
		return fmt.Sprintf("http://%s/%s/%s", base, i.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", i.bucket, i.region, key)
}
