// Package media uploads chat attachments straight to an S3 compatible bucket
// when one is configured, bypassing the backend's multipart endpoint.
package media

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/Limgrow-internship/intern001-dating-app-sub000/pkg/errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Uploader stores a local file and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, kind, localPath string) (string, error)
}

type S3Uploader struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Uploader uses static credentials and path-style addressing so MinIO
// and other S3 compatible stores work.
func NewS3Uploader(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithBaseEndpoint(endpoint),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     accessKey,
					SecretAccessKey: secretKey,
				}, nil
			})),
	)
	if err != nil {
		return nil, errors.Wrap(err, "media.NewS3Uploader: ")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Uploader{
		client:   client,
		bucket:   bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
	}, nil
}

func objectKey(kind, localPath string) string {
	return path.Join(kind, uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
}

func (u *S3Uploader) Upload(ctx context.Context, kind, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	defer f.Close()

	key := objectKey(kind, localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", apperrors.ErrUploadFailed(err)
	}
	return u.endpoint + "/" + u.bucket + "/" + key, nil
}
