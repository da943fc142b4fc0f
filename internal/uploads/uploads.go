package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const maxUploadSize = 5 << 20 // 5MB

var (
	ErrInvalidType  = errors.New("invalid file type")
	ErrFileTooLarge = errors.New("file too large")
)

var validImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// objectPutter is the slice of the S3 client the uploader needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Uploader struct {
	client objectPutter
	bucket string
}

func NewUploader(client *s3.Client, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

func newUploaderWithPutter(client objectPutter, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// UploadImage validates and stores an image, returning its public URL.
func (u *Uploader) UploadImage(ctx context.Context, fileName, contentType string, size int64, body io.Reader) (string, error) {
	if _, ok := validImageTypes[contentType]; !ok {
		return "", ErrInvalidType
	}
	if size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	key := uuid.NewString() + "-" + unsafeFileNameChars.ReplaceAllString(fileName, "")

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
