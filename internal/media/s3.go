package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadTimeout = 10 * time.Second

// Uploader stores profile images in an S3-compatible bucket (MinIO locally)
// and hands back a stable public URL.
type Uploader struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func NewUploader(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true // MinIO
		}
	})
	return &Uploader{client: client, bucket: bucket, endpoint: endpoint}, nil
}

func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("profiles/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

// Upload streams the file into the bucket. A slow or unreachable store must
// not stall registration, hence the bounded timeout.
func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := storageKey(fh.Filename)
	contentType := fh.Header.Get("Content-Type")

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(fh.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return u.publicURL(key), nil
}

func (u *Uploader) publicURL(key string) string {
	if u.endpoint != "" {
		return strings.TrimRight(u.endpoint, "/") + "/" + u.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
}
