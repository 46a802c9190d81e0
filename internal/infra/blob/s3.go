package blob

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// deleteBatchSize is the S3 DeleteObjects per-request limit.
const deleteBatchSize = 1000

// UploadResult describes one stored object. Key doubles as the image id
// everywhere else in the system.
type UploadResult struct {
	Bucket string
	Key    string
	URL    string
	ETag   string
	MIME   string
	SizeB  int64
}

type S3Deps struct {
	Client   *s3.Client
	Uploader *manager.Uploader
	Presign  *s3.PresignClient

	bucket        string
	publicBaseURL string
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
		o.UsePathStyle = cfg.S3.UsePathStyle
	})

	return &S3Deps{
		Client:        client,
		Uploader:      manager.NewUploader(client),
		Presign:       s3.NewPresignClient(client),
		bucket:        cfg.S3.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.S3.PublicBaseURL, "/"),
	}, nil
}

// UploadFormFile stores one multipart file under a fresh key below prefix.
// The key is generated here, not by the caller: the store owns object
// identity, the caller only learns it from the result.
func (d *S3Deps) UploadFormFile(ctx context.Context, fh *multipart.FileHeader, prefix string) (*UploadResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	key := strings.TrimSuffix(prefix, "/") + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	out, err := d.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
	}

	return &UploadResult{
		Bucket: d.bucket,
		Key:    key,
		URL:    d.PublicURL(key),
		ETag:   aws.ToString(out.ETag),
		MIME:   contentType,
		SizeB:  fh.Size,
	}, nil
}

// Delete removes one object. Deleting a key the store does not have is not
// an error (S3 semantics).
func (d *S3Deps) Delete(ctx context.Context, key string) error {
	_, err := d.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	return err
}

// DeleteMany removes a batch of objects with DeleteObjects. Per-item failures
// reported by the store are folded into one error; absent keys are fine.
func (d *S3Deps) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	var errs []error
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := d.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(d.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, e := range out.Errors {
			errs = append(errs, fmt.Errorf("delete %s: %s", aws.ToString(e.Key), aws.ToString(e.Message)))
		}
	}
	return errors.Join(errs...)
}

func (d *S3Deps) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	req, err := d.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PublicURL builds the canonical public URL for a key. With no configured
// public base the bucket is assumed reachable at the virtual-hosted S3 URL.
func (d *S3Deps) PublicURL(key string) string {
	if d.publicBaseURL != "" {
		return d.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", d.bucket, key)
}
