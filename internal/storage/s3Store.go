package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/customHttpClient"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
)

var logger = logger_i.NewLogger("Storage")

type S3Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store talks to any S3 compatible endpoint, Supabase storage included
type S3Store struct {
	bucket     string
	publicBase string
	client     *s3.Client
	uploader   *manager.Uploader
	http       *resty.Client
	maxBytes   int64

	// presign returns a short lived GET url for the object key
	presign func(ctx context.Context, key string) (string, error)
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithHTTPClient(customHttpClient.NewPooledClient(config.UploadTimeout)),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	publicBase := opts.PublicBaseURL
	if publicBase == "" {
		publicBase = opts.Endpoint
	}

	store := &S3Store{
		bucket:     opts.Bucket,
		publicBase: publicBase,
		client:     client,
		uploader:   manager.NewUploader(client),
		http:       customHttpClient.NewRestyClient(config.DownloadTimeout),
		maxBytes:   config.MaxUploadSize,
	}
	presigner := s3.NewPresignClient(client)
	store.presign = func(ctx context.Context, key string) (string, error) {
		req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(store.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(config.PresignExpiration))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}

	logger.Info("S3 store ready", "bucket", opts.Bucket, "endpoint", opts.Endpoint)
	return store, nil
}

func (s *S3Store) Upload(ctx context.Context, data []byte, fileName, folder, contentType string) (string, error) {
	key := objectKey(folder, fileName)
	ctx, cancel := context.WithTimeout(ctx, config.UploadTimeout)
	defer cancel()

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	logger.WithContext(ctx).Debug("Uploaded object", "key", key, "bytes", len(data))
	return publicURL(s.publicBase, s.bucket, key), nil
}

// Download tries the url as given first and falls back to a presigned url when the object is private
func (s *S3Store) Download(ctx context.Context, fileURL string) (DownloadedFile, error) {
	log := logger.WithContext(ctx)

	file, status, err := s.get(ctx, fileURL)
	if err == nil {
		return file, nil
	}
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return DownloadedFile{}, err
	}

	log.Warn("Direct download unauthorized, retrying with presigned url", "status", status)
	key, kerr := objectKeyFromURL(fileURL, s.bucket)
	if kerr != nil {
		return DownloadedFile{}, fmt.Errorf("%w: %w", ErrDownload, kerr)
	}
	signed, perr := s.presign(ctx, key)
	if perr != nil {
		return DownloadedFile{}, fmt.Errorf("%w: presign %s: %w", ErrDownload, key, perr)
	}
	file, _, err = s.get(ctx, signed)
	if err != nil {
		return DownloadedFile{}, fmt.Errorf("signed url: %w", err)
	}
	return file, nil
}

// get streams the body itself so a caller supplied url cannot make us buffer more than maxBytes
func (s *S3Store) get(ctx context.Context, fileURL string) (DownloadedFile, int, error) {
	resp, err := s.http.R().SetContext(ctx).SetDoNotParseResponse(true).Get(fileURL)
	if err != nil {
		return DownloadedFile{}, 0, fmt.Errorf("%w: %w", ErrDownload, err)
	}
	body := resp.RawBody()
	defer body.Close()

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		return DownloadedFile{}, status, fmt.Errorf("%w: status %d", ErrDownload, status)
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = config.MaxUploadSize
	}
	if resp.RawResponse.ContentLength > limit {
		return DownloadedFile{}, status, fmt.Errorf("%w: %w (%d bytes)", ErrDownload, ErrTooLarge, resp.RawResponse.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return DownloadedFile{}, status, fmt.Errorf("%w: read body: %w", ErrDownload, err)
	}
	if int64(len(data)) > limit {
		return DownloadedFile{}, status, fmt.Errorf("%w: %w (over %d bytes)", ErrDownload, ErrTooLarge, limit)
	}
	return DownloadedFile{
		Data:        data,
		ContentType: resp.Header().Get("Content-Type"),
	}, status, nil
}

func (s *S3Store) Delete(ctx context.Context, fileURL string) error {
	key, err := objectKeyFromURL(fileURL, s.bucket)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
