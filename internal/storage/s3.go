// Package storage publishes pipeline artifacts to an S3-compatible bucket so
// the static frontend can serve them from a CDN, and fetches shared assets
// (like the world GeoJSON) that are not part of the repository.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// uploadMaxTries bounds per-object upload retries during a publish.
const uploadMaxTries = 3

// NewS3Client builds a client from the AWS_* environment, set up for
// S3-compatible object stores (static credentials, path-style addressing).
func NewS3Client(ctx context.Context) *s3.Client {
	region := util.GetEnv("AWS_REGION")
	endpoint := util.GetEnv("AWS_ENDPOINT")
	accessKey := util.GetEnv("AWS_ACCESS_KEY")
	secretKey := util.GetEnv("AWS_SECRET_KEY")

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithBaseEndpoint(endpoint),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
	)
	if err != nil {
		logger.Error("[Storage] Failed to configure S3 client", "error", err)
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// PutFile uploads one local file to the bucket under key, with the content
// type derived from the file extension.
func PutFile(ctx context.Context, client *s3.Client, key, localPath string) error {
	bucket := util.GetEnv("AWS_BUCKET")

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s for upload: %w", localPath, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err = util.RetryErrWithContext(ctx, uploadMaxTries, func(ctx context.Context) error {
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

// PublishDir uploads every JSON file under localDir to the bucket, preserving
// the relative layout below prefix, then removes keys under the prefix that
// no longer have a local counterpart. Returns the number of uploaded files.
func PublishDir(ctx context.Context, client *s3.Client, localDir, prefix string) (int, error) {
	published := make(map[string]struct{})

	err := filepath.WalkDir(localDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}

		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		key := prefix + "/" + filepath.ToSlash(rel)
		if err := PutFile(ctx, client, key, path); err != nil {
			return err
		}
		published[key] = struct{}{}
		return nil
	})
	if err != nil {
		return len(published), fmt.Errorf("failed to publish %s: %w", localDir, err)
	}

	if err := pruneStaleKeys(ctx, client, prefix+"/", published); err != nil {
		return len(published), err
	}

	logger.Info("[Storage] Published directory", "dir", localDir, "prefix", prefix, "files", len(published))
	return len(published), nil
}

// pruneStaleKeys deletes every object under prefix that is not in keep.
func pruneStaleKeys(ctx context.Context, client *s3.Client, prefix string, keep map[string]struct{}) error {
	keys, err := ListFilesWithPrefix(ctx, client, prefix)
	if err != nil {
		return err
	}

	var stale []types.ObjectIdentifier
	for _, key := range keys {
		if _, ok := keep[key]; !ok {
			stale = append(stale, types.ObjectIdentifier{Key: aws.String(key)})
		}
	}
	if len(stale) == 0 {
		return nil
	}

	bucket := util.GetEnv("AWS_BUCKET")
	_, err = client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: stale,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete stale objects under %s: %w", prefix, err)
	}

	logger.Info("[Storage] Pruned stale objects", "prefix", prefix, "deleted", len(stale))
	return nil
}

// ListFilesWithPrefix returns every object key under prefix, following
// pagination.
func ListFilesWithPrefix(ctx context.Context, client *s3.Client, prefix string) ([]string, error) {
	bucket := util.GetEnv("AWS_BUCKET")

	var keys []string
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}

	for {
		listOutput, err := client.ListObjectsV2(ctx, listInput)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, err)
		}

		for _, obj := range listOutput.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}

		if listOutput.IsTruncated != nil && *listOutput.IsTruncated {
			listInput.ContinuationToken = listOutput.NextContinuationToken
		} else {
			break
		}
	}

	return keys, nil
}

// FetchAsset downloads a bucket object to localPath. Used for shared inputs
// like world_countries.geojson that a fresh deployment does not have yet.
func FetchAsset(ctx context.Context, client *s3.Client, key, localPath string) error {
	bucket := util.GetEnv("AWS_BUCKET")

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get %s from S3: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s contents: %w", key, err)
	}

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	logger.Info("[Storage] Fetched asset", "key", key, "path", localPath)
	return nil
}

// GenerateDownloadLink presigns a GET for the given key against the public
// endpoint, so the signature matches the Host the browser will send.
func GenerateDownloadLink(ctx context.Context, baseClient *s3.Client, key string) (string, error) {
	bucket := util.GetEnv("AWS_BUCKET")
	publicEndpoint := util.GetEnv("AWS_PUBLIC_ENDPOINT")

	publicURL, err := url.Parse(publicEndpoint)
	if err != nil || publicURL.Scheme == "" || publicURL.Host == "" {
		return "", fmt.Errorf("invalid AWS_PUBLIC_ENDPOINT: %s", publicEndpoint)
	}
	prefix := strings.TrimSuffix(publicURL.Path, "/")
	publicBaseEndpoint := fmt.Sprintf("%s://%s", publicURL.Scheme, publicURL.Host)

	// Presign against the public endpoint so the signature matches the Host
	// header the client will send.
	presignClient := s3.NewFromConfig(
		aws.Config{
			Region:      baseClient.Options().Region,
			Credentials: baseClient.Options().Credentials,
			HTTPClient:  baseClient.Options().HTTPClient,
		},
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(publicBaseEndpoint)
			o.UsePathStyle = true
		},
	)

	out, err := s3.NewPresignClient(presignClient).PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(15*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate download link: %w", err)
	}

	if prefix != "" {
		signedURL, parseErr := url.Parse(out.URL)
		if parseErr != nil {
			return "", fmt.Errorf("failed to parse presigned url: %w", parseErr)
		}
		signedURL.Path = prefix + signedURL.Path
		return signedURL.String(), nil
	}
	return out.URL, nil
}
