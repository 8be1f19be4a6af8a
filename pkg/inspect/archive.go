package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of *s3.Client an Archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive writes snapshot views to an S3 bucket as JSON objects.
// Objects are never read back.
type Archive struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
	seq    atomic.Uint64
}

// NewArchive creates an archive writing under prefix in bucket.
func NewArchive(client ObjectPutter, bucket, prefix string) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// Bucket returns the target bucket.
func (a *Archive) Bucket() string { return a.bucket }

// Put stores view and returns the object key.
func (a *Archive) Put(ctx context.Context, view SnapshotView) (string, error) {
	body, err := json.Marshal(view)
	if err != nil {
		return "", err
	}

	ts := a.now().UTC()
	key := fmt.Sprintf("%s%s-%06d.json", a.prefix, ts.Format("20060102T150405Z"), a.seq.Add(1))

	current := ""
	if view.Current != nil {
		current = *view.Current
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"overlay-count": strconv.Itoa(len(view.Items)),
			"current":       current,
			"archived-at":   ts.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("s3 archive failed: %w", err)
	}
	return key, nil
}

// NewS3Client builds a client from the default AWS credential chain
// (environment, shared config files, SSO, instance roles). A non-empty
// endpoint selects an S3-compatible server with path-style addressing.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
