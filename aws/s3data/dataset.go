package s3data

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"github.com/on-the-ground/toolkit_go/parallel"
	"github.com/on-the-ground/toolkit_go/shared/log"
)

const parquetExt = ".parquet"

var (
	ErrNotS3URL    = errors.New("not an s3 url")
	ErrNoFragments = errors.New("no parquet objects found")
)

// ParseURL splits "s3://bucket/prefix" into bucket and prefix.
func ParseURL(raw string) (bucket, prefix string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parsing s3 url %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNotS3URL, raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Fragment is one parquet object of a dataset.
type Fragment struct {
	Key  string
	Size int64
	// Partitions holds the hive style key=value segments of Key.
	Partitions map[string]string
}

// Dataset is the set of parquet objects below an S3 prefix.
type Dataset struct {
	Bucket    string
	Prefix    string
	Fragments []Fragment

	client s3iface.S3API
	logger *zap.Logger
}

// Open lists every parquet object below path.
func Open(ctx context.Context, client s3iface.S3API, path string, logger *zap.Logger) (*Dataset, error) {
	bucket, prefix, err := ParseURL(path)
	if err != nil {
		return nil, err
	}
	d := &Dataset{
		Bucket: bucket,
		Prefix: prefix,
		client: client,
		logger: log.OrNop(logger).With(zap.String("bucket", bucket), zap.String("prefix", prefix)),
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}
	for {
		out, err := client.ListObjectsV2WithContext(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range out.Contents {
			key := aws.StringValue(obj.Key)
			if !strings.HasSuffix(key, parquetExt) {
				continue
			}
			d.Fragments = append(d.Fragments, Fragment{
				Key:        key,
				Size:       aws.Int64Value(obj.Size),
				Partitions: hivePartitions(strings.TrimPrefix(key, prefix)),
			})
		}
		if !aws.BoolValue(out.IsTruncated) || aws.StringValue(out.NextContinuationToken) == "" {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	if len(d.Fragments) == 0 {
		return nil, fmt.Errorf("%w: s3://%s/%s", ErrNoFragments, bucket, prefix)
	}
	d.logger.Info("opened dataset", zap.Int("fragments", len(d.Fragments)))
	return d, nil
}

func hivePartitions(rel string) map[string]string {
	parts := map[string]string{}
	for _, seg := range strings.Split(path.Dir(rel), "/") {
		k, v, ok := strings.Cut(seg, "=")
		if ok && k != "" {
			parts[k] = v
		}
	}
	return parts
}

// ReadFragment downloads one object and decodes it into an arrow table.
// The caller owns the table and must Release it.
func (d *Dataset) ReadFragment(ctx context.Context, frag Fragment) (arrow.Table, error) {
	out, err := d.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(frag.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", d.Bucket, frag.Key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", d.Bucket, frag.Key, err)
	}
	d.logger.Debug("fetched fragment", zap.String("key", frag.Key), zap.Int("bytes", len(body)))

	tbl, err := ReadParquet(ctx, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", frag.Key, err)
	}
	return tbl, nil
}

// ReadAll reads every fragment on pool. Tables come back in fragment order.
func (d *Dataset) ReadAll(ctx context.Context, pool *parallel.Pool) ([]arrow.Table, error) {
	chunks, err := parallel.Map(ctx, pool, func(ctx context.Context, frags []Fragment) ([]arrow.Table, error) {
		tables := make([]arrow.Table, 0, len(frags))
		for _, f := range frags {
			tbl, err := d.ReadFragment(ctx, f)
			if err != nil {
				releaseAll(tables)
				return nil, err
			}
			tables = append(tables, tbl)
		}
		return tables, nil
	}, d.Fragments)
	if err != nil {
		return nil, err
	}

	var tables []arrow.Table
	for _, c := range chunks {
		tables = append(tables, c...)
	}
	return tables, nil
}

// ReadParquet decodes a whole parquet file into an arrow table.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (arrow.Table, error) {
	pf, err := file.NewParquetReader(r)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, err
	}
	return reader.ReadTable(ctx)
}

func releaseAll(tables []arrow.Table) {
	for _, t := range tables {
		t.Release()
	}
}
