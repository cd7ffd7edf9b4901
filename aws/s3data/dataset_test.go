package s3data

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/on-the-ground/toolkit_go/parallel"
)

type mockS3 struct {
	s3iface.S3API
	mock.Mock
}

func (m *mockS3) ListObjectsV2WithContext(_ aws.Context, in *s3.ListObjectsV2Input, _ ...request.Option) (*s3.ListObjectsV2Output, error) {
	args := m.Called(aws.StringValue(in.ContinuationToken))
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func (m *mockS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	args := m.Called(aws.StringValue(in.Key))
	body, _ := args.Get(0).([]byte)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func object(key string) *s3.Object {
	return &s3.Object{Key: aws.String(key), Size: aws.Int64(1)}
}

func parquetBytes(t *testing.T, ids []int64) []byte {
	t.Helper()
	mem := memory.NewGoAllocator()
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.AppendValues(ids, nil)
	col := b.NewArray()
	defer col.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "id", Type: arrow.PrimitiveTypes.Int64}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{col}, int64(len(ids)))
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	var buf bytes.Buffer
	props := parquet.NewWriterProperties(parquet.WithDictionaryDefault(false))
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 4096, props, pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestParseURL(t *testing.T) {
	bucket, prefix, err := ParseURL("s3://lake/events/2024")
	require.NoError(t, err)
	assert.Equal(t, "lake", bucket)
	assert.Equal(t, "events/2024", prefix)

	_, _, err = ParseURL("https://lake/events")
	assert.ErrorIs(t, err, ErrNotS3URL)

	_, _, err = ParseURL("s3:///events")
	assert.ErrorIs(t, err, ErrNotS3URL)
}

func TestHivePartitions(t *testing.T) {
	assert.Equal(t,
		map[string]string{"year": "2024", "month": "01"},
		hivePartitions("/year=2024/month=01/part-0.parquet"))
	assert.Empty(t, hivePartitions("part-0.parquet"))
}

func TestOpenPaginates(t *testing.T) {
	client := &mockS3{}
	client.On("ListObjectsV2WithContext", "").Return(&s3.ListObjectsV2Output{
		Contents:              []*s3.Object{object("events/year=2024/a.parquet"), object("events/_SUCCESS")},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("next"),
	}, nil).Once()
	client.On("ListObjectsV2WithContext", "next").Return(&s3.ListObjectsV2Output{
		Contents:    []*s3.Object{object("events/year=2025/b.parquet")},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	d, err := Open(context.Background(), client, "s3://lake/events", nil)
	require.NoError(t, err)
	require.Len(t, d.Fragments, 2)
	assert.Equal(t, "events/year=2024/a.parquet", d.Fragments[0].Key)
	assert.Equal(t, map[string]string{"year": "2025"}, d.Fragments[1].Partitions)
	client.AssertExpectations(t)
}

func TestOpenErrors(t *testing.T) {
	client := &mockS3{}
	client.On("ListObjectsV2WithContext", "").Return(&s3.ListObjectsV2Output{
		Contents: []*s3.Object{object("events/readme.txt")},
	}, nil).Once()
	_, err := Open(context.Background(), client, "s3://lake/events", nil)
	assert.ErrorIs(t, err, ErrNoFragments)

	boom := errors.New("denied")
	client = &mockS3{}
	client.On("ListObjectsV2WithContext", "").Return(nil, boom).Once()
	_, err = Open(context.Background(), client, "s3://lake/events", nil)
	assert.ErrorIs(t, err, boom)
}

func TestReadAll(t *testing.T) {
	client := &mockS3{}
	client.On("ListObjectsV2WithContext", "").Return(&s3.ListObjectsV2Output{
		Contents: []*s3.Object{object("t/a.parquet"), object("t/b.parquet"), object("t/c.parquet")},
	}, nil).Once()
	client.On("GetObjectWithContext", "t/a.parquet").Return(parquetBytes(t, []int64{1, 2}), nil)
	client.On("GetObjectWithContext", "t/b.parquet").Return(parquetBytes(t, []int64{3}), nil)
	client.On("GetObjectWithContext", "t/c.parquet").Return(parquetBytes(t, []int64{4, 5, 6}), nil)

	ctx := context.Background()
	d, err := Open(ctx, client, "s3://lake/t", nil)
	require.NoError(t, err)

	tables, err := d.ReadAll(ctx, parallel.NewPool(2, nil))
	require.NoError(t, err)
	defer releaseAll(tables)

	require.Len(t, tables, 3)
	rows := []int64{}
	for _, tbl := range tables {
		assert.Equal(t, "id", tbl.Schema().Field(0).Name)
		rows = append(rows, tbl.NumRows())
	}
	assert.Equal(t, []int64{2, 1, 3}, rows)
}

func TestReadFragmentError(t *testing.T) {
	client := &mockS3{}
	client.On("GetObjectWithContext", "t/bad.parquet").Return([]byte("not parquet"), nil)
	d := &Dataset{Bucket: "lake", client: client, logger: zap.NewNop()}

	_, err := d.ReadFragment(context.Background(), Fragment{Key: "t/bad.parquet"})
	assert.Error(t, err)
}
