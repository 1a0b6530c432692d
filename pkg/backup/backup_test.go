package backup

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/student-records/dyndb"
	"github.com/raywall/student-records/pkg/config"
	"github.com/raywall/student-records/pkg/student"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockS3 guarda os objetos em memória.
type MockS3 struct {
	objects map[string][]byte
	putErr  error
}

func newMockS3() *MockS3 {
	return &MockS3{objects: map[string][]byte{}}
}

func (m *MockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*params.Bucket+"/"+*params.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*params.Bucket+"/"+*params.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func newRepository(t *testing.T, client dyndb.DynamoDBClient) *student.Repository {
	t.Helper()
	repo, err := student.NewRepository(client, config.TableConf{Name: "studentData", HashKey: "studentid"})
	require.NoError(t, err)
	return repo
}

const exported = `[
	{"studentid":"s1","name":"Alice","class":"5A","age":11},
	{"studentid":"s2","name":"Bob","class":"5B","age":12.5}
]`

func TestService_ImportThenExport(t *testing.T) {
	bucket := newMockS3()
	bucket.objects["backups/in.json"] = []byte(exported)

	table := dyndb.NewMemoryClient("studentid", 1)
	svc := NewService(bucket, newRepository(t, table))
	ctx := context.Background()

	n, err := svc.Import(ctx, "backups", "in.json")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, table.Len())

	n, err = svc.Export(ctx, "backups", "out.json", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.JSONEq(t, exported, string(bucket.objects["backups/out.json"]))
}

func TestService_ImportDuplicateIDs(t *testing.T) {
	bucket := newMockS3()
	bucket.objects["backups/in.json"] = []byte(`[
		{"studentid":"s1","name":"Alice","class":"5A","age":11},
		{"studentid":"s1","name":"Alice","class":"6A","age":12}
	]`)
	table := dyndb.NewMemoryClient("studentid", 0)
	svc := NewService(bucket, newRepository(t, table))
	ctx := context.Background()

	_, err := svc.Import(ctx, "backups", "in.json")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = svc.Export(ctx, "backups", "out.json", "", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"studentid":"s1","name":"Alice","class":"6A","age":12}]`, string(bucket.objects["backups/out.json"]))
}

func TestService_ExportPaged(t *testing.T) {
	bucket := newMockS3()
	bucket.objects["backups/in.json"] = []byte(exported)
	table := dyndb.NewMemoryClient("studentid", 0)
	svc := NewService(bucket, newRepository(t, table))
	ctx := context.Background()

	_, err := svc.Import(ctx, "backups", "in.json")
	require.NoError(t, err)

	var limits []int32
	var startKeys []map[string]types.AttributeValue
	paged := &dyndb.MockDynamoClient{
		ScanFn: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			limits = append(limits, aws.ToInt32(params.Limit))
			startKeys = append(startKeys, params.ExclusiveStartKey)
			return table.Scan(ctx, params, optFns...)
		},
	}
	svc = NewService(bucket, newRepository(t, paged))

	n, err := svc.Export(ctx, "backups", "paged.json", "", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.JSONEq(t, exported, string(bucket.objects["backups/paged.json"]))

	require.Len(t, startKeys, 2)
	assert.Equal(t, []int32{1, 1}, limits)
	assert.Nil(t, startKeys[0])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "s1"}, startKeys[1]["studentid"])
}

func TestService_ExportPagedEmptyTable(t *testing.T) {
	bucket := newMockS3()
	svc := NewService(bucket, newRepository(t, dyndb.NewMemoryClient("studentid", 0)))

	n, err := svc.Export(context.Background(), "backups", "out.json", "", 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "[]", string(bucket.objects["backups/out.json"]))
}

func TestService_ExportEmptyTable(t *testing.T) {
	bucket := newMockS3()
	svc := NewService(bucket, newRepository(t, dyndb.NewMemoryClient("studentid", 0)))

	n, err := svc.Export(context.Background(), "backups", "out.json", "", 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "[]", string(bucket.objects["backups/out.json"]))
}

func TestService_ExportByClassUsesFilter(t *testing.T) {
	var filter *string
	client := &dyndb.MockDynamoClient{
		ScanFn: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			filter = params.FilterExpression
			return &dynamodb.ScanOutput{}, nil
		},
	}
	svc := NewService(newMockS3(), newRepository(t, client))

	_, err := svc.Export(context.Background(), "backups", "5a.json", "5A", 0)
	require.NoError(t, err)
	require.NotNil(t, filter)
}

func TestService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing object", func(t *testing.T) {
		svc := NewService(newMockS3(), newRepository(t, dyndb.NewMemoryClient("studentid", 0)))
		_, err := svc.Import(ctx, "backups", "missing.json")
		assert.ErrorContains(t, err, "NoSuchKey")
	})

	t.Run("Invalid record aborts before writing", func(t *testing.T) {
		bucket := newMockS3()
		bucket.objects["backups/in.json"] = []byte(`[{"studentid":"s1","name":"Alice","class":"5A","age":11},{"studentid":"s2"}]`)
		table := dyndb.NewMemoryClient("studentid", 0)

		_, err := NewService(bucket, newRepository(t, table)).Import(ctx, "backups", "in.json")
		assert.ErrorIs(t, err, student.ErrMissingField)
		assert.Zero(t, table.Len())
	})

	t.Run("Put failure", func(t *testing.T) {
		bucket := newMockS3()
		bucket.putErr = errors.New("AccessDenied")

		_, err := NewService(bucket, newRepository(t, dyndb.NewMemoryClient("studentid", 0))).Export(ctx, "backups", "out.json", "", 0)
		assert.ErrorContains(t, err, "AccessDenied")
	})
}
