package dyndb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/student-records/dyndb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func item(id, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: id},
		"name": &types.AttributeValueMemberS{Value: name},
	}
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}}
}

func TestScanAll_FollowsContinuationTokens(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{item("1", "a"), item("2", "b")},
		LastEvaluatedKey: key("2"),
	}, nil).Once()

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil && in.ExclusiveStartKey["id"].(*types.AttributeValueMemberS).Value == "2"
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{item("3", "c")},
		LastEvaluatedKey: key("3"),
	}, nil).Once()

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil && in.ExclusiveStartKey["id"].(*types.AttributeValueMemberS).Value == "3"
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{item("4", "d"), item("5", "e")},
	}, nil).Once()

	results, err := store.Scan().All(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "5", results[4].ID)
	mockClient.AssertNumberOfCalls(t, "Scan", 3)
}

func TestScanAll_EmptyTable(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)
	mockClient.On("Scan", mock.Anything, mock.Anything).Return(&dynamodb.ScanOutput{}, nil)

	results, err := store.Scan().All(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestScanAll_ErrorDiscardsPartialResults(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{item("1", "a")},
		LastEvaluatedKey: key("1"),
	}, nil).Once()
	mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	results, err := store.Scan().All(context.Background())

	assert.Nil(t, results)
	assert.ErrorContains(t, err, "connection reset")
}

func TestScanExec_ReturnsToken(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey == nil && in.Limit != nil && *in.Limit == 1
	})).Return(&dynamodb.ScanOutput{
		Items:            []map[string]types.AttributeValue{item("1", "a")},
		LastEvaluatedKey: key("1"),
	}, nil).Once()

	page, token, err := store.Scan().Limit(1).Exec(context.Background())
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.NotEmpty(t, token)

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.ScanOutput{
		Items: []map[string]types.AttributeValue{item("2", "b")},
	}, nil).Once()

	page, token, err = store.Scan().Limit(1).LastKey(token).Exec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", page[0].ID)
	assert.Empty(t, token)

	second := mockClient.Calls[1].Arguments.Get(1).(*dynamodb.ScanInput)
	assert.Equal(t, key("1"), second.ExclusiveStartKey)
}

func TestScanExec_InvalidToken(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	_, _, err := store.Scan().LastKey("%%%not-base64").Exec(context.Background())

	assert.ErrorIs(t, err, dyndb.ErrInvalidToken)
	mockClient.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestScan_FilterEqual(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := createTestStore(mockClient)

	mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
		if in.FilterExpression == nil {
			return false
		}
		for _, name := range in.ExpressionAttributeNames {
			if name == "name" {
				return len(in.ExpressionAttributeValues) == 1
			}
		}
		return false
	})).Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item("1", "a")}}, nil)

	results, err := store.Scan().FilterEqual("name", "a").All(context.Background())

	require.NoError(t, err)
	assert.Len(t, results, 1)
	mockClient.AssertExpectations(t)
}

func TestScanAll_MemoryClientPages(t *testing.T) {
	t.Parallel()

	client := dyndb.NewMemoryClient("id", 2)
	store := createTestStore(client)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Put(context.Background(), TestItem{ID: id}))
	}

	results, err := store.Scan().All(context.Background())

	require.NoError(t, err)
	assert.Len(t, results, 5)
}
