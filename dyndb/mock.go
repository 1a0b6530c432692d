package dyndb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var errNotMocked = errors.New("dyndb: operation not mocked")

// MockDynamoClient é um mock para a interface DynamoDBClient de baixo nível.
//
// Cada campo *Fn não definido faz a operação falhar.
type MockDynamoClient struct {
	PutItemFn        func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItemFn func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	ScanFn           func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

func (m *MockDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.PutItemFn != nil {
		return m.PutItemFn(ctx, params, optFns...)
	}
	return nil, errNotMocked
}

func (m *MockDynamoClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if m.BatchWriteItemFn != nil {
		return m.BatchWriteItemFn(ctx, params, optFns...)
	}
	return nil, errNotMocked
}

func (m *MockDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.ScanFn != nil {
		return m.ScanFn(ctx, params, optFns...)
	}
	return nil, errNotMocked
}

// MemoryClient é uma tabela em memória que implementa DynamoDBClient com
// semântica de upsert por HashKey e Scan paginado a cada PageSize itens.
// FilterExpression não é avaliada.
type MemoryClient struct {
	HashKey  string
	PageSize int

	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

// NewMemoryClient cria uma tabela vazia.
func NewMemoryClient(hashKey string, pageSize int) *MemoryClient {
	return &MemoryClient{
		HashKey:  hashKey,
		PageSize: pageSize,
		items:    make(map[string]map[string]types.AttributeValue),
	}
}

// Len devolve o número de itens armazenados.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *MemoryClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.put(params.Item); err != nil {
		return nil, err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (c *MemoryClient) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, reqs := range params.RequestItems {
		if len(reqs) > maxBatchWrite {
			return nil, fmt.Errorf("memory: too many items in batch: %d", len(reqs))
		}
		keys := make(map[string]bool, len(reqs))
		for _, r := range reqs {
			if r.PutRequest == nil {
				continue
			}
			k, err := keyString(r.PutRequest.Item[c.HashKey])
			if err != nil {
				return nil, err
			}
			if keys[k] {
				return nil, errors.New("memory: provided list of item keys contains duplicates")
			}
			keys[k] = true
		}
		for _, r := range reqs {
			if r.PutRequest == nil {
				continue
			}
			if err := c.put(r.PutRequest.Item); err != nil {
				return nil, err
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (c *MemoryClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		after, err := keyString(params.ExclusiveStartKey[c.HashKey])
		if err != nil {
			return nil, err
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	size := c.PageSize
	if params.Limit != nil && (size <= 0 || int(*params.Limit) < size) {
		size = int(*params.Limit)
	}
	if size <= 0 {
		size = len(keys)
	}

	end := min(start+size, len(keys))
	out := &dynamodb.ScanOutput{Items: make([]map[string]types.AttributeValue, 0, end-start)}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, c.items[k])
	}
	if end < len(keys) {
		last := c.items[keys[end-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{c.HashKey: last[c.HashKey]}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (c *MemoryClient) put(item map[string]types.AttributeValue) error {
	k, err := keyString(item[c.HashKey])
	if err != nil {
		return err
	}
	if c.items == nil {
		c.items = make(map[string]map[string]types.AttributeValue)
	}
	c.items[k] = item
	return nil
}
