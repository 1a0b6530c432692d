package dyndb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/raywall/student-records/envloader"
)

const unprocessedBackoff = 50 * time.Millisecond

type dynamoStore[T any] struct {
	client DynamoDBClient
	cfg    TableConfig[T]
}

// New cria um store reutilizável. Sem TableName, a configuração é lida
// das variáveis DYNAMODB_*.
func New[T any](client DynamoDBClient, cfg TableConfig[T]) (Store[T], error) {
	if cfg.TableName == "" {
		if err := envloader.Load(&cfg); err != nil {
			return nil, fmt.Errorf("dynamostore: table config: %w", err)
		}
	}
	if cfg.TableName == "" {
		return nil, fmt.Errorf("dynamostore: table name is required")
	}

	return &dynamoStore[T]{
		client: client,
		cfg:    cfg,
	}, nil
}

// Put item (upsert)
func (s *dynamoStore[T]) Put(ctx context.Context, item T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal failed: %w", err)
	}
	if _, ok := av[s.cfg.HashKey]; s.cfg.HashKey != "" && !ok {
		return fmt.Errorf("dynamostore: item has no %q attribute", s.cfg.HashKey)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamostore: put failed: %w", err)
	}
	return nil
}

// BatchWrite: apenas puts, em lotes de 25. Itens não processados pelo
// DynamoDB são reenviados até esvaziar.
//
// O DynamoDB rejeita um lote com chaves repetidas, então itens com a mesma
// HashKey são consolidados antes da primeira chamada: vale o último, como
// em Puts sequenciais.
func (s *dynamoStore[T]) BatchWrite(ctx context.Context, items []T) error {
	writeRequests := make([]types.WriteRequest, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		itemMap, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("batchwrite: marshal item %d failed: %w", i, err)
		}
		req := types.WriteRequest{PutRequest: &types.PutRequest{Item: itemMap}}

		if s.cfg.HashKey == "" {
			writeRequests = append(writeRequests, req)
			continue
		}
		key, err := keyString(itemMap[s.cfg.HashKey])
		if err != nil {
			return fmt.Errorf("batchwrite: item %d has no valid %q attribute: %w", i, s.cfg.HashKey, err)
		}
		if pos, ok := seen[key]; ok {
			writeRequests[pos] = req
			continue
		}
		seen[key] = len(writeRequests)
		writeRequests = append(writeRequests, req)
	}

	for i := 0; i < len(writeRequests); i += maxBatchWrite {
		end := min(i+maxBatchWrite, len(writeRequests))

		pending := map[string][]types.WriteRequest{
			s.cfg.TableName: writeRequests[i:end],
		}
		for len(pending) > 0 {
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: pending,
			})
			if err != nil {
				return fmt.Errorf("batchwrite failed: %w", err)
			}
			pending = out.UnprocessedItems
			if len(pending) == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(unprocessedBackoff):
			}
		}
	}
	return nil
}
