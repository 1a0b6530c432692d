package dyndb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// === MÉTODOS FLUENTES ===

func (sb *ScanBuilder[T]) FilterEqual(field string, value any) *ScanBuilder[T] {
	cond := expression.Equal(expression.Name(field), expression.Value(value))
	if sb.filterCond == nil {
		sb.filterCond = &cond
	} else {
		tmp := sb.filterCond.And(cond)
		sb.filterCond = &tmp
	}
	return sb
}

func (sb *ScanBuilder[T]) Limit(n int32) *ScanBuilder[T] {
	sb.limit = &n
	return sb
}

// LastKey retoma o Scan a partir de um token devolvido por Exec.
// Um token inválido só é reportado na execução.
func (sb *ScanBuilder[T]) LastKey(token string) *ScanBuilder[T] {
	if token == "" {
		return sb
	}
	key, err := decodeToken(token)
	if err != nil {
		sb.tokenErr = err
		return sb
	}
	sb.lastKey = key
	return sb
}

// Scan inicia um Scan
func (s *dynamoStore[T]) Scan() *ScanBuilder[T] {
	return &ScanBuilder[T]{store: s}
}

// Exec executa uma única página do Scan e devolve o token da próxima
// página, vazio quando não há mais dados.
func (sb *ScanBuilder[T]) Exec(ctx context.Context) ([]T, string, error) {
	input, err := sb.input()
	if err != nil {
		return nil, "", err
	}

	out, err := sb.store.client.Scan(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("dynamostore: scan failed: %w", err)
	}

	items, err := unmarshalItems[T](out.Items)
	if err != nil {
		return nil, "", err
	}
	token, err := encodeToken(out.LastEvaluatedKey)
	if err != nil {
		return nil, "", err
	}
	return items, token, nil
}

// All percorre todas as páginas, reenviando o LastEvaluatedKey como
// ExclusiveStartKey até o DynamoDB não devolver mais nenhum.
func (sb *ScanBuilder[T]) All(ctx context.Context) ([]T, error) {
	input, err := sb.input()
	if err != nil {
		return nil, err
	}

	result := make([]T, 0)
	for {
		out, err := sb.store.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dynamostore: scan failed: %w", err)
		}

		items, err := unmarshalItems[T](out.Items)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)

		if len(out.LastEvaluatedKey) == 0 {
			return result, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (sb *ScanBuilder[T]) input() (*dynamodb.ScanInput, error) {
	if sb.tokenErr != nil {
		return nil, sb.tokenErr
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(sb.store.cfg.TableName),
		Limit:             sb.limit,
		ExclusiveStartKey: sb.lastKey,
	}
	if sb.filterCond == nil {
		return input, nil
	}

	expr, err := expression.NewBuilder().WithFilter(*sb.filterCond).Build()
	if err != nil {
		return nil, fmt.Errorf("dynamostore: build expression: %w", err)
	}
	input.FilterExpression = expr.Filter()
	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()
	return input, nil
}

func unmarshalItems[T any](items []map[string]types.AttributeValue) ([]T, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		var t T
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, fmt.Errorf("dynamostore: unmarshal failed: %w", err)
		}
		result = append(result, t)
	}
	return result, nil
}
