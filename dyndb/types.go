// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package dyndb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrInvalidToken é retornado quando um token de paginação não pode ser decodificado.
var ErrInvalidToken = errors.New("dyndb: invalid continuation token")

// maxBatchWrite é o limite do DynamoDB por chamada BatchWriteItem.
const maxBatchWrite = 25

// DynamoDBClient interface para abstrair o cliente DynamoDB
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store: interface principal (genérica)
type Store[T any] interface {
	// Put grava o item sem condição (upsert).
	Put(ctx context.Context, item T) error
	// BatchWrite grava vários itens, em lotes de 25.
	BatchWrite(ctx context.Context, items []T) error
	// Scan inicia um ScanBuilder sobre a tabela inteira.
	Scan() *ScanBuilder[T]
}

// TableConfig: configuração da tabela
type TableConfig[T any] struct {
	TableName string `env:"DYNAMODB_TABLE_NAME"`
	HashKey   string `env:"DYNAMODB_HASH_KEY" envDefault:"id"`
}

// ScanBuilder: o builder fluente de Scan
type ScanBuilder[T any] struct {
	store      *dynamoStore[T]
	filterCond *expression.ConditionBuilder
	limit      *int32
	lastKey    map[string]types.AttributeValue
	tokenErr   error
}
