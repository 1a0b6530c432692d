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
package student

import (
	"context"

	"github.com/raywall/student-records/dyndb"
	"github.com/raywall/student-records/pkg/config"
)

// Repository lê e grava alunos na tabela configurada.
type Repository struct {
	store dyndb.Store[dyndb.Document]
}

func NewRepository(client dyndb.DynamoDBClient, table config.TableConf) (*Repository, error) {
	store, err := dyndb.New(client, dyndb.TableConfig[dyndb.Document]{
		TableName: table.Name,
		HashKey:   table.HashKey,
	})
	if err != nil {
		return nil, err
	}
	return &Repository{store: store}, nil
}

// List devolve todos os itens da tabela, seguindo todas as páginas do Scan.
// Em caso de erro nenhum item parcial é devolvido.
func (r *Repository) List(ctx context.Context) ([]dyndb.Document, error) {
	docs, err := r.store.Scan().All(ctx)
	if err != nil {
		return nil, fail("list", err)
	}
	return docs, nil
}

// ListByClass filtra o Scan por igualdade no atributo class.
func (r *Repository) ListByClass(ctx context.Context, class string) ([]dyndb.Document, error) {
	docs, err := r.store.Scan().FilterEqual("class", class).All(ctx)
	if err != nil {
		return nil, fail("list", err)
	}
	return docs, nil
}

// Page lê uma única página de até limit itens a partir do token devolvido
// pela página anterior (vazio na primeira). class vazio não filtra. O token
// devolvido é vazio quando não há mais páginas.
func (r *Repository) Page(ctx context.Context, class string, limit int32, token string) ([]dyndb.Document, string, error) {
	sb := r.store.Scan().Limit(limit).LastKey(token)
	if class != "" {
		sb = sb.FilterEqual("class", class)
	}
	docs, next, err := sb.Exec(ctx)
	if err != nil {
		return nil, "", fail("list", err)
	}
	return docs, next, nil
}

// Save grava o registro (upsert pelo studentid).
func (r *Repository) Save(ctx context.Context, rec Record) error {
	return fail("save", r.store.Put(ctx, rec.Document()))
}

// SaveAll grava vários registros via BatchWriteItem.
func (r *Repository) SaveAll(ctx context.Context, recs []Record) error {
	docs := make([]dyndb.Document, len(recs))
	for i, rec := range recs {
		docs[i] = rec.Document()
	}
	return fail("save", r.store.BatchWrite(ctx, docs))
}
