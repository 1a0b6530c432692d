// Package dyndb fornece uma abstração genérica e fortemente tipada sobre o
// AWS DynamoDB Go SDK (v2).
//
// Visão Geral:
// O pacote `dyndb` oferece a interface `Store[T]`, que simplifica as
// gravações (Put e BatchWrite) e a leitura completa da tabela via Scan,
// eliminando a necessidade de lidar diretamente com os tipos de baixo nível
// do SDK do DynamoDB (AttributeValue, etc.).
//
// Funcionalidades Principais:
//   - Put Tipado: upsert incondicional de um item Go nativo.
//   - BatchWrite: lotes de 25 itens com reenvio de UnprocessedItems.
//   - ScanBuilder: `Scan().FilterEqual(...).Limit(...).Exec(ctx)` para uma
//     página, ou `All(ctx)` para seguir o LastEvaluatedKey até o fim.
//   - Tokens de Paginação: o LastEvaluatedKey vira um token base64 opaco que
//     volta ao builder por `LastKey(token)`.
//   - Document e Decimal: leitura de itens completos preservando a precisão
//     dos números; em JSON, inteiros saem como inteiros e frações como float.
//   - Mocks Integrados: `MockDynamoClient` e `MemoryClient` para testes.
//
// Exemplo Básico:
//
//	store, err := dyndb.New(client, dyndb.TableConfig[dyndb.Document]{
//		TableName: "studentData",
//		HashKey:   "studentid",
//	})
//
//	err = store.Put(ctx, dyndb.Document{"studentid": "s1", "name": "Alice"})
//
//	docs, err := store.Scan().All(ctx)
//	body, _ := json.Marshal(docs) // [{"age":11,"name":"Alice",...}]
//
// Paginação Manual:
// Para ler a tabela sem carregar tudo de uma vez, `Exec` devolve uma página
// e o token da próxima, que volta ao builder por `LastKey`. Um token vazio
// encerra a leitura (é o que o export paginado do toolkit faz):
//
//	token := ""
//	for {
//		page, next, err := store.Scan().Limit(100).LastKey(token).Exec(ctx)
//		if err != nil {
//			return err
//		}
//		process(page)
//		if next == "" {
//			break
//		}
//		token = next
//	}
//
// Configuração:
// Sem TableName, o Store lê DYNAMODB_TABLE_NAME e DYNAMODB_HASH_KEY do
// ambiente via envloader.
package dyndb
