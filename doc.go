// Package studentrecords reúne o serviço de cadastro de alunos: duas funções
// sem estado sobre uma tabela DynamoDB, uma que lista todos os registros e
// outra que grava um registro a partir do corpo da requisição.
//
// Visão Geral:
// As funções rodam atrás do API Gateway (Lambda) ou de um servidor HTTP local
// com a mesma semântica. A listagem percorre o Scan página a página e devolve
// um array JSON; o insert faz um PutItem incondicional (upsert pelo
// studentid). Qualquer falha vira 500 com {"error": "..."}.
//
// Sub-Pacotes Principais:
//
// 1. dyndb:
//   - Store[T] genérico com Put, BatchWrite e ScanBuilder paginado.
//   - Document e Decimal: itens completos com números de precisão arbitrária.
//
// 2. envloader:
//   - Carregamento de configurações via tags "env", "envDefault" e "envRequired".
//
// 3. pkg/student:
//   - Record, ParseRecord e o Repository sobre o dyndb.
//   - Notificação opcional de alterações via SQS.
//
// 4. pkg/transport:
//   - Handlers de API Gateway (List, Insert, Dispatch) com CORS, correlation id e métricas.
//   - Adaptador gorilla/mux para o runtime local.
//
// 5. pkg/config, pkg/logger, pkg/observability, pkg/metrics, pkg/bootstrap:
//   - Configuração YAML + ambiente + SSM/Secrets Manager, zerolog e Datadog.
//
// Binários:
//
//	cmd/list-students   função Lambda de listagem
//	cmd/insert-student  função Lambda de insert
//	cmd/server          runtime local (HTTP) ou Lambda única para GET/POST/OPTIONS
//	cmd/toolkit         validate, export e import (S3)
//
// Exemplo de Início Rápido:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/raywall/student-records/pkg/awsconf"
//		"github.com/raywall/student-records/pkg/config"
//		"github.com/raywall/student-records/pkg/student"
//	)
//
//	func main() {
//		ctx := context.Background()
//		table := config.TableConf{Name: "studentData", HashKey: "studentid", Region: "ap-south-1"}
//
//		awsCfg, err := awsconf.Load(ctx, table.Region)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		repo, err := student.NewRepository(awsconf.NewDynamoClient(awsCfg, ""), table)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		docs, err := repo.List(ctx)
//		if err != nil {
//			log.Fatal(err)
//		}
//		log.Printf("%d alunos", len(docs))
//	}
package studentrecords
