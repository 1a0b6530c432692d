// Package backup exporta a tabela de alunos para um objeto JSON no S3 e
// importa de volta, no mesmo formato devolvido pela listagem.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/student-records/dyndb"
	"github.com/raywall/student-records/pkg/student"
	"github.com/rs/zerolog/log"
)

// S3Client interface para Mock
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store é o lado DynamoDB do backup.
type Store interface {
	List(ctx context.Context) ([]dyndb.Document, error)
	ListByClass(ctx context.Context, class string) ([]dyndb.Document, error)
	Page(ctx context.Context, class string, limit int32, token string) ([]dyndb.Document, string, error)
	SaveAll(ctx context.Context, recs []student.Record) error
}

type Service struct {
	client S3Client
	store  Store
}

func NewService(client S3Client, store Store) *Service {
	return &Service{client: client, store: store}
}

// Export grava em s3://bucket/key o array JSON com todos os alunos, ou só
// os da turma informada. Com pageSize > 0 a tabela é lida em páginas de até
// pageSize itens, seguindo o token de continuação. Devolve a quantidade
// exportada.
func (s *Service) Export(ctx context.Context, bucket, key, class string, pageSize int32) (int, error) {
	var (
		body []byte
		n    int
		err  error
	)
	if pageSize > 0 {
		body, n, err = s.encodePages(ctx, class, pageSize)
	} else {
		body, n, err = s.encodeAll(ctx, class)
	}
	if err != nil {
		return 0, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return 0, fmt.Errorf("erro ao enviar para o S3: %w", err)
	}

	log.Ctx(ctx).Info().Str("bucket", bucket).Str("key", key).Int("items", n).Msg("exportação concluída")
	return n, nil
}

func (s *Service) encodeAll(ctx context.Context, class string) ([]byte, int, error) {
	var (
		docs []dyndb.Document
		err  error
	)
	if class != "" {
		docs, err = s.store.ListByClass(ctx, class)
	} else {
		docs, err = s.store.List(ctx)
	}
	if err != nil {
		return nil, 0, err
	}

	body, err := json.Marshal(docs)
	if err != nil {
		return nil, 0, fmt.Errorf("backup: encode: %w", err)
	}
	return body, len(docs), nil
}

// encodePages monta o array JSON página a página; só a página corrente fica
// decodificada em memória.
func (s *Service) encodePages(ctx context.Context, class string, pageSize int32) ([]byte, int, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	n, page, token := 0, 0, ""
	for {
		docs, next, err := s.store.Page(ctx, class, pageSize, token)
		if err != nil {
			return nil, 0, err
		}
		for _, doc := range docs {
			b, err := json.Marshal(doc)
			if err != nil {
				return nil, 0, fmt.Errorf("backup: encode: %w", err)
			}
			if n > 0 {
				buf.WriteByte(',')
			}
			buf.Write(b)
			n++
		}

		page++
		log.Ctx(ctx).Debug().Int("page", page).Int("items", len(docs)).Msg("página exportada")
		if next == "" {
			break
		}
		token = next
	}

	buf.WriteByte(']')
	return buf.Bytes(), n, nil
}

// Import lê s3://bucket/key e grava cada registro com BatchWriteItem. O
// arquivo inteiro é validado antes da primeira gravação.
func (s *Service) Import(ctx context.Context, bucket, key string) (int, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("erro ao baixar do S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return 0, err
	}

	recs, err := student.ParseRecords(data)
	if err != nil {
		return 0, err
	}
	if err := s.store.SaveAll(ctx, recs); err != nil {
		return 0, err
	}

	log.Ctx(ctx).Info().Str("bucket", bucket).Str("key", key).Int("items", len(recs)).Msg("importação concluída")
	return len(recs), nil
}
