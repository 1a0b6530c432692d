package config

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/raywall/student-records/pkg/awsconf"
)

// placeholderRegex reconhece {{ssm:/caminho}} e {{secret:nome#chave}}.
var placeholderRegex = regexp.MustCompile(`\{\{(ssm|secret):([^}#]+)(?:#([^}]+))?\}\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Resolver substitui placeholders em campos string da configuração por
// valores do SSM Parameter Store ou do Secrets Manager.
type Resolver struct {
	SSM     SSMClient
	Secrets SecretsClient
}

// NewAWSResolver cria um Resolver com clientes reais na região informada.
func NewAWSResolver(ctx context.Context, region string) (*Resolver, error) {
	cfg, err := awsconf.Load(ctx, region)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		SSM:     ssm.NewFromConfig(cfg),
		Secrets: secretsmanager.NewFromConfig(cfg),
	}, nil
}

func hasPlaceholder(s string) bool {
	return placeholderRegex.MatchString(s)
}

// NeedsResolution indica se algum campo da configuração usa placeholders.
func NeedsResolution(cfg *ServiceConfig) bool {
	found := false
	_ = walkStrings(reflect.ValueOf(cfg).Elem(), func(s string) (string, error) {
		if hasPlaceholder(s) {
			found = true
		}
		return s, nil
	})
	return found
}

// Resolve percorre a configuração e resolve todos os placeholders.
func (r *Resolver) Resolve(ctx context.Context, cfg *ServiceConfig) error {
	return walkStrings(reflect.ValueOf(cfg).Elem(), func(s string) (string, error) {
		return r.resolveString(ctx, s)
	})
}

func (r *Resolver) resolveString(ctx context.Context, s string) (string, error) {
	var resolveErr error
	out := placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		if resolveErr != nil {
			return match
		}
		parts := placeholderRegex.FindStringSubmatch(match)
		var value string
		switch parts[1] {
		case "ssm":
			value, resolveErr = r.parameter(ctx, parts[2])
		case "secret":
			value, resolveErr = r.secret(ctx, parts[2], parts[3])
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}

func (r *Resolver) parameter(ctx context.Context, path string) (string, error) {
	if r.SSM == nil {
		return "", fmt.Errorf("resolver: ssm client not configured for %q", path)
	}
	out, err := r.SSM.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter %s: %w", path, err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("erro no SSM GetParameter %s: parâmetro vazio", path)
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (r *Resolver) secret(ctx context.Context, id, key string) (string, error) {
	if r.Secrets == nil {
		return "", fmt.Errorf("resolver: secrets manager client not configured for %q", id)
	}
	out, err := r.Secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager %s: %w", id, err)
	}

	val := aws.ToString(out.SecretString)
	if key == "" {
		return val, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("secret %s não é um JSON: %w", id, err)
	}
	field, ok := data[key]
	if !ok {
		return "", fmt.Errorf("secret %s não possui a chave %q", id, key)
	}
	return fmt.Sprintf("%v", field), nil
}

// walkStrings aplica fn em todos os campos string e []string exportados.
func walkStrings(val reflect.Value, fn func(string) (string, error)) error {
	switch val.Kind() {
	case reflect.Struct:
		for i := 0; i < val.NumField(); i++ {
			if !val.Field(i).CanSet() {
				continue
			}
			if err := walkStrings(val.Field(i), fn); err != nil {
				return err
			}
		}
	case reflect.Slice:
		for i := 0; i < val.Len(); i++ {
			if err := walkStrings(val.Index(i), fn); err != nil {
				return err
			}
		}
	case reflect.String:
		s, err := fn(val.String())
		if err != nil {
			return err
		}
		if val.CanSet() {
			val.SetString(s)
		}
	}
	return nil
}
