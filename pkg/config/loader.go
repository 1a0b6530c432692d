package config

import (
	"context"
	"fmt"
	"os"

	"github.com/raywall/student-records/envloader"
	"gopkg.in/yaml.v3"
)

// Loader carrega a configuração em camadas: arquivo YAML opcional,
// variáveis de ambiente, placeholders de SSM/Secrets Manager e validação.
type Loader struct {
	// NewResolver só é chamado quando há placeholders a resolver.
	NewResolver func(ctx context.Context, region string) (*Resolver, error)
}

// NewLoader cria um Loader que resolve placeholders com clientes AWS reais.
func NewLoader() *Loader {
	return &Loader{NewResolver: NewAWSResolver}
}

// Load carrega a configuração. path vazio pula a leitura do arquivo.
func (l *Loader) Load(ctx context.Context, path string) (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("erro ao parsear yaml: %w", err)
		}
	}

	if err := envloader.Load(cfg); err != nil {
		return nil, err
	}

	if NeedsResolution(cfg) && l.NewResolver != nil {
		resolver, err := l.NewResolver(ctx, cfg.Table.Region)
		if err != nil {
			return nil, fmt.Errorf("erro ao criar resolver: %w", err)
		}
		if err := resolver.Resolve(ctx, cfg); err != nil {
			return nil, err
		}
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
