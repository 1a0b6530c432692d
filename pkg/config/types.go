package config

import "time"

// Runtimes suportados pelo serviço.
const (
	RuntimeLambda = "lambda"
	RuntimeLocal  = "local"
)

// ServiceConfig representa a configuração completa do serviço. Pode vir de
// um arquivo YAML e é sempre sobreposta pelas variáveis de ambiente.
type ServiceConfig struct {
	Service ServiceDetails `yaml:"service"`
	Table   TableConf      `yaml:"table"`
	Logging LoggingConf    `yaml:"logging"`
	Metrics MetricsConf    `yaml:"metrics"`
	Events  EventsConf     `yaml:"events"`
	Backup  BackupConf     `yaml:"backup"`
}

// ServiceDetails contém os metadados e configurações de runtime do serviço.
type ServiceDetails struct {
	Name    string        `yaml:"name" env:"SERVICE_NAME" envDefault:"student-records" validate:"required,hostname_rfc1123"`
	Runtime string        `yaml:"runtime" env:"SERVICE_RUNTIME" envDefault:"lambda" validate:"required,oneof=local lambda"`
	Port    int           `yaml:"port" env:"SERVICE_PORT" envDefault:"8080" validate:"required_if=Runtime local,omitempty,gt=0,lt=65536"`
	Timeout time.Duration `yaml:"timeout" env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// TableConf descreve a tabela DynamoDB dos registros de alunos.
type TableConf struct {
	Name     string `yaml:"name" env:"STUDENTS_TABLE_NAME" envDefault:"studentData" validate:"required"`
	HashKey  string `yaml:"hash_key" env:"STUDENTS_HASH_KEY" envDefault:"studentid" validate:"required"`
	Region   string `yaml:"region" env:"AWS_REGION" envDefault:"ap-south-1" validate:"required"`
	Endpoint string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
}

type LoggingConf struct {
	Disabled bool   `yaml:"disabled" env:"LOG_DISABLED"`
	Level    string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool     `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string   `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string   `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"students."`
	Tags      []string `yaml:"tags" env:"DD_TAGS"`
}

// EventsConf habilita a publicação de eventos de alteração no SQS.
type EventsConf struct {
	QueueURL string `yaml:"queue_url" env:"STUDENT_EVENTS_QUEUE_URL" validate:"omitempty,url"`
}

// BackupConf define o destino padrão de export/import no S3.
type BackupConf struct {
	Bucket   string `yaml:"bucket" env:"EXPORT_BUCKET"`
	Key      string `yaml:"key" env:"EXPORT_KEY" envDefault:"students/export.json"`
	Endpoint string `yaml:"endpoint" env:"S3_ENDPOINT" validate:"omitempty,url"`
}
