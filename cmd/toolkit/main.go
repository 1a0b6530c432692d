package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/raywall/student-records/pkg/awsconf"
	"github.com/raywall/student-records/pkg/backup"
	"github.com/raywall/student-records/pkg/bootstrap"
	"github.com/raywall/student-records/pkg/config"
)

// Variáveis injetáveis para mocking
var (
	newApp      = bootstrap.New
	newS3Client = func(app *bootstrap.App) backup.S3Client {
		return awsconf.NewS3Client(app.AWS, app.Config.Backup.Endpoint)
	}
)

const usage = "Comandos esperados: validate | export | import"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}

	switch args[0] {
	case "validate":
		return runValidate(ctx, args[1:], out)
	case "export":
		return runExport(ctx, args[1:], out)
	case "import":
		return runImport(ctx, args[1:], out)
	default:
		return fmt.Errorf("comando desconhecido %q. %s", args[0], usage)
	}
}

func runValidate(ctx context.Context, args []string, out io.Writer) error {
	cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	cmd.SetOutput(out)
	filePtr := cmd.String("file", "", "Caminho do arquivo YAML (opcional)")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	fmt.Fprintf(out, "🔍 Analisando configuração: %s ...\n", *filePtr)

	cfg, err := config.NewLoader().Load(ctx, *filePtr)
	if err != nil {
		return fmt.Errorf("erro de carregamento/estrutura:\n%w", err)
	}

	// Output JSON para integração com pipelines
	if os.Getenv("OUTPUT_FORMAT") == "json" {
		jsonOutput, _ := json.Marshal(cfg)
		fmt.Fprintln(out, string(jsonOutput))
		return nil
	}
	fmt.Fprintln(out, "✅ Configuração Válida e Pronta para Deploy!")
	return nil
}

type backupFlags struct {
	file   *string
	bucket *string
	key    *string
	class  *string
	pages  *int
}

func parseBackupFlags(name string, args []string, out io.Writer, withClass bool) (*backupFlags, error) {
	cmd := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd.SetOutput(out)
	f := &backupFlags{
		file:   cmd.String("file", "", "Caminho do arquivo YAML (opcional)"),
		bucket: cmd.String("bucket", "", "Bucket S3 (padrão: EXPORT_BUCKET)"),
		key:    cmd.String("key", "", "Chave do objeto (padrão: EXPORT_KEY)"),
	}
	if withClass {
		f.class = cmd.String("class", "", "Exporta apenas a turma informada")
		f.pages = cmd.Int("page-size", 0, "Lê a tabela em páginas deste tamanho (0 lê tudo de uma vez)")
	}
	if err := cmd.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func openBackup(ctx context.Context, f *backupFlags) (*backup.Service, *bootstrap.App, string, string, error) {
	app, err := newApp(ctx, *f.file)
	if err != nil {
		return nil, nil, "", "", err
	}

	bucket, key := *f.bucket, *f.key
	if bucket == "" {
		bucket = app.Config.Backup.Bucket
	}
	if key == "" {
		key = app.Config.Backup.Key
	}
	if bucket == "" || key == "" {
		app.Close()
		return nil, nil, "", "", errors.New("flags -bucket e -key (ou EXPORT_BUCKET/EXPORT_KEY) são obrigatórias")
	}

	return backup.NewService(newS3Client(app), app.Repository), app, bucket, key, nil
}

func runExport(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseBackupFlags("export", args, out, true)
	if err != nil {
		return err
	}
	svc, app, bucket, key, err := openBackup(ctx, f)
	if err != nil {
		return err
	}
	defer app.Close()

	if *f.pages < 0 {
		return errors.New("flag -page-size não pode ser negativa")
	}
	n, err := svc.Export(ctx, bucket, key, *f.class, int32(*f.pages))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ %d alunos exportados para s3://%s/%s\n", n, bucket, key)
	return nil
}

func runImport(ctx context.Context, args []string, out io.Writer) error {
	f, err := parseBackupFlags("import", args, out, false)
	if err != nil {
		return err
	}
	svc, app, bucket, key, err := openBackup(ctx, f)
	if err != nil {
		return err
	}
	defer app.Close()

	n, err := svc.Import(ctx, bucket, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ %d alunos importados de s3://%s/%s\n", n, bucket, key)
	return nil
}
