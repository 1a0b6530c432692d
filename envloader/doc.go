//
// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go a partir das tags `env`, `envDefault` e `envRequired`.
//
// Tipos suportados: string, inteiros, uints, bool, floats, time.Duration e
// []string (valores separados por vírgula), além de structs aninhadas e
// ponteiros para structs.
//
// O loader foi pensado para rodar depois de outras fontes de configuração:
// a variável de ambiente sempre prevalece, mas o `envDefault` só preenche
// campos que ainda estão zerados.
//
//	type Config struct {
//		Table   string        `env:"STUDENTS_TABLE_NAME" envDefault:"studentData"`
//		Timeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
//		Queue   string        `env:"STUDENT_EVENTS_QUEUE_URL"`
//	}
//
//	var cfg Config
//	if err := envloader.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
package envloader
