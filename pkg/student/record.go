package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/raywall/student-records/dyndb"
)

// RequiredFields são as chaves que todo registro precisa trazer, na ordem
// em que são verificadas.
var RequiredFields = []string{"studentid", "name", "class", "age"}

// Record é um aluno como chega no corpo do insert. Os valores não são
// tipados: qualquer valor JSON, inclusive null, é aceito e gravado como veio.
// Números chegam como json.Number.
type Record struct {
	StudentID any `json:"studentid"`
	Name      any `json:"name"`
	Class     any `json:"class"`
	Age       any `json:"age"`
}

// Document converte o registro no item gravado na tabela, exatamente com as
// quatro chaves. Números mantêm o texto original.
func (r Record) Document() dyndb.Document {
	return dyndb.Document{
		"studentid": dyndb.FromJSON(r.StudentID),
		"name":      dyndb.FromJSON(r.Name),
		"class":     dyndb.FromJSON(r.Class),
		"age":       dyndb.FromJSON(r.Age),
	}
}

// ParseRecord decodifica o corpo de um insert. O corpo precisa ser um
// objeto JSON com as quatro chaves de RequiredFields; chaves extras são
// ignoradas.
func ParseRecord(body string) (Record, error) {
	rec, err := parseRecord([]byte(body))
	return rec, fail("parse", err)
}

// ParseRecords decodifica um array JSON de registros, aplicando a cada
// elemento as mesmas regras de ParseRecord.
func ParseRecords(data []byte) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fail("parse", fmt.Errorf("%w: %v", ErrInvalidBody, err))
	}

	records := make([]Record, 0, len(raw))
	for i, item := range raw {
		rec, err := parseRecord(item)
		if err != nil {
			return nil, fail("parse", fmt.Errorf("record %d: %w", i, err))
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(body []byte) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Record{}, fmt.Errorf("%w: empty body", ErrInvalidBody)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if fields == nil {
		return Record{}, fmt.Errorf("%w: body must be a JSON object", ErrInvalidBody)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidBody)
	}

	for _, name := range RequiredFields {
		if _, ok := fields[name]; !ok {
			return Record{}, fmt.Errorf("%w %q", ErrMissingField, name)
		}
	}

	return Record{
		StudentID: fields["studentid"],
		Name:      fields["name"],
		Class:     fields["class"],
		Age:       fields["age"],
	}, nil
}

// ID devolve o studentid como texto, para logs e eventos.
func (r Record) ID() string {
	switch v := r.StudentID.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
