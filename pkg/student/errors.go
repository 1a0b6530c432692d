package student

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField indica que uma das chaves obrigatórias não veio no corpo.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidBody indica corpo vazio, JSON malformado ou que não é um objeto.
	ErrInvalidBody = errors.New("invalid request body")
)

// OperationFailure é o único tipo de erro devolvido pelas operações do
// pacote. Op identifica a etapa (parse, list, save) e Err a causa.
type OperationFailure struct {
	Op  string
	Err error
}

func (e *OperationFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OperationFailure) Unwrap() error {
	return e.Err
}

func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationFailure{Op: op, Err: err}
}
