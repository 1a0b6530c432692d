package dyndb

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Document é um item completo do DynamoDB com todos os atributos,
// pronto para ser serializado em JSON. Números viram Decimal.
type Document map[string]any

// Decimal preserva a precisão arbitrária dos números do DynamoDB.
//
// Em JSON, um valor inteiro é emitido como literal inteiro (11) e um
// valor fracionário como literal de ponto flutuante (11.5).
type Decimal struct {
	decimal.Decimal
}

// ParseDecimal converte o texto de um atributo N.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("dyndb: invalid number %q: %w", s, err)
	}
	return Decimal{Decimal: d}, nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.IsInteger() {
		return []byte(d.Decimal.String()), nil
	}
	f, _ := d.Float64()
	return json.Marshal(f)
}

// UnmarshalDynamoDBAttributeValue implementa attributevalue.Unmarshaler.
func (d *Document) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	m, ok := av.(*types.AttributeValueMemberM)
	if !ok {
		return fmt.Errorf("dyndb: document must be a map attribute, got %T", av)
	}
	doc, err := decodeMap(m.Value)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func decodeMap(m map[string]types.AttributeValue) (map[string]any, error) {
	result := make(map[string]any, len(m))
	for k, v := range m {
		val, err := decodeAttribute(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		result[k] = val
	}
	return result, nil
}

func decodeAttribute(av types.AttributeValue) (any, error) {
	switch val := av.(type) {
	case *types.AttributeValueMemberS:
		return val.Value, nil
	case *types.AttributeValueMemberN:
		return ParseDecimal(val.Value)
	case *types.AttributeValueMemberBOOL:
		return val.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberB:
		return val.Value, nil
	case *types.AttributeValueMemberM:
		return decodeMap(val.Value)
	case *types.AttributeValueMemberL:
		list := make([]any, len(val.Value))
		for i, item := range val.Value {
			v, err := decodeAttribute(item)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil
	case *types.AttributeValueMemberSS:
		return val.Value, nil
	case *types.AttributeValueMemberNS:
		list := make([]Decimal, len(val.Value))
		for i, n := range val.Value {
			d, err := ParseDecimal(n)
			if err != nil {
				return nil, err
			}
			list[i] = d
		}
		return list, nil
	case *types.AttributeValueMemberBS:
		return val.Value, nil
	default:
		return nil, fmt.Errorf("dyndb: unsupported attribute type %T", av)
	}
}

// FromJSON prepara um valor decodificado com json.Decoder.UseNumber para
// gravação: json.Number vira attributevalue.Number (atributo N) com o
// texto original, sem passar por float64.
func FromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		return attributevalue.Number(x.String())
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[k] = FromJSON(val)
		}
		return m
	case []any:
		l := make([]any, len(x))
		for i, val := range x {
			l[i] = FromJSON(val)
		}
		return l
	default:
		return v
	}
}
