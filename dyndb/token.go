package dyndb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// keyAttr é a forma serializada de um atributo de chave. O DynamoDB só
// aceita S, N e B em chaves primárias.
type keyAttr struct {
	S *string `json:"S,omitempty"`
	N *string `json:"N,omitempty"`
	B []byte  `json:"B,omitempty"`
}

func encodeToken(lastKey map[string]types.AttributeValue) (string, error) {
	if len(lastKey) == 0 {
		return "", nil
	}

	raw := make(map[string]keyAttr, len(lastKey))
	for name, av := range lastKey {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			raw[name] = keyAttr{S: &v.Value}
		case *types.AttributeValueMemberN:
			raw[name] = keyAttr{N: &v.Value}
		case *types.AttributeValueMemberB:
			raw[name] = keyAttr{B: v.Value}
		default:
			return "", fmt.Errorf("dyndb: unsupported key attribute %q (%T)", name, av)
		}
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("dyndb: encode token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func decodeToken(token string) (map[string]types.AttributeValue, error) {
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var raw map[string]keyAttr
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	key := make(map[string]types.AttributeValue, len(raw))
	for name, a := range raw {
		switch {
		case a.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *a.S}
		case a.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *a.N}
		case a.B != nil:
			key[name] = &types.AttributeValueMemberB{Value: a.B}
		default:
			return nil, fmt.Errorf("%w: empty attribute %q", ErrInvalidToken, name)
		}
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidToken)
	}
	return key, nil
}

// keyString identifica um valor de chave para comparação.
func keyString(av types.AttributeValue) (string, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + v.Value, nil
	case *types.AttributeValueMemberN:
		return "N:" + v.Value, nil
	case *types.AttributeValueMemberB:
		return "B:" + string(v.Value), nil
	default:
		return "", fmt.Errorf("dyndb: invalid key attribute type %T", av)
	}
}
