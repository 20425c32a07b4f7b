package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

var (
	// ErrMalformedBody is returned when the request body is not a JSON object
	ErrMalformedBody = errors.New("request body must be a JSON object")
)

// JSON type names as reported to clients.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeBool   = "bool"
	TypeArray  = "array"
	TypeObject = "object"
	TypeNull   = "null"
)

// DecodeCreate parses a create payload. telegramId is required; every other
// attribute is optional and falls back to the entity defaults.
func DecodeCreate(body []byte) (*entity.TelegramUser, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	raw, ok := fields["telegramId"]
	if !ok || jsonType(raw) == TypeNull {
		return nil, entity.Required("telegramId", TypeInt)
	}
	id, err := decodeInt("telegramId", raw)
	if err != nil {
		return nil, err
	}

	patch, err := decodePatchFields(fields)
	if err != nil {
		return nil, err
	}

	user := &entity.TelegramUser{TelegramID: id}
	user.Apply(patch)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// DecodePatch parses an update payload for the record at telegramID. A
// telegramId attribute is accepted only if it repeats the path id.
func DecodePatch(body []byte, telegramID int64) (entity.Patch, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return entity.Patch{}, err
	}

	if raw, ok := fields["telegramId"]; ok {
		id, err := decodeInt("telegramId", raw)
		if err != nil {
			return entity.Patch{}, err
		}
		if id != telegramID {
			return entity.Patch{}, entity.Immutable("telegramId")
		}
	}

	patch, err := decodePatchFields(fields)
	if err != nil {
		return entity.Patch{}, err
	}
	if err := patch.Validate(); err != nil {
		return entity.Patch{}, err
	}
	return patch, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	if body[0] != '{' {
		return nil, ErrMalformedBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return fields, nil
}

func decodePatchFields(fields map[string]json.RawMessage) (entity.Patch, error) {
	var p entity.Patch
	var err error

	if raw, ok := fields["username"]; ok {
		if p.Username, err = decodeNullableString("username", raw); err != nil {
			return p, err
		}
	}
	if raw, ok := fields["fullName"]; ok {
		if p.FullName, err = decodeNullableString("fullName", raw); err != nil {
			return p, err
		}
	}
	if raw, ok := fields["balance"]; ok {
		v, err := decodeInt("balance", raw)
		if err != nil {
			return p, err
		}
		p.Balance = entity.Some(v)
	}
	if raw, ok := fields["isManager"]; ok {
		v, err := decodeBool("isManager", raw)
		if err != nil {
			return p, err
		}
		p.IsManager = entity.Some(v)
	}
	if raw, ok := fields["isAdmin"]; ok {
		v, err := decodeBool("isAdmin", raw)
		if err != nil {
			return p, err
		}
		p.IsAdmin = entity.Some(v)
	}
	return p, nil
}

func decodeInt(field string, raw json.RawMessage) (int64, error) {
	if t := jsonType(raw); t != TypeInt {
		return 0, entity.TypeMismatch(field, TypeInt, t)
	}
	v, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, 64)
	if err != nil {
		return 0, &entity.ValidationError{
			Field:    field,
			Expected: TypeInt,
			Actual:   TypeInt,
			Message:  "This value is out of range.",
		}
	}
	return v, nil
}

func decodeBool(field string, raw json.RawMessage) (bool, error) {
	if t := jsonType(raw); t != TypeBool {
		return false, entity.TypeMismatch(field, TypeBool, t)
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, entity.TypeMismatch(field, TypeBool, TypeString)
	}
	return v, nil
}

func decodeNullableString(field string, raw json.RawMessage) (entity.Field[*string], error) {
	switch t := jsonType(raw); t {
	case TypeNull:
		return entity.Some[*string](nil), nil
	case TypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return entity.Field[*string]{}, entity.TypeMismatch(field, TypeString, t)
		}
		return entity.Some(&s), nil
	default:
		return entity.Field[*string]{}, entity.TypeMismatch(field, TypeString, t)
	}
}

// jsonType names the JSON type of an already syntax-checked value.
func jsonType(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return TypeNull
	}
	switch raw[0] {
	case '"':
		return TypeString
	case '{':
		return TypeObject
	case '[':
		return TypeArray
	case 't', 'f':
		return TypeBool
	case 'n':
		return TypeNull
	}
	if bytes.ContainsAny(raw, ".eE") {
		return TypeFloat
	}
	return TypeInt
}
