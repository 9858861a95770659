package movies

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Payload is a decoded request body. Numbers keep their literal text.
type Payload map[string]any

func DecodeBody(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: body is not a JSON object", ErrMalformedBody)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrMalformedBody)
	}

	return p, nil
}

// RawID returns the id exactly as sent, or nil when absent.
func (p Payload) RawID() any {
	return p["id"]
}

// Movie coerces year, title and id to their string forms. A field that is
// absent or null, or an empty id, is a *MissingFieldError.
func (p Payload) Movie() (Movie, error) {
	year, err := p.field("year")
	if err != nil {
		return Movie{}, err
	}

	title, err := p.field("title")
	if err != nil {
		return Movie{}, err
	}

	id, err := p.field("id")
	if err != nil {
		return Movie{}, err
	}
	if id == "" {
		return Movie{}, &MissingFieldError{Field: "id"}
	}

	return Movie{
		ID:    id,
		Title: title,
		Year:  Year(year),
	}, nil
}

// field treats a JSON null the same as an absent key.
func (p Payload) field(name string) (string, error) {
	v, ok := p[name]
	if !ok || v == nil {
		return "", &MissingFieldError{Field: name}
	}

	s, err := stringForm(v)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return s, nil
}

// stringForm keeps the JSON literal text of numbers and booleans, so 1e3
// stays "1e3" and true stays "true"; DynamoDB accepts either number form.
func stringForm(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
