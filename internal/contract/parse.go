package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// ParseThread parses a full-generation or refinement reply. op selects the
// user message reported on failure.
func ParseThread(raw string, op Operation) (*model.Thread, error) {
	var thread model.Thread
	if err := decode(raw, Thread, op, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// ParseBody parses a body-regeneration reply.
func ParseBody(raw string) ([]string, error) {
	var body struct {
		BodyPosts []string `json:"bodyPosts"`
	}
	if err := decode(raw, Body, OpBody, &body); err != nil {
		return nil, err
	}
	return body.BodyPosts, nil
}

// ParseHook parses a plain-text hook reply.
func ParseHook(raw string) (string, error) {
	hook := strings.TrimSpace(raw)
	if hook == "" {
		return "", &Violation{Operation: OpHook, Reason: "empty reply"}
	}
	return hook, nil
}

// decode trims raw, parses it as one JSON value, checks it against schema and
// only then unmarshals into out. No repair is attempted.
func decode(raw string, schema *Schema, op Operation, out any) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return &Violation{Operation: op, Reason: "empty reply"}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var value any
	if err := dec.Decode(&value); err != nil {
		return &Violation{Operation: op, Reason: "malformed payload", Err: err}
	}
	if dec.More() {
		return &Violation{Operation: op, Reason: "trailing content after payload"}
	}
	if err := Validate(schema, value); err != nil {
		return &Violation{Operation: op, Reason: "schema mismatch", Err: err}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &Violation{Operation: op, Reason: "malformed payload", Err: err}
	}
	return nil
}

// Validate checks a decoded JSON value against schema.
func Validate(schema *Schema, value any) error {
	return validate(schema, value, "$")
}

func validate(schema *Schema, value any, path string) error {
	switch schema.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s: expected string", path)
		}
	case KindArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		if schema.Items == nil {
			return nil
		}
		for i, item := range items {
			if err := validate(schema.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for _, name := range schema.Required {
			if _, ok := obj[name]; !ok {
				return fmt.Errorf("%s.%s: required field missing", path, name)
			}
		}
		for _, p := range schema.Properties {
			child, ok := obj[p.Name]
			if !ok {
				continue
			}
			if err := validate(p.Schema, child, path+"."+p.Name); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s: unsupported schema kind %q", path, schema.Kind)
	}
	return nil
}
