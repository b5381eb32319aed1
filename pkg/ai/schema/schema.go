package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// StageOutputParseError reports model output that does not match the
// declared shape of a structured stage.
type StageOutputParseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *StageOutputParseError) Error() string {
	return fmt.Sprintf("stage %q returned malformed output: %v", e.Stage, e.Err)
}

func (e *StageOutputParseError) Unwrap() error { return e.Err }

var ErrNoJSONObject = errors.New("no JSON object found in output")

// Contract is a compiled JSON schema for one structured output.
type Contract struct {
	name     string
	schema   map[string]any
	compiled *gojsonschema.Schema
}

// Reflect derives a contract from T's json tags. Fields without omitempty
// are required.
func Reflect[T any](name string) (*Contract, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	var zero T
	b, err := json.Marshal(reflector.Reflect(zero))
	if err != nil {
		return nil, fmt.Errorf("marshal %s schema: %w", name, err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal %s schema: %w", name, err)
	}
	// keeps the schema usable as an OpenAI function parameter block
	delete(m, "$schema")
	delete(m, "$id")
	return compile(name, m)
}

// FromJSON compiles a hand-written schema document.
func FromJSON(name, doc string) (*Contract, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	return compile(name, m)
}

func compile(name string, m map[string]any) (*Contract, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(m))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return &Contract{name: name, schema: m, compiled: compiled}, nil
}

func Must(c *Contract, err error) *Contract {
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Contract) Name() string { return c.name }

// Schema returns the raw schema document, e.g. for tool declarations.
func (c *Contract) Schema() map[string]any { return c.schema }

// Validate checks a JSON document against the contract.
func (c *Contract) Validate(doc string) error {
	result, err := c.compiled.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("load JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s does not match schema: %s", c.name, strings.Join(msgs, "; "))
}

// Decode pulls the JSON object out of a model reply, validates it and
// unmarshals it into T. Every failure is a *StageOutputParseError.
func Decode[T any](c *Contract, stage, raw string) (T, error) {
	var out T

	doc := ExtractJSON(raw)
	if doc == "" {
		return out, &StageOutputParseError{Stage: stage, Raw: raw, Err: ErrNoJSONObject}
	}
	if err := c.Validate(doc); err != nil {
		return out, &StageOutputParseError{Stage: stage, Raw: raw, Err: err}
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return out, &StageOutputParseError{Stage: stage, Raw: raw, Err: err}
	}
	return out, nil
}

// ExtractJSON returns the outermost {...} span of a reply, tolerating
// markdown fences or chatter around it.
func ExtractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
