// Package schema validates request bodies against the embedded JSON schemas.
//
// Every schema compiles twice: Full enforces the "required" list and is used
// when creating records, Partial drops it and is used for updates, so a
// supplied field is held to the same rules either way.
package schema

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type Mode int

const (
	Full Mode = iota
	Partial
)

func (m Mode) String() string {
	if m == Partial {
		return "partial"
	}
	return "full"
}

type compiled struct {
	full    *gojsonschema.Schema
	partial *gojsonschema.Schema
	types   map[string][]string
}

// Validator holds the compiled schemas keyed by file name without extension.
type Validator struct {
	schemas map[string]*compiled
}

// New compiles the schemas shipped with the package.
func New() (*Validator, error) {
	return NewValidatorFromFS(schemaFS, "schemas")
}

// NewValidatorFromFS compiles every .json file found in dir.
func NewValidatorFromFS(fsys embed.FS, dir string) (*Validator, error) {
	files, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read dir %w", err)
	}
	v := &Validator{schemas: make(map[string]*compiled)}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		raw, err := fsys.ReadFile(dir + "/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("cannot read file '%s' %w", f.Name(), err)
		}
		name := strings.TrimSuffix(f.Name(), ".json")
		c, err := compile(raw)
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s: %w", name, err)
		}
		v.schemas[name] = c
	}
	return v, nil
}

func compile(raw []byte) (*compiled, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	full, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, err
	}
	delete(doc, "required")
	partial, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, err
	}
	return &compiled{full: full, partial: partial, types: propertyTypes(doc)}, nil
}

// propertyTypes collects the declared JSON types of each top-level property.
func propertyTypes(doc map[string]any) map[string][]string {
	types := make(map[string][]string)
	props, _ := doc["properties"].(map[string]any)
	for name, p := range props {
		prop, ok := p.(map[string]any)
		if !ok {
			continue
		}
		switch t := prop["type"].(type) {
		case string:
			types[name] = []string{t}
		case []any:
			for _, item := range t {
				if s, ok := item.(string); ok {
					types[name] = append(types[name], s)
				}
			}
		}
	}
	return types
}

// Present lists the fields a client actually sent.
type Present map[string]bool

func (p Present) Has(field string) bool { return p[field] }

// Decode validates body against the named schema in the given mode and
// unmarshals the accepted document into dst. Numeric strings are coerced for
// integer and number properties before validation. Unknown fields are
// ignored.
func (v *Validator) Decode(name string, mode Mode, body []byte, dst any) (Present, error) {
	c, ok := v.schemas[name]
	if !ok {
		return nil, fmt.Errorf("there is no schema %s", name)
	}
	doc, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	present := make(Present, len(doc))
	for k, val := range doc {
		if _, known := c.types[k]; !known {
			delete(doc, k)
			continue
		}
		present[k] = true
		doc[k] = coerce(val, c.types[k])
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode %s: %w", name, err)
	}
	s := c.full
	if mode == Partial {
		s = c.partial
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(normalized))
	if err != nil {
		return nil, fmt.Errorf("cannot validate with schema %s %s", name, err)
	}
	if !result.Valid() {
		return nil, fromResult(result)
	}
	if dst != nil {
		if err := json.Unmarshal(normalized, dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return present, nil
}

// RequireKeys reads a raw JSON object and returns the string values of keys,
// failing with MissingFieldError on the first absent one.
func RequireKeys(body []byte, keys ...string) (map[string]string, error) {
	doc, err := parseObject(body)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		val, ok := doc[k]
		if !ok || val == nil {
			return nil, &MissingFieldError{Field: k}
		}
		s, ok := val.(string)
		if !ok {
			return nil, &ValidationError{Fields: map[string][]string{k: {"Not a valid string."}}}
		}
		out[k] = s
	}
	return out, nil
}

func parseObject(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, invalidInput("Request body must be a JSON object.")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, invalidInput("Request body is not valid JSON.")
	}
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidInput("Invalid input type.")
	}
	return doc, nil
}

func coerce(val any, types []string) any {
	s, ok := val.(string)
	if !ok {
		return val
	}
	for _, t := range types {
		if t == "string" {
			return val
		}
	}
	for _, t := range types {
		switch t {
		case "integer":
			if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return json.Number(strings.TrimSpace(s))
			}
		case "number":
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return json.Number(strings.TrimSpace(s))
			}
		}
	}
	return val
}

// ValidationError carries the messages for each offending field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalidInput(msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{"_schema": {msg}}}
}

func fromResult(result *gojsonschema.Result) *ValidationError {
	ve := &ValidationError{Fields: make(map[string][]string)}
	for _, e := range result.Errors() {
		field := e.Field()
		msg := e.Description()
		if e.Type() == "required" {
			if p, ok := e.Details()["property"].(string); ok {
				field = p
			}
			msg = "Missing data for required field."
		}
		if field == "(root)" || field == "" {
			field = "_schema"
		}
		ve.Fields[field] = append(ve.Fields[field], msg)
	}
	return ve
}

// MissingFieldError is returned when a handler reads a key the client left out.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("The field `%s` is required.", e.Field)
}
