package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/eugenenazirov/example-backend/internal/tags"
)

const openAPIVersion = "3.0.3"

var (
	// ErrUnknownTag is returned when an operation references a tag missing from the registry.
	ErrUnknownTag = errors.New("operation references an undeclared tag")
	// ErrDuplicateOperation is returned when two operations share a method and path.
	ErrDuplicateOperation = errors.New("operation already registered")
)

// ParamType is the schema type of a parameter.
type ParamType string

// Supported parameter types.
const (
	ParamInteger ParamType = "integer"
	ParamString  ParamType = "string"
)

// Param documents a path or query parameter.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// Response documents one response of an operation. Body is a sample value
// whose Go type determines the schema; nil means no content.
type Response struct {
	Status      int
	Description string
	Body        any
	ContentType string
}

// Operation documents a single endpoint.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Tags        []tags.Tag
	Summary     string
	Description string
	PathParams  []Param
	QueryParams []Param
	Responses   []Response
}

// Info holds the document header.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Builder accumulates operations and renders an OpenAPI document.
type Builder struct {
	info     Info
	registry *tags.Registry
	ops      []Operation
	seen     map[string]struct{}
}

// NewBuilder creates a builder for the given header and tag registry.
func NewBuilder(info Info, registry *tags.Registry) *Builder {
	return &Builder{
		info:     info,
		registry: registry,
		seen:     make(map[string]struct{}),
	}
}

// Add registers an operation. Operations are rendered in registration order.
func (b *Builder) Add(op Operation) error {
	key := strings.ToUpper(op.Method) + " " + op.Path
	if _, exists := b.seen[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, key)
	}
	for _, tag := range op.Tags {
		if b.registry == nil || !b.registry.Contains(tag) {
			return fmt.Errorf("%w: %q on %s", ErrUnknownTag, tag, key)
		}
	}
	b.seen[key] = struct{}{}
	b.ops = append(b.ops, op)
	return nil
}

// Build renders and validates the document.
func (b *Builder) Build(ctx context.Context) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:       b.info.Title,
			Description: b.info.Description,
			Version:     b.info.Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	if b.registry != nil {
		for _, meta := range b.registry.Metadata() {
			tag := &openapi3.Tag{
				Name:        meta.Name,
				Description: meta.Description,
			}
			if meta.ExternalDocs != nil {
				tag.ExternalDocs = &openapi3.ExternalDocs{
					Description: meta.ExternalDocs.Description,
					URL:         meta.ExternalDocs.URL,
				}
			}
			doc.Tags = append(doc.Tags, tag)
		}
	}

	for _, op := range b.ops {
		operation, err := b.operation(doc.Components.Schemas, op)
		if err != nil {
			return nil, err
		}
		doc.AddOperation(op.Path, strings.ToUpper(op.Method), operation)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

func (b *Builder) operation(schemas openapi3.Schemas, op Operation) (*openapi3.Operation, error) {
	operation := openapi3.NewOperation()
	operation.OperationID = op.OperationID
	operation.Summary = op.Summary
	operation.Description = op.Description
	for _, tag := range op.Tags {
		operation.Tags = append(operation.Tags, string(tag))
	}

	for _, p := range op.PathParams {
		param := openapi3.NewPathParameter(p.Name).WithSchema(paramSchema(p.Type))
		param.Description = p.Description
		operation.AddParameter(param)
	}
	for _, p := range op.QueryParams {
		param := openapi3.NewQueryParameter(p.Name).WithSchema(paramSchema(p.Type))
		param.Description = p.Description
		param.Required = p.Required
		operation.AddParameter(param)
	}

	opts := make([]openapi3.NewResponsesOption, 0, len(op.Responses))
	for _, r := range op.Responses {
		response := openapi3.NewResponse().WithDescription(responseDescription(r))
		if r.Body != nil {
			ref, err := schemaRef(schemas, r.Body)
			if err != nil {
				return nil, fmt.Errorf("schema for %s %s (%d): %w", op.Method, op.Path, r.Status, err)
			}
			contentType := r.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			response.Content = openapi3.NewContentWithSchemaRef(ref, []string{contentType})
		}
		opts = append(opts, openapi3.WithStatus(r.Status, &openapi3.ResponseRef{Value: response}))
	}
	operation.Responses = openapi3.NewResponses(opts...)

	return operation, nil
}

// schemaRef registers named struct types as components and returns a
// reference to them; slices of named structs become arrays of references.
func schemaRef(schemas openapi3.Schemas, body any) (*openapi3.SchemaRef, error) {
	t := reflect.TypeOf(body)
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Struct && t.Elem().Name() != "" {
		item, err := componentRef(schemas, t.Elem(), reflect.Zero(t.Elem()).Interface())
		if err != nil {
			return nil, err
		}
		array := openapi3.NewArraySchema()
		array.Items = item
		return openapi3.NewSchemaRef("", array), nil
	}
	if t.Kind() == reflect.Struct && t.Name() != "" {
		return componentRef(schemas, t, body)
	}
	return openapi3gen.NewSchemaRefForValue(body, nil)
}

func componentRef(schemas openapi3.Schemas, t reflect.Type, sample any) (*openapi3.SchemaRef, error) {
	name := t.Name()
	existing, ok := schemas[name]
	if !ok {
		generated, err := openapi3gen.NewSchemaRefForValue(sample, nil)
		if err != nil {
			return nil, err
		}
		schemas[name] = generated
		existing = generated
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, existing.Value), nil
}

func paramSchema(t ParamType) *openapi3.Schema {
	if t == ParamInteger {
		return openapi3.NewIntegerSchema()
	}
	return openapi3.NewStringSchema()
}

func responseDescription(r Response) string {
	if r.Description != "" {
		return r.Description
	}
	return http.StatusText(r.Status)
}
