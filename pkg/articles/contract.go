package articles

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed contract.yaml
var contractYAML []byte

// ContractSource returns the raw OpenAPI document describing the backend.
func ContractSource() []byte {
	return slices.Clone(contractYAML)
}

var (
	contractMu  sync.Mutex
	contractDoc *openapi3.T
)

// Contract loads and validates the embedded OpenAPI description of the
// article API. A successfully parsed document is kept for the process; a
// failed load is retried on the next call. Cancellation of ctx does not
// abort the load.
func Contract(ctx context.Context) (*openapi3.T, error) {
	contractMu.Lock()
	defer contractMu.Unlock()
	if contractDoc != nil {
		return contractDoc, nil
	}

	ctx = context.WithoutCancel(ctx)
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(contractYAML)
	if err != nil {
		return nil, fmt.Errorf("articles: load contract: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("articles: validate contract: %w", err)
	}
	contractDoc = doc
	return contractDoc, nil
}

// Operation summarises one contract operation.
type Operation struct {
	ID     string
	Method string
	Path   string
}

// Operations lists the contract operations sorted by path then method.
func Operations(ctx context.Context) ([]Operation, error) {
	doc, err := Contract(ctx)
	if err != nil {
		return nil, err
	}
	var out []Operation
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out = append(out, Operation{ID: op.OperationID, Method: method, Path: path})
		}
	}
	slices.SortFunc(out, func(a, b Operation) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out, nil
}

// ValidateCreate checks a create payload against the contract request
// schema. The first failing field is reported.
func ValidateCreate(ctx context.Context, dto CreateDTO) error {
	schema, err := requestSchema(ctx, "/article", "POST")
	if err != nil {
		return err
	}
	payload := map[string]any{
		"Title":    dto.Title,
		"Content":  dto.Content,
		"Category": dto.Category,
		"Status":   string(dto.Status),
	}
	if err := schema.VisitJSON(payload); err != nil {
		return fmt.Errorf("articles: create payload: %w", err)
	}
	return nil
}

// ValidateStatus checks a status against the contract enum and reports the
// domain message on mismatch.
func ValidateStatus(ctx context.Context, status string) error {
	schema, err := requestSchema(ctx, "/article/{id}", "PUT")
	if err != nil {
		return err
	}
	ref, ok := schema.Properties["Status"]
	if !ok || ref == nil || ref.Value == nil {
		return errors.New("articles: contract has no Status property")
	}
	if err := ref.Value.VisitJSON(status); err != nil {
		return ErrInvalidStatus
	}
	return nil
}

func requestSchema(ctx context.Context, path, method string) (*openapi3.Schema, error) {
	doc, err := Contract(ctx)
	if err != nil {
		return nil, err
	}
	item := doc.Paths.Map()[path]
	if item == nil {
		return nil, fmt.Errorf("articles: contract path %s missing", path)
	}
	op := item.GetOperation(method)
	if op == nil || op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("articles: contract %s %s has no request body", method, path)
	}
	mt := op.RequestBody.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("articles: contract %s %s has no json schema", method, path)
	}
	return mt.Schema.Value, nil
}
