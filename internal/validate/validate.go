// Package validate checks request payloads against embedded JSON schemas.
package validate

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/qri-io/jsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Validator holds compiled schemas keyed by file name without extension.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// New compiles every embedded schema. It fails if any schema is malformed,
// so a bad schema is caught at startup rather than on the first request.
func New() (*Validator, error) {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas dir: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(schemaFS, path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		v.schemas[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return v, nil
}

// Validate checks a JSON document against the named schema. On failure it
// returns one error per violated constraint, accumulated into a single value.
func (v *Validator) Validate(ctx context.Context, name string, doc []byte) error {
	rs, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	keyErrs, err := rs.ValidateBytes(ctx, doc)
	if err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}

	var merr *multierror.Error
	for _, ke := range keyErrs {
		merr = multierror.Append(merr, fmt.Errorf("%s: %s", ke.PropertyPath, ke.Message))
	}

	return merr.ErrorOrNil()
}
