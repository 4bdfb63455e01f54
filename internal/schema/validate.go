package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xgx-io/stackerr/internal/diag"
)

//go:embed stackerr.schema.json
var schemaJSON []byte

const schemaURL = "https://xgx.io/stackgen/stackerr.schema.json"

var (
	compiled    *jsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

// JSONSchema returns the embedded JSON Schema that schema files are
// validated against.
func JSONSchema() []byte { return schemaJSON }

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal(schemaJSON, &doc); err != nil {
			compileErr = fmt.Errorf("failed to parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks the document shape and maps every violation back to the
// YAML node it concerns.
func validate(path string, data []byte, root ast.Node) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlDiagnostic(path, err)
	}
	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("schema validation: failed to marshal document: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("schema validation: failed to unmarshal document: %w", err)
	}

	verr := s.Validate(normalized)
	if verr == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(verr, &ve) {
		return verr
	}

	printer := message.NewPrinter(language.English)
	b := builder{path: path}
	var out error
	for _, leaf := range leaves(ve) {
		msg := leaf.ErrorKind.LocalizedString(printer)
		if p := displayPath(leaf.InstanceLocation); p != "" {
			msg = p + ": " + msg
		}
		out = diag.Append(out, diag.Errorf(b.pos(locate(root, leaf.InstanceLocation)), "%s", msg))
	}
	return out
}

// leaves returns the innermost causes of a validation error.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// locate walks the AST along a JSON instance location and returns the
// deepest node it reaches.
func locate(root ast.Node, loc []string) ast.Node {
	cur := root
	for _, part := range loc {
		next := child(cur, part)
		if next == nil {
			return cur
		}
		cur = next
	}
	return cur
}

func child(n ast.Node, part string) ast.Node {
	if kvs := mappingValues(n); kvs != nil {
		for _, kv := range kvs {
			if key(kv) != part {
				continue
			}
			if _, isNull := kv.Value.(*ast.NullNode); kv.Value == nil || isNull {
				return kv.Key
			}
			return kv.Value
		}
		return nil
	}
	if items := sequence(n); items != nil {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 && i < len(items) {
			return items[i]
		}
	}
	return nil
}

// displayPath renders ["types", "0", "name"] as types[0].name.
func displayPath(loc []string) string {
	var sb strings.Builder
	for _, part := range loc {
		if _, err := strconv.Atoi(part); err == nil {
			sb.WriteString("[" + part + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}
