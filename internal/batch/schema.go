package batch

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed op.schema.json
var opSchemaJSON string

const opSchemaURL = "https://quicktask.local/schema/batch-op.json"

// CompileSchema compiles the embedded operation schema.
func CompileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if err := compiler.AddResource(opSchemaURL, strings.NewReader(opSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add batch schema: %w", err)
	}
	schema, err := compiler.Compile(opSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile batch schema: %w", err)
	}
	return schema, nil
}

// SchemaError lists the schema violations of one record.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "schema: " + strings.Join(e.Problems, "; ")
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	se := &SchemaError{}
	collectSchemaErrors(se, ve)
	if len(se.Problems) == 0 {
		se.Problems = append(se.Problems, ve.Message)
	}
	return se
}

func collectSchemaErrors(se *SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		msg := err.Message
		if path := jsonPointerToPath(err.InstanceLocation); path != "" {
			msg = path + ": " + msg
		}
		se.Problems = append(se.Problems, msg)
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(se, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
