package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// Table file names and the schema kind each validates against.
// cross_sections_runII.json is optional in a dataset directory.
var datasetFiles = []struct {
	Name     string
	Kind     Kind
	Optional bool
}{
	{"luminosity.json", KindLuminosity, false},
	{"cross_sections.json", KindCrossSections, false},
	{"cross_sections_runII.json", KindCrossSections, true},
	{"branching_fractions_runII.json", KindBranching, false},
}

// ValidateTable validates raw JSON table content against the schema for
// kind. The filename is only used in error reporting. Returns all
// violations found (does not fail fast).
func ValidateTable(kind Kind, filename string, data []byte) []ValidationError {
	src, err := schemaSource(kind)
	if err != nil {
		return []ValidationError{{
			File:    filename,
			Field:   "schema",
			Message: err.Error(),
			Code:    ErrSchemaBroken,
		}}
	}

	// Empty tables satisfy any pattern constraint, so catch them first.
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return []ValidationError{{
			File:    filename,
			Field:   "-",
			Message: fmt.Sprintf("not a JSON object: %v", err),
			Code:    ErrDecodeFailed,
		}}
	}
	if len(top) == 0 {
		return []ValidationError{{
			File:    filename,
			Field:   "-",
			Message: "table has no entries",
			Code:    ErrEmptyTable,
		}}
	}

	out := scanDuplicateKeys(filename, data)

	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(src, cue.Filename(string(kind)+".cue"))
	if err := schemaVal.Err(); err != nil {
		return append(out, ValidationError{
			File:    filename,
			Field:   "schema",
			Message: fmt.Sprintf("compiling embedded schema: %v", err),
			Code:    ErrSchemaBroken,
		})
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return append(out, ValidationError{
			File:    filename,
			Field:   "-",
			Message: fmt.Sprintf("decoding JSON: %v", err),
			Code:    ErrDecodeFailed,
		})
	}
	dataVal := ctx.BuildExpr(expr)
	if err := dataVal.Err(); err != nil {
		return append(out, ValidationError{
			File:    filename,
			Field:   "-",
			Message: fmt.Sprintf("building JSON value: %v", err),
			Code:    ErrDecodeFailed,
		})
	}

	unified := schemaVal.LookupPath(cue.ParsePath("#Table")).Unify(dataVal)
	verr := unified.Validate(cue.Concrete(true), cue.All())
	if verr == nil {
		return out
	}

	for _, e := range cueerrors.Errors(verr) {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "-"
		}
		out = append(out, ValidationError{
			File:    filename,
			Field:   field,
			Message: e.Error(),
			Code:    classify(kind, e.Error()),
			Line:    e.Position().Line(),
		})
	}
	return out
}

// classify maps a CUE error message onto our validation codes. Range
// violations read "invalid value 1.2 (out of bound <=1)"; everything else
// is a shape mismatch.
func classify(kind Kind, msg string) string {
	if strings.Contains(msg, "out of bound") || strings.Contains(msg, "invalid value") {
		if kind == KindBranching {
			return ErrFractionRange
		}
		return ErrValueRange
	}
	return ErrWrongShape
}

// scanDuplicateKeys walks the raw JSON token stream reporting keys that
// repeat within one object. encoding/json silently keeps the last value
// for a duplicate key, which for reference constants would hide a table
// editing mistake.
func scanDuplicateKeys(filename string, data []byte) []ValidationError {
	dec := json.NewDecoder(bytes.NewReader(data))
	var out []ValidationError

	var walk func(path string)
	walk = func(path string) {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return // scalar
		}
		switch delim {
		case '{':
			seen := make(map[string]bool)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return
				}
				key, _ := keyTok.(string)
				child := key
				if path != "" {
					child = path + "." + key
				}
				if seen[key] {
					out = append(out, ValidationError{
						File:    filename,
						Field:   child,
						Message: "duplicate key",
						Code:    ErrDuplicateKey,
					})
				}
				seen[key] = true
				walk(child)
			}
			dec.Token() // closing brace
		case '[':
			for dec.More() {
				walk(path)
			}
			dec.Token() // closing bracket
		}
	}
	walk("")
	return out
}

// ValidateDir validates every reference table file in a dataset directory.
// Returns all schema violations; the error return is reserved for I/O
// problems such as an unreadable directory or a missing required file.
func ValidateDir(dir string) ([]ValidationError, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dataset path %s is not a directory", dir)
	}

	var out []ValidationError
	for _, f := range datasetFiles {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		if errors.Is(err, fs.ErrNotExist) {
			if f.Optional {
				continue
			}
			return nil, fmt.Errorf("required table %s not found in %s", f.Name, dir)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		out = append(out, ValidateTable(f.Kind, f.Name, data)...)
	}
	return out, nil
}
