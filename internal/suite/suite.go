// Package suite loads batch test suites from YAML.
//
// A suite is decoded strictly (unknown fields are rejected) and then
// checked against the embedded CUE schema #Suite, which constrains member
// id, date of birth, gender and service type formats.
package suite

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/eligsim/internal/orchestrator"
	"github.com/roach88/eligsim/internal/scenario"
)

//go:embed schema.cue
var schemaSource string

// Suite is a named list of test cases.
type Suite struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Payer       *scenario.Payer `json:"payer,omitempty" yaml:"payer,omitempty"`
	Cases       []Case          `json:"cases" yaml:"cases"`

	// dir resolves relative request270File paths.
	dir string
}

// Case is one suite entry. An empty ID is accepted here and reported per
// case when the batch runs.
type Case struct {
	ID             string                   `json:"id,omitempty" yaml:"id,omitempty"`
	Label          string                   `json:"label,omitempty" yaml:"label,omitempty"`
	Member         *scenario.MemberIdentity `json:"member,omitempty" yaml:"member,omitempty"`
	Request270File string                   `json:"request270File,omitempty" yaml:"request270File,omitempty"`
}

// SchemaError lists every schema violation found in a suite.
type SchemaError struct {
	Violations []string
}

func (e *SchemaError) Error() string {
	return "suite schema violation: " + strings.Join(e.Violations, "; ")
}

// Load reads and validates the suite at path.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates suite YAML. Relative request files resolve
// against the working directory.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := Check(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Check validates s against the #Suite schema.
func Check(s *Suite) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling suite schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Suite"))
	v := def.Unify(ctx.Encode(s))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

func schemaError(err error) error {
	var violations []string
	for _, e := range cueerrors.Errors(err) {
		msg := e.Error()
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		violations = append(violations, msg)
	}
	if len(violations) == 0 {
		violations = []string{err.Error()}
	}
	return &SchemaError{Violations: violations}
}

// IsSchemaError reports whether err carries schema violations.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Requests converts the suite into orchestrator requests in case order,
// reading any referenced 270 files.
func (s *Suite) Requests() ([]orchestrator.Request, error) {
	reqs := make([]orchestrator.Request, 0, len(s.Cases))
	for i, c := range s.Cases {
		req := orchestrator.Request{TestID: c.ID, Label: c.Label}
		if c.Member != nil {
			req.Member = *c.Member
		}
		if c.Request270File != "" {
			path := c.Request270File
			if !filepath.IsAbs(path) && s.dir != "" {
				path = filepath.Join(s.dir, path)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("case %d: failed to read request file: %w", i+1, err)
			}
			req.Request270 = strings.TrimSpace(string(raw))
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
