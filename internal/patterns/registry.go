// Package patterns holds the compiled, immutable pattern registry that
// drives regex extraction. It is built once at startup from field specs
// and shared read-only across goroutines.
package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// flags applied to every pattern: case-insensitive, multi-line.
// Go's regexp is UTF-8 aware, so Hebrew classes work without extra flags.
const flags = "(?im)"

// Field is a compiled field spec.
type Field struct {
	spec     domain.FieldSpec
	primary  []*regexp.Regexp
	fallback []*regexp.Regexp
}

// Name returns the canonical field name.
func (f *Field) Name() domain.FieldName { return f.spec.Name }

// Spec returns a copy of the source spec.
func (f *Field) Spec() domain.FieldSpec { return f.spec.Clone() }

// Primary returns the compiled primary patterns in registered order.
func (f *Field) Primary() []*regexp.Regexp { return f.primary }

// Fallback returns the compiled line-level patterns in registered order.
func (f *Field) Fallback() []*regexp.Regexp { return f.fallback }

// Keywords returns the line-scan keywords.
func (f *Field) Keywords() []string { return append([]string(nil), f.spec.Keywords...) }

// HasKeyword reports whether line contains any keyword as a substring.
func (f *Field) HasKeyword(line string) bool {
	for _, kw := range f.spec.Keywords {
		if kw != "" && strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// Multi reports whether the field is list-valued.
func (f *Field) Multi() bool { return f.spec.Multi }

// FirstLine reports whether only the first line of a primary match is kept.
func (f *Field) FirstLine() bool { return f.spec.FirstLine }

// Probe reports whether fallback patterns may qualify a line without a keyword.
func (f *Field) Probe() bool { return f.spec.Probe }

// Registry is the compiled pattern set. It is immutable after Compile.
type Registry struct {
	fields []*Field
	byName map[domain.FieldName]*Field
}

// Compile validates and compiles specs. Any bad pattern fails the whole
// registry with ErrInvalidPattern; callers treat that as fatal.
func Compile(specs []domain.FieldSpec) (*Registry, error) {
	r := &Registry{
		fields: make([]*Field, 0, len(specs)),
		byName: make(map[domain.FieldName]*Field, len(specs)),
	}

	for _, spec := range specs {
		if !spec.Name.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, spec.Name)
		}
		if _, dup := r.byName[spec.Name]; dup {
			return nil, fmt.Errorf("%w: field %s configured twice", domain.ErrInvalidInput, spec.Name)
		}

		primary, err := compileAll(spec.Name, "primary", spec.Primary)
		if err != nil {
			return nil, err
		}
		fallback, err := compileAll(spec.Name, "fallback", spec.Fallback)
		if err != nil {
			return nil, err
		}

		f := &Field{spec: spec.Clone(), primary: primary, fallback: fallback}
		r.fields = append(r.fields, f)
		r.byName[spec.Name] = f
	}

	return r, nil
}

// Default compiles the built-in specs. It panics only if the built-in set is broken.
func Default() *Registry {
	r, err := Compile(DefaultSpecs())
	if err != nil {
		panic(fmt.Sprintf("built-in patterns: %v", err))
	}
	return r
}

func compileAll(field domain.FieldName, kind string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%w: %s %s[%d] is empty", domain.ErrInvalidPattern, field, kind, i)
		}
		re, err := regexp.Compile(flags + p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s[%d]: %w", domain.ErrInvalidPattern, field, kind, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Fields returns the compiled fields in registered order.
func (r *Registry) Fields() []*Field {
	out := make([]*Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Field returns one compiled field.
func (r *Registry) Field(name domain.FieldName) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Specs returns copies of the source specs in registered order.
func (r *Registry) Specs() []domain.FieldSpec {
	out := make([]domain.FieldSpec, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f.Spec())
	}
	return out
}

// Multi reports whether a field is list-valued. Fields outside the
// registry fall back to the canonical default.
func (r *Registry) Multi(name domain.FieldName) bool {
	if f, ok := r.byName[name]; ok {
		return f.spec.Multi
	}
	return name.IsMultiValued()
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	return len(r.fields)
}

// ForSpecs compiles configured specs, or the built-in set when none are configured.
func ForSpecs(specs []domain.FieldSpec) (*Registry, error) {
	if len(specs) == 0 {
		return Compile(DefaultSpecs())
	}
	return Compile(specs)
}
