package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField represents a single column in an ORDER BY clause.
// Field is the view property name resolved through the ProjectionMap.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// predicate is a WHERE fragment whose placeholders are written as "?" and
// renumbered to $N when the query is built.
type predicate struct {
	clause string
	args   []any
}

// Builder constructs parameterized PostgreSQL queries against a ProjectionMap.
type Builder struct {
	projection  *ProjectionMap
	predicates  []predicate
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string into a SortField slice.
// Fields prefixed with "-" are descending, e.g. "Name,-CreatedAt".
// Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if after, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: after, Descending: true})
			continue
		}
		fields = append(fields, SortField{Field: part})
	}
	return fields
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.predicates = append(b.predicates, predicate{
		clause: b.projection.Column(field) + " = ?",
		args:   []any{value},
	})
	return b
}

// WhereContains adds a case-insensitive ILIKE condition. No-op for nil or empty values.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	b.predicates = append(b.predicates, predicate{
		clause: b.projection.Column(field) + " ILIKE ?",
		args:   []any{"%" + *value + "%"},
	})
	return b
}

// WhereSearch adds an OR of ILIKE conditions across fields. No-op for nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE ?"
		args[i] = "%" + *search + "%"
	}

	b.predicates = append(b.predicates, predicate{
		clause: "(" + strings.Join(clauses, " OR ") + ")",
		args:   args,
	})
	return b
}

// OrderByFields sets the sort order, overriding the default sort.
// Fields not present in the projection are ignored.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = nil
	for _, f := range fields {
		if b.projection.Has(f.Field) {
			b.sort = append(b.sort, f)
		}
	}
	return b
}

// Build returns a SELECT query with the current conditions and ordering.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(), b.projection.Table(), where, b.orderBy(),
	), args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where), args
}

// BuildPage returns a SELECT query with ordering, limit, and offset for a 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql, args := b.Build()
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, pageSize, (page-1)*pageSize), args
}

// BuildSingle returns a SELECT query for a single record matched on idField.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.Table(), b.projection.Column(idField),
	), []any{id}
}

func (b *Builder) where() (string, []any) {
	if len(b.predicates) == 0 {
		return "", nil
	}

	var (
		clauses = make([]string, 0, len(b.predicates))
		args    []any
	)

	for _, p := range b.predicates {
		var sb strings.Builder
		n := 0
		for _, r := range p.clause {
			if r == '?' {
				args = append(args, p.args[n])
				n++
				fmt.Fprintf(&sb, "$%d", len(args))
				continue
			}
			sb.WriteRune(r)
		}
		clauses = append(clauses, sb.String())
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
