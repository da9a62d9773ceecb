package store

import (
	"strconv"
	"strings"
)

// Clause is one predicate of a WHERE list. Render registers the clause's
// arguments on q and returns SQL that references them by placeholder.
type Clause interface {
	Render(q *Query) string
}

// Eq matches a column against a single value.
type Eq struct {
	Column string
	Value  any
}

func (c Eq) Render(q *Query) string {
	return c.Column + " = " + q.Arg(c.Value)
}

// ContainsAny matches when any of the columns contains Term, ignoring case.
// LIKE wildcards inside Term match literally.
type ContainsAny struct {
	Columns []string
	Term    string
}

func (c ContainsAny) Render(q *Query) string {
	ph := q.Arg("%" + escapeLike(c.Term) + "%")
	parts := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		parts[i] = col + " ILIKE " + ph
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// Query assembles a parameterized SELECT. Placeholders are numbered in the
// order arguments are registered, so clauses can be composed freely.
type Query struct {
	base    string
	where   []string
	args    []any
	orderBy string
}

func Select(base string) *Query {
	return &Query{base: base}
}

// Arg registers v and returns its placeholder.
func (q *Query) Arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *Query) Where(clauses ...Clause) *Query {
	for _, c := range clauses {
		q.where = append(q.where, c.Render(q))
	}
	return q
}

func (q *Query) OrderBy(expr string) *Query {
	q.orderBy = expr
	return q
}

func (q *Query) Build() (string, []any) {
	var b strings.Builder
	b.WriteString(q.base)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	if q.orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.orderBy)
	}
	return b.String(), q.args
}

// Clauses turns the filter into predicates: an exact category match and one
// name/description match per term, all joined with AND.
func (f ProductFilter) Clauses() []Clause {
	var cs []Clause
	if f.Category != "" {
		cs = append(cs, Eq{Column: "category", Value: f.Category})
	}
	for _, term := range f.Terms {
		if term = strings.TrimSpace(term); term == "" {
			continue
		}
		cs = append(cs, ContainsAny{Columns: []string{"name", "description"}, Term: term})
	}
	return cs
}

// SplitTerms breaks a free-text search string on whitespace.
func SplitTerms(q string) []string {
	return strings.Fields(q)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func compactSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
