// Package filter compiles a declarative listing request into an ordered
// pipeline of match, sort, skip, limit and project stages. It performs no I/O;
// store implementations translate the Pipeline into their native query form.
package filter

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLimit is the page size used when the caller gives none.
	DefaultLimit = 20
	// MaxLimit bounds every page; larger requests are clamped.
	MaxLimit = 100
	// MaxPage bounds the page number so page*limit cannot overflow int.
	MaxPage = math.MaxInt / MaxLimit

	// DefaultSortField orders listings newest status change first.
	DefaultSortField = "status_date"
	// TiebreakField is appended to every sort so equal keys scan in a stable order.
	TiebreakField = "id"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type kind int

const (
	kindText kind = iota
	kindBool
	kindDecimal
	kindTime
)

var (
	equalityFields = map[string]kind{
		"collection":  kindText,
		"owner":       kindText,
		"creator":     kindText,
		"status":      kindText,
		"token_kind":  kindText,
		"is_explicit": kindBool,
	}
	rangeFields = map[string]kind{
		"price":       kindDecimal,
		"status_date": kindTime,
	}
	sortFields = []string{"price", "status_date", "name", "index", "created_at"}

	projectableFields = []string{
		"owner", "creator", "art_uri", "name", "external_link", "description",
		"properties", "is_explicit", "lock_content", "price", "status",
		"status_date", "token_kind", "created_at",
	}
)

// SortSpec names the primary sort key.
type SortSpec struct {
	Field     string
	Direction Direction
}

// Range bounds a numeric field; either side may be empty.
type Range struct {
	Min string
	Max string
}

// Config is the caller-facing filter request. Values are kept raw so that
// unrecognized fields and unparsable values can be dropped during Compile
// instead of failing the request.
type Config struct {
	Page   int
	Limit  int
	Sort   *SortSpec
	Ranges map[string]Range
	Equals map[string]string
	Fields []string
}

// Op is a predicate comparison.
type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Predicate compares a field against a typed value: string, bool,
// decimal.Decimal or time.Time depending on the field.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// SortKey is one ordering term.
type SortKey struct {
	Field string
	Desc  bool
}

// Stage is one step of a Pipeline.
type Stage interface {
	stage()
}

// Match keeps rows satisfying every predicate.
type Match struct{ Predicates []Predicate }

// Sort orders rows by Keys, left to right.
type Sort struct{ Keys []SortKey }

// Skip drops the first N rows.
type Skip struct{ N int }

// Limit keeps at most N rows.
type Limit struct{ N int }

// Project keeps only the named fields on each row.
type Project struct{ Fields []string }

func (Match) stage()   {}
func (Sort) stage()    {}
func (Skip) stage()    {}
func (Limit) stage()   {}
func (Project) stage() {}

// Pipeline is the compiled, ordered stage list.
type Pipeline []Stage

// Compile turns cfg into a Pipeline. A zero Config compiles to a default sort
// plus the default page size.
func Compile(cfg Config) Pipeline {
	var p Pipeline

	if preds := compilePredicates(cfg); len(preds) > 0 {
		p = append(p, Match{Predicates: preds})
	}

	p = append(p, Sort{Keys: compileSort(cfg.Sort)})

	limit := clampLimit(cfg.Limit)
	page := min(max(cfg.Page, 0), MaxPage)
	if skip := page * limit; skip > 0 {
		p = append(p, Skip{N: skip})
	}
	p = append(p, Limit{N: limit})

	if fields := compileFields(cfg.Fields); len(fields) > 0 {
		p = append(p, Project{Fields: fields})
	}
	return p
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}

func compilePredicates(cfg Config) []Predicate {
	var preds []Predicate

	for _, field := range sortedKeys(cfg.Equals) {
		k, ok := equalityFields[field]
		if !ok {
			continue
		}
		if v, ok := parseValue(k, cfg.Equals[field]); ok {
			preds = append(preds, Predicate{Field: field, Op: OpEq, Value: v})
		}
	}

	for _, field := range sortedKeys(cfg.Ranges) {
		k, ok := rangeFields[field]
		if !ok {
			continue
		}
		r := cfg.Ranges[field]
		if v, ok := parseValue(k, r.Min); ok {
			preds = append(preds, Predicate{Field: field, Op: OpGte, Value: v})
		}
		if v, ok := parseValue(k, r.Max); ok {
			preds = append(preds, Predicate{Field: field, Op: OpLte, Value: v})
		}
	}
	return preds
}

func compileSort(spec *SortSpec) []SortKey {
	primary := SortKey{Field: DefaultSortField, Desc: true}
	if spec != nil && slices.Contains(sortFields, spec.Field) {
		primary = SortKey{Field: spec.Field, Desc: spec.Direction != Asc}
	}
	return []SortKey{primary, {Field: TiebreakField}}
}

func compileFields(fields []string) []string {
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if slices.Contains(projectableFields, f) && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func parseValue(k kind, raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	switch k {
	case kindText:
		return raw, true
	case kindBool:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case kindDecimal:
		d, err := decimal.NewFromString(raw)
		return d, err == nil
	case kindTime:
		return parseTime(raw)
	}
	return nil, false
}

// parseTime accepts RFC3339 or unix epoch milliseconds.
func parseTime(raw string) (any, bool) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// String renders p canonically; equal pipelines render identically, which
// makes the result usable as a cache key.
func (p Pipeline) String() string {
	var b strings.Builder
	for i, s := range p {
		if i > 0 {
			b.WriteByte('|')
		}
		switch st := s.(type) {
		case Match:
			b.WriteString("match")
			for _, pr := range st.Predicates {
				fmt.Fprintf(&b, ":%s.%s=%s", pr.Field, pr.Op, formatValue(pr.Value))
			}
		case Sort:
			b.WriteString("sort")
			for _, k := range st.Keys {
				dir := Asc
				if k.Desc {
					dir = Desc
				}
				fmt.Fprintf(&b, ":%s.%s", k.Field, dir)
			}
		case Skip:
			fmt.Fprintf(&b, "skip:%d", st.N)
		case Limit:
			fmt.Fprintf(&b, "limit:%d", st.N)
		case Project:
			b.WriteString("project:" + strings.Join(st.Fields, ","))
		}
	}
	return b.String()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case decimal.Decimal:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Window returns the skip and limit carried by p.
func (p Pipeline) Window() (skip, limit int) {
	limit = DefaultLimit
	for _, s := range p {
		switch st := s.(type) {
		case Skip:
			skip = st.N
		case Limit:
			limit = st.N
		}
	}
	return skip, limit
}
