package postgres

import (
	"fmt"
	"strings"

	"github.com/ghuser/nftcatalog/services/catalog/domain/filter"
)

const itemColumns = `id, collection, "index", owner, creator, art_uri, name, external_link, description,
	properties, is_explicit, lock_content, price, status, status_date, token_kind, created_at`

// columns maps filter field names to SQL column expressions. Only fields in
// this map ever reach generated SQL.
var columns = map[string]string{
	"id":          "id",
	"collection":  "collection",
	"index":       `"index"`,
	"owner":       "owner",
	"creator":     "creator",
	"name":        "name",
	"status":      "status",
	"token_kind":  "token_kind",
	"is_explicit": "is_explicit",
	"price":       "price",
	"status_date": "status_date",
	"created_at":  "created_at",
}

// sortExprs overrides the ORDER BY terms for a field. Token indexes are
// decimal strings, so shorter strings sort first and equal lengths compare
// lexically; this orders "9" before "10" without casting non-numeric values.
var sortExprs = map[string][]string{
	"index": {`length("index")`, `"index"`},
}

var ops = map[filter.Op]string{
	filter.OpEq:  "=",
	filter.OpGte: ">=",
	filter.OpLte: "<=",
}

// scanQuery is a pipeline rendered as one SELECT.
type scanQuery struct {
	SQL     string
	Args    []any
	Project []string
}

// buildScanQuery renders p into a parameterized SELECT over items. Stages
// compose in pipeline order: predicates AND together, sort keys chain, and
// skip/limit become OFFSET/LIMIT. Projection is applied after scanning.
func buildScanQuery(p filter.Pipeline) (scanQuery, error) {
	var (
		where   []string
		orderBy []string
		args    []any
		offset  int
		limit   = filter.DefaultLimit
		project []string
	)

	for _, stage := range p {
		switch st := stage.(type) {
		case filter.Match:
			for _, pr := range st.Predicates {
				col, ok := columns[pr.Field]
				if !ok {
					return scanQuery{}, fmt.Errorf("unsupported filter field %q", pr.Field)
				}
				op, ok := ops[pr.Op]
				if !ok {
					return scanQuery{}, fmt.Errorf("unsupported filter op %q", pr.Op)
				}
				args = append(args, pr.Value)
				where = append(where, fmt.Sprintf("%s %s $%d", col, op, len(args)))
			}
		case filter.Sort:
			for _, k := range st.Keys {
				col, ok := columns[k.Field]
				if !ok {
					return scanQuery{}, fmt.Errorf("unsupported sort field %q", k.Field)
				}
				dir := "ASC"
				if k.Desc {
					dir = "DESC"
				}
				exprs, ok := sortExprs[k.Field]
				if !ok {
					exprs = []string{col}
				}
				for _, e := range exprs {
					orderBy = append(orderBy, e+" "+dir)
				}
			}
		case filter.Skip:
			offset = st.N
		case filter.Limit:
			limit = st.N
		case filter.Project:
			project = st.Fields
		}
	}

	var b strings.Builder
	b.WriteString("SELECT " + itemColumns + " FROM items")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	if len(orderBy) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))
	}
	args = append(args, limit, offset)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return scanQuery{SQL: b.String(), Args: args, Project: project}, nil
}
