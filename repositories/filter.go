package repositories

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FilterOp is a comparison operator accepted by the listing query.
type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGt  FilterOp = "gt"
	OpGte FilterOp = "gte"
	OpLt  FilterOp = "lt"
	OpLte FilterOp = "lte"
	OpIn  FilterOp = "in"
)

var sqlOps = map[FilterOp]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Filter is one typed field/operator/value triple. Field must already be a
// whitelisted column name; arbitrary request input never reaches SQL directly.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
	// Values is used when Op is OpIn.
	Values []any
}

// SortField is one ordering term.
type SortField struct {
	Field string
	Desc  bool
}

// ListQuery describes a filtered, sorted, paginated listing.
type ListQuery struct {
	Filters []Filter
	Sort    []SortField
	Select  []string
	Page    int
	Limit   int
}

// Normalize applies the listing defaults: page 1, limit 25, newest first.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 25
	}
	if len(q.Sort) == 0 {
		q.Sort = []SortField{{Field: "date", Desc: true}}
	}
}

func applyFilters(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		if f.Op == OpIn {
			tx = tx.Where(fmt.Sprintf("%s IN ?", f.Field), f.Values)
			continue
		}
		op, ok := sqlOps[f.Op]
		if !ok {
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.Field, op), f.Value)
	}
	return tx
}

func orderClause(sort []SortField) string {
	terms := make([]string, 0, len(sort))
	for _, s := range sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		terms = append(terms, s.Field+" "+dir)
	}
	return strings.Join(terms, ", ")
}
