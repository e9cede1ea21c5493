package httpHandler

import (
	"strconv"
	"strings"

	"dream-journal/repositories"

	"github.com/gin-gonic/gin"
)

// filterableColumns whitelists the entry fields a listing may filter or sort
// on. Request input never names a column directly; anything not listed here
// is silently dropped.
var filterableColumns = map[string]string{
	"title":       "title",
	"description": "description",
	"type":        "type",
	"lucid":       "lucid",
	"rating":      "rating",
	"date":        "date",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
}

// selectableColumns additionally allows projecting id and the JSON columns.
var selectableColumns = map[string]string{
	"id":       "id",
	"user_id":  "user_id",
	"emotions": "emotions",
	"tags":     "tags",
}

var operatorSuffixes = []struct {
	suffix string
	op     repositories.FilterOp
}{
	{"_gte", repositories.OpGte},
	{"_lte", repositories.OpLte},
	{"_gt", repositories.OpGt},
	{"_lt", repositories.OpLt},
	{"_in", repositories.OpIn},
}

// parseListQuery builds a typed ListQuery from the request's query string:
// reserved params select/sort/page/limit, everything else interpreted as a
// field filter with an optional _gt/_gte/_lt/_lte/_in suffix.
func parseListQuery(c *gin.Context) repositories.ListQuery {
	q := repositories.ListQuery{
		Page:  parseIntDefault(c.Query("page"), 1),
		Limit: parseIntDefault(c.Query("limit"), 25),
	}

	for key, values := range c.Request.URL.Query() {
		switch key {
		case "select", "sort", "page", "limit":
			continue
		}
		if len(values) == 0 {
			continue
		}

		field, op := splitOperator(key)
		column, ok := filterableColumns[field]
		if !ok {
			continue
		}

		if op == repositories.OpIn {
			parts := strings.Split(values[0], ",")
			typed := make([]any, 0, len(parts))
			for _, p := range parts {
				typed = append(typed, coerceFor(column, p))
			}
			q.Filters = append(q.Filters, repositories.Filter{Field: column, Op: op, Values: typed})
			continue
		}
		q.Filters = append(q.Filters, repositories.Filter{Field: column, Op: op, Value: coerceFor(column, values[0])})
	}

	if sel := c.Query("select"); sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if column, ok := columnFor(strings.TrimSpace(f)); ok {
				q.Select = append(q.Select, column)
			}
		}
	}

	if sort := c.Query("sort"); sort != "" {
		for _, f := range strings.Split(sort, ",") {
			f = strings.TrimSpace(f)
			desc := strings.HasPrefix(f, "-")
			f = strings.TrimPrefix(f, "-")
			if column, ok := filterableColumns[f]; ok {
				q.Sort = append(q.Sort, repositories.SortField{Field: column, Desc: desc})
			}
		}
	}

	return q
}

func splitOperator(key string) (string, repositories.FilterOp) {
	for _, s := range operatorSuffixes {
		if strings.HasSuffix(key, s.suffix) {
			return strings.TrimSuffix(key, s.suffix), s.op
		}
	}
	return key, repositories.OpEq
}

func columnFor(field string) (string, bool) {
	if column, ok := filterableColumns[field]; ok {
		return column, true
	}
	if column, ok := selectableColumns[field]; ok {
		return column, true
	}
	return "", false
}

// coerceFor types a raw query value by target column. Text columns keep the
// raw string, so "?title=123" compares varchar to varchar instead of binding
// an integer against a text column. Only lucid and rating carry typed values.
func coerceFor(column, v string) any {
	switch column {
	case "lucid":
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	case "rating":
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

func parseIntDefault(v string, def int) int {
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 1 {
		return def
	}
	return i
}
