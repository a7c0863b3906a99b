package repository

import (
	"fmt"
	"strings"

	"github.com/tastefinder/discovery-service/internal/query"
)

// compileFilter turns the typed predicate conjunction into a SQL WHERE
// clause with positional args. Column names come from the SortField
// allow-list and order tokens from the Order enum, so nothing
// caller-controlled is ever interpolated into the statement text.
func compileFilter(f query.Filter) (string, []any) {
	var clauses []string
	var args []any

	for _, p := range f.Preds {
		switch p := p.(type) {
		case query.ScoreRange:
			col := p.Field.Column()
			if p.HasMin {
				args = append(args, p.Min)
				clauses = append(clauses, fmt.Sprintf("%s >= $%d", col, len(args)))
			}
			if p.HasMax {
				args = append(args, p.Max)
				clauses = append(clauses, fmt.Sprintf("%s < $%d", col, len(args)))
			}
		case query.IDSet:
			args = append(args, p.IDs)
			clauses = append(clauses, fmt.Sprintf("id = ANY($%d)", len(args)))
		case query.KeywordConj:
			for _, kw := range p.Keywords {
				args = append(args, "%"+kw+"%")
				n := len(args)
				clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR tags ILIKE $%d)", n, n))
			}
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderSQL(order query.Order) string {
	if order == query.OrderAsc {
		return "ASC"
	}
	return "DESC"
}
