package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tastefinder/discovery-service/internal/query"
)

func TestCompileFilterEmpty(t *testing.T) {
	where, args := compileFilter(query.Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestCompileFilterScoreRange(t *testing.T) {
	f := query.Filter{}.And(query.ScoreRange{
		Field: query.SortAvgScore, Min: 8, HasMin: true, Max: 9, HasMax: true,
	})

	where, args := compileFilter(f)
	assert.Equal(t, " WHERE avg_score >= $1 AND avg_score < $2", where)
	assert.Equal(t, []any{8.0, 9.0}, args)
}

func TestCompileFilterOpenEndedRange(t *testing.T) {
	f := query.Filter{}.And(query.ScoreRange{
		Field: query.SortServiceScore, Min: 9, HasMin: true,
	})

	where, args := compileFilter(f)
	assert.Equal(t, " WHERE service_score >= $1", where)
	assert.Equal(t, []any{9.0}, args)
}

func TestCompileFilterKeywordConjunction(t *testing.T) {
	f := query.Filter{}.And(query.KeywordConj{Keywords: []string{"phở", "ngon"}})

	where, args := compileFilter(f)
	assert.Equal(t,
		" WHERE (name ILIKE $1 OR tags ILIKE $1) AND (name ILIKE $2 OR tags ILIKE $2)",
		where)
	assert.Equal(t, []any{"%phở%", "%ngon%"}, args)
}

func TestCompileFilterConjunctionOfAll(t *testing.T) {
	f := query.Filter{}.
		And(query.ScoreRange{Field: query.SortAvgScore, Min: 7, HasMin: true, Max: 8, HasMax: true}).
		And(query.KeywordConj{Keywords: []string{"bún"}}).
		And(query.IDSet{IDs: []int64{4, 2, 9}})

	where, args := compileFilter(f)
	assert.Equal(t,
		" WHERE avg_score >= $1 AND avg_score < $2 AND (name ILIKE $3 OR tags ILIKE $3) AND id = ANY($4)",
		where)
	assert.Len(t, args, 4)
	assert.Equal(t, []int64{4, 2, 9}, args[3])
}

func TestOrderSQL(t *testing.T) {
	assert.Equal(t, "ASC", orderSQL(query.OrderAsc))
	assert.Equal(t, "DESC", orderSQL(query.OrderDesc))
	assert.Equal(t, "DESC", orderSQL(query.Order("weird")))
}
