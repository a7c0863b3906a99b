package query

// Predicate is one typed filter clause. The repository compiles predicates
// into SQL; the set is closed so a new variant requires touching the
// compiler too.
type Predicate interface {
	predicate()
}

// ScoreRange restricts a score field to [Min, Max). Either bound may be
// absent.
type ScoreRange struct {
	Field  SortField
	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// IDSet restricts candidates to an explicit ID list, typically the ones the
// recommendation service ranked.
type IDSet struct {
	IDs []int64
}

// KeywordConj requires every keyword to appear, case-insensitively, in the
// candidate's name or tags.
type KeywordConj struct {
	Keywords []string
}

func (ScoreRange) predicate()  {}
func (IDSet) predicate()       {}
func (KeywordConj) predicate() {}

// Filter is a conjunction of predicates. The zero value matches everything.
type Filter struct {
	Preds []Predicate
}

func (f Filter) And(p Predicate) Filter {
	f.Preds = append(f.Preds, p)
	return f
}

// RatingRange maps a rating-bucket token to a half-open range over the
// currently selected score field. Unknown tokens (including "all") apply no
// filter.
func RatingRange(bucket string, field SortField) (ScoreRange, bool) {
	switch bucket {
	case "gte9":
		return ScoreRange{Field: field, Min: 9.0, HasMin: true}, true
	case "8to9":
		return ScoreRange{Field: field, Min: 8.0, HasMin: true, Max: 9.0, HasMax: true}, true
	case "7to8":
		return ScoreRange{Field: field, Min: 7.0, HasMin: true, Max: 8.0, HasMax: true}, true
	case "6to7":
		return ScoreRange{Field: field, Min: 6.0, HasMin: true, Max: 7.0, HasMax: true}, true
	case "lt6":
		return ScoreRange{Field: field, Max: 6.0, HasMax: true}, true
	}
	return ScoreRange{}, false
}
