package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/tastefinder/discovery-service/internal/ai"
	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

// fakeStore evaluates filters in memory, mirroring the SQL the repository
// compiles.
type fakeStore struct {
	restaurants []domain.Restaurant
	listAllErr  error
}

func (f *fakeStore) matching(flt query.Filter) []domain.Restaurant {
	var out []domain.Restaurant
	for _, r := range f.restaurants {
		if matchFilter(flt, r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeStore) ListAll(_ context.Context, flt query.Filter) ([]domain.Restaurant, error) {
	if f.listAllErr != nil {
		return nil, f.listAllErr
	}
	return f.matching(flt), nil
}

func (f *fakeStore) ListPage(_ context.Context, flt query.Filter, sortField query.SortField, order query.Order, skip, limit int) ([]domain.Restaurant, error) {
	matched := f.matching(flt)
	slices.SortStableFunc(matched, func(a, b domain.Restaurant) int {
		va, vb := scoreOf(a, sortField), scoreOf(b, sortField)
		switch {
		case va < vb:
			if order == query.OrderAsc {
				return -1
			}
			return 1
		case va > vb:
			if order == query.OrderAsc {
				return 1
			}
			return -1
		}
		return 0
	})

	if skip >= len(matched) {
		return nil, nil
	}
	end := min(skip+limit, len(matched))
	return matched[skip:end], nil
}

func (f *fakeStore) Count(_ context.Context, flt query.Filter) (int, error) {
	return len(f.matching(flt)), nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*domain.Restaurant, error) {
	for _, r := range f.restaurants {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrRestaurantNotFound
}

func matchFilter(flt query.Filter, r domain.Restaurant) bool {
	for _, p := range flt.Preds {
		switch p := p.(type) {
		case query.ScoreRange:
			v := scoreOf(r, p.Field)
			if p.HasMin && v < p.Min {
				return false
			}
			if p.HasMax && v >= p.Max {
				return false
			}
		case query.IDSet:
			if !slices.Contains(p.IDs, r.ID) {
				return false
			}
		case query.KeywordConj:
			name := strings.ToLower(r.Name)
			tags := strings.ToLower(r.Tags)
			for _, kw := range p.Keywords {
				k := strings.ToLower(kw)
				if !strings.Contains(name, k) && !strings.Contains(tags, k) {
					return false
				}
			}
		}
	}
	return true
}

type fakeGateway struct {
	recommend ai.RecommendOutcome
	classify  ai.ClassifyOutcome
	sentiment ai.SentimentResult

	mu               sync.Mutex
	recommendQueries []string
	sentimentTexts   []string
}

func (g *fakeGateway) Recommend(_ context.Context, q string, _ *ai.GPS) ai.RecommendOutcome {
	g.mu.Lock()
	g.recommendQueries = append(g.recommendQueries, q)
	g.mu.Unlock()
	return g.recommend
}

func (g *fakeGateway) Classify(_ context.Context, _ []byte, _ string) ai.ClassifyOutcome {
	return g.classify
}

// Sentiment is hit concurrently by the backfill worker pool.
func (g *fakeGateway) Sentiment(_ context.Context, text string) ai.SentimentResult {
	g.mu.Lock()
	g.sentimentTexts = append(g.sentimentTexts, text)
	g.mu.Unlock()
	return g.sentiment
}

func degradedGateway() *fakeGateway {
	return &fakeGateway{
		recommend: ai.RecommendOutcome{Degraded: true, Reason: "service down"},
		classify:  ai.ClassifyOutcome{Degraded: true, Reason: "service down"},
		sentiment: ai.SentimentResult{Label: "neutral", Score: 0.5, Degraded: true},
	}
}

func rankedGateway(ids ...int64) *fakeGateway {
	scored := make([]ai.ScoredID, len(ids))
	for i, id := range ids {
		scored[i] = ai.ScoredID{ID: id}
	}
	return &fakeGateway{
		recommend: ai.RecommendOutcome{Ranked: scored},
		sentiment: ai.SentimentResult{Label: "LABEL_2", Score: 0.9},
	}
}

type fakeReviewStore struct {
	reviews   []domain.Review
	insertErr error
	updateErr error
	nextID    int64
}

func (f *fakeReviewStore) InsertReview(_ context.Context, review *domain.Review) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	review.ID = f.nextID
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewStore) ListReviewsByURL(_ context.Context, url string) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.reviews {
		if r.SourceURL == url {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) ListReviewsMissingSentiment(_ context.Context) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.reviews {
		if r.SentimentLabel == "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) UpdateReviewSentiment(_ context.Context, id int64, label string, score float64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			f.reviews[i].SentimentLabel = label
			f.reviews[i].SentimentScore = score
			return nil
		}
	}
	return domain.ErrReviewNotFound
}

type fakePublisher struct {
	events []domain.ReviewEvent
	err    error
}

func (f *fakePublisher) PublishReview(_ context.Context, evt domain.ReviewEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

type fakeCache struct {
	entries map[string]*domain.ListResult
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*domain.ListResult{}}
}

func (f *fakeCache) GetListing(_ context.Context, key string) (*domain.ListResult, bool, error) {
	f.gets++
	res, ok := f.entries[key]
	return res, ok, nil
}

func (f *fakeCache) SetListing(_ context.Context, key string, res *domain.ListResult) error {
	f.sets++
	f.entries[key] = res
	return nil
}

var errStoreDown = errors.New("store down")

// Interface conformance for the real implementations is checked where they
// are wired in cmd/server; the fakes are checked here.
var (
	_ RestaurantStore = (*fakeStore)(nil)
	_ ReviewStore     = (*fakeReviewStore)(nil)
	_ ListingCache    = (*fakeCache)(nil)
	_ Gateway         = (*fakeGateway)(nil)
	_ ReviewPublisher = (*fakePublisher)(nil)
)
