package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

func newTestService(store *fakeStore, gw Gateway) *Service {
	return NewService(store, &fakeReviewStore{}, nil, gw, nil, zerolog.Nop())
}

// tenRestaurants returns records with avg scores 10, 9, ..., 1 so the
// default descending sort ranks them by ID.
func tenRestaurants() []domain.Restaurant {
	var out []domain.Restaurant
	for i := 1; i <= 10; i++ {
		out = append(out, domain.Restaurant{
			ID:       int64(i),
			Name:     fmt.Sprintf("Quán số %d", i),
			AvgScore: float64(11 - i),
		})
	}
	return out
}

func TestListDBPathPagination(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{Page: 2, PageSize: 3})
	require.NoError(t, err)

	// Page 2 of 10 with size 3 holds ranks 4-6 by descending avg score.
	require.Len(t, res.Data, 3)
	assert.Equal(t, int64(4), res.Data[0].ID)
	assert.Equal(t, int64(5), res.Data[1].ID)
	assert.Equal(t, int64(6), res.Data[2].ID)

	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 2, res.CurrentPage)
	assert.Equal(t, 4, res.TotalPages)
	assert.Equal(t, "avgScore", res.SortBy)
	assert.Equal(t, "desc", res.Order)
}

func TestListRatingBucketGte9(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{Rating: "gte9"})
	require.NoError(t, err)

	// Scores run 10..1, so only 10 and 9 survive.
	assert.Equal(t, 2, res.Total)
	for _, c := range res.Data {
		assert.GreaterOrEqual(t, c.AvgScore, 9.0)
	}
}

func TestListUnknownRatingBucketAppliesNoFilter(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{Rating: "stellar"})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Total)
}

func TestListUnknownSortFallsBackToAvgScore(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{SortBy: "coolness", PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Equal(t, "coolness", res.SortBy)
}

func searchFixtures() []domain.Restaurant {
	return []domain.Restaurant{
		{ID: 1, Name: "Phở Hòa", Tags: "phở, ngon, bò", AvgScore: 8.1},
		{ID: 2, Name: "Phở Lệ", Tags: "phở, ngon", AvgScore: 9.4},
		{ID: 3, Name: "Bún Chả Hương", Tags: "bún chả, ngon", AvgScore: 9.0},
		{ID: 4, Name: "Phở Thìn", Tags: "phở", AvgScore: 7.2},
		{ID: 5, Name: "Cơm Tấm Ba Ghiền", Tags: "cơm tấm, ngon", AvgScore: 8.8},
	}
}

func TestSearchKeywordConjunctionWithoutAI(t *testing.T) {
	gw := degradedGateway()
	s := newTestService(&fakeStore{restaurants: searchFixtures()}, gw)

	res, err := s.List(context.Background(), query.ListParams{Search: "phở,ngon"})
	require.NoError(t, err)

	// Both keywords must match name or tags even though the AI is down;
	// only 1 and 2 carry phở AND ngon.
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Data, 2)
	// Degraded relevance: ordered by avg score descending.
	assert.Equal(t, int64(2), res.Data[0].ID)
	assert.Equal(t, int64(1), res.Data[1].ID)

	assert.Equal(t, []string{"phở,ngon"}, gw.recommendQueries)
}

func TestSearchAIRankingOrdersResults(t *testing.T) {
	// The AI prefers 1 over 2 and also suggests 3 and 5, which fail the
	// keyword conjunction and must be excluded anyway.
	gw := rankedGateway(1, 3, 2, 5)
	s := newTestService(&fakeStore{restaurants: searchFixtures()}, gw)

	res, err := s.List(context.Background(), query.ListParams{Search: "phở,ngon"})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Equal(t, int64(2), res.Data[1].ID)
	assert.Equal(t, 2, res.Total)
}

func TestSearchExplicitAscOverridesRank(t *testing.T) {
	gw := rankedGateway(1, 2)
	s := newTestService(&fakeStore{restaurants: searchFixtures()}, gw)

	res, err := s.List(context.Background(), query.ListParams{Search: "phở,ngon", Order: query.OrderAsc})
	require.NoError(t, err)

	// Ascending order overrides relevance: raw avg score ascending.
	require.Len(t, res.Data, 2)
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Equal(t, int64(2), res.Data[1].ID)
	assert.Less(t, res.Data[0].AvgScore, res.Data[1].AvgScore)
}

func TestSearchNonDefaultSortIgnoresRank(t *testing.T) {
	fixtures := searchFixtures()
	fixtures[0].ServiceScore = 9.9 // ID 1
	fixtures[1].ServiceScore = 5.0 // ID 2
	gw := rankedGateway(2, 1)
	s := newTestService(&fakeStore{restaurants: fixtures}, gw)

	res, err := s.List(context.Background(), query.ListParams{Search: "phở,ngon", SortBy: "serviceScore"})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, int64(1), res.Data[0].ID)
}

func TestDistanceSortAscendingSentinelLast(t *testing.T) {
	store := &fakeStore{restaurants: []domain.Restaurant{
		{ID: 1, Name: "Gần", Lat: "10.7769", Lon: "106.7009", AvgScore: 5},
		{ID: 2, Name: "Xa", Lat: "21.0278", Lon: "105.8342", AvgScore: 9},
		{ID: 3, Name: "Tọa độ hỏng", Lat: "???", Lon: "", AvgScore: 10},
		{ID: 4, Name: "Gần vừa", Lat: "10,8231", Lon: "106,6297", AvgScore: 7},
	}}
	s := newTestService(store, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{
		SortBy:  "distance",
		Order:   query.OrderAsc,
		UserLat: "10.7721",
		UserLon: "106.6983",
	})
	require.NoError(t, err)

	require.Len(t, res.Data, 4)
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Equal(t, int64(4), res.Data[1].ID)
	assert.Equal(t, int64(2), res.Data[2].ID)
	// Unparseable coordinates sort last with the sentinel distance.
	assert.Equal(t, int64(3), res.Data[3].ID)
	assert.Equal(t, float64(99999), res.Data[3].Distance)
}

func TestDistanceSortDescending(t *testing.T) {
	store := &fakeStore{restaurants: []domain.Restaurant{
		{ID: 1, Lat: "10.7769", Lon: "106.7009"},
		{ID: 2, Lat: "21.0278", Lon: "105.8342"},
	}}
	s := newTestService(store, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{
		SortBy:  "distance",
		UserLat: "10.7721",
		UserLon: "106.6983",
	})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, int64(2), res.Data[0].ID)
}

func TestDistanceSortWithoutCoordsFallsBackToDBPath(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	res, err := s.List(context.Background(), query.ListParams{SortBy: "distance", PageSize: 3})
	require.NoError(t, err)

	// No usable user coordinates: default score sort, no distance fields.
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Zero(t, res.Data[0].Distance)
}

func TestOpenNowFiltersClosedRestaurants(t *testing.T) {
	store := &fakeStore{restaurants: []domain.Restaurant{
		{ID: 1, Name: "Mở cửa", OpeningHours: "06:00-22:00", AvgScore: 8},
		{ID: 2, Name: "Đóng cửa", OpeningHours: "22:30-23:30", AvgScore: 9},
		{ID: 3, Name: "Xuyên đêm", OpeningHours: "22:00-06:00", AvgScore: 7},
		{ID: 4, Name: "Không giờ", OpeningHours: "", AvgScore: 10},
	}}
	s := newTestService(store, degradedGateway())
	s.now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local)
	}

	res, err := s.List(context.Background(), query.ListParams{OpenNow: true})
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.Equal(t, int64(1), res.Data[0].ID)
	assert.Equal(t, 1, res.Total)
}

func TestManualPathPaginationAfterFiltering(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())
	s.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	}

	// OpenNow with no hours data filters everything out.
	res, err := s.List(context.Background(), query.ListParams{OpenNow: true, Page: 3, PageSize: 4})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.TotalPages)
}

func TestListStoreErrorPropagates(t *testing.T) {
	s := newTestService(&fakeStore{listAllErr: errStoreDown}, degradedGateway())

	_, err := s.List(context.Background(), query.ListParams{Search: "phở"})
	assert.Error(t, err)
}

func TestDBPathServedFromCache(t *testing.T) {
	store := &fakeStore{restaurants: tenRestaurants()}
	c := newFakeCache()
	s := NewService(store, &fakeReviewStore{}, c, degradedGateway(), nil, zerolog.Nop())

	params := query.ListParams{Page: 1, PageSize: 5}

	first, err := s.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)

	second, err := s.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Second call is a cache hit: nothing new stored.
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, 2, c.gets)
}

func TestManualPathSkipsCache(t *testing.T) {
	c := newFakeCache()
	s := NewService(&fakeStore{restaurants: tenRestaurants()}, &fakeReviewStore{}, c, degradedGateway(), nil, zerolog.Nop())

	_, err := s.List(context.Background(), query.ListParams{Search: "Quán"})
	require.NoError(t, err)
	assert.Zero(t, c.gets)
	assert.Zero(t, c.sets)
}

func TestGetRestaurant(t *testing.T) {
	s := newTestService(&fakeStore{restaurants: tenRestaurants()}, degradedGateway())

	r, err := s.GetRestaurant(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Quán số 3", r.Name)

	_, err = s.GetRestaurant(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
}
