package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tastefinder/discovery-service/internal/ai"
	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/geo"
	"github.com/tastefinder/discovery-service/internal/hours"
	"github.com/tastefinder/discovery-service/internal/query"
)

// List runs the listing pipeline: filter construction, an AI relevance pass
// for free-text search, then either a pure database page or in-memory
// enrichment, filtering, sorting, and pagination.
func (s *Service) List(ctx context.Context, params query.ListParams) (*domain.ListResult, error) {
	params = params.Normalize()

	sortField := query.ScoreSortField(params.SortBy)
	userLat, latOK := geo.ParseCoord(params.UserLat)
	userLon, lonOK := geo.ParseCoord(params.UserLon)
	hasUserCoords := latOK && lonOK
	distanceSort := params.SortBy == string(query.SortDistance) && hasUserCoords
	keywords := params.Keywords()

	filter := query.Filter{}
	if r, ok := query.RatingRange(params.Rating, sortField); ok {
		filter = filter.And(r)
	}

	// Free-text search: the keyword conjunction always applies. A successful
	// AI ranking additionally narrows candidates to the ranked IDs; a
	// degraded outcome leaves plain substring matching.
	var rank map[int64]int
	if len(keywords) > 0 {
		filter = filter.And(query.KeywordConj{Keywords: keywords})

		var gps *ai.GPS
		if hasUserCoords {
			gps = &ai.GPS{Lat: userLat, Lon: userLon}
		}
		outcome := s.gateway.Recommend(ctx, params.Search, gps)
		if outcome.Degraded {
			s.logger.Debug().Str("reason", outcome.Reason).Msg("relevance ranking unavailable")
		} else {
			filter = filter.And(query.IDSet{IDs: outcome.IDs()})
			rank = outcome.Rank()
		}
	}

	// The database can serve the request alone unless it involves a
	// predicate it cannot express.
	manual := params.OpenNow || distanceSort || len(keywords) > 0
	if !manual {
		return s.listFromDB(ctx, params, sortField, filter)
	}

	all, err := s.restaurants.ListAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	candidates := make([]domain.Candidate, len(all))
	for i, r := range all {
		candidates[i] = domain.Candidate{Restaurant: r}
	}

	if hasUserCoords {
		for i := range candidates {
			lat, okLat := geo.ParseCoord(candidates[i].Lat)
			lon, okLon := geo.ParseCoord(candidates[i].Lon)
			if okLat && okLon {
				candidates[i].Distance = geo.DistanceKm(userLat, userLon, lat, lon)
			} else {
				candidates[i].Distance = geo.SentinelKm
			}
		}
	}

	if params.OpenNow {
		now := s.now()
		open := candidates[:0]
		for _, c := range candidates {
			if hours.IsOpen(c.OpeningHours, now) {
				open = append(open, c)
			}
		}
		candidates = open
	}

	sortCandidates(candidates, sortField, params.Order, rank, distanceSort)

	total := len(candidates)
	skip := params.Skip()
	data := []domain.Candidate{}
	if skip < total {
		end := min(skip+params.PageSize, total)
		data = candidates[skip:end]
	}

	return envelope(data, total, params), nil
}

func (s *Service) listFromDB(ctx context.Context, params query.ListParams, sortField query.SortField, filter query.Filter) (*domain.ListResult, error) {
	key := listingKey(params)
	if s.cache != nil {
		res, ok, err := s.cache.GetListing(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Msg("listing cache get failed")
		} else if ok {
			return res, nil
		}
	}

	total, err := s.restaurants.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}

	rests, err := s.restaurants.ListPage(ctx, filter, sortField, params.Order, params.Skip(), params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list page: %w", err)
	}

	data := make([]domain.Candidate, len(rests))
	for i, r := range rests {
		data[i] = domain.Candidate{Restaurant: r}
	}

	res := envelope(data, total, params)
	if s.cache != nil {
		if err := s.cache.SetListing(ctx, key, res); err != nil {
			s.logger.Warn().Err(err).Msg("listing cache set failed")
		}
	}
	return res, nil
}

// listingKey identifies one database-path listing request. Manual-path
// results are time- and location-dependent and never cached.
func listingKey(p query.ListParams) string {
	return fmt.Sprintf("listing:p%d:s%d:sort:%s:%s:rating:%s",
		p.Page, p.PageSize, p.SortBy, p.Order, p.Rating)
}

func envelope(data []domain.Candidate, total int, params query.ListParams) *domain.ListResult {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = string(query.SortAvgScore)
	}
	return &domain.ListResult{
		Data:        data,
		Total:       total,
		CurrentPage: params.Page,
		TotalPages:  (total + params.PageSize - 1) / params.PageSize,
		SortBy:      sortBy,
		Order:       string(params.Order),
	}
}

// sortCandidates applies exactly one ordering strategy. Relevance rank wins
// for default-field descending sorts; an explicit ascending order overrides
// rank with the raw score. Distance ordering requires the caller to have
// asked for it with usable coordinates.
func sortCandidates(cands []domain.Candidate, sortField query.SortField, order query.Order, rank map[int64]int, distanceSort bool) {
	switch {
	case rank != nil && !distanceSort && sortField == query.SortAvgScore:
		if order == query.OrderAsc {
			sortByScore(cands, sortField, true)
			return
		}
		sort.SliceStable(cands, func(i, j int) bool {
			ri, iok := rank[cands[i].ID]
			rj, jok := rank[cands[j].ID]
			if iok && jok {
				return ri < rj
			}
			return iok && !jok // unranked sort last
		})
	case distanceSort:
		asc := order == query.OrderAsc
		sort.SliceStable(cands, func(i, j int) bool {
			if asc {
				return cands[i].Distance < cands[j].Distance
			}
			return cands[i].Distance > cands[j].Distance
		})
	default:
		sortByScore(cands, sortField, order == query.OrderAsc)
	}
}

func sortByScore(cands []domain.Candidate, field query.SortField, asc bool) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := scoreOf(cands[i].Restaurant, field), scoreOf(cands[j].Restaurant, field)
		if asc {
			return a < b
		}
		return a > b
	})
}

// scoreOf treats a missing score as zero for sorting purposes.
func scoreOf(r domain.Restaurant, field query.SortField) float64 {
	switch field {
	case query.SortAmbienceScore:
		return r.AmbienceScore
	case query.SortLocationScore:
		return r.LocationScore
	case query.SortQualityScore:
		return r.QualityScore
	case query.SortServiceScore:
		return r.ServiceScore
	case query.SortPriceScore:
		return r.PriceScore
	default:
		return r.AvgScore
	}
}
