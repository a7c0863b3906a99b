package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

const restaurantColumns = `id, name, address, avg_score, ambience_score, location_score,
	quality_score, service_score, price_score, price_range, tags, opening_hours,
	lat, lon, avatar_url, source_url`

// ListAll fetches every restaurant matching the filter, unordered and
// unpaginated. Used by the manual processing path, which sorts and slices in
// memory.
func (r *Repository) ListAll(ctx context.Context, f query.Filter) ([]domain.Restaurant, error) {
	where, args := compileFilter(f)
	rows, err := r.pool.Query(ctx, "SELECT "+restaurantColumns+" FROM restaurants"+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

// ListPage fetches one page sorted by a score column, for requests the
// database can satisfy on its own.
func (r *Repository) ListPage(ctx context.Context, f query.Filter, sort query.SortField, order query.Order, skip, limit int) ([]domain.Restaurant, error) {
	where, args := compileFilter(f)
	sql := fmt.Sprintf(
		"SELECT %s FROM restaurants%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d",
		restaurantColumns, where, sort.Column(), orderSQL(order), len(args)+1, len(args)+2,
	)
	args = append(args, limit, skip)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query restaurant page: %w", err)
	}
	defer rows.Close()

	return scanRestaurants(rows)
}

// Count returns the number of restaurants matching the filter.
func (r *Repository) Count(ctx context.Context, f query.Filter) (int, error) {
	where, args := compileFilter(f)

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	return total, nil
}

// GetByID fetches a single restaurant.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+restaurantColumns+" FROM restaurants WHERE id = $1", id)

	rest, err := scanRestaurant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("query restaurant id=%d: %w", id, err)
	}
	return rest, nil
}

func scanRestaurant(row pgx.Row) (*domain.Restaurant, error) {
	rest := &domain.Restaurant{}
	err := row.Scan(
		&rest.ID, &rest.Name, &rest.Address, &rest.AvgScore, &rest.AmbienceScore,
		&rest.LocationScore, &rest.QualityScore, &rest.ServiceScore, &rest.PriceScore,
		&rest.PriceRange, &rest.Tags, &rest.OpeningHours, &rest.Lat, &rest.Lon,
		&rest.AvatarURL, &rest.SourceURL,
	)
	if err != nil {
		return nil, err
	}
	return rest, nil
}

func scanRestaurants(rows pgx.Rows) ([]domain.Restaurant, error) {
	var items []domain.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		items = append(items, *rest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}
	return items, nil
}
