package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type dish struct {
	name string
	tags string
}

var dishes = []dish{
	{"Phở", "phở, bò, nước dùng, sáng"},
	{"Bún Chả", "bún chả, nướng, hà nội"},
	{"Bánh Mì", "bánh mì, pate, ăn sáng, mang đi"},
	{"Cơm Tấm", "cơm tấm, sườn, bì, chả"},
	{"Bún Bò Huế", "bún bò, huế, cay"},
	{"Hủ Tiếu", "hủ tiếu, nam vang, mì"},
	{"Bánh Xèo", "bánh xèo, miền tây, giòn"},
	{"Gỏi Cuốn", "gỏi cuốn, tôm, chấm, nhẹ"},
	{"Lẩu", "lẩu, nhóm, buổi tối"},
	{"Chè", "chè, tráng miệng, ngọt"},
}

var prefixes = []string{"Quán", "Tiệm", "Nhà Hàng"}

var owners = []string{
	"Cô Ba", "Bà Hai", "Ông Tư", "Hòa", "Lệ", "Thìn", "Hương",
	"Minh", "Phượng", "Sáu", "Út", "Ngọc", "Tâm", "Kim",
}

var hourSpecs = []string{
	"06:00-14:00",
	"06:00-14:00 | 17:00-22:00",
	"09:00-22:00",
	"17:00-02:00",
	"07:00-11:00, 15:00-21:00",
	"", // crawler found no hours
}

// Setup seeds a deterministic restaurant and review set for local runs.
func Setup(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	rng := rand.New(rand.NewSource(42))

	logger.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE reviews, restaurants RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	logger.Info().Msg("inserting restaurants")
	if err := seedRestaurants(ctx, pool, rng, 60); err != nil {
		return fmt.Errorf("seed restaurants: %w", err)
	}

	logger.Info().Msg("inserting reviews")
	if err := seedReviews(ctx, pool, rng, 120); err != nil {
		return fmt.Errorf("seed reviews: %w", err)
	}

	logger.Info().Msg("seeding complete")
	return nil
}

func seedRestaurants(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	rows := []string{}
	args := []any{}

	for i := range n {
		d := dishes[i%len(dishes)]
		name := fmt.Sprintf("%s %s %s",
			prefixes[rng.Intn(len(prefixes))], d.name, owners[rng.Intn(len(owners))])

		avg := score(rng)
		lat, lon := coords(rng, i)
		sourceURL := fmt.Sprintf("https://foody.example/quan/%d", i+1)

		base := len(args)
		ph := make([]string, 15)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		rows = append(rows, "("+strings.Join(ph, ", ")+")")

		args = append(args,
			name,
			fmt.Sprintf("%d Đường số %d, Quận %d, TP.HCM", rng.Intn(400)+1, rng.Intn(20)+1, rng.Intn(12)+1),
			avg,
			score(rng), score(rng), score(rng), score(rng), score(rng),
			fmt.Sprintf("%dk-%dk", (rng.Intn(4)+1)*10, (rng.Intn(10)+5)*10),
			d.tags,
			hourSpecs[rng.Intn(len(hourSpecs))],
			lat, lon,
			fmt.Sprintf("https://img.foody.example/%d.jpg", i+1),
			sourceURL,
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO restaurants (name, address, avg_score, ambience_score,
		location_score, quality_score, service_score, price_score, price_range,
		tags, opening_hours, lat, lon, avatar_url, source_url) VALUES ` +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func seedReviews(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, n int) error {
	comments := []string{
		"Nước dùng đậm đà, sẽ quay lại.",
		"Phục vụ hơi chậm nhưng đồ ăn ngon.",
		"Giá hợp lý, quán sạch sẽ.",
		"Hơi mặn so với khẩu vị của mình.",
		"Ngon nhất khu này, nên thử.",
		"Chờ lâu quá, 30 phút mới có món.",
	}

	rows := []string{}
	args := []any{}

	for range n {
		restaurantIdx := rng.Intn(60) + 1

		base := len(args)
		rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
		args = append(args,
			fmt.Sprintf("Quán số %d", restaurantIdx),
			fmt.Sprintf("https://foody.example/quan/%d", restaurantIdx),
			score(rng),
			comments[rng.Intn(len(comments))],
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO reviews (restaurant_name, source_url, score, content) VALUES " +
		strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

// score draws a rating skewed toward the 7-9 band.
func score(rng *rand.Rand) float64 {
	s := 6 + rng.NormFloat64()*1.2 + 1.8
	s = math.Max(1, math.Min(10, s))
	return math.Round(s*10) / 10
}

// coords emits the messy formats the crawler produces: dot decimals, comma
// decimals, and the occasional unusable value.
func coords(rng *rand.Rand, i int) (string, string) {
	lat := 10.72 + rng.Float64()*0.12
	lon := 106.62 + rng.Float64()*0.12

	switch i % 7 {
	case 3:
		return strings.ReplaceAll(fmt.Sprintf("%.6f", lat), ".", ","),
			strings.ReplaceAll(fmt.Sprintf("%.6f", lon), ".", ",")
	case 6:
		return "", ""
	default:
		return fmt.Sprintf("%.6f", lat), fmt.Sprintf("%.6f", lon)
	}
}
