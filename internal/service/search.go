package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/tastefinder/discovery-service/internal/domain"
	"github.com/tastefinder/discovery-service/internal/query"
)

// Reply pools for the conversational endpoint. Selection within a pool is
// uniform-random and purely cosmetic.
var (
	chatSuccessReplies = []string{
		"Mình tìm thấy %d quán hợp với \"%s\" nè, xem thử nhé!",
		"Có ngay! %d quán ngon cho \"%s\" đây.",
		"Đây là %d gợi ý ngon nhất cho \"%s\" của bạn.",
	}
	chatNotFoundReplies = []string{
		"Tiếc quá, mình chưa tìm thấy quán nào hợp. Thử từ khóa khác xem sao?",
		"Chưa có quán nào khớp với yêu cầu này. Bạn mô tả món khác nhé?",
		"Mình tìm không ra quán nào luôn. Hay thử món khác?",
	}
	chatErrorReplies = []string{
		"Có trục trặc nhỏ khi tìm quán, bạn thử lại sau nhé.",
		"Hệ thống đang bận xíu, lát nữa hỏi lại mình nha.",
	}
)

const unrecognizedImageMessage = "Mình không nhận ra món ăn trong ảnh, bạn thử ảnh khác rõ hơn nhé."

// SearchByImage classifies the image into a food label, pools candidates by
// relevance for that label, then cuts the pool down by quality: relevance
// narrows, average score decides the final order.
func (s *Service) SearchByImage(ctx context.Context, image []byte, filename string) (*domain.ImageSearchResult, error) {
	detected := s.gateway.Classify(ctx, image, filename)
	if detected.Degraded {
		return &domain.ImageSearchResult{
			Data:    []domain.Candidate{},
			Message: unrecognizedImageMessage,
		}, nil
	}

	res, err := s.List(ctx, query.ListParams{
		Page:     1,
		PageSize: searchPoolSize,
		Search:   detected.FoodName,
	})
	if err != nil {
		return nil, fmt.Errorf("search by detected food %q: %w", detected.FoodName, err)
	}

	top := topByAvgScore(res.Data, searchTopN)
	return &domain.ImageSearchResult{
		Data:         top,
		DetectedFood: detected.FoodName,
		Total:        len(top),
	}, nil
}

// ChatSearch treats the whole message as a search query and wraps the
// quality-ranked top hits in a templated reply. Failures become an apology,
// not an error.
func (s *Service) ChatSearch(ctx context.Context, message, userLat, userLon string) *domain.ChatResult {
	res, err := s.List(ctx, query.ListParams{
		Page:     1,
		PageSize: searchPoolSize,
		Search:   message,
		UserLat:  userLat,
		UserLon:  userLon,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("chat search failed")
		return &domain.ChatResult{Reply: pickReply(chatErrorReplies), Results: []domain.Candidate{}}
	}

	top := topByAvgScore(res.Data, searchTopN)
	if len(top) == 0 {
		return &domain.ChatResult{Reply: pickReply(chatNotFoundReplies), Results: []domain.Candidate{}}
	}

	reply := fmt.Sprintf(pickReply(chatSuccessReplies), len(top), message)
	return &domain.ChatResult{Reply: reply, Results: top}
}

// topByAvgScore re-sorts a relevance pool purely by average score descending
// and truncates to n.
func topByAvgScore(pool []domain.Candidate, n int) []domain.Candidate {
	top := make([]domain.Candidate, len(pool))
	copy(top, pool)
	sortByScore(top, query.SortAvgScore, false)
	if len(top) > n {
		top = top[:n]
	}
	return top
}

func pickReply(pool []string) string {
	return pool[rand.Intn(len(pool))]
}
