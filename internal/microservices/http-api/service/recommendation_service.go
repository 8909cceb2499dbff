package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/models"
	"parkmate/internal/microservices/http-api/repository"
	"parkmate/internal/scoring"

	"gorm.io/gorm"
)

// dimensionByFactor is the finite mapping from a user's preferred factor to
// the scoring dimension key it selects. Validated against the gateway's
// actual response at rank time instead of assumed.
var dimensionByFactor = map[models.PreferredFactor]string{
	models.FactorFee:        scoring.DimensionFee,
	models.FactorDistance:   scoring.DimensionDistance,
	models.FactorRating:     scoring.DimensionReview,
	models.FactorCongestion: scoring.DimensionCongestion,
}

// RecommendationService runs the query pipeline: radius search, external
// scoring, preference re-rank. It is read-only with respect to ratings.
type RecommendationService interface {
	RecommendNearby(ctx context.Context, userID string, lat, lon float64, weekday, hour int) ([]dto.RecommendedLot, error)
}

type recommendationService struct {
	userRepo repository.UserRepository
	lotRepo  repository.ParkingLotRepository
	gateway  scoring.Gateway
	radiusM  float64
}

func NewRecommendationService(
	userRepo repository.UserRepository,
	lotRepo repository.ParkingLotRepository,
	gateway scoring.Gateway,
	radiusMeters float64,
) RecommendationService {
	return &recommendationService{
		userRepo: userRepo,
		lotRepo:  lotRepo,
		gateway:  gateway,
		radiusM:  radiusMeters,
	}
}

// RecommendNearby returns the lots around (lat, lon) ranked by the user's
// preferred scoring dimension. An empty radius search is a valid
// no-recommendation outcome and never reaches the scoring gateway. A gateway
// failure aborts only this query with ErrScoringUnavailable; stored data is
// untouched.
func (s *recommendationService) RecommendNearby(ctx context.Context, userID string, lat, lon float64, weekday, hour int) ([]dto.RecommendedLot, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	candidates, err := s.lotRepo.FindWithinRadius(lat, lon, s.radiusM)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []dto.RecommendedLot{}, nil
	}

	req := scoring.ScoreRequest{
		Candidates: make([]scoring.Candidate, 0, len(candidates)),
		Latitude:   lat,
		Longitude:  lon,
		Weekday:    weekday,
		Hour:       hour,
	}
	for _, c := range candidates {
		req.Candidates = append(req.Candidates, scoring.Candidate{
			ID:            c.ID,
			Name:          c.Name,
			AverageReview: c.AvgScore,
		})
	}

	scored, err := s.gateway.Score(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}

	return rankByPreference(scored, user.PreferredFactor)
}

// rankByPreference projects each candidate to its score in the dimension
// selected by the preference factor and sorts descending. The sort is stable:
// candidates with equal scores keep the order the gateway returned them in.
func rankByPreference(scored []scoring.LotScores, factor models.PreferredFactor) ([]dto.RecommendedLot, error) {
	key, ok := dimensionByFactor[factor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPreferenceUnmapped, factor)
	}

	ranked := make([]dto.RecommendedLot, 0, len(scored))
	for _, s := range scored {
		value, ok := s.Dimensions[key]
		if !ok {
			return nil, fmt.Errorf("%w: dimension %q missing for %q", ErrPreferenceUnmapped, key, s.Name)
		}
		ranked = append(ranked, dto.RecommendedLot{
			LotID: s.LotID,
			Name:  s.Name,
			Score: value,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
