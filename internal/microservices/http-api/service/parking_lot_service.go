package service

import (
	"context"
	"errors"

	"parkmate/internal/microservices/http-api/dto"
	"parkmate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// ParkingLotService covers the public read side of lots: detail and keyword
// search. The average score in the detail view reads through the aggregate
// cache.
type ParkingLotService interface {
	Detail(ctx context.Context, lotID int64) (*dto.DetailResponse, error)
	Search(ctx context.Context, keyword string) ([]dto.SearchResponse, error)
}

type parkingLotService struct {
	lotRepo repository.ParkingLotRepository
	aggRepo repository.AggregateRepository
	cache   AggregateCache
}

func NewParkingLotService(
	lotRepo repository.ParkingLotRepository,
	aggRepo repository.AggregateRepository,
	cache AggregateCache,
) ParkingLotService {
	return &parkingLotService{lotRepo: lotRepo, aggRepo: aggRepo, cache: cache}
}

func (s *parkingLotService) Detail(ctx context.Context, lotID int64) (*dto.DetailResponse, error) {
	lot, err := s.lotRepo.GetByID(lotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}

	agg, err := s.cache.Get(ctx, lotID)
	if err != nil || agg == nil {
		agg, err = s.aggRepo.Get(lotID)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, agg)
	}

	return &dto.DetailResponse{
		LotID:     lot.ID,
		Name:      lot.Name,
		Address:   lot.Address,
		Fee:       lot.Fee,
		Latitude:  lot.Latitude,
		Longitude: lot.Longitude,
		AvgScore:  agg.AvgScore,
	}, nil
}

// Search matches the keyword against lot names and addresses. No match is an
// empty list, not an error.
func (s *parkingLotService) Search(ctx context.Context, keyword string) ([]dto.SearchResponse, error) {
	lots, err := s.lotRepo.Search(keyword)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SearchResponse, 0, len(lots))
	for i := range lots {
		responses = append(responses, *dto.FromModelToSearchResponse(&lots[i]))
	}
	return responses, nil
}
