package dto

import "parkmate/internal/microservices/http-api/models"

// NearbyRequest: query parameters for the recommendation endpoint. Weekday is
// 0 (Sunday) through 6, hour is 0-23.
type NearbyRequest struct {
	Latitude  float64 `form:"latitude" binding:"required"`
	Longitude float64 `form:"longitude" binding:"required"`
	Weekday   int     `form:"weekday" binding:"gte=0,lte=6"`
	Hour      int     `form:"hour" binding:"gte=0,lte=23"`
}

// RecommendedLot is one entry of the ranked recommendation list.
type RecommendedLot struct {
	LotID int64   `json:"p_id"`
	Name  string  `json:"name"`
	Score float64 `json:"recommendation_score"`
}

// DetailResponse for the lot detail view
type DetailResponse struct {
	LotID     int64   `json:"p_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Fee       float64 `json:"fee"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AvgScore  float64 `json:"avg_score"`
}

// SearchResponse for keyword search results
type SearchResponse struct {
	LotID   int64   `json:"p_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Fee     float64 `json:"fee"`
	Rating  float64 `json:"rating"`
}

func FromModelToSearchResponse(lot *models.ParkingLot) *SearchResponse {
	resp := &SearchResponse{
		LotID:   lot.ID,
		Name:    lot.Name,
		Address: lot.Address,
		Fee:     lot.Fee,
	}
	if lot.AvgRating != nil {
		resp.Rating = lot.AvgRating.AvgScore
	}
	return resp
}

// LotRequest: admin payload for registering or updating a lot
type LotRequest struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Fee       float64 `json:"fee" binding:"gte=0"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// LotResponse: admin list view of a lot
type LotResponse struct {
	LotID     int64   `json:"p_id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Fee       float64 `json:"fee"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AvgScore  float64 `json:"avg_score"`
}

func FromModelToLotResponse(lot *models.ParkingLot) *LotResponse {
	resp := &LotResponse{
		LotID:     lot.ID,
		Name:      lot.Name,
		Address:   lot.Address,
		Fee:       lot.Fee,
		Latitude:  lot.Latitude,
		Longitude: lot.Longitude,
	}
	if lot.AvgRating != nil {
		resp.AvgScore = lot.AvgRating.AvgScore
	}
	return resp
}
