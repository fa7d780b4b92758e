package services

import (
	"context"
	"regexp"
	"strings"

	"giftmarket-bot/internal/models"
	"giftmarket-bot/internal/repository"
)

var binPattern = regexp.MustCompile(`^\d{6}$`)

// CatalogService answers read-only queries over available stock.
type CatalogService struct {
	repos repository.Registry
}

func NewCatalogService(repos repository.Registry) *CatalogService {
	return &CatalogService{repos: repos}
}

func (s *CatalogService) ListAvailable(ctx context.Context) ([]models.GiftCard, error) {
	return s.repos.GiftCards().ListAvailable(ctx)
}

func (s *CatalogService) ListByBrand(ctx context.Context, brand string) ([]models.GiftCard, error) {
	return s.repos.GiftCards().ListByBrand(ctx, brand)
}

// SearchByBIN accepts exactly six digits; anything else is ErrInvalidQuery.
func (s *CatalogService) SearchByBIN(ctx context.Context, query string) ([]models.GiftCard, error) {
	query = strings.TrimSpace(query)
	if !binPattern.MatchString(query) {
		return nil, models.ErrInvalidQuery
	}
	return s.repos.GiftCards().ListByBIN(ctx, query)
}

func (s *CatalogService) DistinctBrands(ctx context.Context) ([]string, error) {
	return s.repos.GiftCards().DistinctBrands(ctx)
}
