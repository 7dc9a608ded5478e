package repository

import (
	"context"
	"errors"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("rate not found")

type RateRepository interface {
	GetRatesByDate(ctx context.Context, date time.Time, currency string) ([]models.Rate, error)
	GetLatestRate(ctx context.Context, currency string) (*models.Rate, error)
}

type gormRateRepository struct {
	db *gorm.DB
}

func NewGormRateRepository(db *gorm.DB) RateRepository {
	return &gormRateRepository{db: db}
}

// rates reads through FINAL so replaced versions of a row are collapsed
// even before ClickHouse merges them.
func (r *gormRateRepository) rates(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(models.Rate{}.TableName() + " FINAL")
}

func (r *gormRateRepository) GetRatesByDate(ctx context.Context, date time.Time, currency string) ([]models.Rate, error) {
	query := r.rates(ctx).Where("date = ?", date.Format(time.DateOnly))
	if currency != "" {
		query = query.Where("currency = ?", currency)
	}

	var rates []models.Rate
	if err := query.Order("currency").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *gormRateRepository) GetLatestRate(ctx context.Context, currency string) (*models.Rate, error) {
	var rates []models.Rate
	err := r.rates(ctx).
		Where("currency = ?", currency).
		Order("date desc").
		Limit(1).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, ErrNotFound
	}
	return &rates[0], nil
}
