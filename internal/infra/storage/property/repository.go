package property

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/KakraGeek/staykasa-booking-service/internal/domain"
	"github.com/KakraGeek/staykasa-booking-service/pkg/dbmetrics"
	"github.com/KakraGeek/staykasa-booking-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий каталога объектов размещения
// Движок бронирований только читает объекты: изменение цены, вместимости
// и активности, как и агрегаты рейтинга, делает каталожная часть системы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория объектов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает объект размещения по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"title",
		"price_per_night",
		"max_guests",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("properties").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var property domain.Property
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&property.ID,
		&property.OwnerID,
		&property.Title,
		&property.PricePerNight,
		&property.MaxGuests,
		&property.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan property: %v", ErrScanRow, err)
	}

	property.CreatedAt = createdAt.Time
	property.UpdatedAt = updatedAt.Time

	return &property, nil
}
