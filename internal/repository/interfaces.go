package repository

import (
	"context"
	"time"

	"github.com/jswierad/memodeck/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, name string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Update(ctx context.Context, card models.Card) error
	Delete(ctx context.Context, id int64) error
}

// ReviewRepository handles review record data access. Get returns (nil, nil)
// when no record exists for the pair.
type ReviewRepository interface {
	Get(ctx context.Context, userID, cardID int64) (*models.ReviewRecord, error)
	Insert(ctx context.Context, rec models.ReviewRecord) (int64, error)
	Update(ctx context.Context, rec models.ReviewRecord) error
	Delete(ctx context.Context, userID, cardID int64) error
	UpdateComment(ctx context.Context, userID, cardID int64, comment string) error
	SetCrammed(ctx context.Context, userID, cardID int64, crammed bool) error
	CountOnDate(ctx context.Context, userID int64, day time.Time) (int, error)
	DueRecords(ctx context.Context, userID int64, today time.Time) ([]models.RecordWithCard, error)
	CramRecords(ctx context.Context, userID int64) ([]models.RecordWithCard, error)
	ScheduleLoad(ctx context.Context, userID int64, from time.Time, days int) ([]models.ScheduleDay, error)
	Stats(ctx context.Context, userID int64, today time.Time) (*models.UserStats, error)
	// InTx runs fn against a transactional view of the repository so an
	// allocator read and the following write commit atomically.
	InTx(ctx context.Context, fn func(ReviewRepository) error) error
}
