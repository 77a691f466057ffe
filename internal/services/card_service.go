package services

import (
	"context"
	"strings"

	"github.com/jswierad/memodeck/internal/errors"
	"github.com/jswierad/memodeck/internal/logger"
	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/repository"
)

// CardService handles card content management
type CardService interface {
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error)
	CreateCard(ctx context.Context, front, back string) (*models.Card, error)
	UpdateCard(ctx context.Context, id int64, front, back string) (*models.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

type cardService struct {
	cards repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository) CardService {
	return &cardService{cards: cards}
}

func (s *cardService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: search=%q", filter.Search)

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.cards.Count(ctx, filter)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *cardService) CreateCard(ctx context.Context, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating card")

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}

	id, err := s.cards.Insert(ctx, models.Card{Front: front, Back: back})
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Debug("card created: id=%d", id)
	return card, nil
}

func (s *cardService) UpdateCard(ctx context.Context, id int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", id)

	card, err := s.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}

	card.Front = front
	card.Back = back
	if err := s.cards.Update(ctx, *card); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.GetCard(ctx, id)
}

func (s *cardService) DeleteCard(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", id)

	if _, err := s.GetCard(ctx, id); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
