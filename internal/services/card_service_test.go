package services_test

import (
	"context"
	"testing"

	"github.com/jswierad/memodeck/internal/errors"
	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/services"
	"github.com/jswierad/memodeck/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetCard(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	repo.On("Get", mock.Anything, int64(1)).Return(&models.Card{ID: 1, Front: "f", Back: "b"}, nil)

	card, err := svc.GetCard(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), card.ID)
	repo.AssertExpectations(t)
}

func TestGetCard_NotFound(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	repo.On("Get", mock.Anything, int64(42)).Return(nil, nil)

	_, err := svc.GetCard(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}

func TestCreateCard_TrimsWhitespace(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	repo.On("Insert", mock.Anything, models.Card{Front: "hello", Back: "world"}).Return(int64(7), nil)
	repo.On("Get", mock.Anything, int64(7)).Return(&models.Card{ID: 7, Front: "hello", Back: "world"}, nil)

	card, err := svc.CreateCard(context.Background(), "  hello  ", " world ")
	require.NoError(t, err)
	assert.Equal(t, "hello", card.Front)
	repo.AssertExpectations(t)
}

func TestCreateCard_EmptySides(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	_, err := svc.CreateCard(context.Background(), "   ", "back")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	_, err = svc.CreateCard(context.Background(), "front", "")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))

	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestListCards_ClampsLimit(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	want := models.CardFilter{Search: "q", Limit: 50, Offset: 0}
	repo.On("List", mock.Anything, want).Return([]models.Card{{ID: 1}}, nil)
	repo.On("Count", mock.Anything, want).Return(1, nil)

	cards, total, err := svc.ListCards(context.Background(), models.CardFilter{Search: "q", Limit: -5, Offset: -1})
	require.NoError(t, err)
	assert.Len(t, cards, 1)
	assert.Equal(t, 1, total)
	repo.AssertExpectations(t)
}

func TestDeleteCard_NotFound(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := services.NewCardService(repo)

	repo.On("Get", mock.Anything, int64(9)).Return(nil, nil)

	err := svc.DeleteCard(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
