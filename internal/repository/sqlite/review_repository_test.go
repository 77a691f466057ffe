package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/repository"
	"github.com/jswierad/memodeck/internal/repository/sqlite"
	"github.com/jswierad/memodeck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDay = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return baseDay.AddDate(0, 0, offset)
}

type repoFixture struct {
	repo   repository.ReviewRepository
	userID int64
	cardID int64

	seedCard func(t *testing.T) int64
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	return &repoFixture{
		repo:   sqlite.NewReviewRepository(database.DB),
		userID: testutil.SeedUser(t, database, "alice"),
		cardID: testutil.SeedCard(t, database, "front", "back"),
		seedCard: func(t *testing.T) int64 {
			return testutil.SeedCard(t, database, "front", "back")
		},
	}
}

func (f *repoFixture) newRecord(cardID int64, reviewDate time.Time) models.ReviewRecord {
	return models.ReviewRecord{
		UserID:       f.userID,
		CardID:       cardID,
		Easiness:     2.5,
		Interval:     1,
		Repetitions:  1,
		TotalReviews: 1,
		Grade:        4,
		IntroducedOn: baseDay,
		LastReviewed: baseDay,
		ReviewDate:   reviewDate,
	}
}

func TestReviewRepository_InsertAndGet(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	id, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, id, rec.ID)
	assert.InDelta(t, 2.5, rec.Easiness, 1e-9)
	assert.Equal(t, 1, rec.Interval)
	assert.True(t, rec.ReviewDate.Equal(day(1)))
	assert.False(t, rec.Crammed)
	assert.Empty(t, rec.Comment)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestReviewRepository_Get_Missing(t *testing.T) {
	f := newRepoFixture(t)

	rec, err := f.repo.Get(context.Background(), f.userID, 999)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReviewRepository_Update(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	rec := f.newRecord(f.cardID, day(1))
	id, err := f.repo.Insert(ctx, rec)
	require.NoError(t, err)

	rec.ID = id
	rec.Easiness = 2.6
	rec.Interval = 6
	rec.Repetitions = 2
	rec.TotalReviews = 2
	rec.Grade = 5
	rec.LastReviewed = day(1)
	rec.ReviewDate = day(7)
	require.NoError(t, f.repo.Update(ctx, rec))

	got, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, got.Easiness, 1e-9)
	assert.Equal(t, 6, got.Interval)
	assert.Equal(t, 2, got.TotalReviews)
	assert.True(t, got.ReviewDate.Equal(day(7)))
}

func TestReviewRepository_Delete(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	_, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)

	require.NoError(t, f.repo.Delete(ctx, f.userID, f.cardID))

	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReviewRepository_UpdateComment(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	_, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)

	require.NoError(t, f.repo.UpdateComment(ctx, f.userID, f.cardID, "tricky"))

	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.Equal(t, "tricky", rec.Comment)
	assert.True(t, rec.ReviewDate.Equal(day(1)), "comment update must not touch scheduling")
}

func TestReviewRepository_SetCrammed(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	_, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)

	require.NoError(t, f.repo.SetCrammed(ctx, f.userID, f.cardID, true))
	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.True(t, rec.Crammed)

	require.NoError(t, f.repo.SetCrammed(ctx, f.userID, f.cardID, false))
	rec, err = f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.False(t, rec.Crammed)
}

func TestReviewRepository_CountOnDate(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	_, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(1)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(2)))
	require.NoError(t, err)

	count, err := f.repo.CountOnDate(ctx, f.userID, day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = f.repo.CountOnDate(ctx, f.userID, day(3))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReviewRepository_DueRecords(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	overdue := f.newRecord(f.cardID, day(-1))
	_, err := f.repo.Insert(ctx, overdue)
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(0)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(1)))
	require.NoError(t, err)

	due, err := f.repo.DueRecords(ctx, f.userID, day(0))
	require.NoError(t, err)
	require.Len(t, due, 2, "a future record is not due")
	assert.True(t, due[0].ReviewDate.Equal(day(-1)), "most overdue first")
	assert.Equal(t, "front", due[0].Front)
	assert.Equal(t, "back", due[0].Back)
}

func TestReviewRepository_CramRecords(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	later := f.newRecord(f.cardID, day(1))
	later.IntroducedOn = day(1)
	later.Crammed = true
	_, err := f.repo.Insert(ctx, later)
	require.NoError(t, err)

	earlierCard := f.seedCard(t)
	earlier := f.newRecord(earlierCard, day(1))
	earlier.Crammed = true
	_, err = f.repo.Insert(ctx, earlier)
	require.NoError(t, err)

	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(1)))
	require.NoError(t, err)

	crammed, err := f.repo.CramRecords(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, crammed, 2, "unflagged records stay out of the cram queue")
	assert.Equal(t, earlierCard, crammed[0].CardID, "earliest introduction first")
	assert.Equal(t, f.cardID, crammed[1].CardID)
}

func TestReviewRepository_ScheduleLoad(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	_, err := f.repo.Insert(ctx, f.newRecord(f.cardID, day(1)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(1)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(3)))
	require.NoError(t, err)
	_, err = f.repo.Insert(ctx, f.newRecord(f.seedCard(t), day(10)))
	require.NoError(t, err)

	load, err := f.repo.ScheduleLoad(ctx, f.userID, day(0), 7)
	require.NoError(t, err)
	require.Len(t, load, 2, "empty days and days past the window are absent")
	assert.True(t, load[0].Date.Equal(day(1)))
	assert.Equal(t, 2, load[0].Count)
	assert.True(t, load[1].Date.Equal(day(3)))
	assert.Equal(t, 1, load[1].Count)
}

func TestReviewRepository_Stats(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	first := f.newRecord(f.cardID, day(0))
	first.TotalReviews = 3
	first.Lapses = 1
	first.Crammed = true
	_, err := f.repo.Insert(ctx, first)
	require.NoError(t, err)

	second := f.newRecord(f.seedCard(t), day(2))
	second.Easiness = 2.7
	_, err = f.repo.Insert(ctx, second)
	require.NoError(t, err)

	stats, err := f.repo.Stats(ctx, f.userID, day(0))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 1, stats.Crammed)
	assert.Equal(t, 4, stats.TotalReviews)
	assert.Equal(t, 1, stats.Lapses)
	assert.InDelta(t, 2.6, stats.AvgEasiness, 1e-9)
}

func TestReviewRepository_Stats_Empty(t *testing.T) {
	f := newRepoFixture(t)

	stats, err := f.repo.Stats(context.Background(), f.userID, day(0))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Records)
	assert.Equal(t, 0.0, stats.AvgEasiness)
}

func TestReviewRepository_InTx_RollsBackOnError(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	errBoom := errors.New("boom")
	err := f.repo.InTx(ctx, func(txr repository.ReviewRepository) error {
		if _, err := txr.Insert(ctx, f.newRecord(f.cardID, day(1))); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	assert.Nil(t, rec, "failed transaction must leave no record behind")
}

func TestReviewRepository_InTx_Commits(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	err := f.repo.InTx(ctx, func(txr repository.ReviewRepository) error {
		_, err := txr.Insert(ctx, f.newRecord(f.cardID, day(1)))
		return err
	})
	require.NoError(t, err)

	rec, err := f.repo.Get(ctx, f.userID, f.cardID)
	require.NoError(t, err)
	require.NotNil(t, rec)
}
