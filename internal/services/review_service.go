package services

import (
	"context"
	"time"

	"github.com/jswierad/memodeck/internal/errors"
	"github.com/jswierad/memodeck/internal/logger"
	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/repository"
	"github.com/jswierad/memodeck/internal/scheduler"
)

// ReviewService is the scheduling engine: it owns the memorize/review/forget
// lifecycle of review records, the cram queue, and what-if projections.
type ReviewService interface {
	Memorize(ctx context.Context, userID, cardID int64, grade int) (*models.ReviewRecord, error)
	Review(ctx context.Context, userID, cardID int64, grade int) (*models.ReviewRecord, error)
	Forget(ctx context.Context, userID, cardID int64) error
	Simulate(ctx context.Context, userID, cardID int64) ([]models.ReviewProjection, error)
	AddToCram(ctx context.Context, userID, cardID int64) (bool, error)
	RemoveFromCram(ctx context.Context, userID, cardID int64) (bool, error)
	SetComment(ctx context.Context, userID, cardID int64, comment string) (*models.ReviewRecord, error)
	DueQueue(ctx context.Context, userID int64) ([]models.RecordWithCard, error)
	CramQueue(ctx context.Context, userID int64) ([]models.RecordWithCard, error)
	Schedule(ctx context.Context, userID int64, days int) ([]models.ScheduleDay, error)
	Stats(ctx context.Context, userID int64) (*models.UserStats, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	cards     repository.CardRepository
	users     repository.UserRepository
	allocator scheduler.Allocator
	clock     scheduler.Clock
	locks     *userLocks
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews repository.ReviewRepository, cards repository.CardRepository, users repository.UserRepository, allocator scheduler.Allocator, clock scheduler.Clock) ReviewService {
	return &reviewService{
		reviews:   reviews,
		cards:     cards,
		users:     users,
		allocator: allocator,
		clock:     clock,
		locks:     newUserLocks(),
	}
}

func (s *reviewService) Memorize(ctx context.Context, userID, cardID int64, grade int) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("memorizing card: user_id=%d, card_id=%d, grade=%d", userID, cardID, grade)

	g, err := scheduler.GradeFromInt(grade)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	if err := s.checkPairExists(ctx, userID, cardID); err != nil {
		return nil, err
	}

	existing, err := s.reviews.Get(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewAlreadyScheduledError(userID, cardID)
	}

	today := s.clock.Today()
	state := scheduler.Step(scheduler.NewState(), g)

	var rec models.ReviewRecord
	err = s.reviews.InTx(ctx, func(txr repository.ReviewRepository) error {
		reviewDate, err := s.allocate(ctx, txr, userID, today, state.Interval)
		if err != nil {
			return err
		}

		rec = models.ReviewRecord{
			UserID:       userID,
			CardID:       cardID,
			Easiness:     state.Easiness,
			Interval:     state.Interval,
			Repetitions:  state.Repetitions,
			TotalReviews: 1,
			Lapses:       0,
			Grade:        grade,
			IntroducedOn: today,
			LastReviewed: today,
			ReviewDate:   reviewDate,
			Crammed:      g.NeedsCram(),
		}
		id, err := txr.Insert(ctx, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		return nil
	})
	if err != nil {
		log.Error("failed to memorize card: %v", err)
		return nil, internalUnlessApp(err)
	}

	log.Debug("card memorized: review_date=%s", rec.ReviewDate.Format("2006-01-02"))
	return &rec, nil
}

func (s *reviewService) Review(ctx context.Context, userID, cardID int64, grade int) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: user_id=%d, card_id=%d, grade=%d", userID, cardID, grade)

	g, err := scheduler.GradeFromInt(grade)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	rec, err := s.getRecord(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if rec.ReviewDate.After(today) {
		return nil, errors.NewNotDueError(cardID, rec.ReviewDate.Format("2006-01-02"))
	}

	state := scheduler.Step(scheduler.State{
		Easiness:    rec.Easiness,
		Interval:    rec.Interval,
		Repetitions: rec.Repetitions,
	}, g)

	err = s.reviews.InTx(ctx, func(txr repository.ReviewRepository) error {
		reviewDate, err := s.allocate(ctx, txr, userID, today, state.Interval)
		if err != nil {
			return err
		}

		rec.Easiness = state.Easiness
		rec.Interval = state.Interval
		rec.Repetitions = state.Repetitions
		rec.TotalReviews++
		if g.Failing() {
			rec.Lapses++
		}
		rec.Grade = grade
		rec.LastReviewed = today
		rec.ReviewDate = reviewDate
		rec.Crammed = g.NeedsCram()
		return txr.Update(ctx, *rec)
	})
	if err != nil {
		log.Error("failed to review card: %v", err)
		return nil, internalUnlessApp(err)
	}

	log.Debug("card reviewed: interval=%d, easiness=%.2f, review_date=%s",
		rec.Interval, rec.Easiness, rec.ReviewDate.Format("2006-01-02"))
	return rec, nil
}

func (s *reviewService) Forget(ctx context.Context, userID, cardID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("forgetting card: user_id=%d, card_id=%d", userID, cardID)

	if _, err := s.getRecord(ctx, userID, cardID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, userID, cardID); err != nil {
		log.Error("failed to forget card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// Simulate projects the outcome of every possible grade without writing
// anything. Projected dates are nominal: no load balancing is applied.
func (s *reviewService) Simulate(ctx context.Context, userID, cardID int64) ([]models.ReviewProjection, error) {
	log := logger.FromContext(ctx)
	log.Debug("simulating review outcomes: user_id=%d, card_id=%d", userID, cardID)

	if err := s.checkPairExists(ctx, userID, cardID); err != nil {
		return nil, err
	}

	rec, err := s.reviews.Get(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	today := s.clock.Today()

	if rec == nil {
		// Unseen card: project the first memorization step from baseline.
		return projectFrom(scheduler.NewState(), today), nil
	}

	if rec.ReviewDate.After(today) {
		// Not yet at its next review cycle, nothing to project.
		log.Debug("card not due, empty projection: review_date=%s", rec.ReviewDate.Format("2006-01-02"))
		return nil, nil
	}

	state := scheduler.State{
		Easiness:    rec.Easiness,
		Interval:    rec.Interval,
		Repetitions: rec.Repetitions,
	}
	return projectFrom(state, rec.ReviewDate), nil
}

// projectFrom runs one hypothetical step per grade from state, evaluated at
// evalDate.
func projectFrom(state scheduler.State, evalDate time.Time) []models.ReviewProjection {
	projections := make([]models.ReviewProjection, 0, 6)
	for g := scheduler.Grade(0); g <= 5; g++ {
		next := scheduler.Step(state, g)
		projections = append(projections, models.ReviewProjection{
			Grade:      int(g),
			Easiness:   next.Easiness,
			Interval:   next.Interval,
			Reviews:    next.Repetitions,
			ReviewDate: evalDate.AddDate(0, 0, next.Interval),
		})
	}
	return projections
}

func (s *reviewService) AddToCram(ctx context.Context, userID, cardID int64) (bool, error) {
	return s.setCram(ctx, userID, cardID, true)
}

func (s *reviewService) RemoveFromCram(ctx context.Context, userID, cardID int64) (bool, error) {
	return s.setCram(ctx, userID, cardID, false)
}

func (s *reviewService) setCram(ctx context.Context, userID, cardID int64, crammed bool) (bool, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting cram flag: user_id=%d, card_id=%d, crammed=%t", userID, cardID, crammed)

	rec, err := s.getRecord(ctx, userID, cardID)
	if err != nil {
		return false, err
	}
	if rec.Crammed == crammed {
		return false, nil
	}
	if err := s.reviews.SetCrammed(ctx, userID, cardID, crammed); err != nil {
		log.Error("failed to set cram flag: %v", err)
		return false, errors.NewInternalError(err)
	}
	return true, nil
}

func (s *reviewService) SetComment(ctx context.Context, userID, cardID int64, comment string) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting review comment: user_id=%d, card_id=%d", userID, cardID)

	rec, err := s.getRecord(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.UpdateComment(ctx, userID, cardID, comment); err != nil {
		log.Error("failed to set review comment: %v", err)
		return nil, errors.NewInternalError(err)
	}
	rec.Comment = comment
	return rec, nil
}

func (s *reviewService) DueQueue(ctx context.Context, userID int64) ([]models.RecordWithCard, error) {
	today := s.clock.Today()
	records, err := s.reviews.DueRecords(ctx, userID, today)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	fillRealIntervals(records, today)
	return records, nil
}

func (s *reviewService) CramQueue(ctx context.Context, userID int64) ([]models.RecordWithCard, error) {
	records, err := s.reviews.CramRecords(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	fillRealIntervals(records, s.clock.Today())
	return records, nil
}

// fillRealIntervals computes the elapsed-days diagnostic for queue views.
func fillRealIntervals(records []models.RecordWithCard, today time.Time) {
	for i := range records {
		records[i].RealInterval = records[i].ReviewRecord.RealInterval(today)
	}
}

// Schedule reports the user's upcoming per-day review load starting today,
// including zero-count days.
func (s *reviewService) Schedule(ctx context.Context, userID int64, days int) ([]models.ScheduleDay, error) {
	if days < 1 {
		return nil, errors.NewValidationError("days", "must be at least 1")
	}

	today := s.clock.Today()
	load, err := s.reviews.ScheduleLoad(ctx, userID, today, days)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	counts := make(map[string]int, len(load))
	for _, d := range load {
		counts[scheduler.DateOnly(d.Date).Format("2006-01-02")] = d.Count
	}

	schedule := make([]models.ScheduleDay, days)
	for i := range schedule {
		day := today.AddDate(0, 0, i)
		schedule[i] = models.ScheduleDay{Date: day, Count: counts[day.Format("2006-01-02")]}
	}
	return schedule, nil
}

func (s *reviewService) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := s.reviews.Stats(ctx, userID, s.clock.Today())
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

// allocate runs the date allocator against the transactional repository so
// occupancy counts and the eventual write see the same schedule state.
func (s *reviewService) allocate(ctx context.Context, txr repository.ReviewRepository, userID int64, today time.Time, interval int) (time.Time, error) {
	nominal := today.AddDate(0, 0, interval)
	return s.allocator.Allocate(ctx, nominal, func(ctx context.Context, day time.Time) (int, error) {
		return txr.CountOnDate(ctx, userID, day)
	})
}

// getRecord loads the pair's record, mapping absence to NOT_FOUND.
func (s *reviewService) getRecord(ctx context.Context, userID, cardID int64) (*models.ReviewRecord, error) {
	rec, err := s.reviews.Get(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if rec == nil {
		return nil, errors.NewNotFoundError("review record", cardID)
	}
	return rec, nil
}

// checkPairExists verifies both sides of the (user, card) pair.
func (s *reviewService) checkPairExists(ctx context.Context, userID, cardID int64) error {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if user == nil {
		return errors.NewNotFoundError("user", userID)
	}
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", cardID)
	}
	return nil
}

func internalUnlessApp(err error) error {
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	return errors.NewInternalError(err)
}
