package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jswierad/memodeck/internal/logger"
	"github.com/jswierad/memodeck/internal/models"
	"github.com/jswierad/memodeck/internal/repository"
)

type reviewRepository struct {
	db *sql.DB // nil when already running inside a transaction
	q  queryer
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db, q: db}
}

func (r *reviewRepository) InTx(ctx context.Context, fn func(repository.ReviewRepository) error) error {
	if r.db == nil {
		// Already transactional, nested calls reuse the same view.
		return fn(r)
	}
	return tx(ctx, r.db, func(t *sql.Tx) error {
		return fn(&reviewRepository{q: t})
	})
}

const recordColumns = `id, user_id, card_id, easiness, interval_days, repetitions, total_reviews, lapses, grade,
       introduced_on, last_reviewed, review_date, crammed, comment, created_at`

func scanRecord(row interface{ Scan(...any) error }, rec *models.ReviewRecord) error {
	return row.Scan(&rec.ID, &rec.UserID, &rec.CardID, &rec.Easiness, &rec.Interval, &rec.Repetitions,
		&rec.TotalReviews, &rec.Lapses, &rec.Grade, &rec.IntroducedOn, &rec.LastReviewed,
		&rec.ReviewDate, &rec.Crammed, &rec.Comment, &rec.CreatedAt)
}

func (r *reviewRepository) Get(ctx context.Context, userID, cardID int64) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting review record: user_id=%d, card_id=%d", userID, cardID)

	var rec models.ReviewRecord
	row := r.q.QueryRowContext(ctx, `
SELECT `+recordColumns+`
FROM review_records
WHERE user_id = ? AND card_id = ?
`, userID, cardID)
	err := scanRecord(row, &rec)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("review record not found: user_id=%d, card_id=%d", userID, cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get review record: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *reviewRepository) Insert(ctx context.Context, rec models.ReviewRecord) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review record: user_id=%d, card_id=%d, review_date=%s",
		rec.UserID, rec.CardID, rec.ReviewDate.Format(time.DateOnly))

	res, err := r.q.ExecContext(ctx, `
INSERT INTO review_records (user_id, card_id, easiness, interval_days, repetitions, total_reviews, lapses, grade,
                            introduced_on, last_reviewed, review_date, crammed, comment)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, rec.UserID, rec.CardID, rec.Easiness, rec.Interval, rec.Repetitions, rec.TotalReviews, rec.Lapses, rec.Grade,
		rec.IntroducedOn, rec.LastReviewed, rec.ReviewDate, rec.Crammed, rec.Comment)
	if err != nil {
		log.Error("failed to insert review record: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get review record id: %v", err)
		return 0, err
	}
	log.Debug("review record inserted: id=%d", id)
	return id, nil
}

func (r *reviewRepository) Update(ctx context.Context, rec models.ReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("updating review record: id=%d, interval=%d, easiness=%.2f, review_date=%s",
		rec.ID, rec.Interval, rec.Easiness, rec.ReviewDate.Format(time.DateOnly))

	_, err := r.q.ExecContext(ctx, `
UPDATE review_records
SET easiness = ?, interval_days = ?, repetitions = ?, total_reviews = ?, lapses = ?, grade = ?,
    last_reviewed = ?, review_date = ?, crammed = ?
WHERE id = ?
`, rec.Easiness, rec.Interval, rec.Repetitions, rec.TotalReviews, rec.Lapses, rec.Grade,
		rec.LastReviewed, rec.ReviewDate, rec.Crammed, rec.ID)
	if err != nil {
		log.Error("failed to update review record: %v", err)
	}
	return err
}

func (r *reviewRepository) Delete(ctx context.Context, userID, cardID int64) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("deleting review record: user_id=%d, card_id=%d", userID, cardID)

	_, err := r.q.ExecContext(ctx, `DELETE FROM review_records WHERE user_id = ? AND card_id = ?`, userID, cardID)
	if err != nil {
		log.Error("failed to delete review record: %v", err)
	}
	return err
}

// UpdateComment touches the comment column only, leaving every scheduling
// field alone.
func (r *reviewRepository) UpdateComment(ctx context.Context, userID, cardID int64, comment string) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("updating review comment: user_id=%d, card_id=%d", userID, cardID)

	_, err := r.q.ExecContext(ctx, `
UPDATE review_records
SET comment = ?
WHERE user_id = ? AND card_id = ?
`, comment, userID, cardID)
	if err != nil {
		log.Error("failed to update review comment: %v", err)
	}
	return err
}

// SetCrammed flips the cram flag without touching any scheduling field.
func (r *reviewRepository) SetCrammed(ctx context.Context, userID, cardID int64, crammed bool) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("setting cram flag: user_id=%d, card_id=%d, crammed=%t", userID, cardID, crammed)

	_, err := r.q.ExecContext(ctx, `
UPDATE review_records
SET crammed = ?
WHERE user_id = ? AND card_id = ?
`, crammed, userID, cardID)
	if err != nil {
		log.Error("failed to set cram flag: %v", err)
	}
	return err
}

// CountOnDate is the allocator's occupancy lookup: committed records of this
// user already scheduled on the given day.
func (r *reviewRepository) CountOnDate(ctx context.Context, userID int64, day time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	var count int
	err := r.q.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM review_records
WHERE user_id = ? AND review_date = ?
`, userID, day).Scan(&count)
	if err != nil {
		log.Error("failed to count records on date: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *reviewRepository) DueRecords(ctx context.Context, userID int64, today time.Time) ([]models.RecordWithCard, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching due records: user_id=%d, today=%s", userID, today.Format(time.DateOnly))

	rows, err := r.q.QueryContext(ctx, `
SELECT r.id, r.user_id, r.card_id, r.easiness, r.interval_days, r.repetitions, r.total_reviews, r.lapses, r.grade,
       r.introduced_on, r.last_reviewed, r.review_date, r.crammed, r.comment, r.created_at,
       c.front, c.back
FROM review_records r
JOIN cards c ON c.id = r.card_id
WHERE r.user_id = ? AND r.review_date <= ?
ORDER BY r.review_date ASC, r.id ASC
`, userID, today)
	if err != nil {
		log.Error("failed to query due records: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectRecordsWithCard(rows, log)
}

// CramRecords returns the user's cram queue, ordered by when each card was
// introduced.
func (r *reviewRepository) CramRecords(ctx context.Context, userID int64) ([]models.RecordWithCard, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching cram records: user_id=%d", userID)

	rows, err := r.q.QueryContext(ctx, `
SELECT r.id, r.user_id, r.card_id, r.easiness, r.interval_days, r.repetitions, r.total_reviews, r.lapses, r.grade,
       r.introduced_on, r.last_reviewed, r.review_date, r.crammed, r.comment, r.created_at,
       c.front, c.back
FROM review_records r
JOIN cards c ON c.id = r.card_id
WHERE r.user_id = ? AND r.crammed = 1
ORDER BY r.introduced_on ASC, r.id ASC
`, userID)
	if err != nil {
		log.Error("failed to query cram records: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectRecordsWithCard(rows, log)
}

func collectRecordsWithCard(rows *sql.Rows, log *logger.Logger) ([]models.RecordWithCard, error) {
	var records []models.RecordWithCard
	for rows.Next() {
		var rc models.RecordWithCard
		if err := rows.Scan(&rc.ID, &rc.UserID, &rc.CardID, &rc.Easiness, &rc.Interval, &rc.Repetitions,
			&rc.TotalReviews, &rc.Lapses, &rc.Grade, &rc.IntroducedOn, &rc.LastReviewed,
			&rc.ReviewDate, &rc.Crammed, &rc.Comment, &rc.CreatedAt, &rc.Front, &rc.Back); err != nil {
			log.Error("failed to scan record row: %v", err)
			return nil, err
		}
		records = append(records, rc)
	}
	log.Debug("found %d records", len(records))
	return records, rows.Err()
}

// ScheduleLoad returns per-day review counts for the window starting at from.
// Days with no scheduled reviews are absent from the result.
func (r *reviewRepository) ScheduleLoad(ctx context.Context, userID int64, from time.Time, days int) ([]models.ScheduleDay, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching schedule load: user_id=%d, from=%s, days=%d", userID, from.Format(time.DateOnly), days)

	until := from.AddDate(0, 0, days)
	query := sqlBuilder.
		Select("review_date", "COUNT(*)").
		From("review_records").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"review_date": from}).
		Where(squirrel.Lt{"review_date": until}).
		GroupBy("review_date").
		OrderBy("review_date ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build schedule load query: %v", err)
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query schedule load: %v", err)
		return nil, err
	}
	defer rows.Close()

	var load []models.ScheduleDay
	for rows.Next() {
		var d models.ScheduleDay
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			log.Error("failed to scan schedule day: %v", err)
			return nil, err
		}
		load = append(load, d)
	}
	return load, rows.Err()
}

func (r *reviewRepository) Stats(ctx context.Context, userID int64, today time.Time) (*models.UserStats, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching user stats: user_id=%d", userID)

	var s models.UserStats
	err := r.q.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN review_date <= ? THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(crammed), 0),
       COALESCE(SUM(total_reviews), 0),
       COALESCE(SUM(lapses), 0),
       COALESCE(AVG(easiness), 0)
FROM review_records
WHERE user_id = ?
`, today, userID).Scan(&s.Records, &s.DueToday, &s.Crammed, &s.TotalReviews, &s.Lapses, &s.AvgEasiness)
	if err != nil {
		log.Error("failed to fetch user stats: %v", err)
		return nil, err
	}
	return &s, nil
}
