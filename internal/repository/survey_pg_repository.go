package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSurveyStore хранит опросы в таблице pending_surveys.
// Каждая операция - один SQL-запрос, атомарность обеспечивает сама БД.
type PostgresSurveyStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSurveyStore(pool *pgxpool.Pool) *PostgresSurveyStore {
	return &PostgresSurveyStore{pool: pool}
}

// Put создаёт или перезаписывает опрос
func (r *PostgresSurveyStore) Put(ctx context.Context, survey model.PendingSurvey) error {
	survey = normalizeSurvey(survey)

	query := `
		INSERT INTO pending_surveys (booking_id, user_id, telegram_id, barber_id, lang, send_at, sent, created_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (booking_id) DO UPDATE
		   SET user_id     = EXCLUDED.user_id,
		       telegram_id = EXCLUDED.telegram_id,
		       barber_id   = EXCLUDED.barber_id,
		       lang        = EXCLUDED.lang,
		       send_at     = EXCLUDED.send_at,
		       sent        = EXCLUDED.sent,
		       created_at  = EXCLUDED.created_at,
		       sent_at     = EXCLUDED.sent_at
	`

	_, err := r.pool.Exec(ctx, query,
		survey.BookingID,
		survey.UserID,
		survey.TelegramID,
		survey.BarberID,
		survey.Lang,
		survey.SendAt,
		survey.Sent,
		survey.CreatedAt,
		survey.SentAt,
	)
	if err != nil {
		return fmt.Errorf("put pending survey: %w", err)
	}

	return nil
}

// Get получает опрос по id записи
func (r *PostgresSurveyStore) Get(ctx context.Context, bookingID int64) (*model.PendingSurvey, error) {
	query := `
		SELECT booking_id, user_id, telegram_id, barber_id, lang, send_at, sent, created_at, sent_at
		FROM pending_surveys
		WHERE booking_id = $1
	`

	survey, err := scanSurvey(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending survey: %w", err)
	}

	return survey, nil
}

// Due получает неотправленные опросы, срок которых наступил
func (r *PostgresSurveyStore) Due(ctx context.Context, now time.Time) ([]model.PendingSurvey, error) {
	query := `
		SELECT booking_id, user_id, telegram_id, barber_id, lang, send_at, sent, created_at, sent_at
		FROM pending_surveys
		WHERE sent = false AND send_at <= $1
		ORDER BY send_at, booking_id
	`

	rows, err := r.pool.Query(ctx, query, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("get due surveys: %w", err)
	}
	defer rows.Close()

	surveys := make([]model.PendingSurvey, 0)
	for rows.Next() {
		survey, err := scanSurvey(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending survey: %w", err)
		}
		surveys = append(surveys, *survey)
	}

	return surveys, rows.Err()
}

// MarkSent помечает опрос отправленным, уже отправленный не трогает
func (r *PostgresSurveyStore) MarkSent(ctx context.Context, bookingID int64, at time.Time) error {
	query := `
		UPDATE pending_surveys
		SET sent = true, sent_at = $2
		WHERE booking_id = $1 AND sent = false
	`

	tag, err := r.pool.Exec(ctx, query, bookingID, at.UTC())
	if err != nil {
		return fmt.Errorf("mark survey sent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := r.Get(ctx, bookingID)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrSurveyNotFound
		}
	}

	return nil
}

// Remove удаляет опрос
func (r *PostgresSurveyStore) Remove(ctx context.Context, bookingID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM pending_surveys WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("remove pending survey: %w", err)
	}
	return nil
}

func scanSurvey(row pgx.Row) (*model.PendingSurvey, error) {
	var survey model.PendingSurvey
	err := row.Scan(
		&survey.BookingID,
		&survey.UserID,
		&survey.TelegramID,
		&survey.BarberID,
		&survey.Lang,
		&survey.SendAt,
		&survey.Sent,
		&survey.CreatedAt,
		&survey.SentAt,
	)
	if err != nil {
		return nil, err
	}

	normalized := normalizeSurvey(survey)
	return &normalized, nil
}
