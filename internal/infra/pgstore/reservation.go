package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"restaurant-console/internal/domain/reservation"
	"restaurant-console/internal/infra"
	"restaurant-console/internal/infra/db"
	"restaurant-console/internal/usecase/shared"

	"cloud.google.com/go/civil"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var reservationColumns = []string{
	"id",
	"restaurant_id",
	"customer_name",
	"customer_email",
	"customer_phone",
	"number_of_guests",
	"reservation_date",
	"reservation_time",
	"status",
	"confirmation_code",
	"notes",
	"status_history",
	"version",
	"created_at",
	"updated_at",
}

type ReservationStore struct {
	db      DBTX
	timeout time.Duration
	logger  *slog.Logger
}

var _ shared.ReservationStore = (*ReservationStore)(nil)

func NewReservationStore(db DBTX, timeout time.Duration, logger *slog.Logger) *ReservationStore {
	return &ReservationStore{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *ReservationStore) Get(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query, args, err := psql.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"id": id, "restaurant_id": restaurantID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build reservation query", err)
	}

	res, err := scanReservation(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, wrapErr(s.logger, "failed to find reservation", err)
	}
	return res, nil
}

func (s *ReservationStore) ListByRange(ctx context.Context, restaurantID uuid.UUID, from, to civil.Date) ([]*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query, args, err := psql.Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"restaurant_id": restaurantID}).
		Where(sq.GtOrEq{"reservation_date": pgDate(from)}).
		Where(sq.LtOrEq{"reservation_date": pgDate(to)}).
		OrderBy("reservation_date", "reservation_time NULLS LAST", "customer_name").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build reservation range query", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(s.logger, "failed to list reservations", err)
	}
	defer rows.Close()

	var out []*reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapErr(s.logger, "failed to scan reservation", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(s.logger, "failed to iterate reservations", err)
	}
	return out, nil
}

func (s *ReservationStore) Create(ctx context.Context, res *reservation.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap := res.Snapshot()
	history, err := json.Marshal(snap.History)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode status history", err)
	}

	query, args, err := psql.Insert("reservations").
		Columns(reservationColumns...).
		Values(
			snap.ID,
			snap.RestaurantID,
			snap.CustomerName,
			snap.CustomerEmail,
			snap.CustomerPhone,
			snap.NumberOfGuests,
			pgDate(snap.Date),
			pgText(snap.Time),
			string(snap.Status),
			snap.ConfirmationCode,
			snap.Notes,
			history,
			snap.Version,
			snap.CreatedAt,
			snap.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build reservation insert", err)
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return wrapErr(s.logger, "failed to create reservation", err)
	}
	return nil
}

// Save writes res only when the stored version still equals expectedVersion.
// A zero-row update is told apart as missing or stale by a follow-up read in
// the same transaction.
func (s *ReservationStore) Save(ctx context.Context, res *reservation.Reservation, expectedVersion int64) (*reservation.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap := res.Snapshot()
	history, err := json.Marshal(snap.History)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode status history", err)
	}

	update, args, err := psql.Update("reservations").
		SetMap(map[string]any{
			"customer_name":    snap.CustomerName,
			"customer_email":   snap.CustomerEmail,
			"customer_phone":   snap.CustomerPhone,
			"number_of_guests": snap.NumberOfGuests,
			"reservation_date": pgDate(snap.Date),
			"reservation_time": pgText(snap.Time),
			"status":           string(snap.Status),
			"notes":            snap.Notes,
			"status_history":   history,
			"updated_at":       snap.UpdatedAt,
			"version":          sq.Expr("version + 1"),
		}).
		Where(sq.Eq{"id": snap.ID, "restaurant_id": snap.RestaurantID, "version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build reservation update", err)
	}

	var newVersion int64
	err = db.RunInTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, update, args...).Scan(&newVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return wrapErr(s.logger, "failed to update reservation", err)
		}

		var stored int64
		err = tx.QueryRow(ctx,
			"SELECT version FROM reservations WHERE id = $1 AND restaurant_id = $2",
			snap.ID, snap.RestaurantID,
		).Scan(&stored)
		if err != nil {
			return wrapErr(s.logger, "reservation not found", err)
		}
		return infra.WrapRepoErr(s.logger, infra.KindVersionConflict, "reservation version changed", nil)
	})
	if err != nil {
		return nil, err
	}

	return res.WithVersion(newVersion), nil
}

type reservationRow struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	NumberOfGuests   int32
	Date             pgtype.Date
	Time             pgtype.Text
	Status           string
	ConfirmationCode string
	Notes            string
	History          []byte
	Version          int64
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var r reservationRow
	err := row.Scan(
		&r.ID,
		&r.RestaurantID,
		&r.CustomerName,
		&r.CustomerEmail,
		&r.CustomerPhone,
		&r.NumberOfGuests,
		&r.Date,
		&r.Time,
		&r.Status,
		&r.ConfirmationCode,
		&r.Notes,
		&r.History,
		&r.Version,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.toDomain()
}

func (r reservationRow) toDomain() (*reservation.Reservation, error) {
	var history []reservation.StatusChange
	if len(r.History) > 0 {
		if err := json.Unmarshal(r.History, &history); err != nil {
			return nil, err
		}
	}

	snap := reservation.Snapshot{
		ID:               r.ID,
		RestaurantID:     r.RestaurantID,
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		CustomerPhone:    r.CustomerPhone,
		NumberOfGuests:   int(r.NumberOfGuests),
		Status:           reservation.Status(r.Status),
		ConfirmationCode: r.ConfirmationCode,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
		History:          history,
		Version:          r.Version,
	}
	if r.Date.Valid {
		snap.Date = civil.DateOf(r.Date.Time)
	}
	if r.Time.Valid {
		snap.Time = r.Time.String
	}
	return reservation.Restore(snap), nil
}

func pgDate(d civil.Date) pgtype.Date {
	return pgtype.Date{Time: d.In(time.UTC), Valid: true}
}

func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
