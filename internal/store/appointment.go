package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"appointment-tracker/internal/model"
)

const appointmentColumns = `
	a.id, a.owner_user_id, a.title, a.date_text, a.time_text,
	COALESCE(a.location, ''), COALESCE(a.notes, ''), a.status,
	a.updated_at, a.status_updated_at, a.status_updated_by_user_id,
	a.created_at,
	COALESCE(o.email, ''), COALESCE(su.email, '')`

const appointmentJoins = `
	FROM appointments a
	LEFT JOIN users o ON o.id = a.owner_user_id
	LEFT JOIN users su ON su.id = a.status_updated_by_user_id`

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := row.Scan(
		&a.ID, &a.OwnerID, &a.Title, &a.DateText, &a.TimeText,
		&a.Location, &a.Notes, &a.Status,
		&a.UpdatedAt, &a.StatusUpdatedAt, &a.StatusUpdatedBy,
		&a.CreatedAt,
		&a.OwnerEmail, &a.StatusUpdatedByEmail,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, ownerID int64, title, dateText, timeText, location, notes string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (owner_user_id, title, date_text, time_text, location, notes, status)
		 VALUES ($1,$2,$3,$4,$5,$6,'planned')
		 RETURNING id`,
		ownerID, title, dateText, timeText, location, notes,
	).Scan(&id)
	return id, err
}

// AppointmentsByOwner lists one owner's appointments newest-id first,
// joined with owner and status-actor emails for display. Serves both
// the self view and the administrator's per-user view.
func (s *Store) AppointmentsByOwner(ctx context.Context, ownerID int64) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+appointmentColumns+appointmentJoins+`
		 WHERE a.owner_user_id = $1
		 ORDER BY a.id DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// AppointmentByIDForOwner returns (nil, nil) when the row is absent or
// owned by someone else; ownership lives in the predicate so no code
// path can leak another owner's row.
func (s *Store) AppointmentByIDForOwner(ctx context.Context, id, ownerID int64) (*model.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT`+appointmentColumns+appointmentJoins+`
		 WHERE a.id = $1 AND a.owner_user_id = $2`, id, ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// AppointmentByID is the administrator path: unscoped by owner.
func (s *Store) AppointmentByID(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT`+appointmentColumns+appointmentJoins+`
		 WHERE a.id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// UpdateAppointmentContent edits title, time, location and notes and
// stamps updated_at. It never touches date_text, status or the
// status-audit fields. A non-owner's attempt matches zero rows.
func (s *Store) UpdateAppointmentContent(ctx context.Context, id, ownerID int64, title, timeText, location, notes string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET title = $1, time_text = $2, location = $3, notes = $4, updated_at = NOW()
		 WHERE id = $5 AND owner_user_id = $6`,
		title, timeText, location, notes, id, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CompleteAppointment forces status to done regardless of the current
// status. There is deliberately no prior-status check.
func (s *Store) CompleteAppointment(ctx context.Context, id, ownerID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = 'done'
		 WHERE id = $1 AND owner_user_id = $2`, id, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id, ownerID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND owner_user_id = $2`, id, ownerID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetAppointmentStatus is the administrator status change: one atomic
// UPDATE writes the status together with both audit fields,
// overwriting any prior audit values. Only the status value is
// checked; any state may move to any other.
func (s *Store) SetAppointmentStatus(ctx context.Context, id int64, status string, adminID int64) (int64, error) {
	if !model.ValidStatus(status) {
		return 0, ErrInvalidStatus
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments
		 SET status = $1, status_updated_at = NOW(), status_updated_by_user_id = $2
		 WHERE id = $3`,
		status, adminID, id,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
