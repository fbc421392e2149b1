package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"dayplanner/internal/domain"
)

var reminderCols = []string{
	"id", "user_id", "title", "description", "type", "time_of_day", "repeat", "repeat_days",
	"priority", "is_active", "next_trigger", "last_triggered", "created_at", "updated_at",
}

func TestReminderRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO reminders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rem-1"))

	repo := NewReminderRepository(db)
	rem := domain.NewReminder("user-1", "Take medicine", "08:00", now, now)
	require.NoError(t, repo.Create(ctx, rem))
	require.Equal(t, "rem-1", rem.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_ListTriggeredInRange(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	to := from.Add(time.Minute)
	now := from

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(reminderCols).
		AddRow("rem-1", "user-1", "Take medicine", "", "medicine", "08:00", "daily", nil,
			"high", true, from, nil, now, now)
	mock.ExpectQuery(`SELECT id, user_id, title, description, type, time_of_day`).
		WithArgs(from, to).
		WillReturnRows(rows)

	repo := NewReminderRepository(db)
	got, err := repo.ListTriggeredInRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "rem-1", got[0].ID)
	require.NotNil(t, got[0].NextTrigger)
	require.Equal(t, from, *got[0].NextTrigger)
	require.Nil(t, got[0].LastTriggered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE reminders`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewReminderRepository(db)
	rem := domain.NewReminder("user-1", "Water", "10:00", now, now)
	rem.ID = "rem-gone"
	err = repo.Update(ctx, rem)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReminderRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_id, title`).
		WithArgs("missing", "user-1").
		WillReturnError(sql.ErrNoRows)

	repo := NewReminderRepository(db)
	_, err = repo.GetByID(ctx, "user-1", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
