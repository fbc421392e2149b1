package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"dayplanner/internal/domain"
)

var eventCols = []string{
	"id", "user_id", "title", "start_time", "duration_minutes", "priority", "category",
	"location", "notes", "reminder_minutes", "repeat", "repeat_until", "all_day", "kind", "linked_event_id",
	"created_at", "updated_at",
}

func eventRow(id string, start time.Time, duration int, priority string) []driverValue {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []driverValue{
		id, "user-1", "Meeting", start, duration, priority, "work",
		"", "", 15, "none", nil, false, "event", nil,
		now, now,
	}
}

type driverValue = driver.Value

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name:  "success",
			event: domain.NewEvent("user-1", "Lunch with Jon", now.Add(12*time.Hour), 60, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-1"))
			},
			wantID: "ev-1",
		},
		{
			name:  "db error",
			event: domain.NewEvent("user-1", "Lunch", now, 30, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, user_id, title, start_time`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(sqlmock.NewRows(eventCols).AddRow(eventRow("ev-1", start, 60, "medium")...))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", got.ID)
		require.Equal(t, start, got.StartTime)
		require.Equal(t, 60, got.DurationMinutes)
		require.Nil(t, got.RepeatUntil)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, user_id, title, start_time`).
			WithArgs("missing", "user-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "user-1", "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_ListByRange(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(eventCols).
		AddRow(eventRow("ev-1", from.Add(9*time.Hour), 60, "medium")...).
		AddRow(eventRow("ev-2", from.Add(14*time.Hour), 30, "high")...)
	mock.ExpectQuery(`SELECT id, user_id, title, start_time`).
		WithArgs("user-1", from, to).
		WillReturnRows(rows)

	repo := NewEventRepository(db)
	got, err := repo.ListByRange(ctx, "user-1", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ev-1", got[0].ID)
	require.Equal(t, "ev-2", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_UpdateStartTime(t *testing.T) {
	ctx := context.Background()
	newStart := time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events`).
			WithArgs("ev-1", "user-1", newStart).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.UpdateStartTime(ctx, "user-1", "ev-1", newStart))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events`).
			WithArgs("ev-gone", "user-1", newStart).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		err = repo.UpdateStartTime(ctx, "user-1", "ev-gone", newStart)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM events`).
		WithArgs("ev-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Delete(ctx, "user-1", "ev-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
