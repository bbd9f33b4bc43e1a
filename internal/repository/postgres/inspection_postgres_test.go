package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"permitflow/internal/model"
)

func TestInspectionPostgres_ListInspectorLoads(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	t.Run("all types when type is empty", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "work_id", "inspection_type", "assigned_district", "available", "count",
		}).
			AddRow("insp-1", "Alice", "W-1", "Foundation", "Avondale", true, 2).
			AddRow("insp-2", "Bob", "W-2", "Structural", "Borrowdale", true, 0)

		mock.ExpectQuery("SELECT (.+) FROM inspectors i").
			WithArgs("", "2026-09-01").
			WillReturnRows(rows)

		loads, err := repo.ListInspectorLoads(ctx, "", "2026-09-01")

		assert.NoError(t, err)
		assert.Len(t, loads, 2)
		assert.Equal(t, 2, loads[0].ScheduledCount)
	})

	t.Run("filtered by type", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "name", "work_id", "inspection_type", "assigned_district", "available", "count",
		}).AddRow("insp-1", "Alice", "W-1", "Foundation", "Avondale", true, 0)

		mock.ExpectQuery("SELECT (.+) FROM inspectors i").
			WithArgs("Foundation", "2026-09-01").
			WillReturnRows(rows)

		loads, err := repo.ListInspectorLoads(ctx, "Foundation", "2026-09-01")

		assert.NoError(t, err)
		assert.Len(t, loads, 1)
		assert.Equal(t, "Foundation", loads[0].InspectionType)
	})
}

func scheduleRow(id, appID, stageID, status string) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		id, appID, "insp-1", stageID,
		"2026-09-01", "09:00", status,
		"", "", now, now,
	}
}

var scheduleRowColumns = []string{
	"id", "application_id", "inspector_id", "stage_id",
	"scheduled_date", "scheduled_time", "status",
	"notes", "created_by", "created_at", "updated_at",
}

func TestInspectionPostgres_CreateSchedule(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(scheduleRowColumns).
		AddRow(scheduleRow("sched-1", "app-1", "stage-3", model.ScheduleScheduled)...)

	mock.ExpectQuery("INSERT INTO inspection_schedules").
		WillReturnRows(rows)

	result, err := repo.CreateSchedule(ctx, &model.InspectionSchedule{
		ID:            "sched-1",
		ApplicationID: "app-1",
		InspectorID:   "insp-1",
		StageID:       "stage-3",
		ScheduledDate: "2026-09-01",
		ScheduledTime: "09:00",
		Status:        model.ScheduleScheduled,
	})

	assert.NoError(t, err)
	assert.Equal(t, "sched-1", result.ID)
	assert.Equal(t, model.ScheduleScheduled, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionPostgres_FindScheduleByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	t.Run("found with context", func(t *testing.T) {
		cols := append(append([]string{}, scheduleRowColumns...), "inspector_name", "stage_name", "stand_number")
		vals := append(scheduleRow("sched-1", "app-1", "stage-3", model.ScheduleScheduled),
			"Alice", "Site Inspection", "1234")

		mock.ExpectQuery("SELECT (.+) FROM inspection_schedules s").
			WithArgs("sched-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow(vals...))

		sched, err := repo.FindScheduleByID(ctx, "sched-1")

		assert.NoError(t, err)
		assert.Equal(t, "Alice", sched.InspectorName)
		assert.Equal(t, "Site Inspection", sched.StageName)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM inspection_schedules s").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		sched, err := repo.FindScheduleByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, sched)
	})
}

func TestInspectionPostgres_FindLatestScheduleByStage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(scheduleRowColumns).
		AddRow(scheduleRow("sched-9", "app-1", "stage-3", model.ScheduleScheduled)...)

	mock.ExpectQuery("SELECT (.+) FROM inspection_schedules s").
		WithArgs("stage-3").
		WillReturnRows(rows)

	sched, err := repo.FindLatestScheduleByStage(ctx, "stage-3")

	assert.NoError(t, err)
	assert.Equal(t, "sched-9", sched.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionPostgres_ListSchedulesByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	cols := append(append([]string{}, scheduleRowColumns...), "inspector_name", "stage_name", "stand_number")
	vals := append(scheduleRow("sched-1", "app-1", "stage-3", model.ScheduleScheduled),
		"Alice", "Site Inspection", "1234")

	mock.ExpectQuery("SELECT (.+) FROM inspection_schedules s").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(vals...))

	items, err := repo.ListSchedulesByUser(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "1234", items[0].StandNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionPostgres_UpdateScheduleStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewInspectionPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE inspection_schedules").
			WithArgs("sched-1", model.ScheduleCompleted, "all good").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateScheduleStatus(ctx, "sched-1", model.ScheduleCompleted, "all good")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec("UPDATE inspection_schedules").
			WithArgs("missing", model.ScheduleCompleted, "").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateScheduleStatus(ctx, "missing", model.ScheduleCompleted, "")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
