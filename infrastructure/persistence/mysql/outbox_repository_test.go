package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_GetPendingEventsOldestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	rows := sqlmock.NewRows([]string{"id", "aggregate_id", "event_type", "payload", "status", "retry_count"}).
		AddRow("evt-1", "order-1", "order.placed", `{}`, "PENDING", 0).
		AddRow("evt-2", "order-1", "order.paid", `{}`, "PENDING", 0)
	mock.ExpectQuery("SELECT \\* FROM `outbox_events` WHERE status = \\? ORDER BY created_at ASC,id ASC").
		WillReturnRows(rows)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "order.placed", events[0].EventType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkEventProcessingOnlyClaimsPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `outbox_events` SET .* WHERE id = \\? AND status = \\?").
		WithArgs("PROCESSING", sqlmock.AnyArg(), "evt-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.MarkEventProcessing(context.Background(), "evt-1"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `outbox_events`").
		WithArgs("PROCESSING", sqlmock.AnyArg(), "evt-1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	err := repo.MarkEventProcessing(context.Background(), "evt-1")
	assert.True(t, errors.Is(err, ErrEventNotClaimed))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkEventPublishedRequiresClaim(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `outbox_events`").
		WithArgs("PUBLISHED", sqlmock.AnyArg(), "evt-1", "PROCESSING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkEventPublished(context.Background(), "evt-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkEventFailedIsSingleUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `outbox_events` SET `retry_count`=retry_count \\+ 1,`status`=CASE WHEN retry_count >= \\? THEN \\? ELSE \\? END").
		WithArgs(3, "FAILED", "PENDING", sqlmock.AnyArg(), "evt-1", "PROCESSING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.MarkEventFailed(context.Background(), "evt-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
