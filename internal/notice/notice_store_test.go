package notice

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserving/internal/message"
	"reserving/internal/template"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

func TestStore_Record(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 1, 3, 11, 0, 0, 0, time.UTC)
	sentAt := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO notice_send_logs").
		WithArgs("run-1", "solapi", "reserved", "TPL_R", "김철수", "01011112222",
			"2026년 1월 3일 오후 2:00", at, true, "", sentAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Record(context.Background(), message.Result{
		RunID:       "run-1",
		Gateway:     "solapi",
		Kind:        template.KindStaffReserved,
		TemplateID:  "TPL_R",
		To:          "01011112222",
		Recipient:   "김철수",
		Reservation: "2026년 1월 3일 오후 2:00",
		ScheduledAt: &at,
		Success:     true,
		SentAt:      sentAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetRecentLogs(t *testing.T) {
	s, mock := newMockStore(t)
	created := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "run_id", "gateway", "message_kind", "template_id",
		"recipient_name", "recipient_phone", "reservation_time",
		"scheduled_at", "success_yn", "error_message", "created_at",
	}).AddRow(2, "run-1", "solapi", "customer", "TPL_C", "홍길동", "01099998888",
		"2026년 1월 3일 오후 2:00", nil, false, "거부", created)

	mock.ExpectQuery("SELECT (.+) FROM notice_send_logs").WithArgs(10).WillReturnRows(rows)

	logs, err := s.GetRecentLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, uint64(2), logs[0].ID)
	assert.Nil(t, logs[0].ScheduledAt)
	assert.False(t, logs[0].SuccessYn)
	assert.Equal(t, "거부", logs[0].ErrorMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS notice_send_logs").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
