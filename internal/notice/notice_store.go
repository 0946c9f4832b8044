package notice

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"reserving/internal/message"
)

// Schema는 발송 이력 테이블 DDL입니다.
const Schema = `
CREATE TABLE IF NOT EXISTS notice_send_logs (
	id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	run_id           VARCHAR(36)  NOT NULL DEFAULT '',
	gateway          VARCHAR(16)  NOT NULL,
	message_kind     VARCHAR(32)  NOT NULL,
	template_id      VARCHAR(64)  NOT NULL,
	recipient_name   VARCHAR(64)  NOT NULL DEFAULT '',
	recipient_phone  VARCHAR(32)  NOT NULL,
	reservation_time VARCHAR(128) NOT NULL DEFAULT '',
	scheduled_at     DATETIME     NULL,
	success_yn       TINYINT(1)   NOT NULL,
	error_message    TEXT         NULL,
	created_at       DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (id),
	KEY idx_notice_send_logs_01 (run_id),
	KEY idx_notice_send_logs_02 (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Store는 발송 이력(notice_send_logs)의 DB 로직을 관리합니다.
type Store struct {
	db *sqlx.DB
}

// NewStore는 새 Store를 생성합니다.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate는 이력 테이블이 없으면 생성합니다.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Record는 발송 결과 한 건을 저장합니다. (message.Recorder 구현)
func (s *Store) Record(ctx context.Context, r message.Result) error {
	row := SendLog{
		RunID:          r.RunID,
		Gateway:        r.Gateway,
		MessageKind:    string(r.Kind),
		TemplateID:     r.TemplateID,
		RecipientName:  r.Recipient,
		RecipientPhone: r.To,
		Reservation:    r.Reservation,
		ScheduledAt:    r.ScheduledAt,
		SuccessYn:      r.Success,
		ErrorMessage:   r.Error,
		CreatedAt:      r.SentAt,
	}
	query := `
		INSERT INTO notice_send_logs (
			run_id, gateway, message_kind, template_id,
			recipient_name, recipient_phone, reservation_time,
			scheduled_at, success_yn, error_message, created_at
		) VALUES (
			:run_id, :gateway, :message_kind, :template_id,
			:recipient_name, :recipient_phone, :reservation_time,
			:scheduled_at, :success_yn, :error_message, :created_at
		)
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		log.Errorf("[ERROR] Record DB 에러: %v", err)
		return err
	}
	return nil
}

// GetRecentLogs는 최근 발송 이력을 최신순으로 반환합니다.
func (s *Store) GetRecentLogs(ctx context.Context, limit int) ([]SendLog, error) {
	var logs []SendLog
	query := `
		SELECT
			id, run_id, gateway, message_kind, template_id,
			recipient_name, recipient_phone, reservation_time,
			scheduled_at, success_yn, COALESCE(error_message, '') AS error_message, created_at
		FROM notice_send_logs
		ORDER BY id DESC
		LIMIT ?
	`
	if err := s.db.SelectContext(ctx, &logs, query, limit); err != nil {
		log.Errorf("[ERROR] GetRecentLogs DB 에러: %v", err)
		return nil, err
	}
	return logs, nil
}
