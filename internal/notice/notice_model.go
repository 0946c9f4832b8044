package notice

import (
	"time"
)

// SendLog는 'notice_send_logs' 테이블의 스키마입니다.
type SendLog struct {
	ID             uint64     `json:"id" db:"id"`
	RunID          string     `json:"run_id" db:"run_id"`
	Gateway        string     `json:"gateway" db:"gateway"`
	MessageKind    string     `json:"message_kind" db:"message_kind"`
	TemplateID     string     `json:"template_id" db:"template_id"`
	RecipientName  string     `json:"recipient_name" db:"recipient_name"`
	RecipientPhone string     `json:"recipient_phone" db:"recipient_phone"`
	Reservation    string     `json:"reservation_time" db:"reservation_time"`
	ScheduledAt    *time.Time `json:"scheduled_at" db:"scheduled_at"`
	SuccessYn      bool       `json:"success_yn" db:"success_yn"`
	ErrorMessage   string     `json:"error_message" db:"error_message"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// RunResult는 장부 처리 한 번의 결과 요약입니다.
type RunResult struct {
	RunID      string    `json:"run_id"`
	Target     string    `json:"target,omitempty"`
	Gateway    string    `json:"gateway"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	LedgerMissing bool `json:"ledger_missing"`
	Rows          int  `json:"rows"`    // 선택된 행
	Skipped       int  `json:"skipped"` // 예약시간 해석 실패
	Sent          int  `json:"sent"`
	Failed        int  `json:"failed"`

	CleaningUpdated int `json:"cleaning_updated"`
	CustomerUpdated int `json:"customer_updated"`

	Written   bool   `json:"written"`
	Synced    bool   `json:"synced"`
	SyncError string `json:"sync_error,omitempty"`
	Cancelled bool   `json:"cancelled"`
}

// Updated는 Yes로 바뀐 플래그 수입니다.
func (r *RunResult) Updated() int { return r.CleaningUpdated + r.CustomerUpdated }

// Noteworthy는 리포트할 만한 실행(변경 또는 실패)인지 확인합니다.
func (r *RunResult) Noteworthy() bool {
	return r.Updated() > 0 || r.Failed > 0 || r.SyncError != "" || r.LedgerMissing
}
