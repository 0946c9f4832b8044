package message

import (
	"context"
	"errors"
	"time"

	"reserving/internal/template"
)

// ErrRejected는 게이트웨이가 요청을 받았지만 발송을 거부했을 때 반환됩니다.
var ErrRejected = errors.New("message: 게이트웨이 발송 거부")

// Request는 게이트웨이에 전달되는 단일 발송 요청입니다.
// ScheduledAt이 nil이면 즉시 발송, 아니면 해당 시각 예약 발송입니다.
type Request struct {
	To          string
	TemplateID  string
	Variables   template.Variables
	Text        string // 본문이 설정된 경우에만 채워짐 (문자 게이트웨이용)
	ScheduledAt *time.Time
}

// Scheduled는 예약 발송 여부입니다.
func (r Request) Scheduled() bool { return r.ScheduledAt != nil }

// Gateway는 외부 발송 API의 좁은 추상화입니다. 성공/실패만 구분합니다.
type Gateway interface {
	Name() string
	Send(ctx context.Context, req Request) error
}

// Message는 발송할 알림 한 건입니다.
type Message struct {
	Kind        template.Kind
	TemplateID  string // 비어 있지 않으면 Kind 대신 이 ID를 그대로 사용
	To          string
	Recipient   string // 로그용 표시 이름
	Reservation string // 로그/이력용 예약시간 원문
	Variables   template.Variables
	ScheduledAt *time.Time
}

// Result는 발송 한 건의 결과입니다. (이력 저장용)
type Result struct {
	RunID       string
	Gateway     string
	Kind        template.Kind
	TemplateID  string
	To          string
	Recipient   string
	Reservation string
	ScheduledAt *time.Time
	Success     bool
	Error       string
	SentAt      time.Time
}

// Recorder는 발송 결과를 보관합니다. (예: MySQL 발송 이력)
type Recorder interface {
	Record(ctx context.Context, r Result) error
}
