package message

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"reserving/internal/template"
)

// Service는 메시지 종류를 템플릿으로 풀어 게이트웨이로 발송합니다.
type Service struct {
	gateway   Gateway
	templates *template.Service
	recorder  Recorder
	now       func() time.Time
}

// NewService는 새 Service를 생성합니다. recorder는 nil일 수 있습니다.
func NewService(gw Gateway, ts *template.Service, recorder Recorder) *Service {
	return &Service{
		gateway:   gw,
		templates: ts,
		recorder:  recorder,
		now:       time.Now,
	}
}

// GatewayName은 사용 중인 게이트웨이 이름입니다.
func (s *Service) GatewayName() string { return s.gateway.Name() }

// Send는 한 건을 발송합니다. 한 번만 시도하며 실패는 에러로 돌려줍니다.
func (s *Service) Send(ctx context.Context, runID string, m Message) error {
	req, err := s.build(m)
	if err == nil {
		err = s.gateway.Send(ctx, req)
	}

	mode := "즉시"
	if m.ScheduledAt != nil {
		mode = "예약(" + m.ScheduledAt.Format("2006-01-02 15:04") + ")"
	}
	if err != nil {
		log.Errorf("[ERROR] [Message] %s %s 발송 실패 (%s): %v", m.Kind, mode, m.Recipient, err)
	} else {
		log.Infof("[SUCCESS] [Message] %s %s 발송 성공 (%s)", m.Kind, mode, m.Recipient)
	}

	s.record(ctx, runID, m, req.TemplateID, err)
	return err
}

func (s *Service) build(m Message) (Request, error) {
	req := Request{
		To:          m.To,
		TemplateID:  m.TemplateID,
		Variables:   m.Variables,
		ScheduledAt: m.ScheduledAt,
	}
	if req.To == "" {
		return req, fmt.Errorf("수신 번호가 비어 있습니다")
	}
	if req.TemplateID != "" {
		return req, nil
	}
	tpl, err := s.templates.Get(m.Kind)
	if err != nil {
		return req, err
	}
	req.TemplateID = tpl.ID
	if tpl.Body != "" {
		req.Text = template.Render(tpl.Body, m.Variables)
	}
	return req, nil
}

func (s *Service) record(ctx context.Context, runID string, m Message, templateID string, sendErr error) {
	if s.recorder == nil {
		return
	}
	r := Result{
		RunID:       runID,
		Gateway:     s.gateway.Name(),
		Kind:        m.Kind,
		TemplateID:  templateID,
		To:          m.To,
		Recipient:   m.Recipient,
		Reservation: m.Reservation,
		ScheduledAt: m.ScheduledAt,
		Success:     sendErr == nil,
		SentAt:      s.now(),
	}
	if sendErr != nil {
		r.Error = sendErr.Error()
	}
	if err := s.recorder.Record(ctx, r); err != nil {
		// 이력 저장 실패는 발송 결과에 영향을 주지 않습니다.
		log.Warnf("[Message] 발송 이력 저장 실패: %v", err)
	}
}
