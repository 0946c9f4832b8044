package message

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// DryRunGateway는 실제로 보내지 않고 요청을 로그로만 남깁니다.
type DryRunGateway struct {
	mu   sync.Mutex
	sent []Request
}

func NewDryRunGateway() *DryRunGateway { return &DryRunGateway{} }

func (g *DryRunGateway) Name() string { return "dryrun" }

func (g *DryRunGateway) Send(_ context.Context, req Request) error {
	fields := log.Fields{
		"to":       req.To,
		"template": req.TemplateID,
	}
	if req.ScheduledAt != nil {
		fields["scheduled"] = req.ScheduledAt.Format("2006-01-02 15:04")
	}
	if req.Text != "" {
		fields["text"] = req.Text
	}
	log.WithFields(fields).Infof("[TEST] [Message] 발송 생략 (variables=%v)", req.Variables)

	g.mu.Lock()
	g.sent = append(g.sent, req)
	g.mu.Unlock()
	return nil
}

// Sent는 지금까지 기록된 요청 사본입니다.
func (g *DryRunGateway) Sent() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Request, len(g.sent))
	copy(out, g.sent)
	return out
}
