package message

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"reserving/internal/config"
	"reserving/internal/template"
)

// twilioSender는 Twilio 클라이언트에서 필요한 부분만 추려낸 인터페이스입니다.
type twilioSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioGateway는 로컬 본문을 문자(SMS)로 보내는 게이트웨이입니다.
type TwilioGateway struct {
	api                 twilioSender
	from                string
	messagingServiceSID string
}

// NewTwilioGateway는 설정의 Twilio 인증 정보로 게이트웨이를 생성합니다.
func NewTwilioGateway(cfg *config.Config) *TwilioGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
	})
	from := cfg.Twilio.From
	if from == "" {
		from = E164(cfg.Message.SenderNumber)
	}
	return &TwilioGateway{
		api:                 client.Api,
		from:                from,
		messagingServiceSID: cfg.Twilio.MessagingServiceSID,
	}
}

func (g *TwilioGateway) Name() string { return "twilio" }

// Send는 본문을 문자로 보냅니다. 예약 발송은 Messaging Service가 있어야 합니다.
func (g *TwilioGateway) Send(_ context.Context, req Request) error {
	if req.Text == "" {
		return fmt.Errorf("%w: template %s", template.ErrNoBody, req.TemplateID)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(E164(req.To))
	params.SetBody(req.Text)
	if g.messagingServiceSID != "" {
		params.SetMessagingServiceSid(g.messagingServiceSID)
	} else {
		params.SetFrom(g.from)
	}
	if req.ScheduledAt != nil {
		if g.messagingServiceSID == "" {
			return fmt.Errorf("%w: 예약 발송에는 TWILIO_MESSAGING_SERVICE_SID가 필요합니다", ErrRejected)
		}
		params.SetSendAt(req.ScheduledAt.UTC())
		params.SetScheduleType("fixed")
	}

	resp, err := g.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio 요청 실패: %w", err)
	}
	if resp != nil && resp.Status != nil && *resp.Status == "failed" {
		return fmt.Errorf("%w: twilio status=failed", ErrRejected)
	}
	if resp != nil && resp.Sid != nil {
		log.Debugf("[Message] twilio SID: %s", *resp.Sid)
	}
	return nil
}

// E164는 국내 번호(010...)를 +82 형식으로 바꿉니다. 이미 '+'로 시작하면 그대로 둡니다.
func E164(phone string) string {
	p := strings.NewReplacer("-", "", " ", "").Replace(phone)
	switch {
	case p == "", strings.HasPrefix(p, "+"):
		return p
	case strings.HasPrefix(p, "0"):
		return "+82" + p[1:]
	}
	return "+" + p
}
