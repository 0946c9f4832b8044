package message

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"reserving/internal/config"
)

// SolapiBaseURL은 Solapi REST API 주소입니다.
const SolapiBaseURL = "https://api.solapi.com"

const solapiSendPath = "/messages/v4/send-many/detail"

// SolapiGateway는 Solapi 카카오 알림톡 발송 게이트웨이입니다.
type SolapiGateway struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	apiSecret string
	pfID      string
	from      string

	now  func() time.Time
	salt func() string
}

// NewSolapiGateway는 설정의 인증 정보와 발신 프로필로 게이트웨이를 생성합니다.
func NewSolapiGateway(cfg *config.Config) *SolapiGateway {
	return &SolapiGateway{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   SolapiBaseURL,
		apiKey:    cfg.Secrets.SolapiAPIKey,
		apiSecret: cfg.Secrets.SolapiAPISecret,
		pfID:      cfg.Message.PfID,
		from:      cfg.Message.SenderNumber,
		now:       time.Now,
		salt:      func() string { return uuid.NewString() },
	}
}

// WithBaseURL은 API 주소를 바꿉니다. (테스트용)
func (g *SolapiGateway) WithBaseURL(u string) *SolapiGateway {
	g.baseURL = u
	return g
}

func (g *SolapiGateway) Name() string { return "solapi" }

type solapiKakaoOptions struct {
	PfID       string            `json:"pfId"`
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables,omitempty"`
}

type solapiMessage struct {
	To           string             `json:"to"`
	From         string             `json:"from"`
	KakaoOptions solapiKakaoOptions `json:"kakaoOptions"`
}

type solapiSendRequest struct {
	Messages      []solapiMessage `json:"messages"`
	ScheduledDate string          `json:"scheduledDate,omitempty"`
}

type solapiFailed struct {
	To            string `json:"to"`
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

type solapiSendResponse struct {
	GroupInfo struct {
		GroupID string `json:"groupId"`
	} `json:"groupInfo"`
	FailedMessageList []solapiFailed `json:"failedMessageList"`

	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// Send는 한 건을 발송합니다. ScheduledAt이 있으면 scheduledDate로 예약합니다.
func (g *SolapiGateway) Send(ctx context.Context, req Request) error {
	payload := solapiSendRequest{
		Messages: []solapiMessage{{
			To:   req.To,
			From: g.from,
			KakaoOptions: solapiKakaoOptions{
				PfID:       g.pfID,
				TemplateID: req.TemplateID,
				Variables:  req.Variables,
			},
		}},
	}
	if req.ScheduledAt != nil {
		payload.ScheduledDate = req.ScheduledAt.Format(time.RFC3339)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("solapi 요청 직렬화 실패: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+solapiSendPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", g.authorization())

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("solapi 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("solapi 응답 읽기 실패: %w", err)
	}

	var out solapiSendResponse
	if len(raw) > 0 {
		// 본문이 JSON이 아니어도 상태 코드로 판단합니다.
		_ = json.Unmarshal(raw, &out)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: solapi HTTP %d %s %s", ErrRejected, resp.StatusCode, out.ErrorCode, out.ErrorMessage)
	}
	if len(out.FailedMessageList) > 0 {
		f := out.FailedMessageList[0]
		return fmt.Errorf("%w: solapi %s %s", ErrRejected, f.StatusCode, f.StatusMessage)
	}
	return nil
}

// authorization은 "HMAC-SHA256 apiKey=..., date=..., salt=..., signature=..." 헤더를 만듭니다.
func (g *SolapiGateway) authorization() string {
	date := g.now().UTC().Format(time.RFC3339)
	salt := g.salt()
	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		g.apiKey, date, salt, Sign(g.apiSecret, date, salt))
}

// Sign은 hex(HMAC-SHA256(secret, date+salt))를 반환합니다.
func Sign(secret, date, salt string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(date + salt))
	return hex.EncodeToString(mac.Sum(nil))
}
