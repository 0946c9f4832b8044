package config

import (
	"fmt"
	"time"
)

// Secrets는 'secret.json'의 스키마입니다. (게이트웨이 인증 정보)
type Secrets struct {
	SolapiAPIKey    string `json:"solapi_api_key"`
	SolapiAPISecret string `json:"solapi_api_secret"`
}

// Templates는 메시지 종류별 값(템플릿 ID 또는 본문)을 담습니다.
type Templates struct {
	Immediate        string `json:"immediate"`         // 청소 담당자 즉시 발송
	Reserved         string `json:"reserved"`          // 청소 담당자 예약 발송
	Customer         string `json:"customer"`          // 고객 즉시 발송
	CustomerReserved string `json:"customer_reserved"` // 고객 예약 발송
}

// ByKind는 키 이름("immediate" 등)으로 값을 찾습니다.
func (t Templates) ByKind(kind string) (string, bool) {
	switch kind {
	case "immediate":
		return t.Immediate, true
	case "reserved":
		return t.Reserved, true
	case "customer":
		return t.Customer, true
	case "customer_reserved":
		return t.CustomerReserved, true
	}
	return "", false
}

func (t Templates) missing() []string {
	var out []string
	for _, kv := range [][2]string{
		{"immediate", t.Immediate},
		{"reserved", t.Reserved},
		{"customer", t.Customer},
		{"customer_reserved", t.CustomerReserved},
	} {
		if kv[1] == "" {
			out = append(out, kv[0])
		}
	}
	return out
}

// MessageConfig는 'assets/message_config.json'의 스키마입니다.
type MessageConfig struct {
	PfID         string    `json:"pf_id"`
	SenderNumber string    `json:"sender_number"`
	Templates    Templates `json:"templates"`
	// Bodies는 문자(SMS) 게이트웨이와 dry-run 미리보기에서 쓰는 본문입니다. (선택)
	Bodies Templates `json:"bodies"`
}

// Member는 'assets/member.json'의 항목입니다.
type Member struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Paths는 실행에 필요한 파일 경로 모음입니다.
type Paths struct {
	BaseDir       string
	Secrets       string
	MessageConfig string
	Members       string
	Ledger        string
}

// Twilio는 SMS 게이트웨이 설정입니다.
type Twilio struct {
	AccountSID          string
	AuthToken           string
	From                string
	MessagingServiceSID string // 예약 발송에 필요
}

// Slack은 실행 결과 리포트 채널 설정입니다.
type Slack struct {
	Token   string
	Channel string
}

// Enabled는 토큰과 채널이 모두 있을 때만 true입니다.
func (s Slack) Enabled() bool { return s.Token != "" && s.Channel != "" }

// Repository는 발송 이력 DB(MySQL) 접속 정보입니다.
type Repository struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// Enabled는 엔드포인트가 설정된 경우에만 true입니다.
func (r Repository) Enabled() bool { return r.Endpoint != "" }

// Server는 'serve'/'watch' 명령 설정입니다.
type Server struct {
	Port       string
	AdminToken string
	WatchSpec  string
}

// Config는 시작 시 한 번 만들어져 모든 구성요소에 참조로 전달되는 불변 설정입니다.
type Config struct {
	Paths   Paths
	Secrets Secrets
	Message MessageConfig
	Members []Member

	Location        *time.Location
	DefaultDuration time.Duration
	Gateway         string // solapi | twilio | dryrun
	GatePolicy      string // attempted | assigned
	SyncCommand     []string
	SyncTimeout     time.Duration

	Twilio     Twilio
	Slack      Slack
	Repository Repository
	Server     Server
}

// TestMode는 게이트웨이 인증 정보가 비어 있거나 예시 값일 때 true입니다.
func (c *Config) TestMode() bool {
	return isPlaceholder(c.Secrets.SolapiAPIKey) || isPlaceholder(c.Secrets.SolapiAPISecret)
}

func isPlaceholder(v string) bool {
	switch v {
	case "", "your_api_key_here", "your_api_secret_here", "placeholder_value":
		return true
	}
	return false
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{base=%s gateway=%s policy=%s tz=%s members=%d}",
		c.Paths.BaseDir, c.Gateway, c.GatePolicy, c.Location, len(c.Members))
}
