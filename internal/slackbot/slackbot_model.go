package slackbot

// Attachment 색상 (Slack 기본 팔레트)
const (
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)

// ReportConfig는 실행 결과 리포트 채널 설정입니다.
type ReportConfig struct {
	BotToken  string `json:"bot_token"`
	ChannelID string `json:"channel_id"`
}
