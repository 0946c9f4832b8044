package slackbot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/slack-notificator"
	"github.com/slack-go/slack"

	"reserving/internal/notice"
)

// Reporter는 장부 처리 결과를 Slack 채널로 보냅니다. (notice.Reporter 구현)
type Reporter struct {
	cfg  ReportConfig
	loc  *time.Location
	send func(text string, att slack.Attachment) error
}

// NewReporter는 봇 토큰과 채널로 Reporter를 생성합니다.
func NewReporter(cfg ReportConfig, loc *time.Location) *Reporter {
	api := slacknotificator.GetClient(cfg.BotToken)
	if loc == nil {
		loc = time.Local
	}
	return &Reporter{
		cfg: cfg,
		loc: loc,
		send: func(text string, att slack.Attachment) error {
			return api.SetChannel(cfg.ChannelID).SendAttachment(text, att)
		},
	}
}

// Report는 결과를 요약한 Attachment 하나를 보냅니다.
func (r *Reporter) Report(_ context.Context, res *notice.RunResult) error {
	text, att := BuildAttachment(res, r.loc)
	if err := r.send(text, att); err != nil {
		return fmt.Errorf("Slack 채널(%s) 발송 실패: %w", r.cfg.ChannelID, err)
	}
	log.Infof("[SUCCESS] [Slack] 실행 결과 리포트 발송 (run=%s)", res.RunID)
	return nil
}

// BuildAttachment는 알림 제목과 결과 Attachment를 조립합니다.
func BuildAttachment(res *notice.RunResult, loc *time.Location) (string, slack.Attachment) {
	color := ColorGood
	title := "예약 알림 처리 완료"
	switch {
	case res.LedgerMissing:
		color, title = ColorDanger, "예약 장부 파일 없음"
	case res.Failed > 0:
		color, title = ColorDanger, "예약 알림 일부 발송 실패"
	case res.SyncError != "":
		color, title = ColorWarning, "예약 장부 동기화 실패"
	}

	fields := []slack.AttachmentField{
		{Title: "게이트웨이", Value: res.Gateway, Short: true},
		{Title: "처리 행", Value: strconv.Itoa(res.Rows), Short: true},
		{Title: "발송 성공", Value: strconv.Itoa(res.Sent), Short: true},
		{Title: "발송 실패", Value: strconv.Itoa(res.Failed), Short: true},
		{Title: "청소알림 갱신", Value: strconv.Itoa(res.CleaningUpdated), Short: true},
		{Title: "예약문자 갱신", Value: strconv.Itoa(res.CustomerUpdated), Short: true},
	}
	if res.Skipped > 0 {
		fields = append(fields, slack.AttachmentField{Title: "건너뜀", Value: strconv.Itoa(res.Skipped), Short: true})
	}
	if res.Target != "" {
		fields = append(fields, slack.AttachmentField{Title: "대상 예약", Value: res.Target})
	}
	if res.SyncError != "" {
		fields = append(fields, slack.AttachmentField{Title: "동기화 에러", Value: res.SyncError})
	}

	att := slack.Attachment{
		Color:  color,
		Title:  title,
		Fields: fields,
		Footer: fmt.Sprintf("run %s · %s", res.RunID, res.StartedAt.In(loc).Format("2006-01-02 15:04:05")),
	}
	return title, att
}
