package slackbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserving/internal/notice"
)

func TestBuildAttachment(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	res := &notice.RunResult{
		RunID:           "run-1",
		Gateway:         "solapi",
		StartedAt:       time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		Rows:            3,
		Sent:            6,
		CleaningUpdated: 1,
		CustomerUpdated: 1,
	}

	text, att := BuildAttachment(res, kst)
	assert.Equal(t, "예약 알림 처리 완료", text)
	assert.Equal(t, ColorGood, att.Color)
	assert.Len(t, att.Fields, 6)
	assert.Equal(t, "run run-1 · 2026-01-03 09:00:00", att.Footer)

	res.Failed = 1
	res.Skipped = 2
	res.Target = "2026년 1월 3일 오후 2:00"
	text, att = BuildAttachment(res, kst)
	assert.Equal(t, "예약 알림 일부 발송 실패", text)
	assert.Equal(t, ColorDanger, att.Color)
	assert.Len(t, att.Fields, 8)

	_, att = BuildAttachment(&notice.RunResult{SyncError: "exit status 1"}, kst)
	assert.Equal(t, ColorWarning, att.Color)

	_, att = BuildAttachment(&notice.RunResult{LedgerMissing: true}, kst)
	assert.Equal(t, ColorDanger, att.Color)
}

func TestReporter_Report(t *testing.T) {
	var gotText string
	var gotAtt slack.Attachment
	r := &Reporter{
		cfg: ReportConfig{ChannelID: "C123"},
		loc: time.UTC,
		send: func(text string, att slack.Attachment) error {
			gotText, gotAtt = text, att
			return nil
		},
	}

	require.NoError(t, r.Report(context.Background(), &notice.RunResult{RunID: "r", Sent: 2}))
	assert.Equal(t, "예약 알림 처리 완료", gotText)
	assert.Equal(t, "2", gotAtt.Fields[2].Value)

	r.send = func(string, slack.Attachment) error { return errors.New("channel_not_found") }
	err := r.Report(context.Background(), &notice.RunResult{})
	assert.ErrorContains(t, err, "C123")
}
