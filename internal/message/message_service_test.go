package message

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserving/internal/config"
	"reserving/internal/template"
)

type fakeGateway struct {
	reqs []Request
	err  error
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) Send(_ context.Context, req Request) error {
	f.reqs = append(f.reqs, req)
	return f.err
}

type memRecorder struct {
	results []Result
	err     error
}

func (m *memRecorder) Record(_ context.Context, r Result) error {
	m.results = append(m.results, r)
	return m.err
}

func templates() *template.Service {
	return template.NewService(config.MessageConfig{
		Templates: config.Templates{
			Immediate: "TPL_I", Reserved: "TPL_R", Customer: "TPL_C", CustomerReserved: "TPL_CR",
		},
		Bodies: config.Templates{Customer: "#{year}년 #{month}월 #{day}일 #{time} 예약 확인"},
	})
}

func TestService_SendResolvesTemplate(t *testing.T) {
	gw := &fakeGateway{}
	rec := &memRecorder{}
	s := NewService(gw, templates(), rec)

	at := time.Date(2025, 1, 3, 11, 0, 0, 0, time.UTC)
	err := s.Send(context.Background(), "run-1", Message{
		Kind:        template.KindStaffReserved,
		To:          "01012345678",
		Recipient:   "김철수",
		Variables:   template.Variables{"#{name}": "김철수"},
		ScheduledAt: &at,
	})
	require.NoError(t, err)

	require.Len(t, gw.reqs, 1)
	assert.Equal(t, "TPL_R", gw.reqs[0].TemplateID)
	assert.True(t, gw.reqs[0].Scheduled())
	assert.Empty(t, gw.reqs[0].Text)

	require.Len(t, rec.results, 1)
	assert.True(t, rec.results[0].Success)
	assert.Equal(t, "run-1", rec.results[0].RunID)
	assert.Equal(t, "fake", rec.results[0].Gateway)
}

func TestService_SendRendersBody(t *testing.T) {
	gw := &fakeGateway{}
	s := NewService(gw, templates(), nil)

	err := s.Send(context.Background(), "", Message{
		Kind: template.KindCustomer,
		To:   "01099998888",
		Variables: template.Variables{
			"#{year}": "2025", "#{month}": "01", "#{day}": "03", "#{time}": "2PM ~ 4:30PM",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025년 01월 03일 2PM ~ 4:30PM 예약 확인", gw.reqs[0].Text)
}

func TestService_SendFailure(t *testing.T) {
	gw := &fakeGateway{err: ErrRejected}
	rec := &memRecorder{err: errors.New("db down")}
	s := NewService(gw, templates(), rec)

	err := s.Send(context.Background(), "", Message{Kind: template.KindCustomer, To: "010"})
	assert.ErrorIs(t, err, ErrRejected)

	// 이력 저장 실패는 발송 결과를 바꾸지 않습니다.
	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Success)
	assert.Contains(t, rec.results[0].Error, "거부")
}

func TestService_SendValidation(t *testing.T) {
	gw := &fakeGateway{}
	s := NewService(gw, templates(), nil)

	assert.Error(t, s.Send(context.Background(), "", Message{Kind: template.KindCustomer}))
	assert.ErrorIs(t, s.Send(context.Background(), "", Message{Kind: "refund", To: "010"}), template.ErrUnknownKind)
	assert.Empty(t, gw.reqs)

	require.NoError(t, s.Send(context.Background(), "", Message{TemplateID: "RAW", To: "010"}))
	assert.Equal(t, "RAW", gw.reqs[0].TemplateID)
}

func TestDryRunGateway(t *testing.T) {
	gw := NewDryRunGateway()
	require.NoError(t, gw.Send(context.Background(), Request{To: "010", TemplateID: "T"}))
	require.Len(t, gw.Sent(), 1)
	assert.Equal(t, "dryrun", gw.Name())
}

func TestE164(t *testing.T) {
	assert.Equal(t, "+821012345678", E164("010-1234-5678"))
	assert.Equal(t, "+15551234567", E164("+15551234567"))
	assert.Equal(t, "+821012345678", E164("821012345678"))
	assert.Equal(t, "", E164(""))
}
