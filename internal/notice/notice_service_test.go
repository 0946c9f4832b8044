package notice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reserving/internal/config"
	"reserving/internal/ledger"
	"reserving/internal/member"
	"reserving/internal/message"
	"reserving/internal/planner"
	"reserving/internal/template"
)

const (
	bom    = "\ufeff"
	header = "예약시간,예약자명,연락처,앞청소,뒷청소,청소알림,예약문자"
	rowA   = "2026년 1월 3일 오후 2:00 → 오후 4:30,홍길동,010-9999-8888,김철수,이영희,No,No"
	rowB   = "2026년 1월 4일 오전 10:00 → 오후 12:00,임꺽정,010-7777-6666,김철수,,Yes,Yes"
)

type fakeGateway struct {
	reqs   []message.Request
	failOn map[string]bool // 템플릿 ID
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) Send(_ context.Context, req message.Request) error {
	f.reqs = append(f.reqs, req)
	if f.failOn[req.TemplateID] {
		return message.ErrRejected
	}
	return nil
}

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) Run(context.Context) error {
	f.calls++
	return f.err
}

type fakeReporter struct{ results []*RunResult }

func (f *fakeReporter) Report(_ context.Context, r *RunResult) error {
	f.results = append(f.results, r)
	return nil
}

type fixture struct {
	path     string
	gw       *fakeGateway
	syncer   *fakeSyncer
	reporter *fakeReporter
	svc      *Service
}

func csvFile(lines ...string) string {
	return bom + strings.Join(lines, "\r\n") + "\r\n"
}

func newFixture(t *testing.T, policy, content string) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "000_DB.csv")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := &config.Config{
		Location:        time.FixedZone("KST", 9*60*60),
		DefaultDuration: 2 * time.Hour,
		GatePolicy:      policy,
		Message: config.MessageConfig{
			Templates: config.Templates{
				Immediate: "TPL_I", Reserved: "TPL_R", Customer: "TPL_C", CustomerReserved: "TPL_CR",
			},
		},
	}
	dir := member.NewDirectory([]config.Member{
		{Name: "김철수", Phone: "010-1111-2222"},
		{Name: "이영희", Phone: "010-3333-4444"},
	})
	ps, err := planner.NewService(cfg, dir)
	require.NoError(t, err)

	f := &fixture{
		path:     path,
		gw:       &fakeGateway{failOn: map[string]bool{}},
		syncer:   &fakeSyncer{},
		reporter: &fakeReporter{},
	}
	ms := message.NewService(f.gw, template.NewService(cfg.Message), nil)
	f.svc = NewService(ledger.NewStore(path), ps, ms, f.syncer, f.reporter)
	return f
}

func (f *fixture) read(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(f.path)
	require.NoError(t, err)
	return string(b)
}

func TestRun_SendsAndFlipsFlags(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA, rowB))

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 6, res.Sent)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 1, res.CleaningUpdated)
	assert.Equal(t, 1, res.CustomerUpdated)
	assert.True(t, res.Written)
	assert.True(t, res.Synced)
	assert.Equal(t, 1, f.syncer.calls)

	// 앞청소 즉시/예약, 뒷청소 즉시/예약, 고객 즉시/예약 순서
	ids := make([]string, 0, len(f.gw.reqs))
	for _, r := range f.gw.reqs {
		ids = append(ids, r.TemplateID)
	}
	assert.Equal(t, []string{"TPL_I", "TPL_R", "TPL_I", "TPL_R", "TPL_C", "TPL_CR"}, ids)
	assert.Equal(t, "01011112222", f.gw.reqs[0].To)
	assert.Equal(t, "01033334444", f.gw.reqs[2].To)
	assert.Equal(t, "01099998888", f.gw.reqs[4].To)

	want := csvFile(header,
		"2026년 1월 3일 오후 2:00 → 오후 4:30,홍길동,010-9999-8888,김철수,이영희,Yes,Yes",
		rowB)
	assert.Equal(t, want, f.read(t))

	require.Len(t, f.reporter.results, 1)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
}

func TestRun_SecondRunIsNoop(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA, rowB))

	_, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	after := f.read(t)
	sent := len(f.gw.reqs)

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.False(t, res.Written)
	assert.Len(t, f.gw.reqs, sent)
	assert.Equal(t, 1, f.syncer.calls)
	assert.Equal(t, after, f.read(t))
}

func TestRun_NothingDueLeavesFileUntouched(t *testing.T) {
	// BOM 없는 원본도 변경이 없으면 그대로 유지됩니다.
	content := strings.Join([]string{header, rowB}, "\n") + "\n"
	f := newFixture(t, "", content)

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Equal(t, content, f.read(t))
	assert.Empty(t, f.reporter.results)
}

func TestRun_PartialFailureKeepsFlag(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA))
	f.gw.failOn["TPL_R"] = true

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)

	// 청소 예약 발송 실패 -> 청소알림은 No 유지, 고객은 Yes
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 0, res.CleaningUpdated)
	assert.Equal(t, 1, res.CustomerUpdated)
	assert.Len(t, f.gw.reqs, 6)
	assert.Equal(t, csvFile(header,
		"2026년 1월 3일 오후 2:00 → 오후 4:30,홍길동,010-9999-8888,김철수,이영희,No,Yes"), f.read(t))
}

func TestRun_CustomerFailureKeepsFlag(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA))
	f.gw.failOn["TPL_CR"] = true

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.CleaningUpdated)
	assert.Equal(t, 0, res.CustomerUpdated)
	assert.Contains(t, f.read(t), ",Yes,No\r\n")
}

func TestRun_GatePolicies(t *testing.T) {
	row := "2026년 1월 3일 오후 2:00,홍길동,,박민수,김철수,No,Yes"

	t.Run("attempted", func(t *testing.T) {
		f := newFixture(t, "attempted", csvFile(header, row))
		res, err := f.svc.Run(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Sent)
		assert.Equal(t, 1, res.CleaningUpdated)
	})

	t.Run("assigned", func(t *testing.T) {
		f := newFixture(t, "assigned", csvFile(header, row))
		res, err := f.svc.Run(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Sent)
		assert.Equal(t, 0, res.CleaningUpdated)
		assert.False(t, res.Written)
	})
}

func TestRun_NoAssigneesFlipsFlag(t *testing.T) {
	f := newFixture(t, "assigned", csvFile(header, "2026년 1월 3일 오후 2:00,홍길동,,,,No,Yes"))

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Sent)
	assert.Equal(t, 1, res.CleaningUpdated)
}

func TestRun_Target(t *testing.T) {
	rowC := "2026년 1월 5일 오후 2:00,전우치,010-5555-4444,,,Yes,No"
	f := newFixture(t, "", csvFile(header, rowA, rowC))

	res, err := f.svc.Run(context.Background(), "2026년 1월 5일 오후 2:00")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, "01055554444", f.gw.reqs[0].To)
	assert.Equal(t, csvFile(header, rowA, "2026년 1월 5일 오후 2:00,전우치,010-5555-4444,,,Yes,Yes"), f.read(t))

	res, err = f.svc.Run(context.Background(), "없는 예약")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Rows)
}

func TestRun_UnparsableRowIsSkipped(t *testing.T) {
	content := csvFile(header, "2026년 2월 30일 오후 2:00,홍길동,010-1,김철수,,No,No")
	f := newFixture(t, "", content)

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, f.gw.reqs)
	assert.Equal(t, content, f.read(t))
}

func TestRun_MissingLedger(t *testing.T) {
	f := newFixture(t, "", "")

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, res.LedgerMissing)
	assert.Empty(t, f.gw.reqs)
	require.Len(t, f.reporter.results, 1)
}

func TestRun_SyncFailureIsNotFatal(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA))
	f.syncer.err = errors.New("exit status 1")

	res, err := f.svc.Run(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, res.Written)
	assert.False(t, res.Synced)
	assert.Equal(t, "exit status 1", res.SyncError)
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t, "", csvFile(header, rowA))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.svc.Run(ctx, "")
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Empty(t, f.gw.reqs)
}

func TestRun_MalformedLedger(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"헤더 불일치", csvFile("이름,전화", "a,b")},
		{"청소알림 컬럼 오타", csvFile(strings.Replace(header, "청소알림", "청소 알림", 1), rowA)},
		{"예약문자 컬럼 없음", csvFile(strings.TrimSuffix(header, ",예약문자"), "2026년 1월 3일 오후 2:00,홍길동,010,김철수,,No")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", tt.content)

			_, err := f.svc.Run(context.Background(), "")
			assert.ErrorIs(t, err, ledger.ErrMissingColumn)
			assert.Empty(t, f.gw.reqs, "잘못된 장부로는 아무것도 보내지 않습니다")
		})
	}
}
