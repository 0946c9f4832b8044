package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"reserving/internal/notice"
)

// Runner는 장부 처리 1회 실행입니다. (notice.Service)
type Runner interface {
	Run(ctx context.Context, target string) (*notice.RunResult, error)
}

// Scheduler는 cron 표현식마다 장부 처리를 실행합니다. (watch 모드)
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler는 spec(예: "@every 10m")마다 runner를 실행하는 Scheduler를 생성합니다.
// 이전 실행이 끝나지 않았으면 이번 차례는 건너뜁니다.
func NewScheduler(spec string, runner Runner, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   c,
		spec:   spec,
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start는 작업을 등록하고 스케줄러를 시작합니다.
func (s *Scheduler) Start() error {
	log.Info("[INFO] -----------------------------------------")
	log.Infof("[INFO] 예약 알림 스케줄러가 시작됩니다... (%s)", s.spec)
	if _, err := s.cron.AddFunc(s.spec, s.checkAndSendNotices); err != nil {
		return fmt.Errorf("잘못된 스케줄 표현식 %q: %w", s.spec, err)
	}
	s.cron.Start()
	log.Info("[INFO] -----------------------------------------")
	return nil
}

// Stop은 새 실행을 막고, 진행 중인 실행이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	log.Info("[INFO] 예약 알림 스케줄러가 중지됩니다...")
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
}

func (s *Scheduler) checkAndSendNotices() {
	log.Info("[Scheduler] 예약 장부를 확인합니다...")

	res, err := s.runner.Run(s.ctx, "")
	if err != nil {
		log.Errorf("[ERROR] [Scheduler] 장부 처리 실패: %v", err)
		return
	}
	log.Infof("[Scheduler] 처리 완료 (발송 %d, 실패 %d, 갱신 %d)", res.Sent, res.Failed, res.Updated())
}
