package notice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"reserving/internal/ledger"
	"reserving/internal/message"
	"reserving/internal/planner"
)

// Syncer는 장부 저장 후 실행되는 후속 동기화입니다.
type Syncer interface {
	Run(ctx context.Context) error
}

// Reporter는 실행 결과를 외부(예: Slack)로 알립니다.
type Reporter interface {
	Report(ctx context.Context, r *RunResult) error
}

// Service는 장부를 읽어 기한이 된 알림을 보내고 플래그를 기록합니다.
// 같은 프로세스 안의 실행(CLI, HTTP, cron)은 mu로 직렬화됩니다.
type Service struct {
	mu sync.Mutex

	ledger   *ledger.Store
	planner  *planner.Service
	messages *message.Service
	syncer   Syncer
	reporter Reporter

	newRunID func() string
}

// NewService는 새 Service를 생성합니다. syncer와 reporter는 nil일 수 있습니다.
func NewService(ls *ledger.Store, ps *planner.Service, ms *message.Service, syncer Syncer, reporter Reporter) *Service {
	return &Service{
		ledger:   ls,
		planner:  ps,
		messages: ms,
		syncer:   syncer,
		reporter: reporter,
		newRunID: uuid.NewString,
	}
}

// Run은 장부 전체(target이 비어 있으면) 또는 예약시간이 target과 같은 행만 처리합니다.
// 장부 파일이 없으면 에러 로그만 남기고 nil을 반환합니다.
func (s *Service) Run(ctx context.Context, target string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &RunResult{
		RunID:     s.newRunID(),
		Target:    target,
		Gateway:   s.messages.GatewayName(),
		StartedAt: time.Now(),
	}

	l, err := s.ledger.Read()
	if errors.Is(err, ledger.ErrNotFound) {
		log.Errorf("[ERROR] [Notice] 장부 파일이 없습니다: %s", s.ledger.Path())
		res.LedgerMissing = true
		s.finish(ctx, res)
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("장부 읽기 실패: %w", err)
	}

	rows := l.Select(target)
	res.Rows = len(rows)
	if target != "" {
		log.Infof("[Notice] 대상 예약: %s (%d 건)", target, len(rows))
	}

	for _, row := range rows {
		if ctx.Err() != nil {
			log.Warnf("[Notice] 실행 취소됨, %d 행에서 중단합니다.", row.Line)
			res.Cancelled = true
			break
		}
		s.processRow(ctx, res, row)
	}

	if res.Updated() == 0 {
		log.Info("[Notice] 변경 사항 없음")
		s.finish(ctx, res)
		return res, nil
	}

	if err := s.ledger.Write(l); err != nil {
		s.finish(ctx, res)
		return res, fmt.Errorf("장부 저장 실패: %w", err)
	}
	res.Written = true
	log.Infof("[Notice] 장부 저장 완료 (%d 건 갱신)", res.Updated())

	if s.syncer != nil {
		// 취소된 실행에서도 저장된 장부는 동기화합니다.
		if err := s.syncer.Run(context.WithoutCancel(ctx)); err != nil {
			log.Errorf("[ERROR] [Notice] 동기화 실패: %v", err)
			res.SyncError = err.Error()
		} else {
			res.Synced = true
		}
	}

	s.finish(ctx, res)
	return res, nil
}

func (s *Service) processRow(ctx context.Context, res *RunResult, row *ledger.Row) {
	r := row.Reservation()
	plan, err := s.planner.Plan(r)
	if err != nil {
		log.Warnf("[Notice] %d행 건너뜀: %v", row.Line, err)
		res.Skipped++
		return
	}
	if plan.Empty() {
		return
	}

	if plan.Cleaning != nil {
		log.Infof("[Notice] 청소 알림 처리: %s (%s)", r.CustomerName, r.TimeRange)
		outcomes := make([]planner.RoleOutcome, 0, len(plan.Cleaning.Roles))
		for _, rp := range plan.Cleaning.Roles {
			o := planner.RoleOutcome{Role: rp.Role}
			o.ImmediateErr = s.send(ctx, res, rp.Immediate)
			o.ReservedErr = s.send(ctx, res, rp.Reserved)
			outcomes = append(outcomes, o)
		}
		if s.planner.Policy().CleaningDone(plan.Cleaning, outcomes) {
			if row.SetFlag(ledger.ColCleaningFlag, ledger.FlagYes) {
				res.CleaningUpdated++
			}
		}
	}

	if plan.Customer != nil {
		log.Infof("[Notice] 예약 문자 처리: %s (%s)", r.CustomerName, r.TimeRange)
		immErr := s.send(ctx, res, plan.Customer.Immediate)
		resErr := s.send(ctx, res, plan.Customer.Reserved)
		if planner.CustomerDone(immErr, resErr) {
			if row.SetFlag(ledger.ColCustomerFlag, ledger.FlagYes) {
				res.CustomerUpdated++
			}
		}
	}
}

func (s *Service) send(ctx context.Context, res *RunResult, m message.Message) error {
	err := s.messages.Send(ctx, res.RunID, m)
	if err != nil {
		res.Failed++
	} else {
		res.Sent++
	}
	return err
}

func (s *Service) finish(ctx context.Context, res *RunResult) {
	res.FinishedAt = time.Now()
	if s.reporter == nil || !res.Noteworthy() {
		return
	}
	if err := s.reporter.Report(ctx, res); err != nil {
		log.Warnf("[Notice] 실행 결과 리포트 실패: %v", err)
	}
}

// Send는 장부와 무관하게 템플릿 ID로 한 건을 즉시 발송합니다.
func (s *Service) Send(ctx context.Context, m message.Message) error {
	return s.messages.Send(ctx, "", m)
}
