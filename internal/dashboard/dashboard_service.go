package dashboard

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup" // (장부와 DB 조회를 병렬로 처리하기 위함)

	"reserving/internal/ledger"
	"reserving/internal/notice"
)

// RecentLogLimit는 대시보드에 보여줄 최근 발송 이력 수입니다.
const RecentLogLimit = 20

// PendingRow는 아직 알림이 끝나지 않은 장부 행입니다.
type PendingRow struct {
	Line            int    `json:"line"`
	TimeRange       string `json:"time_range"`
	CustomerName    string `json:"customer_name"`
	CleaningPending bool   `json:"cleaning_pending"`
	CustomerPending bool   `json:"customer_pending"`
}

// DashboardData는 'GET /api/dashboard' 응답 구조체입니다.
type DashboardData struct {
	LedgerPath      string           `json:"ledger_path"`
	LedgerMissing   bool             `json:"ledger_missing"`
	TotalRows       int              `json:"total_rows"`
	PendingCleaning int              `json:"pending_cleaning"`
	PendingCustomer int              `json:"pending_customer"`
	Pending         []PendingRow     `json:"pending"`
	RecentLogs      []notice.SendLog `json:"recent_logs"`
}

// HistoryReader는 발송 이력 조회 인터페이스입니다. (notice.Store)
type HistoryReader interface {
	GetRecentLogs(ctx context.Context, limit int) ([]notice.SendLog, error)
}

// Service는 대시보드 데이터 조회를 담당합니다.
type Service struct {
	ledgerStore *ledger.Store
	history     HistoryReader // nil이면 이력 없이 동작
}

// NewService는 대시보드 서비스를 생성합니다.
func NewService(ls *ledger.Store, history HistoryReader) *Service {
	return &Service{ledgerStore: ls, history: history}
}

// GetDashboardData는 장부 요약과 최근 발송 이력을 병렬로 조회하여 집계합니다.
func (s *Service) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	data := DashboardData{LedgerPath: s.ledgerStore.Path()}
	eg, ctx := errgroup.WithContext(ctx)

	// 고루틴 1: 장부 요약
	eg.Go(func() error {
		l, err := s.ledgerStore.Read()
		if errors.Is(err, ledger.ErrNotFound) {
			data.LedgerMissing = true
			return nil
		}
		if err != nil {
			log.Errorf("[ERROR] GetDashboardData: 장부 읽기 실패: %v", err)
			return err
		}
		summarize(&data, l)
		return nil
	})

	// 고루틴 2: 최근 발송 이력
	if s.history != nil {
		eg.Go(func() error {
			logs, err := s.history.GetRecentLogs(ctx, RecentLogLimit)
			if err != nil {
				log.Errorf("[ERROR] GetDashboardData: GetRecentLogs 실패: %v", err)
				return err
			}
			data.RecentLogs = logs
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func summarize(data *DashboardData, l *ledger.Ledger) {
	data.TotalRows = len(l.Rows)
	for _, row := range l.Rows {
		r := row.Reservation()
		cleaning := r.CleaningNotified.Pending()
		customer := r.CustomerNotified.Pending()
		if cleaning {
			data.PendingCleaning++
		}
		if customer {
			data.PendingCustomer++
		}
		if cleaning || customer {
			data.Pending = append(data.Pending, PendingRow{
				Line:            row.Line,
				TimeRange:       r.TimeRange,
				CustomerName:    r.CustomerName,
				CleaningPending: cleaning,
				CustomerPending: customer,
			})
		}
	}
}
