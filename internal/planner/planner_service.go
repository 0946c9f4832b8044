package planner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"reserving/internal/config"
	"reserving/internal/ktime"
	"reserving/internal/ledger"
	"reserving/internal/member"
	"reserving/internal/message"
	"reserving/internal/template"
)

// 알림 시각 오프셋
const (
	FrontCleanLead = time.Hour     // 앞청소는 시작 1시간 전
	ReminderLead   = 2 * time.Hour // 예약 발송은 대상 시각 2시간 전
)

// ErrUnparsable은 예약시간을 해석할 수 없어 행을 건너뛸 때 반환됩니다.
var ErrUnparsable = errors.New("planner: 예약시간을 해석할 수 없습니다")

// Service는 장부 행마다 보낼 메시지와 예약 시각을 계산합니다.
type Service struct {
	parser          *ktime.Parser
	members         *member.Directory
	defaultDuration time.Duration
	policy          GatePolicy
}

// NewService는 설정과 담당자 명단으로 Service를 생성합니다.
func NewService(cfg *config.Config, members *member.Directory) (*Service, error) {
	policy, err := ParsePolicy(cfg.GatePolicy)
	if err != nil {
		return nil, err
	}
	d := cfg.DefaultDuration
	if d <= 0 {
		d = 2 * time.Hour
	}
	return &Service{
		parser:          ktime.NewParser(cfg.Location),
		members:         members,
		defaultDuration: d,
		policy:          policy,
	}, nil
}

// Policy는 청소 알림 플래그 정책입니다.
func (s *Service) Policy() GatePolicy { return s.policy }

// Plan은 한 행의 발송 계획을 만듭니다.
// 두 카테고리 모두 처리 대상이 아니면 빈 계획을 반환하며 예약시간도 해석하지 않습니다.
func (s *Service) Plan(r ledger.Reservation) (*Plan, error) {
	plan := &Plan{Reservation: r}
	if !r.CleaningNotified.Pending() && !r.CustomerNotified.Pending() {
		return plan, nil
	}

	start, end, err := s.parser.ParseRange(r.TimeRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnparsable, r.TimeRange, err)
	}
	plan.Start = *start
	if end != nil {
		plan.End = *end
	} else {
		plan.End = plan.Start.Add(s.defaultDuration)
	}

	if r.CleaningNotified.Pending() {
		plan.Cleaning = s.planCleaning(r, plan.Start, plan.End)
	}
	if r.CustomerNotified.Pending() {
		plan.Customer = s.planCustomer(r, plan.Start, plan.End)
	}
	return plan, nil
}

func (s *Service) planCleaning(r ledger.Reservation, start, end time.Time) *CleaningPlan {
	cp := &CleaningPlan{}
	for _, role := range Roles() {
		assignee := strings.TrimSpace(assigneeOf(r, role))
		if assignee == "" {
			continue
		}
		phone, ok := s.members.Lookup(assignee)
		if !ok {
			log.Warnf("[Planner] %s 전화번호 없음 (%s청소, %s)", assignee, role.Tag(), r.TimeRange)
			cp.Unresolved = append(cp.Unresolved, role)
			continue
		}

		target := end
		if role == RoleFront {
			target = start.Add(-FrontCleanLead)
		}
		scheduled := target.Add(-ReminderLead)
		vars := template.Variables{
			template.Placeholder("name"):  assignee,
			template.Placeholder("month"): pad2(int(target.Month())),
			template.Placeholder("day"):   pad2(target.Day()),
			template.Placeholder("hour"):  pad2(target.Hour()),
			template.Placeholder("type"):  role.Tag(),
		}
		cp.Roles = append(cp.Roles, RolePlan{
			Role:     role,
			Assignee: assignee,
			Target:   target,
			Immediate: message.Message{
				Kind:        template.KindStaffImmediate,
				To:          phone,
				Recipient:   assignee,
				Reservation: r.TimeRange,
				Variables:   vars,
			},
			Reserved: message.Message{
				Kind:        template.KindStaffReserved,
				To:          phone,
				Recipient:   assignee,
				Reservation: r.TimeRange,
				Variables:   vars,
				ScheduledAt: &scheduled,
			},
		})
	}
	return cp
}

func (s *Service) planCustomer(r ledger.Reservation, start, end time.Time) *CustomerPlan {
	phone := member.NormalizePhone(r.Contact)
	if phone == "" {
		log.Warnf("[Planner] 고객 전화번호 없음 (%s, %s)", r.CustomerName, r.TimeRange)
		return nil
	}
	scheduled := start.Add(-ReminderLead)
	return &CustomerPlan{
		Phone: phone,
		Immediate: message.Message{
			Kind:        template.KindCustomer,
			To:          phone,
			Recipient:   r.CustomerName,
			Reservation: r.TimeRange,
			Variables: template.Variables{
				template.Placeholder("year"):  strconv.Itoa(start.Year()),
				template.Placeholder("month"): pad2(int(start.Month())),
				template.Placeholder("day"):   pad2(start.Day()),
				template.Placeholder("time"):  ktime.FormatRange(start, end),
			},
		},
		Reserved: message.Message{
			Kind:        template.KindCustomerReserved,
			To:          phone,
			Recipient:   r.CustomerName,
			Reservation: r.TimeRange,
			ScheduledAt: &scheduled,
		},
	}
}

func assigneeOf(r ledger.Reservation, role Role) string {
	if role == RoleFront {
		return r.FrontClean
	}
	return r.BackClean
}

func pad2(n int) string { return fmt.Sprintf("%02d", n) }
