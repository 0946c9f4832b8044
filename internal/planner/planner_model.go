package planner

import (
	"time"

	"reserving/internal/ledger"
	"reserving/internal/message"
)

// Role은 청소 담당 역할(앞청소/뒷청소)입니다.
type Role string

const (
	RoleFront Role = "front"
	RoleBack  Role = "back"
)

// Roles는 처리 순서대로의 역할 목록입니다. (앞 → 뒷)
func Roles() []Role { return []Role{RoleFront, RoleBack} }

// Tag는 메시지 #{type} 변수에 들어가는 값입니다.
func (r Role) Tag() string {
	if r == RoleFront {
		return "앞"
	}
	return "뒷"
}

// Column은 담당자 이름이 기록된 장부 컬럼입니다.
func (r Role) Column() string {
	if r == RoleFront {
		return ledger.ColFrontClean
	}
	return ledger.ColBackClean
}

// RolePlan은 한 역할에 대한 즉시/예약 두 건의 발송 계획입니다.
type RolePlan struct {
	Role      Role
	Assignee  string
	Target    time.Time // 청소 시각
	Immediate message.Message
	Reserved  message.Message
}

// CleaningPlan은 청소 알림 카테고리의 계획입니다.
type CleaningPlan struct {
	Roles []RolePlan
	// Unresolved는 담당자가 지정되었지만 명단에서 찾지 못한 역할입니다.
	Unresolved []Role
}

// CustomerPlan은 고객 예약 문자 카테고리의 계획입니다.
type CustomerPlan struct {
	Phone     string
	Immediate message.Message
	Reserved  message.Message
}

// Plan은 장부 한 행에 대한 발송 계획입니다. 기한이 아닌 카테고리는 nil입니다.
type Plan struct {
	Reservation ledger.Reservation
	Start       time.Time
	End         time.Time
	Cleaning    *CleaningPlan
	Customer    *CustomerPlan
}

// Empty는 보낼 것이 하나도 없는 계획인지 확인합니다.
func (p *Plan) Empty() bool {
	return p == nil || (p.Cleaning == nil && p.Customer == nil)
}
