package planner

import (
	"fmt"
	"strings"
)

// GatePolicy는 청소 알림 플래그를 Yes로 바꿀 조건입니다.
type GatePolicy string

const (
	// PolicyAttempted: 실제로 발송을 시도한 역할만 판정에 포함합니다.
	// 명단에 없는 담당자(건너뛴 역할)는 Yes를 막지 않습니다.
	PolicyAttempted GatePolicy = "attempted"
	// PolicyAssigned: 지정된 모든 역할이 발송에 성공해야 합니다.
	PolicyAssigned GatePolicy = "assigned"
)

// ParsePolicy는 설정 문자열을 GatePolicy로 바꿉니다. 빈 값은 attempted입니다.
func ParsePolicy(s string) (GatePolicy, error) {
	switch p := GatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAttempted, nil
	case PolicyAttempted, PolicyAssigned:
		return p, nil
	}
	return "", fmt.Errorf("알 수 없는 플래그 정책: %q", s)
}

// RoleOutcome은 한 역할의 발송 결과입니다. 두 건 모두 성공해야 OK입니다.
type RoleOutcome struct {
	Role         Role
	ImmediateErr error
	ReservedErr  error
}

func (o RoleOutcome) OK() bool { return o.ImmediateErr == nil && o.ReservedErr == nil }

// CleaningDone은 청소 알림 플래그를 Yes로 바꿔도 되는지 판정합니다.
// 역할이 하나도 지정되지 않은 행은 두 정책 모두 Yes입니다.
func (p GatePolicy) CleaningDone(plan *CleaningPlan, outcomes []RoleOutcome) bool {
	for _, o := range outcomes {
		if !o.OK() {
			return false
		}
	}
	if p == PolicyAssigned && plan != nil && len(plan.Unresolved) > 0 {
		return false
	}
	return true
}

// CustomerDone은 고객 카테고리의 즉시/예약 두 건이 모두 성공했는지 판정합니다.
func CustomerDone(immediateErr, reservedErr error) bool {
	return immediateErr == nil && reservedErr == nil
}
