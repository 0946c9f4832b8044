package template

// Kind는 메시지 종류입니다. message_config.json의 templates 키와 같습니다.
type Kind string

const (
	KindStaffImmediate   Kind = "immediate"         // 청소 담당자 즉시
	KindStaffReserved    Kind = "reserved"          // 청소 담당자 예약
	KindCustomer         Kind = "customer"          // 고객 즉시
	KindCustomerReserved Kind = "customer_reserved" // 고객 예약
)

// Kinds는 모든 메시지 종류를 정해진 순서로 반환합니다.
func Kinds() []Kind {
	return []Kind{KindStaffImmediate, KindStaffReserved, KindCustomer, KindCustomerReserved}
}

// Template은 게이트웨이 템플릿 ID와 (선택) 로컬 본문입니다.
type Template struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"template_id"`
	Body string `json:"body,omitempty"`
}

// Variables는 "#{name}" 형태의 키를 쓰는 치환 변수입니다.
type Variables map[string]string

// Placeholder는 변수 이름을 "#{name}" 키로 바꿉니다.
func Placeholder(name string) string {
	return "#{" + name + "}"
}
