package ledger

import (
	log "github.com/sirupsen/logrus"
)

// 예약 장부 컬럼명 (헤더 행 기준)
const (
	ColTimeRange    = "예약시간"
	ColCustomerName = "예약자명"
	ColContact      = "연락처"
	ColFrontClean   = "앞청소"
	ColBackClean    = "뒷청소"
	ColCleaningFlag = "청소알림"
	ColCustomerFlag = "예약문자"
)

// RequiredColumns는 헤더에 반드시 있어야 하는 컬럼입니다. 순서는 상관없습니다.
var RequiredColumns = []string{
	ColTimeRange, ColCustomerName, ColContact,
	ColFrontClean, ColBackClean, ColCleaningFlag, ColCustomerFlag,
}

// Flag는 "Yes"/"No" 문자열로 저장되는 알림 완료 여부입니다.
type Flag string

const (
	FlagYes Flag = "Yes"
	FlagNo  Flag = "No"
)

// Pending은 정확히 "No"인 경우에만 true입니다. (빈 값은 처리 대상이 아님)
func (f Flag) Pending() bool { return f == FlagNo }

// Reservation은 장부 한 행의 타입 있는 보기입니다.
type Reservation struct {
	TimeRange        string
	CustomerName     string
	Contact          string
	FrontClean       string
	BackClean        string
	CleaningNotified Flag
	CustomerNotified Flag
}

// Ledger는 헤더와 모든 행을 원래 순서대로 보관합니다.
type Ledger struct {
	Header []string
	Rows   []*Row
	index  map[string]int
}

// New는 헤더와 원시 레코드로 Ledger를 구성합니다.
func New(header []string, records [][]string) *Ledger {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	l := &Ledger{Header: header, index: idx}
	for i, rec := range records {
		l.Rows = append(l.Rows, &Row{Line: i + 2, values: rec, index: idx})
	}
	return l
}

// HasColumn은 헤더에 컬럼이 있는지 확인합니다.
func (l *Ledger) HasColumn(col string) bool {
	_, ok := l.index[col]
	return ok
}

// MissingColumns는 RequiredColumns 중 헤더에 없는 컬럼을 반환합니다.
func (l *Ledger) MissingColumns() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if !l.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// Select는 target이 비어 있으면 모든 행을, 아니면 예약시간이 정확히 일치하는 행만 반환합니다.
func (l *Ledger) Select(target string) []*Row {
	if target == "" {
		return l.Rows
	}
	var out []*Row
	for _, r := range l.Rows {
		if r.Get(ColTimeRange) == target {
			out = append(out, r)
		}
	}
	return out
}

// Records는 헤더 폭에 맞춘 레코드 목록을 반환합니다. (짧은 행은 빈 값으로 채움)
func (l *Ledger) Records() [][]string {
	out := make([][]string, 0, len(l.Rows))
	for _, r := range l.Rows {
		rec := r.values
		if len(rec) < len(l.Header) {
			padded := make([]string, len(l.Header))
			copy(padded, rec)
			rec = padded
		}
		out = append(out, rec)
	}
	return out
}

// Row는 장부의 한 행입니다.
type Row struct {
	Line   int // 파일 기준 줄 번호 (헤더가 1)
	values []string
	index  map[string]int
}

// Get은 컬럼 값을 반환합니다. 컬럼이 없거나 행이 짧으면 빈 문자열입니다.
func (r *Row) Get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Set은 컬럼 값을 바꾸고, 값이 실제로 바뀌었는지 반환합니다.
func (r *Row) Set(col, v string) bool {
	i, ok := r.index[col]
	if !ok {
		return false
	}
	for len(r.values) <= i {
		r.values = append(r.values, "")
	}
	if r.values[i] == v {
		return false
	}
	r.values[i] = v
	return true
}

// SetFlag는 알림 플래그를 기록합니다.
func (r *Row) SetFlag(col string, f Flag) bool {
	if _, ok := r.index[col]; !ok {
		log.Warnf("[WARN] [Ledger] %d행: '%s' 컬럼이 없어 플래그를 기록하지 못했습니다.", r.Line, col)
		return false
	}
	return r.Set(col, string(f))
}

// Reservation은 행을 Reservation으로 변환합니다.
func (r *Row) Reservation() Reservation {
	return Reservation{
		TimeRange:        r.Get(ColTimeRange),
		CustomerName:     r.Get(ColCustomerName),
		Contact:          r.Get(ColContact),
		FrontClean:       r.Get(ColFrontClean),
		BackClean:        r.Get(ColBackClean),
		CleaningNotified: Flag(r.Get(ColCleaningFlag)),
		CustomerNotified: Flag(r.Get(ColCustomerFlag)),
	}
}
