package ktime

import (
	"fmt"
	"time"
)

// NextDayPrefix는 종료 시각이 다음 날일 때 붙는 표기입니다.
const NextDayPrefix = "익일 "

// Clock12는 12시간제, 앞자리 0 없이, 대문자 AM/PM으로 표기합니다.
// 분이 0이면 생략합니다. (14:00 -> "2PM", 16:30 -> "4:30PM")
func Clock12(t time.Time) string {
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	if t.Minute() == 0 {
		return fmt.Sprintf("%d%s", hour, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", hour, t.Minute(), suffix)
}

// FormatRange는 고객 안내용 시간 범위 문자열을 만듭니다.
func FormatRange(start, end time.Time) string {
	if SameDate(start, end) {
		return Clock12(start) + " ~ " + Clock12(end)
	}
	return Clock12(start) + " ~ " + NextDayPrefix + Clock12(end)
}

// SameDate는 두 시각이 (각자의 타임존 기준) 같은 달력 날짜인지 확인합니다.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
