package ktime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RangeSeparator는 예약시간 문자열에서 시작/종료 부분을 나누는 구분자입니다.
const RangeSeparator = " → "

// 오전/오후 표기
const (
	markerAM = "오전"
	markerPM = "오후"
)

var (
	// ErrNoMatch는 시작 부분이 전체 날짜 패턴과 맞지 않을 때 반환됩니다.
	ErrNoMatch = errors.New("ktime: 날짜 형식이 일치하지 않습니다")
	// ErrOutOfRange는 패턴은 맞지만 달력상 존재하지 않는 값일 때 반환됩니다.
	ErrOutOfRange = errors.New("ktime: 날짜/시간 값이 범위를 벗어났습니다")
)

var (
	// 2026년 1월 3일 오후 2:00
	fullPattern = regexp.MustCompile(`^(\d{4})년 (\d{1,2})월 (\d{1,2})일 (오전|오후) (\d{1,2}):(\d{2})`)
	// 오후 4:30
	timePattern = regexp.MustCompile(`^(오전|오후) (\d{1,2}):(\d{2})`)
)

// Parser는 사람이 입력한 한국어 예약시간 문자열을 해석합니다.
type Parser struct {
	loc *time.Location
}

// NewParser는 loc 기준(로컬 시각)으로 해석하는 Parser를 생성합니다.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// Location은 해석 기준 타임존을 반환합니다.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// ParseRange는 "<시작> → <종료>" 문자열을 (start, end)로 변환합니다.
//
// 종료 부분이 없거나 어떤 패턴과도 맞지 않으면 end는 nil입니다.
// 어느 부분이든 값 변환에 실패하면 부분 결과 없이 (nil, nil, err)를 반환합니다.
func (p *Parser) ParseRange(raw string) (*time.Time, *time.Time, error) {
	startPart, endPart, hasEnd := strings.Cut(raw, RangeSeparator)

	start, err := p.parseFull(startPart)
	if err != nil {
		return nil, nil, err
	}

	if !hasEnd || endPart == "" {
		return &start, nil, nil
	}

	// 종료 부분: 전체 패턴(독립 날짜) 우선, 아니면 시각만
	end, err := p.parseFull(endPart)
	switch {
	case err == nil:
		return &start, &end, nil
	case !errors.Is(err, ErrNoMatch):
		return nil, nil, err
	}

	end, err = p.parseClock(endPart, start)
	switch {
	case err == nil:
		return &start, &end, nil
	case errors.Is(err, ErrNoMatch):
		return &start, nil, nil
	default:
		return nil, nil, err
	}
}

func (p *Parser) parseFull(part string) (time.Time, error) {
	m := fullPattern.FindStringSubmatch(part)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoMatch, part)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 연도 %q", ErrOutOfRange, m[1])
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 월 %q", ErrOutOfRange, m[2])
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 일 %q", ErrOutOfRange, m[3])
	}
	hour, minute, err := clock(m[4], m[5], m[6])
	if err != nil {
		return time.Time{}, err
	}
	return p.civil(year, month, day, hour, minute)
}

func (p *Parser) parseClock(part string, base time.Time) (time.Time, error) {
	m := timePattern.FindStringSubmatch(part)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoMatch, part)
	}
	hour, minute, err := clock(m[1], m[2], m[3])
	if err != nil {
		return time.Time{}, err
	}
	return p.civil(base.Year(), int(base.Month()), base.Day(), hour, minute)
}

// civil은 time.Date의 정규화(2월 30일 -> 3월 2일)를 허용하지 않습니다.
func (p *Parser) civil(year, month, day, hour, minute int) (time.Time, error) {
	if month < 1 || month > 12 || hour < 0 || hour > 23 || minute < 0 || minute > 59 || day < 1 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d", ErrOutOfRange, year, month, day, hour, minute)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, p.loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrOutOfRange, year, month, day)
	}
	return t, nil
}

// clock은 오전/오후 표기를 24시간제로 변환합니다.
func clock(marker, h, m string) (int, int, error) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: 시 %q", ErrOutOfRange, h)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: 분 %q", ErrOutOfRange, m)
	}
	return To24Hour(marker, hour), minute, nil
}

// To24Hour는 오후는 12를 제외하고 +12, 오전 12시는 0시로 바꿉니다.
func To24Hour(marker string, hour int) int {
	switch {
	case marker == markerPM && hour != 12:
		return hour + 12
	case marker == markerAM && hour == 12:
		return 0
	}
	return hour
}
