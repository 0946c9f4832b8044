package member

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"reserving/internal/config"
)

// Directory는 담당자 이름 -> 전화번호 매핑입니다. 프로세스 수명 동안 읽기 전용입니다.
type Directory struct {
	phones map[string]string
}

// NewDirectory는 명단으로 Directory를 만듭니다. 이름이 겹치면 뒤의 항목이 우선합니다.
func NewDirectory(members []config.Member) *Directory {
	phones := make(map[string]string, len(members))
	for _, m := range members {
		name := strings.TrimSpace(m.Name)
		if prev, dup := phones[name]; dup && prev != m.Phone {
			log.Warnf("[Member] 담당자 이름 중복: %s (뒤의 번호 사용)", name)
		}
		phones[name] = m.Phone
	}
	return &Directory{phones: phones}
}

// Lookup은 이름으로 정규화된 전화번호를 찾습니다.
func (d *Directory) Lookup(name string) (string, bool) {
	phone, ok := d.phones[strings.TrimSpace(name)]
	if !ok {
		return "", false
	}
	return NormalizePhone(phone), true
}

// Len은 등록된 담당자 수입니다.
func (d *Directory) Len() int { return len(d.phones) }

// NormalizePhone은 하이픈, 공백, 점, 괄호를 제거합니다.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '.', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
