package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"reserving/internal/config"
)

var (
	// ErrUnknownKind는 설정에 없는 메시지 종류일 때 반환됩니다.
	ErrUnknownKind = errors.New("template: 알 수 없는 메시지 종류")
	// ErrNoBody는 본문이 필요한 게이트웨이에서 본문이 설정되지 않았을 때 반환됩니다.
	ErrNoBody = errors.New("template: 본문이 설정되지 않았습니다")
)

// Service는 message_config.json의 템플릿 ID/본문을 종류별로 제공합니다.
type Service struct {
	templates map[Kind]Template
}

// NewService는 메시지 설정으로 Service를 생성합니다.
func NewService(mc config.MessageConfig) *Service {
	s := &Service{templates: make(map[Kind]Template, 4)}
	for _, k := range Kinds() {
		id, _ := mc.Templates.ByKind(string(k))
		body, _ := mc.Bodies.ByKind(string(k))
		s.templates[k] = Template{Kind: k, ID: id, Body: body}
	}
	return s
}

// Get은 종류에 맞는 템플릿을 반환합니다.
func (s *Service) Get(kind Kind) (Template, error) {
	t, ok := s.templates[kind]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return t, nil
}

// All은 모든 템플릿을 정해진 순서로 반환합니다.
func (s *Service) All() []Template {
	out := make([]Template, 0, len(s.templates))
	for _, k := range Kinds() {
		out = append(out, s.templates[k])
	}
	return out
}

// Render는 본문의 "#{key}" 자리표시자를 변수 값으로 치환합니다.
func (s *Service) Render(kind Kind, vars Variables) (string, error) {
	t, err := s.Get(kind)
	if err != nil {
		return "", err
	}
	if t.Body == "" {
		return "", fmt.Errorf("%w: %s", ErrNoBody, kind)
	}
	return Render(t.Body, vars), nil
}

// Render는 body의 자리표시자를 치환합니다. 모르는 자리표시자는 그대로 둡니다.
func Render(body string, vars Variables) string {
	if len(vars) == 0 {
		return body
	}
	// 키 순서를 고정해 결과가 항상 같도록 합니다.
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(vars)*2)
	for _, k := range keys {
		pairs = append(pairs, k, vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}
