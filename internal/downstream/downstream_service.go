package downstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNoCommand는 실행할 명령이 설정되지 않았을 때 반환됩니다.
var ErrNoCommand = errors.New("downstream: 동기화 명령이 없습니다")

// Trigger는 장부 저장 후 외부 동기화 명령(기본: Notion 동기화 스크립트)을 실행합니다.
type Trigger struct {
	command []string
	dir     string
	timeout time.Duration
}

// NewTrigger는 command를 dir에서 실행하는 Trigger를 만듭니다. timeout이 0이면 제한 없음.
func NewTrigger(command []string, dir string, timeout time.Duration) *Trigger {
	return &Trigger{command: command, dir: dir, timeout: timeout}
}

// Command는 실행할 명령 문자열입니다.
func (t *Trigger) Command() string { return strings.Join(t.command, " ") }

// Run은 명령을 동기 실행합니다. 결과는 호출자가 로그로만 다루며 종료 코드에 영향을 주지 않습니다.
func (t *Trigger) Run(ctx context.Context) error {
	if len(t.command) == 0 {
		return ErrNoCommand
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	log.Infof("[Downstream] 동기화 실행: %s", t.Command())
	cmd := exec.CommandContext(ctx, t.command[0], t.command[1:]...)
	cmd.Dir = t.dir
	cmd.WaitDelay = 5 * time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	if s := strings.TrimSpace(out.String()); s != "" {
		log.Debugf("[Downstream] 출력:\n%s", s)
	}
	if err != nil {
		return fmt.Errorf("동기화 명령 실패 (%s): %w", t.Command(), err)
	}
	log.Infof("[Downstream] 동기화 완료 (%s)", time.Since(start).Round(time.Millisecond))
	return nil
}
