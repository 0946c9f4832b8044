package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RequestLogger는 요청마다 메서드, 경로, 상태 코드, 소요 시간을 기록합니다.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		entry := log.WithFields(log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": time.Since(start).Round(time.Millisecond).String(),
		})
		if status >= fiber.StatusInternalServerError {
			entry.Error("[HTTP] 요청 처리 실패")
		} else {
			entry.Info("[HTTP] 요청 처리")
		}
		return err
	}
}
