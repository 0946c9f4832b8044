package notice

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"reserving/internal/member"
	"reserving/internal/message"
)

// NoticeHandler는 발송/실행 API 핸들러입니다.
type NoticeHandler struct {
	service *Service
}

// NewNoticeHandler는 새 핸들러를 생성합니다.
func NewNoticeHandler(service *Service) *NoticeHandler {
	return &NoticeHandler{service: service}
}

// SendNotificationRequest는 'POST /api/notification' 요청 본문입니다.
type SendNotificationRequest struct {
	TemplateID string            `json:"templateId"`
	To         string            `json:"to"`
	Variables  map[string]string `json:"variables"`
}

// RunRequest는 'POST /api/reservations/run' 요청 본문입니다.
type RunRequest struct {
	Target string `json:"target"`
}

// HandleSendNotification은 'POST /api/notification' 요청을 처리합니다.
func (h *NoticeHandler) HandleSendNotification(c *fiber.Ctx) error {
	var req SendNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warnf("알림 발송 요청 파싱 실패: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "요청 형식이 잘못되었습니다."})
	}
	to := member.NormalizePhone(req.To)
	if to == "" || strings.TrimSpace(req.TemplateID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "to and templateId required"})
	}

	err := h.service.Send(c.UserContext(), message.Message{
		TemplateID: strings.TrimSpace(req.TemplateID),
		To:         to,
		Recipient:  to,
		Variables:  req.Variables,
	})
	testMode := h.service.messages.GatewayName() == "dryrun"
	if err != nil {
		log.Errorf("알림 발송 실패: %v", err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, message.ErrRejected) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	msg := "발송 성공"
	if testMode {
		msg = "테스트 모드 - 로그 출력 완료"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg, "isTestMode": testMode})
}

// HandleRun은 'POST /api/reservations/run' 요청을 처리합니다. (장부 처리 1회 실행)
func (h *NoticeHandler) HandleRun(c *fiber.Ctx) error {
	var req RunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "요청 형식이 잘못되었습니다."})
		}
	}

	res, err := h.service.Run(c.UserContext(), req.Target)
	if err != nil {
		log.Errorf("장부 처리 실패: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error(), "result": res})
	}
	return c.JSON(fiber.Map{"success": true, "result": res})
}
