package template

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// TemplateHandler는 템플릿 조회/미리보기 핸들러입니다.
type TemplateHandler struct {
	service *Service
}

// NewTemplateHandler는 새 핸들러를 생성합니다.
func NewTemplateHandler(service *Service) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// PreviewRequest는 'POST /api/templates/:kind/preview' 요청 본문입니다.
type PreviewRequest struct {
	Variables Variables `json:"variables"`
}

// HandleListTemplates는 'GET /api/templates' 요청을 처리합니다.
func (h *TemplateHandler) HandleListTemplates(c *fiber.Ctx) error {
	return c.JSON(h.service.All())
}

// HandlePreviewTemplate은 'POST /api/templates/:kind/preview' 요청을 처리합니다.
func (h *TemplateHandler) HandlePreviewTemplate(c *fiber.Ctx) error {
	var req PreviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			log.Warnf("템플릿 미리보기 요청 파싱 실패: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "요청 형식이 잘못되었습니다."})
		}
	}

	kind := Kind(c.Params("kind"))
	text, err := h.service.Render(kind, req.Variables)
	switch {
	case errors.Is(err, ErrUnknownKind):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNoBody):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"kind": kind, "text": text})
}
