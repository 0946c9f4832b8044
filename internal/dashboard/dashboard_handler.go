package dashboard

import (
	"github.com/gofiber/fiber/v2"

	log "github.com/sirupsen/logrus"
)

// DashboardHandler는 대시보드 관련 핸들러입니다.
type DashboardHandler struct {
	service *Service
}

// NewDashboardHandler는 새 핸들러를 생성합니다.
func NewDashboardHandler(service *Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// HandleShowDashboard는 'GET /api/dashboard' 요청을 처리합니다.
func (h *DashboardHandler) HandleShowDashboard(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData(c.UserContext())
	if err != nil {
		log.Errorf("대시보드 데이터 조회 실패: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "데이터 조회 중 오류 발생"})
	}
	return c.JSON(data)
}
