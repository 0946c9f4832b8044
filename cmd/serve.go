package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reserving/internal/dashboard"
	"reserving/internal/middleware"
	"reserving/internal/notice"
	"reserving/internal/scheduler"
	"reserving/internal/template"
)

func newServeCmd(f *globalFlags) *cobra.Command {
	var watch bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "HTTP API 서버를 시작합니다 (발송, 장부 처리, 대시보드)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer a.Close()

			app := newRouter(a)

			var sched *scheduler.Scheduler
			if watch {
				sched = scheduler.NewScheduler(a.cfg.Server.WatchSpec, a.notices, a.cfg.Location)
				if err := sched.Start(); err != nil {
					return err
				}
			}

			errCh := make(chan error, 1)
			go func() {
				log.Infof("Reserving 서버(HTTP)가 [::]:%s 포트에서 시작됩니다.", a.cfg.Server.Port)
				errCh <- app.Listen(fmt.Sprintf(":%s", a.cfg.Server.Port))
			}()

			select {
			case err := <-errCh:
				if sched != nil {
					sched.Stop()
				}
				return fmt.Errorf("HTTP 서버 Listen 실패: %w", err)
			case <-cmd.Context().Done():
			}

			log.Info("[INFO] Reserving 서버 종료 신호 수신...")
			if sched != nil {
				sched.Stop()
			}
			if err := app.Shutdown(); err != nil {
				log.Errorf("HTTP 서버 Shutdown 실패: %v", err)
			}
			log.Info("[INFO] Reserving 서버가 정상적으로 종료되었습니다.")
			return nil
		},
	}
	c.Flags().BoolVar(&watch, "watch", false, "RESERVING_WATCH_SPEC 주기로 장부 처리도 함께 실행")
	return c
}

// newRouter는 API 라우트를 설정합니다.
func newRouter(a *app) *fiber.App {
	noticeHandler := notice.NewNoticeHandler(a.notices)
	dashboardHandler := dashboard.NewDashboardHandler(a.dashboardService())
	templateHandler := template.NewTemplateHandler(a.templates)

	app := fiber.New(fiber.Config{
		AppName:               "reserving",
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "gateway": a.cfg.Gateway})
	})

	api := app.Group("/api", middleware.AuthMiddleware(a.cfg.Server.AdminToken))
	{
		api.Post("/notification", noticeHandler.HandleSendNotification)
		api.Post("/reservations/run", noticeHandler.HandleRun)
		api.Get("/dashboard", dashboardHandler.HandleShowDashboard)
		api.Get("/templates", templateHandler.HandleListTemplates)
		api.Post("/templates/:kind/preview", templateHandler.HandlePreviewTemplate)
	}
	return app
}
