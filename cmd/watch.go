package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reserving/internal/scheduler"
)

func newWatchCmd(f *globalFlags) *cobra.Command {
	var (
		spec   string
		runNow bool
	)
	c := &cobra.Command{
		Use:   "watch",
		Short: "주기적으로 예약 장부를 처리합니다 (cron)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer a.Close()

			if spec == "" {
				spec = a.cfg.Server.WatchSpec
			}
			if runNow {
				if _, err := a.notices.Run(cmd.Context(), ""); err != nil {
					log.Errorf("[ERROR] [Scheduler] 첫 실행 실패: %v", err)
				}
			}

			sched := scheduler.NewScheduler(spec, a.notices, a.cfg.Location)
			if err := sched.Start(); err != nil {
				return err
			}
			<-cmd.Context().Done()
			sched.Stop()
			return nil
		},
	}
	c.Flags().StringVar(&spec, "spec", "", "cron 표현식 (기본: RESERVING_WATCH_SPEC 또는 @every 10m)")
	c.Flags().BoolVar(&runNow, "run-now", true, "시작하자마자 한 번 실행")
	return c
}
