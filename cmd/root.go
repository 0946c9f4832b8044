package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd는 'reserving [예약시간]' 명령을 만듭니다.
// 인자가 있으면 예약시간이 정확히 같은 행만 처리합니다.
func NewRootCmd() *cobra.Command {
	f := &globalFlags{}
	root := &cobra.Command{
		Use:   "reserving [reservation-time]",
		Short: "예약 장부를 읽어 청소 담당자/고객 알림톡을 발송합니다",
		Example: `  reserving
  reserving "2026년 1월 3일 오후 2:00 → 오후 4:30"
  reserving --dry-run --base-dir /srv/reserving`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(f.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, f)
			if err != nil {
				return err
			}
			defer a.Close()

			target := ""
			if len(args) == 1 {
				target = args[0]
				log.Infof("[Notice] 특정 예약만 처리합니다: %s", target)
			}
			_, err = a.notices.Run(ctx, target)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.baseDir, "base-dir", envOr("RESERVING_BASE_DIR", "."), "secret.json, assets/ 가 있는 기준 디렉터리")
	pf.BoolVar(&f.dryRun, "dry-run", false, "실제로 보내지 않고 로그만 출력")
	pf.StringVar(&f.paramStore, "param-store", "", "AWS Parameter Store 키 (비어 있으면 secret.json 사용)")
	pf.StringVar(&f.region, "region", "ap-northeast-2", "AWS 리전")
	pf.StringVar(&f.logLevel, "log-level", envOr("RESERVING_LOG_LEVEL", "info"), "로그 레벨 (debug, info, warn, error)")

	root.AddCommand(newServeCmd(f))
	root.AddCommand(newWatchCmd(f))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute는 루트 명령을 실행합니다. 실패하면 종료 코드 1로 끝납니다.
// SIGINT/SIGTERM을 받으면 모든 하위 명령의 context가 취소됩니다.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Errorf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	lv, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lv)
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
