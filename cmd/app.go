package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"reserving/internal/aws"
	"reserving/internal/config"
	"reserving/internal/dashboard"
	"reserving/internal/downstream"
	"reserving/internal/ledger"
	"reserving/internal/member"
	"reserving/internal/message"
	"reserving/internal/notice"
	"reserving/internal/planner"
	"reserving/internal/slackbot"
	"reserving/internal/template"
)

// globalFlags는 모든 명령이 공유하는 플래그입니다.
type globalFlags struct {
	baseDir    string
	dryRun     bool
	paramStore string
	region     string
	logLevel   string
}

// app은 설정을 읽고 모든 구성요소를 조립한 결과입니다.
type app struct {
	cfg       *config.Config
	db        *sqlx.DB
	history   *notice.Store
	ledger    *ledger.Store
	templates *template.Service
	notices   *notice.Service
}

// newApp은 설정을 읽어 의존성을 조립합니다. 설정 오류는 그대로 반환되어 종료 코드 1이 됩니다.
func newApp(ctx context.Context, f *globalFlags) (*app, error) {
	var params *aws.Parameters
	opts := config.Options{BaseDir: f.baseDir, DryRun: f.dryRun}
	if f.paramStore != "" {
		p, err := aws.LoadParameters(f.region, f.paramStore)
		if err != nil {
			return nil, err
		}
		params = p
		opts.Secrets = func() (config.Secrets, error) { return p.Solapi, nil }
		log.Infof("[Config] Parameter Store(%s) 인증 정보를 사용합니다.", f.paramStore)
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	log.Infof("[Config] 게이트웨이: %s, 플래그 정책: %s, 타임존: %s", cfg.Gateway, cfg.GatePolicy, cfg.Location)

	a := &app{
		cfg:       cfg,
		ledger:    ledger.NewStore(cfg.Paths.Ledger),
		templates: template.NewService(cfg.Message),
	}

	// 발송 이력 DB (선택)
	var recorder message.Recorder
	if dbi, ok := repository(cfg, params); ok {
		db, err := aws.CreateConnection(dbi)
		if err != nil {
			log.Warnf("[Config] 발송 이력 DB 연결 실패, 이력 없이 진행합니다: %v", err)
		} else {
			a.db = db
			a.history = notice.NewStore(db)
			if err := a.history.Migrate(ctx); err != nil {
				log.Warnf("[Config] 발송 이력 테이블 생성 실패: %v", err)
			}
			recorder = a.history
			log.Info("Successfully connected to the database.")
		}
	}

	gw, err := newGateway(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	ps, err := planner.NewService(cfg, member.NewDirectory(cfg.Members))
	if err != nil {
		a.Close()
		return nil, err
	}

	var reporter notice.Reporter
	if cfg.Slack.Enabled() {
		reporter = slackbot.NewReporter(slackbot.ReportConfig{
			BotToken:  cfg.Slack.Token,
			ChannelID: cfg.Slack.Channel,
		}, cfg.Location)
	}

	a.notices = notice.NewService(
		a.ledger,
		ps,
		message.NewService(gw, a.templates, recorder),
		downstream.NewTrigger(cfg.SyncCommand, cfg.Paths.BaseDir, cfg.SyncTimeout),
		reporter,
	)
	return a, nil
}

// dashboardService는 이력 DB 유무에 맞춰 대시보드 서비스를 만듭니다.
func (a *app) dashboardService() *dashboard.Service {
	if a.history == nil {
		return dashboard.NewService(a.ledger, nil)
	}
	return dashboard.NewService(a.ledger, a.history)
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func newGateway(cfg *config.Config) (message.Gateway, error) {
	switch cfg.Gateway {
	case "solapi":
		return message.NewSolapiGateway(cfg), nil
	case "twilio":
		return message.NewTwilioGateway(cfg), nil
	case "dryrun":
		log.Warn("[TEST] 테스트 모드: 메시지를 실제로 보내지 않고 로그만 출력합니다.")
		return message.NewDryRunGateway(), nil
	}
	return nil, fmt.Errorf("%w: gateway=%s", config.ErrInvalid, cfg.Gateway)
}

// repository는 환경 변수 설정을 우선하고, 없으면 Parameter Store의 repository 섹션을 씁니다.
func repository(cfg *config.Config, params *aws.Parameters) (aws.DBI, bool) {
	if cfg.Repository.Enabled() {
		r := cfg.Repository
		return aws.DBI{User: r.User, Password: r.Password, Endpoint: r.Endpoint, Port: r.Port, Database: r.Database}, true
	}
	if params != nil && params.Repository != nil {
		return *params.Repository, true
	}
	return aws.DBI{}, false
}
