package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // 컨테이너에 zoneinfo가 없어도 Asia/Seoul 사용

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissingKey는 필수 JSON 키가 없을 때 반환됩니다.
	ErrMissingKey = errors.New("config: 필수 항목 누락")
	// ErrInvalid는 설정 값이 잘못되었을 때 반환됩니다.
	ErrInvalid = errors.New("config: 잘못된 설정 값")
)

// 기본값
const (
	DefaultTimezone    = "Asia/Seoul"
	DefaultSyncCommand = "python3 script/sync_csv_to_notion.py"
	DefaultWatchSpec   = "@every 10m"
	DefaultServerPort  = "3000"
)

// SecretsLoader는 secret.json 대신 다른 곳(Parameter Store 등)에서 인증 정보를 읽습니다.
type SecretsLoader func() (Secrets, error)

// Options는 Load에 전달되는 실행 옵션입니다.
type Options struct {
	BaseDir string
	// Secrets가 nil이면 '<BaseDir>/secret.json'을 읽습니다.
	Secrets SecretsLoader
	// DryRun이 true이면 게이트웨이 설정과 무관하게 로그만 출력합니다.
	DryRun bool
}

// DefaultPaths는 BaseDir 기준 기본 파일 배치를 반환합니다.
func DefaultPaths(baseDir string) Paths {
	return Paths{
		BaseDir:       baseDir,
		Secrets:       filepath.Join(baseDir, "secret.json"),
		MessageConfig: filepath.Join(baseDir, "assets", "message_config.json"),
		Members:       filepath.Join(baseDir, "assets", "member.json"),
		Ledger:        filepath.Join(baseDir, "assets", "000_DB.csv"),
	}
}

// Load는 .env, 인증 정보, 메시지 설정, 담당자 명단을 읽어 Config를 만듭니다.
// 어느 하나라도 실패하면 에러를 반환하며, 호출자는 프로세스를 종료해야 합니다.
func Load(opts Options) (*Config, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	// .env는 선택 사항 (없으면 환경 변수만 사용)
	envPath := filepath.Join(baseDir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s 로드 실패: %w", envPath, err)
	}

	cfg := &Config{Paths: DefaultPaths(baseDir)}
	if v := getenv("RESERVING_LEDGER_PATH", ""); v != "" {
		cfg.Paths.Ledger = v
	}

	// 세 문서를 병렬로 읽습니다.
	var eg errgroup.Group
	eg.Go(func() error {
		if opts.Secrets != nil {
			s, err := opts.Secrets()
			if err != nil {
				return fmt.Errorf("인증 정보 로드 실패: %w", err)
			}
			cfg.Secrets = s
			return nil
		}
		s, err := loadSecrets(cfg.Paths.Secrets)
		if err != nil {
			return err
		}
		cfg.Secrets = s
		return nil
	})
	eg.Go(func() error {
		m, err := loadMessageConfig(cfg.Paths.MessageConfig)
		if err != nil {
			return err
		}
		cfg.Message = m
		return nil
	})
	eg.Go(func() error {
		members, err := loadMembers(cfg.Paths.Members)
		if err != nil {
			return err
		}
		cfg.Members = members
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(opts.DryRun); err != nil {
		return nil, err
	}

	log.Debugf("[Config] %s", cfg)
	return cfg, nil
}

func (c *Config) applyEnv(dryRun bool) error {
	tz := getenv("RESERVING_TIMEZONE", DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("%w: RESERVING_TIMEZONE=%s: %v", ErrInvalid, tz, err)
	}
	c.Location = loc

	c.DefaultDuration = 2 * time.Hour
	if v := getenv("RESERVING_DEFAULT_DURATION", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: RESERVING_DEFAULT_DURATION=%s", ErrInvalid, v)
		}
		c.DefaultDuration = d
	}

	c.Gateway = strings.ToLower(getenv("RESERVING_GATEWAY", "solapi"))
	switch {
	case dryRun:
		c.Gateway = "dryrun"
	case c.Gateway == "solapi" && c.TestMode():
		log.Warn("[Config] Solapi 인증 정보가 비어 있어 테스트 모드(dryrun)로 동작합니다.")
		c.Gateway = "dryrun"
	}
	switch c.Gateway {
	case "solapi", "twilio", "dryrun":
	default:
		return fmt.Errorf("%w: RESERVING_GATEWAY=%s", ErrInvalid, c.Gateway)
	}

	c.GatePolicy = strings.ToLower(getenv("RESERVING_GATE_POLICY", "attempted"))
	switch c.GatePolicy {
	case "attempted", "assigned":
	default:
		return fmt.Errorf("%w: RESERVING_GATE_POLICY=%s", ErrInvalid, c.GatePolicy)
	}

	c.SyncCommand = strings.Fields(getenv("RESERVING_SYNC_COMMAND", DefaultSyncCommand))
	c.SyncTimeout = 5 * time.Minute
	if v := getenv("RESERVING_SYNC_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: RESERVING_SYNC_TIMEOUT=%s", ErrInvalid, v)
		}
		c.SyncTimeout = d
	}

	c.Twilio = Twilio{
		AccountSID:          getenv("TWILIO_ACCOUNT_SID", ""),
		AuthToken:           getenv("TWILIO_AUTH_TOKEN", ""),
		From:                getenv("TWILIO_FROM_NUMBER", ""),
		MessagingServiceSID: getenv("TWILIO_MESSAGING_SERVICE_SID", ""),
	}
	if c.Gateway == "twilio" {
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" {
			return fmt.Errorf("%w: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN", ErrMissingKey)
		}
		// 문자 게이트웨이는 로컬 본문으로만 보낼 수 있음
		if missing := c.Message.Bodies.missing(); len(missing) > 0 {
			return fmt.Errorf("%w: RESERVING_GATEWAY=twilio 는 bodies.%s 가 필요합니다",
				ErrMissingKey, strings.Join(missing, ", bodies."))
		}
	}

	c.Slack = Slack{
		Token:   getenv("RESERVING_SLACK_TOKEN", ""),
		Channel: getenv("RESERVING_SLACK_CHANNEL", ""),
	}

	port := 3306
	if v := getenv("RESERVING_DB_PORT", ""); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: RESERVING_DB_PORT=%s", ErrInvalid, v)
		}
		port = p
	}
	c.Repository = Repository{
		User:     getenv("RESERVING_DB_USER", ""),
		Password: getenv("RESERVING_DB_PASSWORD", ""),
		Endpoint: getenv("RESERVING_DB_ENDPOINT", ""),
		Port:     port,
		Database: getenv("RESERVING_DB_NAME", "reserving"),
	}

	c.Server = Server{
		Port:       getenv("SERVER_PORT", DefaultServerPort),
		AdminToken: getenv("RESERVING_ADMIN_TOKEN", ""),
		WatchSpec:  getenv("RESERVING_WATCH_SPEC", DefaultWatchSpec),
	}
	return nil
}

func loadSecrets(path string) (Secrets, error) {
	var raw struct {
		APIKey    *string `json:"solapi_api_key"`
		APISecret *string `json:"solapi_api_secret"`
	}
	if err := readJSON(path, &raw); err != nil {
		return Secrets{}, err
	}
	if raw.APIKey == nil || raw.APISecret == nil {
		return Secrets{}, fmt.Errorf("%w: %s (solapi_api_key, solapi_api_secret)", ErrMissingKey, path)
	}
	return Secrets{SolapiAPIKey: *raw.APIKey, SolapiAPISecret: *raw.APISecret}, nil
}

func loadMessageConfig(path string) (MessageConfig, error) {
	var m MessageConfig
	if err := readJSON(path, &m); err != nil {
		return MessageConfig{}, err
	}
	var missing []string
	if m.PfID == "" {
		missing = append(missing, "pf_id")
	}
	if m.SenderNumber == "" {
		missing = append(missing, "sender_number")
	}
	for _, k := range m.Templates.missing() {
		missing = append(missing, "templates."+k)
	}
	if len(missing) > 0 {
		return MessageConfig{}, fmt.Errorf("%w: %s (%s)", ErrMissingKey, path, strings.Join(missing, ", "))
	}
	return m, nil
}

func loadMembers(path string) ([]Member, error) {
	var members []Member
	if err := readJSON(path, &members); err != nil {
		return nil, err
	}
	valid := members[:0]
	for i, m := range members {
		if m.Name == "" || m.Phone == "" {
			log.Warnf("[WARN] [Config] %s [%d] 이름 또는 번호가 비어 있어 건너뜁니다. (name=%q)", path, i, m.Name)
			continue
		}
		valid = append(valid, m)
	}
	return valid, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%s 읽기 실패: %w", path, err)
	}
	// UTF-8 BOM 허용
	b = []byte(strings.TrimPrefix(string(b), "\ufeff"))
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s JSON 파싱 실패: %w", path, err)
	}
	return nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
