package aws

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// DBI는 발송 이력 DB 접속 정보입니다.
type DBI struct {
	User     string
	Password string
	Endpoint string
	Port     int
	Database string
}

// DSN은 go-sql-driver/mysql 접속 문자열입니다.
func (i DBI) DSN() string {
	// parseTime=true: DATETIME -> time.Time, loc=Local: 저장/조회 시각을 로컬 기준으로
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=Local",
		i.User, i.Password, i.Endpoint, i.Port, i.Database)
}

func CreateConnection(i DBI) (*sqlx.DB, error) {
	db, err := sqlx.Connect("mysql", i.DSN())
	if err != nil {
		return nil, err
	}
	// 배치 한 번에 순차 INSERT만 하므로 연결은 적게 유지합니다.
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
