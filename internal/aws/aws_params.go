package aws

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sizzlei/confloader"

	"reserving/internal/config"
)

// ErrMissingParam은 Parameter Store 값에 필수 키가 없을 때 반환됩니다.
var ErrMissingParam = errors.New("aws: parameter store 필수 키 누락")

// Parameters는 Parameter Store 한 키에서 읽은 설정 묶음입니다.
//
//	solapi:
//	  ApiKey: ...
//	  ApiSecret: ...
//	repository:      (선택)
//	  User / Password / Endpoint / Port / Database
type Parameters struct {
	Solapi     config.Secrets
	Repository *DBI
}

// LoadParameters는 region의 Parameter Store에서 key를 읽습니다.
func LoadParameters(region, key string) (*Parameters, error) {
	conf, err := confloader.AWSParamLoader(region, key)
	if err != nil {
		return nil, fmt.Errorf("parameter store(%s) 로드 실패: %w", key, err)
	}

	secrets, err := parseSolapi(conf.Keyload("solapi"))
	if err != nil {
		return nil, err
	}
	p := &Parameters{Solapi: secrets}

	if repo := conf.Keyload("repository"); len(repo) > 0 {
		dbi, err := parseDBI(repo)
		if err != nil {
			return nil, err
		}
		p.Repository = &dbi
	}
	return p, nil
}

func parseSolapi(m map[string]interface{}) (config.Secrets, error) {
	key, ok1 := m["ApiKey"].(string)
	secret, ok2 := m["ApiSecret"].(string)
	if !ok1 || !ok2 {
		return config.Secrets{}, fmt.Errorf("%w: solapi.ApiKey, solapi.ApiSecret", ErrMissingParam)
	}
	return config.Secrets{SolapiAPIKey: key, SolapiAPISecret: secret}, nil
}

func parseDBI(m map[string]interface{}) (DBI, error) {
	dbi := DBI{Port: 3306}
	for _, k := range []string{"User", "Password", "Endpoint", "Database"} {
		if _, ok := m[k].(string); !ok {
			return DBI{}, fmt.Errorf("%w: repository.%s", ErrMissingParam, k)
		}
	}
	dbi.User = m["User"].(string)
	dbi.Password = m["Password"].(string)
	dbi.Endpoint = m["Endpoint"].(string)
	dbi.Database = m["Database"].(string)

	switch v := m["Port"].(type) {
	case nil:
	case int:
		dbi.Port = v
	case float64:
		dbi.Port = int(v)
	case string:
		p, err := strconv.Atoi(v)
		if err != nil {
			return DBI{}, fmt.Errorf("%w: repository.Port=%q", ErrMissingParam, v)
		}
		dbi.Port = p
	default:
		return DBI{}, fmt.Errorf("%w: repository.Port(%T)", ErrMissingParam, v)
	}
	return dbi, nil
}
