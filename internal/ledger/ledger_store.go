package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNotFound는 장부 파일이 없을 때 반환됩니다.
	ErrNotFound = errors.New("ledger: 장부 파일이 없습니다")
	// ErrMissingColumn은 필수 컬럼이 헤더에 없을 때 반환됩니다.
	ErrMissingColumn = errors.New("ledger: 필수 컬럼 누락")
)

// Store는 CSV 장부 파일(UTF-8 BOM)의 읽기/쓰기를 담당합니다.
type Store struct {
	path string
}

// NewStore는 새 Store를 생성합니다.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path는 장부 파일 경로를 반환합니다.
func (s *Store) Path() string { return s.path }

// Read는 장부 전체를 읽습니다. BOM은 있든 없든 제거됩니다.
func (s *Store) Read() (*Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s (빈 파일)", ErrMissingColumn, s.path)
		}
		return nil, fmt.Errorf("%s 헤더 읽기 실패: %w", s.path, err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s 읽기 실패: %w", s.path, err)
	}

	l := New(header, records)
	if missing := l.MissingColumns(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrMissingColumn, strings.Join(missing, ", "), s.path)
	}
	return l, nil
}

// Write는 헤더와 모든 행을 BOM 포함 UTF-8, CRLF 줄바꿈으로 다시 씁니다.
// 같은 디렉터리의 임시 파일에 쓴 뒤 교체하므로 중간 상태가 남지 않습니다.
func (s *Store) Write(l *Ledger) error {
	mode := os.FileMode(0o644)
	if st, err := os.Stat(s.path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("임시 파일 생성 실패: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s 교체 실패: %w", s.path, err)
	}
	log.Debugf("[Ledger] %s 저장 완료 (%d행)", s.path, len(l.Rows))
	return nil
}

func encode(w io.Writer, l *Ledger) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)
	cw.UseCRLF = true
	if err := cw.Write(l.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(l.Records()); err != nil {
		return err
	}
	return tw.Close()
}
