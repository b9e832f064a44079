// Package dbtest menyediakan *gorm.DB dialek postgres tanpa koneksi (DryRun)
// untuk memeriksa SQL yang dibangun repository GORM.
package dbtest

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errDryRun = errors.New("dbtest: no database in dry run")

// Recorder mencatat setiap statement (vars sudah di-inline oleh dialek).
type Recorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *Recorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *Recorder) Info(context.Context, string, ...interface{})  {}
func (r *Recorder) Warn(context.Context, string, ...interface{})  {}
func (r *Recorder) Error(context.Context, string, ...interface{}) {}

func (r *Recorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	stmt, _ := fc()
	if stmt == "" {
		return
	}
	r.mu.Lock()
	r.stmts = append(r.stmts, stmt)
	r.mu.Unlock()
}

func (r *Recorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmts...)
}

// Find: statement pertama yang memuat semua potongan.
func (r *Recorder) Find(parts ...string) (string, bool) {
	for _, s := range r.Statements() {
		ok := true
		for _, p := range parts {
			if !strings.Contains(s, p) {
				ok = false
				break
			}
		}
		if ok {
			return s, true
		}
	}
	return "", false
}

// MustFind seperti Find, gagal jika tidak ada.
func (r *Recorder) MustFind(t *testing.T, parts ...string) string {
	t.Helper()
	s, ok := r.Find(parts...)
	require.Truef(t, ok, "no statement containing %q in:\n%s", parts, strings.Join(r.Statements(), "\n"))
	return s
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.stmts = nil
	r.mu.Unlock()
}

// conn: ConnPool yang tidak pernah dipakai untuk eksekusi (DryRun), hanya
// membuka transaksi supaya db.Transaction tetap berjalan.
type conn struct{}

func (*conn) PrepareContext(context.Context, string) (*sql.Stmt, error) { return nil, errDryRun }
func (*conn) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errDryRun
}
func (*conn) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errDryRun
}
func (*conn) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (*conn) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &tx{}, nil
}

type tx struct{}

func (*tx) PrepareContext(context.Context, string) (*sql.Stmt, error) { return nil, errDryRun }
func (*tx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errDryRun
}
func (*tx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errDryRun
}
func (*tx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (*tx) Commit() error                                                    { return nil }
func (*tx) Rollback() error                                                  { return nil }

// Open: *gorm.DB postgres DryRun + Recorder.
func Open(t *testing.T) (*gorm.DB, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: &conn{}}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	require.NoError(t, err)
	return db, rec
}

// InsertedValues memetakan kolom → nilai (ter-inline) dari INSERT satu baris.
// Nilai tidak boleh mengandung koma.
func InsertedValues(t *testing.T, stmt string) map[string]string {
	t.Helper()
	open := strings.Index(stmt, "(")
	closeCols := strings.Index(stmt, ") VALUES (")
	require.True(t, open >= 0 && closeCols > open, "not an INSERT: %s", stmt)

	rest := stmt[closeCols+len(") VALUES ("):]
	end := strings.Index(rest, ")")
	require.True(t, end >= 0, "unterminated VALUES: %s", stmt)

	cols := strings.Split(stmt[open+1:closeCols], ",")
	vals := strings.Split(rest[:end], ",")
	require.Len(t, vals, len(cols), "column/value count: %s", stmt)

	out := make(map[string]string, len(cols))
	for i, c := range cols {
		out[strings.Trim(strings.TrimSpace(c), `"`)] = strings.TrimSpace(vals[i])
	}
	return out
}
