package gormstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync/atomic"
)

// stubConn 记录执行过的语句，INSERT 按表返回自增主键。
type stubConn struct {
	execs     []string
	args      [][]any
	lastID    map[string]int64
	begins    int
	commits   int
	rollbacks int
	failTable string
}

var stubSeq atomic.Int64

func newStubDB() (*sql.DB, *stubConn) {
	conn := &stubConn{lastID: make(map[string]int64)}
	name := fmt.Sprintf("stubmysql%d", stubSeq.Add(1))
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	return db, conn
}

type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }
func (c *stubConn) Close() error                        { return nil }
func (c *stubConn) Ping(context.Context) error          { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *stubConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	c.begins++
	return &stubTx{conn: c}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.execs = append(c.execs, query)
	vals := make([]any, 0, len(args))
	for _, a := range args {
		vals = append(vals, a.Value)
	}
	c.args = append(c.args, vals)

	table := insertTable(query)
	if table == "" {
		return driver.RowsAffected(0), nil
	}
	if table == c.failTable {
		return nil, fmt.Errorf("exec fail for %s", table)
	}
	c.lastID[table]++
	return stubResult{id: c.lastID[table]}, nil
}

func (c *stubConn) inserts() []string {
	var out []string
	for _, q := range c.execs {
		if t := insertTable(q); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func insertTable(query string) string {
	const prefix = "INSERT INTO `"
	if !strings.HasPrefix(strings.TrimSpace(query), prefix) {
		return ""
	}
	rest := strings.TrimPrefix(strings.TrimSpace(query), prefix)
	end := strings.Index(rest, "`")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

type stubResult struct {
	id int64
}

func (r stubResult) LastInsertId() (int64, error) { return r.id, nil }
func (r stubResult) RowsAffected() (int64, error) { return 1, nil }

type stubTx struct {
	conn *stubConn
}

func (t *stubTx) Commit() error {
	t.conn.commits++
	return nil
}

func (t *stubTx) Rollback() error {
	t.conn.rollbacks++
	return nil
}
