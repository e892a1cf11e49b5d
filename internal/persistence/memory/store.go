// Package memory 是进程内存储，测试和 fixture 服务默认使用。
package memory

import (
	"context"
	"sort"
	"sync"

	"EntityFactory/internal/persistence"
)

// Store 按表保存记录，主键按表自增。一次 Flush 要么全部生效，要么全部丢弃。
type Store struct {
	mu     sync.RWMutex
	tables map[string][]persistence.Record
	links  map[string][]persistence.JoinRow
	nextID map[string]int64
}

func NewStore() *Store {
	return &Store{
		tables: make(map[string][]persistence.Record),
		links:  make(map[string][]persistence.JoinRow),
		nextID: make(map[string]int64),
	}
}

// New 返回一个基于内存存储的 unit of work。
func New(schema *persistence.Schema, opts ...persistence.Option) (*persistence.UnitOfWork, *Store) {
	s := NewStore()
	return persistence.NewUnitOfWork(schema, s, opts...), s
}

type batch struct {
	store  *Store
	nextID map[string]int64
	rows   []tableRecord
	links  []persistence.JoinRow
}

type tableRecord struct {
	table string
	rec   persistence.Record
}

func (b *batch) Insert(_ context.Context, m *persistence.Mapping, rec persistence.Record) (int64, error) {
	id, ok := b.nextID[m.Table]
	if !ok {
		id = b.store.nextID[m.Table]
	}
	id++
	b.nextID[m.Table] = id
	rec.SetID(id)
	b.rows = append(b.rows, tableRecord{table: m.Table, rec: rec})
	return id, nil
}

func (b *batch) Link(_ context.Context, row persistence.JoinRow) error {
	b.links = append(b.links, row)
	return nil
}

func (s *Store) Flush(ctx context.Context, fn func(w persistence.Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := &batch{store: s, nextID: make(map[string]int64)}
	if err := fn(b); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for table, id := range b.nextID {
		s.nextID[table] = id
	}
	for _, r := range b.rows {
		s.tables[r.table] = append(s.tables[r.table], r.rec)
	}
	for _, l := range b.links {
		s.links[l.Table] = append(s.links[l.Table], l)
	}
	return nil
}

// Rows 返回某张表的记录快照，按写入顺序。
func (s *Store) Rows(table string) []persistence.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]persistence.Record, len(s.tables[table]))
	copy(out, s.tables[table])
	return out
}

func (s *Store) Links(table string) []persistence.JoinRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]persistence.JoinRow, len(s.links[table]))
	copy(out, s.links[table])
	return out
}

func (s *Store) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tables))
	for t := range s.tables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}
