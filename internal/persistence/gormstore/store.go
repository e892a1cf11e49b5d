// Package gormstore 用 gorm 实现 unit of work 的存储后端，mysql 和 postgres 共用。
package gormstore

import (
	"context"

	"EntityFactory/internal/persistence"
	"EntityFactory/modules/kit/errx"

	"gorm.io/gorm"
)

// Store 在一个 gorm 事务里完成一次 Flush：实体按依赖顺序 INSERT，主键由数据库自增回填。
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func New(db *gorm.DB, schema *persistence.Schema, opts ...persistence.Option) *persistence.UnitOfWork {
	return persistence.NewUnitOfWork(schema, NewStore(db), opts...)
}

func (s *Store) Flush(ctx context.Context, fn func(w persistence.Writer) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&writer{tx: tx})
	})
}

type writer struct {
	tx *gorm.DB
}

func (w *writer) Insert(ctx context.Context, m *persistence.Mapping, rec persistence.Record) (int64, error) {
	if err := w.tx.WithContext(ctx).Table(m.Table).Create(rec).Error; err != nil {
		return 0, errx.ErrUnavailable.
			WithMsgf("insert into %s failed", m.Table).
			WithData("table", m.Table).
			WithCause(err)
	}
	return rec.GetID(), nil
}

func (w *writer) Link(ctx context.Context, row persistence.JoinRow) error {
	values := map[string]any{
		row.OwnerColumn: row.OwnerID,
		row.PeerColumn:  row.PeerID,
	}
	if err := w.tx.WithContext(ctx).Table(row.Table).Create(values).Error; err != nil {
		return errx.ErrUnavailable.
			WithMsgf("insert into %s failed", row.Table).
			WithData("table", row.Table).
			WithCause(err)
	}
	return nil
}
