// Package mongodb 用 mongo-driver 实现 unit of work 的存储后端。
//
// 主键在登记写入时由雪花算法生成，Flush 结束后按集合批量 InsertMany。
package mongodb

import (
	"context"

	"EntityFactory/internal/persistence"
	"EntityFactory/internal/shared/utils"
	"EntityFactory/modules/kit/errx"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// IDGenerator 生成全局唯一主键。
type IDGenerator interface {
	NextID() int64
}

type Store struct {
	db  *mongo.Database
	ids IDGenerator
}

func NewStore(db *mongo.Database, ids IDGenerator) *Store {
	return &Store{db: db, ids: ids}
}

// New 使用默认雪花生成器（节点号取自 SNOWFLAKE_NODE_ID）。
func New(db *mongo.Database, schema *persistence.Schema, opts ...persistence.Option) (*persistence.UnitOfWork, error) {
	gen, err := utils.DefaultSnowflake()
	if err != nil {
		return nil, err
	}
	return persistence.NewUnitOfWork(schema, NewStore(db, gen), opts...), nil
}

func (s *Store) Flush(ctx context.Context, fn func(w persistence.Writer) error) error {
	b := newBatch(s.ids)
	if err := fn(b); err != nil {
		return err
	}
	for _, coll := range b.order {
		if _, err := s.db.Collection(coll).InsertMany(ctx, b.docs[coll]); err != nil {
			return errx.ErrUnavailable.
				WithMsgf("insert into %s failed", coll).
				WithData("collection", coll).
				WithCause(err)
		}
	}
	return nil
}

// batch 按集合缓存文档，集合顺序即第一次写入的顺序。
type batch struct {
	ids   IDGenerator
	order []string
	docs  map[string][]any
}

func newBatch(ids IDGenerator) *batch {
	return &batch{ids: ids, docs: make(map[string][]any)}
}

func (b *batch) add(coll string, doc any) {
	if _, ok := b.docs[coll]; !ok {
		b.order = append(b.order, coll)
	}
	b.docs[coll] = append(b.docs[coll], doc)
}

func (b *batch) Insert(_ context.Context, m *persistence.Mapping, rec persistence.Record) (int64, error) {
	id := b.ids.NextID()
	rec.SetID(id)
	b.add(m.Table, rec)
	return id, nil
}

func (b *batch) Link(_ context.Context, row persistence.JoinRow) error {
	b.add(row.Table, bson.D{
		{Key: row.OwnerColumn, Value: row.OwnerID},
		{Key: row.PeerColumn, Value: row.PeerID},
	})
	return nil
}
