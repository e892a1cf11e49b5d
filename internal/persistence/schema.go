// Package persistence 是工厂使用的 unit of work：Persist 只登记，Flush 时校验引用并按顺序写入存储。
//
// 实体不暴露主键和外键，映射层（Mapping）负责把实体转换成存储记录，
// 主键由 unit of work 的身份表维护。
package persistence

import (
	"context"

	"EntityFactory/modules/kit/errx"
)

// Record 是写入存储的一行/一个文档。
type Record interface {
	GetID() int64
	SetID(id int64)
}

// Refs 在构造记录时解析被引用实体的主键。
// 被引用实体既未登记也未被管理时返回 ErrReferentialIntegrity。
type Refs interface {
	ID(field string, entity any) (int64, error)
}

// Join 描述拥有方实体上的一组多对多关联。
type Join struct {
	Table       string
	OwnerColumn string
	PeerColumn  string
	Peers       []any
}

// JoinRow 是写入关联表的一行。
type JoinRow struct {
	Table       string
	OwnerColumn string
	PeerColumn  string
	OwnerID     int64
	PeerID      int64
}

// Mapping 把一种实体类型映射到一张表/一个集合。
type Mapping struct {
	Model  string
	Table  string
	Match  func(entity any) bool
	Record func(entity any, refs Refs) (Record, error)
	Joins  func(entity any) []Join
}

// Map 用强类型函数构造 Mapping。
func Map[E any, R Record](model, table string, record func(E, Refs) (R, error), joins func(E) []Join) Mapping {
	m := Mapping{
		Model: model,
		Table: table,
		Match: func(entity any) bool {
			_, ok := entity.(E)
			return ok
		},
		Record: func(entity any, refs Refs) (Record, error) {
			rec, err := record(entity.(E), refs)
			if err != nil {
				return nil, err
			}
			return rec, nil
		},
	}
	if joins != nil {
		m.Joins = func(entity any) []Join {
			return joins(entity.(E))
		}
	}
	return m
}

// Schema 是一组 Mapping。
type Schema struct {
	mappings []Mapping
}

func NewSchema(mappings ...Mapping) *Schema {
	return &Schema{mappings: mappings}
}

func (s *Schema) Mappings() []Mapping {
	out := make([]Mapping, len(s.mappings))
	copy(out, s.mappings)
	return out
}

func (s *Schema) MappingFor(entity any) (*Mapping, error) {
	for i := range s.mappings {
		if s.mappings[i].Match(entity) {
			return &s.mappings[i], nil
		}
	}
	return nil, ErrUnmappedEntity.WithMsgf("no mapping for %T", entity)
}

func (s *Schema) ByModel(model string) (*Mapping, error) {
	for i := range s.mappings {
		if s.mappings[i].Model == model {
			return &s.mappings[i], nil
		}
	}
	return nil, ErrUnmappedEntity.WithMsgf("no mapping for model %s", model).WithData("model", model)
}

// Writer 是一次 Flush 内的写入口。
type Writer interface {
	// Insert 写入一条记录并返回主键。
	Insert(ctx context.Context, m *Mapping, rec Record) (int64, error)
	Link(ctx context.Context, row JoinRow) error
}

// Store 是具体的存储后端。fn 返回错误时本次写入必须整体作废。
type Store interface {
	Flush(ctx context.Context, fn func(w Writer) error) error
}

var (
	// ErrReferentialIntegrity 记录引用了一个既未 Persist 也未被管理的实体。
	ErrReferentialIntegrity = errx.NewBiz("PERSISTENCE_REFERENTIAL_INTEGRITY", "")
	ErrUnmappedEntity       = errx.NewBiz("PERSISTENCE_UNMAPPED_ENTITY", "")
	ErrNotFound             = errx.NewBiz("PERSISTENCE_NOT_FOUND", "")
)
