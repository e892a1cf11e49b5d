package persistence

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"EntityFactory/modules/kit/logx"

	"go.uber.org/zap"
)

// errPending 表示被引用实体已登记但本次 Flush 还没写到它。
var errPending = errors.New("persistence: referenced entity not written yet")

// UnitOfWork 实现工厂的 Persister 端口。
//
// 实体以指针身份区分；主键只保存在身份表里。
type UnitOfWork struct {
	mu     sync.Mutex
	schema *Schema
	store  Store
	logger logx.Logger

	staged    []any
	stagedSet map[any]struct{}
	ids       map[any]int64
	byID      map[string]map[int64]any
}

type Option func(*UnitOfWork)

func WithLogger(l logx.Logger) Option {
	return func(u *UnitOfWork) { u.logger = l }
}

func NewUnitOfWork(schema *Schema, store Store, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		schema:    schema,
		store:     store,
		stagedSet: make(map[any]struct{}),
		ids:       make(map[any]int64),
		byID:      make(map[string]map[int64]any),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.logger == nil {
		u.logger = logx.Nop()
	}
	return u
}

// Persist 登记实体，重复登记或已被管理的实体直接忽略。
func (u *UnitOfWork) Persist(_ context.Context, entity any) error {
	if isNil(entity) {
		return ErrUnmappedEntity.WithMsg("cannot persist nil")
	}
	if _, err := u.schema.MappingFor(entity); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.containsLocked(entity) {
		return nil
	}
	u.staged = append(u.staged, entity)
	u.stagedSet[entity] = struct{}{}
	return nil
}

func (u *UnitOfWork) Contains(entity any) bool {
	if isNil(entity) {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.containsLocked(entity)
}

func (u *UnitOfWork) containsLocked(entity any) bool {
	if _, ok := u.stagedSet[entity]; ok {
		return true
	}
	_, ok := u.ids[entity]
	return ok
}

// IDOf 返回已写入实体的主键。
func (u *UnitOfWork) IDOf(entity any) (int64, bool) {
	if isNil(entity) {
		return 0, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	id, ok := u.ids[entity]
	return id, ok
}

// Find 只在身份表里查找，不从存储加载。
func (u *UnitOfWork) Find(_ context.Context, model string, id int64) (any, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if e, ok := u.byID[model][id]; ok {
		return e, nil
	}
	return nil, ErrNotFound.
		WithMsgf("%s#%d is not managed", model, id).
		WithData("model", model).
		WithData("id", id)
}

// Pending 返回尚未 Flush 的实体数量。
func (u *UnitOfWork) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.staged)
}

// Clear 丢弃登记和身份表，已写入存储的数据不受影响。
func (u *UnitOfWork) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = nil
	u.stagedSet = make(map[any]struct{})
	u.ids = make(map[any]int64)
	u.byID = make(map[string]map[int64]any)
}

// Flush 先整体校验引用，再在一次存储写入里按依赖顺序插入实体，最后写关联行。
// 任何一步失败都不会改变身份表，登记的实体保持原样。
func (u *UnitOfWork) Flush(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.staged) == 0 {
		return nil
	}

	if err := u.validate(); err != nil {
		return err
	}

	assigned := make(map[any]int64, len(u.staged))
	err := u.store.Flush(ctx, func(w Writer) error {
		if err := u.writeEntities(ctx, w, assigned); err != nil {
			return err
		}
		return u.writeJoins(ctx, w, assigned)
	})
	if err != nil {
		return err
	}

	for _, e := range u.staged {
		m, _ := u.schema.MappingFor(e)
		id := assigned[e]
		u.ids[e] = id
		if u.byID[m.Model] == nil {
			u.byID[m.Model] = make(map[int64]any)
		}
		u.byID[m.Model][id] = e
	}
	u.logger.WithContext(ctx).Debug("unit of work flushed", zap.Int("entities", len(u.staged)))
	u.staged = nil
	u.stagedSet = make(map[any]struct{})
	return nil
}

func (u *UnitOfWork) validate() error {
	refs := checkRefs{u: u}
	for _, e := range u.staged {
		m, err := u.schema.MappingFor(e)
		if err != nil {
			return err
		}
		refs.owner = m.Model
		if _, err := m.Record(e, refs); err != nil {
			return err
		}
		if m.Joins == nil {
			continue
		}
		for _, j := range m.Joins(e) {
			for _, peer := range j.Peers {
				if _, err := refs.ID(j.Table, peer); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeEntities 每轮写入所有引用已就绪的实体；某一轮没有进展说明存在引用环。
func (u *UnitOfWork) writeEntities(ctx context.Context, w Writer, assigned map[any]int64) error {
	pending := u.staged
	for len(pending) > 0 {
		var next []any
		for _, e := range pending {
			m, err := u.schema.MappingFor(e)
			if err != nil {
				return err
			}
			rec, err := m.Record(e, writeRefs{u: u, assigned: assigned, owner: m.Model})
			if errors.Is(err, errPending) {
				next = append(next, e)
				continue
			}
			if err != nil {
				return err
			}
			id, err := w.Insert(ctx, m, rec)
			if err != nil {
				return err
			}
			assigned[e] = id
		}
		if len(next) == len(pending) {
			m, _ := u.schema.MappingFor(next[0])
			return ErrReferentialIntegrity.
				WithMsgf("circular references between new %s entities cannot be ordered", m.Model).
				WithData("model", m.Model)
		}
		pending = next
	}
	return nil
}

func (u *UnitOfWork) writeJoins(ctx context.Context, w Writer, assigned map[any]int64) error {
	for _, e := range u.staged {
		m, _ := u.schema.MappingFor(e)
		if m.Joins == nil {
			continue
		}
		for _, j := range m.Joins(e) {
			for _, peer := range j.Peers {
				peerID, ok := assigned[peer]
				if !ok {
					peerID = u.ids[peer]
				}
				row := JoinRow{
					Table:       j.Table,
					OwnerColumn: j.OwnerColumn,
					PeerColumn:  j.PeerColumn,
					OwnerID:     assigned[e],
					PeerID:      peerID,
				}
				if err := w.Link(ctx, row); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func violation(owner, field string, entity any) error {
	return ErrReferentialIntegrity.
		WithMsgf("a new entity was found through the relationship %s#%s that was not configured to cascade persist: %T", owner, field, entity).
		WithData("model", owner).
		WithData("relationship", field)
}

// checkRefs 只校验被引用实体是否已登记或已被管理。
type checkRefs struct {
	u     *UnitOfWork
	owner string
}

func (r checkRefs) ID(field string, entity any) (int64, error) {
	if !r.u.containsLocked(entity) {
		return 0, violation(r.owner, field, entity)
	}
	return r.u.ids[entity], nil
}

type writeRefs struct {
	u        *UnitOfWork
	assigned map[any]int64
	owner    string
}

func (r writeRefs) ID(field string, entity any) (int64, error) {
	if id, ok := r.u.ids[entity]; ok {
		return id, nil
	}
	if id, ok := r.assigned[entity]; ok {
		return id, nil
	}
	if _, ok := r.u.stagedSet[entity]; ok {
		return 0, errPending
	}
	return 0, violation(r.owner, field, entity)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
