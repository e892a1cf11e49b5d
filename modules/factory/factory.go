// Package factory 根据声明式定义生成实体对象图，并通过 unit of work 持久化。
package factory

import (
	"context"
	"reflect"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// Source 是类型擦除后的工厂。
//
// 关系解析和注册表只看得到 Source；未导出的方法保证只有 *Factory[T] 能实现它。
type Source interface {
	ModelName() string
	MakeAny(ctx context.Context, count int, overrides map[string]any) ([]any, error)
	CreateAny(ctx context.Context, count int, overrides map[string]any) ([]any, error)

	recycled(s *session, p pool) (any, bool)
	inherit(p pool) Source
	bindParent(l parentLink) Source
	configure(count int, overrides map[string]any) Source
	createOneIn(s *session) (any, error)
	createAllIn(s *session) ([]any, error)
}

// state 在原始属性之上产出覆盖项，后加入的 state 优先。
type state func(raw Attributes, seq Seq) (map[string]any, error)

// Factory 是某个实体类型的工厂。所有派生方法都返回新的工厂，原工厂不变。
type Factory[T any] struct {
	bp            *Blueprint[T]
	definition    func(*gofakeit.Faker) Definition
	env           *env
	count         int
	hasCount      bool
	states        []state
	parents       []parentLink
	relations     []relationship
	pool          pool
	afterMaking   []func(T) error
	afterCreating []func(T) error
}

// Define 创建一个基础工厂。definition 每生成一个实例调用一次。
func Define[T any](bp Blueprint[T], definition func(*gofakeit.Faker) Definition, opts ...Option) *Factory[T] {
	return &Factory[T]{
		bp:         &bp,
		definition: definition,
		env:        newEnv(opts...),
	}
}

func (f *Factory[T]) ModelName() string {
	return f.bp.Name
}

func (f *Factory[T]) clone() *Factory[T] {
	c := *f
	return &c
}

func appendTo[E any](s []E, v ...E) []E {
	out := make([]E, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}

func (f *Factory[T]) withState(st state) *Factory[T] {
	c := f.clone()
	c.states = appendTo(f.states, st)
	return c
}

// State 追加一组固定覆盖项。
func (f *Factory[T]) State(overrides map[string]any) *Factory[T] {
	if len(overrides) == 0 {
		return f
	}
	return f.withState(func(Attributes, Seq) (map[string]any, error) {
		return overrides, nil
	})
}

// StateFunc 追加一个依赖当前原始属性的覆盖函数。
func (f *Factory[T]) StateFunc(fn func(Attributes) map[string]any) *Factory[T] {
	return f.withState(func(raw Attributes, _ Seq) (map[string]any, error) {
		return fn(raw), nil
	})
}

// For 绑定 belongs-to 父实体。source 是现成实例或工厂；
// 默认关系名是父类型基名的 camel 形式。
func (f *Factory[T]) For(source any, rel ...string) *Factory[T] {
	return f.bindParentLink(newParentLink(source, rel))
}

func (f *Factory[T]) bindParentLink(l parentLink) *Factory[T] {
	c := f.clone()
	c.parents = appendTo(f.parents, l)
	return c
}

// Has 在 Create 时为每个实例生成子实体并加入集合字段。
// 默认集合名是子类型基名的复数 camel 形式，子实体反向关系名是本类型基名的 camel 形式。
func (f *Factory[T]) Has(child Source, rel ...string) *Factory[T] {
	name := pluralRelation(child.ModelName())
	if len(rel) > 0 && rel[0] != "" {
		name = rel[0]
	}
	return f.HasAs(child, name, "")
}

// HasAs 同 Has，但显式给出子实体上的反向关系名。
func (f *Factory[T]) HasAs(child Source, rel, inverse string) *Factory[T] {
	if inverse == "" {
		inverse = singularRelation(f.bp.Name)
	}
	c := f.clone()
	c.relations = appendTo[relationship](f.relations, childLink{factory: child, name: rel, inverse: inverse})
	return c
}

// AttachedTo 建立多对多关系。peers 是工厂、Instances 或单个现成实例。
func (f *Factory[T]) AttachedTo(peers any, rel ...string) *Factory[T] {
	name := ""
	if len(rel) > 0 {
		name = rel[0]
	}
	return f.AttachedToAs(peers, name, "")
}

// AttachedToAs 同 AttachedTo，但显式给出对端上的反向集合名。
func (f *Factory[T]) AttachedToAs(peers any, rel, inverse string) *Factory[T] {
	link := peerLink{name: rel, inverse: inverse}
	switch v := peers.(type) {
	case Source:
		link.factory = v
		if link.name == "" {
			link.name = pluralRelation(v.ModelName())
		}
	default:
		link.instances = Instances(flatten(peers))
		if link.name == "" && len(link.instances) > 0 {
			link.name = pluralRelation(typeName(link.instances[0]))
		}
	}
	if link.inverse == "" {
		link.inverse = pluralRelation(f.bp.Name)
	}
	c := f.clone()
	c.relations = appendTo[relationship](f.relations, link)
	return c
}

// Count 指定每次调用生成的实例数，0 表示生成空结果。
func (f *Factory[T]) Count(n int) *Factory[T] {
	c := f.clone()
	c.count = max(n, 0)
	c.hasCount = true
	return c
}

func (f *Factory[T]) single() *Factory[T] {
	if !f.hasCount {
		return f
	}
	c := f.clone()
	c.count, c.hasCount = 0, false
	return c
}

// Recycle 提供可复用的实例，嵌套工厂和 For 绑定会优先从中取同类型实例。
func (f *Factory[T]) Recycle(items ...any) *Factory[T] {
	c := f.clone()
	for _, it := range items {
		c.pool = c.pool.with(flatten(it)...)
	}
	return c
}

func (f *Factory[T]) AfterMaking(fn func(T) error) *Factory[T] {
	c := f.clone()
	c.afterMaking = appendTo(f.afterMaking, fn)
	return c
}

// AfterCreating 在实例登记到 unit of work 之后、子关系生成之前调用。
func (f *Factory[T]) AfterCreating(fn func(T) error) *Factory[T] {
	c := f.clone()
	c.afterCreating = appendTo(f.afterCreating, fn)
	return c
}

// WithPersister 换一个持久化端口，其余环境保持不变。
func (f *Factory[T]) WithPersister(p Persister) *Factory[T] {
	c := f.clone()
	e := *f.env
	e.persister = p
	c.env = &e
	return c
}

func (f *Factory[T]) withOverrides(overrides []map[string]any) *Factory[T] {
	return f.State(mergeOverrides(overrides))
}

// Make 生成实例但不持久化。父实体若来自工厂，仍会被创建并持久化。
func (f *Factory[T]) Make(ctx context.Context, overrides ...map[string]any) ([]T, error) {
	g := f.withOverrides(overrides)
	return g.makeIn(newSession(ctx, g.env))
}

func (f *Factory[T]) MakeOne(ctx context.Context, overrides ...map[string]any) (T, error) {
	var zero T
	items, err := f.single().Make(ctx, overrides...)
	if err != nil {
		return zero, err
	}
	return items[0], nil
}

// Create 生成实例、登记持久化、生成子关系，最后 Flush 一次。
func (f *Factory[T]) Create(ctx context.Context, overrides ...map[string]any) ([]T, error) {
	g := f.withOverrides(overrides)
	return g.createIn(newSession(ctx, g.env))
}

func (f *Factory[T]) CreateOne(ctx context.Context, overrides ...map[string]any) (T, error) {
	var zero T
	items, err := f.single().Create(ctx, overrides...)
	if err != nil {
		return zero, err
	}
	return items[0], nil
}

// Raw 返回第一个实例展开后的属性，不构造实体。
func (f *Factory[T]) Raw(ctx context.Context, overrides ...map[string]any) (Attributes, error) {
	g := f.withOverrides(overrides)
	s := newSession(ctx, g.env)
	raw, err := g.rawAttributes(s, Seq{Index: 0, Count: 1})
	if err != nil {
		return Attributes{}, err
	}
	return expand(s, raw, g.pool)
}

func (f *Factory[T]) MakeAny(ctx context.Context, count int, overrides map[string]any) ([]any, error) {
	items, err := f.configure(count, overrides).(*Factory[T]).Make(ctx)
	if err != nil {
		return nil, err
	}
	return toAny(items), nil
}

func (f *Factory[T]) CreateAny(ctx context.Context, count int, overrides map[string]any) ([]any, error) {
	items, err := f.configure(count, overrides).(*Factory[T]).Create(ctx)
	if err != nil {
		return nil, err
	}
	return toAny(items), nil
}

func (f *Factory[T]) size() int {
	if !f.hasCount {
		return 1
	}
	return f.count
}

func (f *Factory[T]) rawAttributes(s *session, seq Seq) (Attributes, error) {
	var def Definition
	if f.definition != nil {
		def = f.definition(s.faker)
	}
	raw := newAttributes(def...)
	for _, l := range f.parents {
		raw.set(l.name, l.deferred(s, f.pool))
	}
	for _, st := range f.states {
		overrides, err := st(raw, seq)
		if err != nil {
			return Attributes{}, err
		}
		raw.merge(overrides)
	}
	return raw, nil
}

func (f *Factory[T]) makeInstance(s *session, seq Seq) (T, error) {
	var zero T
	raw, err := f.rawAttributes(s, seq)
	if err != nil {
		return zero, err
	}
	attrs, err := expand(s, raw, f.pool)
	if err != nil {
		return zero, err
	}
	inst, err := build(f.bp, attrs)
	if err != nil {
		return zero, err
	}
	for _, fn := range f.afterMaking {
		if err := fn(inst); err != nil {
			return zero, err
		}
	}
	return inst, nil
}

func (f *Factory[T]) makeIn(s *session) ([]T, error) {
	n := f.size()
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		inst, err := f.makeInstance(s, Seq{Index: i, Count: n})
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	s.logger.Debug("factory make", zap.String("model", f.bp.Name), zap.Int("count", n))
	return out, nil
}

// createIn 只有 session 里最外层的 Create 负责 Flush，嵌套 Create 只登记。
func (f *Factory[T]) createIn(s *session) ([]T, error) {
	if s.persister == nil {
		return nil, ErrNoPersister.WithData("model", f.bp.Name)
	}
	outermost := !s.creating
	if outermost {
		s.creating = true
		defer func() { s.creating = false }()
	}

	items, err := f.makeIn(s)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := s.persister.Persist(s.ctx, it); err != nil {
			return nil, err
		}
	}
	for _, it := range items {
		for _, fn := range f.afterCreating {
			if err := fn(it); err != nil {
				return nil, err
			}
		}
	}
	for _, it := range items {
		for _, r := range f.relations {
			if err := r.createFor(s, it, f.pool); err != nil {
				return nil, err
			}
		}
	}
	s.logger.Debug("factory create", zap.String("model", f.bp.Name), zap.Int("count", len(items)), zap.Bool("outermost", outermost))

	if outermost {
		if err := s.persister.Flush(s.ctx); err != nil {
			return nil, err
		}
		s.logger.Debug("factory flush", zap.String("model", f.bp.Name))
	}
	return items, nil
}

func (f *Factory[T]) recycled(s *session, p pool) (any, bool) {
	var hits []T
	for _, it := range f.pool.with(p...) {
		if v, ok := it.(T); ok {
			hits = append(hits, v)
		}
	}
	if len(hits) == 0 {
		return nil, false
	}
	return hits[s.pick(len(hits))], true
}

func (f *Factory[T]) inherit(p pool) Source {
	if len(p) == 0 {
		return f
	}
	c := f.clone()
	c.pool = f.pool.with(p...)
	return c
}

func (f *Factory[T]) bindParent(l parentLink) Source {
	return f.bindParentLink(l)
}

func (f *Factory[T]) configure(count int, overrides map[string]any) Source {
	g := f.State(overrides)
	if count >= 0 {
		g = g.Count(count)
	}
	return g
}

func (f *Factory[T]) createOneIn(s *session) (any, error) {
	items, err := f.single().createIn(s)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (f *Factory[T]) createAllIn(s *session) ([]any, error) {
	items, err := f.createIn(s)
	if err != nil {
		return nil, err
	}
	return toAny(items), nil
}

func toAny[T any](items []T) []any {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}

// flatten 把切片展开成元素列表，非切片值视为单个元素。
func flatten(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}
