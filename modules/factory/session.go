package factory

import (
	"context"

	"EntityFactory/modules/kit/logx"

	"github.com/brianvoe/gofakeit/v7"
)

// Persister 是工厂依赖的持久化端口（unit of work）。
//
// Persist 只登记实体，Flush 才真正写入；同一次顶层 Create 只会 Flush 一次。
type Persister interface {
	Persist(ctx context.Context, entity any) error
	Flush(ctx context.Context) error
	Contains(entity any) bool
	Find(ctx context.Context, model string, id int64) (any, error)
}

// env 是工厂的运行环境，派生出来的工厂共享同一个 env。
type env struct {
	persister Persister
	logger    logx.Logger
	faker     *gofakeit.Faker
}

type Option func(*env)

func WithPersister(p Persister) Option {
	return func(e *env) { e.persister = p }
}

func WithLogger(l logx.Logger) Option {
	return func(e *env) { e.logger = l }
}

// WithFaker 指定假数据生成器，传同一个种子可以得到可复现的数据。
func WithFaker(f *gofakeit.Faker) Option {
	return func(e *env) { e.faker = f }
}

func newEnv(opts ...Option) *env {
	e := &env{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logx.Nop()
	}
	if e.faker == nil {
		e.faker = gofakeit.New(0)
	}
	return e
}

// session 贯穿一次顶层 Make/Create 调用：
// belongs-to 的记忆表只在这里存活，creating 标记保证只有最外层 Create 会 Flush。
type session struct {
	ctx       context.Context
	persister Persister
	logger    logx.Logger
	faker     *gofakeit.Faker
	memo      map[Source]any
	creating  bool
}

func newSession(ctx context.Context, e *env) *session {
	if ctx == nil {
		ctx = context.Background()
	}
	return &session{
		ctx:       ctx,
		persister: e.persister,
		logger:    e.logger.WithContext(ctx),
		faker:     e.faker,
		memo:      make(map[Source]any),
	}
}

// pick 从 n 个候选里选一个，使用 faker 的随机源以便复现。
func (s *session) pick(n int) int {
	if n <= 1 {
		return 0
	}
	return s.faker.Number(0, n-1)
}
