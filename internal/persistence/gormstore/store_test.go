package gormstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"EntityFactory/internal/persistence"
	"EntityFactory/internal/shared/infrastructure/db"
	"EntityFactory/internal/shared/serverconfig"
	"EntityFactory/modules/kit/errx"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type owner struct{ name string }

type toy struct{ name string }

type pet struct {
	name  string
	owner *owner
	toys  []*toy
}

type ownerRecord struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Name string
}

func (ownerRecord) TableName() string { return "owners" }
func (r *ownerRecord) GetID() int64   { return r.ID }
func (r *ownerRecord) SetID(id int64) { r.ID = id }

type toyRecord struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Name string
}

func (toyRecord) TableName() string { return "toys" }
func (r *toyRecord) GetID() int64   { return r.ID }
func (r *toyRecord) SetID(id int64) { r.ID = id }

type petRecord struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	Name    string
	OwnerID int64
}

func (petRecord) TableName() string { return "pets" }
func (r *petRecord) GetID() int64   { return r.ID }
func (r *petRecord) SetID(id int64) { r.ID = id }

type petToy struct {
	PetID int64 `gorm:"primaryKey"`
	ToyID int64 `gorm:"primaryKey"`
}

func (petToy) TableName() string { return "pet_toys" }

func testSchema() *persistence.Schema {
	return persistence.NewSchema(
		persistence.Map("Owner", "owners", func(o *owner, _ persistence.Refs) (*ownerRecord, error) {
			return &ownerRecord{Name: o.name}, nil
		}, nil),
		persistence.Map("Toy", "toys", func(t *toy, _ persistence.Refs) (*toyRecord, error) {
			return &toyRecord{Name: t.name}, nil
		}, nil),
		persistence.Map("Pet", "pets", func(p *pet, refs persistence.Refs) (*petRecord, error) {
			id, err := refs.ID("owner", p.owner)
			if err != nil {
				return nil, err
			}
			return &petRecord{Name: p.name, OwnerID: id}, nil
		}, func(p *pet) []persistence.Join {
			peers := make([]any, 0, len(p.toys))
			for _, t := range p.toys {
				peers = append(peers, t)
			}
			return []persistence.Join{{Table: "pet_toys", OwnerColumn: "pet_id", PeerColumn: "toy_id", Peers: peers}}
		}),
	)
}

func openStub(t *testing.T) (*gorm.DB, *stubConn) {
	t.Helper()
	sqlDB, conn := newStubDB()
	gdb, err := db.OpenDialector(gmysql.New(gmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), serverconfig.MySQLConfig{})
	if err != nil {
		t.Fatalf("打开 stub 数据库失败: %v", err)
	}
	return gdb, conn
}

func TestFlush_一个事务内按依赖顺序插入并回填主键(t *testing.T) {
	ctx := context.Background()
	gdb, conn := openStub(t)
	uow := New(gdb, testSchema())

	o := &owner{name: "liu"}
	t1 := &toy{name: "ball"}
	p := &pet{name: "dilu", owner: o, toys: []*toy{t1}}
	for _, e := range []any{o, p, t1} {
		if err := uow.Persist(ctx, e); err != nil {
			t.Fatalf("Persist 失败: %v", err)
		}
	}
	if err := uow.Flush(ctx); err != nil {
		t.Fatalf("Flush 失败: %v", err)
	}

	if conn.begins != 1 || conn.commits != 1 {
		t.Fatalf("期望一次事务，begins=%d commits=%d", conn.begins, conn.commits)
	}
	got := conn.inserts()
	want := []string{"owners", "pets", "toys", "pet_toys"}
	if len(got) != len(want) {
		t.Fatalf("INSERT 顺序不符合预期: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("INSERT 顺序不符合预期: %v", got)
		}
	}
	if id, ok := uow.IDOf(p); !ok || id != 1 {
		t.Fatalf("期望回填 pet 主键 1，got=%d", id)
	}
	link := conn.args[len(conn.args)-1]
	if len(link) != 2 || link[0] != int64(1) || link[1] != int64(1) {
		t.Fatalf("关联行参数不符合预期: %v", link)
	}
}

func TestFlush_写入失败时回滚且登记保持不变(t *testing.T) {
	ctx := context.Background()
	gdb, conn := openStub(t)
	conn.failTable = "pets"
	uow := New(gdb, testSchema())

	o := &owner{name: "cao"}
	_ = uow.Persist(ctx, o)
	_ = uow.Persist(ctx, &pet{name: "jueying", owner: o})

	err := uow.Flush(ctx)
	if !errors.Is(err, errx.ErrUnavailable) {
		t.Fatalf("期望 ErrUnavailable，got=%v", err)
	}
	if conn.rollbacks != 1 || conn.commits != 0 {
		t.Fatalf("期望回滚，rollbacks=%d commits=%d", conn.rollbacks, conn.commits)
	}
	if uow.Pending() != 2 {
		t.Fatalf("失败后登记的实体应保持不变，got=%d", uow.Pending())
	}
	if _, ok := uow.IDOf(o); ok {
		t.Fatalf("失败后不应记录主键")
	}
}

func TestFlush_引用校验失败时不开启事务(t *testing.T) {
	ctx := context.Background()
	gdb, conn := openStub(t)
	uow := New(gdb, testSchema())

	_ = uow.Persist(ctx, &pet{name: "orphan", owner: &owner{}})
	if err := uow.Flush(ctx); !errors.Is(err, persistence.ErrReferentialIntegrity) {
		t.Fatalf("期望 ErrReferentialIntegrity，got=%v", err)
	}
	if conn.begins != 0 {
		t.Fatalf("校验失败时不应开启事务")
	}
}

// 需要真实 MySQL：FACTORY_MYSQL_DSN=user:pass@tcp(127.0.0.1:3306)/factory_test?parseTime=True
func TestFlush_真实MySQL(t *testing.T) {
	dsn := os.Getenv("FACTORY_MYSQL_DSN")
	if dsn == "" {
		t.Skip("FACTORY_MYSQL_DSN 未设置")
	}
	ctx := context.Background()
	gdb, err := db.OpenDialector(gmysql.Open(dsn), serverconfig.MySQLConfig{})
	if err != nil {
		t.Fatalf("连接 MySQL 失败: %v", err)
	}
	// 表结构由测试自己准备，store 不负责建表。
	if err := gdb.WithContext(ctx).AutoMigrate(&ownerRecord{}, &toyRecord{}, &petRecord{}, &petToy{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	uow := persistence.NewUnitOfWork(testSchema(), NewStore(gdb))
	o := &owner{name: "live"}
	_ = uow.Persist(ctx, o)
	_ = uow.Persist(ctx, &pet{name: "live-pet", owner: o})
	if err := uow.Flush(ctx); err != nil {
		t.Fatalf("Flush 失败: %v", err)
	}
	id, _ := uow.IDOf(o)
	var rec petRecord
	if err := gdb.Where("owner_id = ?", id).First(&rec).Error; err != nil {
		t.Fatalf("查询写入的 pet 失败: %v", err)
	}
}
