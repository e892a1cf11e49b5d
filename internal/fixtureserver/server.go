// Package fixtureserver 把工厂注册表暴露成 HTTP 接口，供外部测试（前端/端到端）造数据。
package fixtureserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"EntityFactory/internal/persistence"
	"EntityFactory/internal/shared/transport"
	"EntityFactory/modules/factory"
	"EntityFactory/modules/kit/errx"
	"EntityFactory/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RoutePrefix = "/__factory__"

// Presenter 把实体转成响应里的 JSON 值。
type Presenter interface {
	Present(entity any) map[string]any
}

type Server struct {
	registry  *factory.Registry
	finder    Finder
	presenter Presenter
	logger    logx.Logger
	metrics   *Metrics

	// 同一个 unit of work 不能被两个 Create 交错使用。
	mu sync.Mutex
}

type Option func(*Server)

// WithMetrics 开启请求统计，并挂载 GET /__factory__/metrics。
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

func New(registry *factory.Registry, finder Finder, presenter Presenter, logger logx.Logger, opts ...Option) *Server {
	s := &Server{registry: registry, finder: finder, presenter: presenter, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logx.Nop()
	}
	return s
}

// Register 挂载路由。
func (s *Server) Register(r gin.IRouter) {
	g := r.Group(RoutePrefix)
	g.GET("/factories", s.factories)
	g.POST("/make", s.build(false))
	g.POST("/create", s.build(true))
	if s.metrics != nil {
		g.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
}

func (s *Server) factories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"code": transport.OK, "data": s.registry.Names()})
}

func (s *Server) build(persist bool) gin.HandlerFunc {
	op := "make"
	if persist {
		op = "create"
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			s.fail(c, errx.ErrReqParamERR.WithMsgf("invalid json: %v", err))
			return
		}
		req, err := decodeRequest(body)
		if err != nil {
			s.fail(c, err)
			return
		}
		src, err := s.registry.Lookup(req.Factory)
		if err != nil {
			s.fail(c, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		attrs, err := resolveRefs(ctx, s.finder, req.Attributes)
		if err != nil {
			s.fail(c, err)
			return
		}
		var items []any
		if persist {
			items, err = src.CreateAny(ctx, req.count(), attrs)
		} else {
			items, err = src.MakeAny(ctx, req.count(), attrs)
		}
		s.metrics.observe(op, src.ModelName(), len(items), err, time.Since(start))
		if err != nil {
			s.fail(c, err)
			return
		}

		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			out = append(out, s.presenter.Present(it))
		}
		c.JSON(http.StatusOK, gin.H{
			"code": transport.OK,
			"data": gin.H{"factory": src.ModelName(), "items": out},
		})
	}
}

// fail 业务错误按拒绝记录，系统错误带栈记录。
func (s *Server) fail(c *gin.Context, err error) {
	ctx := c.Request.Context()
	action := transport.Action(ctx)
	status, code := classify(err)

	var e *errx.Error
	switch {
	case errors.As(err, &e) && !e.IsSys():
		logx.ReportBizWithLoggerContext(ctx, s.logger, logx.NewBizLog(action, e.CodeText(), e.Msg()))
	default:
		logx.ReportSysErrorWithLoggerContext(ctx, s.logger, logx.NewSysLog(action, err), zap.Int("status", status))
	}
	transport.SetBizCode(ctx, code)
	transport.SetErrorReason(ctx, err.Error())

	body := gin.H{"code": code, "msg": err.Error()}
	if e != nil {
		body["error"] = e.CodeText()
	}
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, transport.BizCode) {
	var e *errx.Error
	switch {
	case errors.Is(err, errx.ErrReqParamERR):
		return http.StatusBadRequest, transport.BadRequest
	case errors.Is(err, factory.ErrNotRegistered), errors.Is(err, persistence.ErrNotFound):
		return http.StatusNotFound, transport.NotFound
	case errors.As(err, &e) && !e.IsSys():
		return http.StatusUnprocessableEntity, transport.Unprocessable
	default:
		return http.StatusInternalServerError, transport.SystemError
	}
}
