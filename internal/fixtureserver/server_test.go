package fixtureserver

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"EntityFactory/internal/persistence/memory"
	transporthttp "EntityFactory/internal/shared/transport/http"
	"EntityFactory/internal/workbench/factories"
	"EntityFactory/internal/workbench/record"
	"EntityFactory/modules/factory"
	"EntityFactory/modules/kit/logx"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type response struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Error string `json:"error"`
	Data  struct {
		Factory string           `json:"factory"`
		Items   []map[string]any `json:"items"`
	} `json:"data"`
}

type harness struct {
	handler http.Handler
	store   *memory.Store
	metrics *Metrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	uow, store := memory.New(record.Schema())
	set := factories.New(factory.WithPersister(uow), factory.WithFaker(gofakeit.New(3)))
	logger := logx.Nop()

	metrics := NewMetrics()
	srv := transporthttp.NewHttpServer(":0", gin.New(), logger)
	New(set.Registry, uow, record.NewPresenter(uow), logger, WithMetrics(metrics)).Register(srv.Engine())
	return &harness{handler: srv.Handler(), store: store, metrics: metrics}
}

func (h *harness) post(t *testing.T, path, body string) (int, response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, RoutePrefix+path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.handler.ServeHTTP(w, req)

	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestCreate_写入存储并返回主键(t *testing.T) {
	h := newHarness(t)

	status, resp := h.post(t, "/create", `{"factory":"Post","count":2,"attributes":{"title":"hello"}}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, resp.Code)
	require.Equal(t, "Post", resp.Data.Factory)
	require.Len(t, resp.Data.Items, 2)
	for _, it := range resp.Data.Items {
		require.Equal(t, "hello", it["title"])
		require.NotNil(t, it["id"])
		require.NotNil(t, it["user_id"])
	}
	require.Len(t, h.store.Rows("posts"), 2)
	require.Len(t, h.store.Rows("users"), 2)
}

func TestCreate_通过引用使用已有实体(t *testing.T) {
	h := newHarness(t)

	_, created := h.post(t, "/create", `{"factory":"Post"}`)
	require.Len(t, created.Data.Items, 1)
	postID := created.Data.Items[0]["id"]

	status, resp := h.post(t, "/create",
		`{"factory":"Comment","attributes":{"body":"nice","post":{"$ref":{"model":"Post","id":1}}}}`)
	require.Equal(t, http.StatusOK, status, resp.Msg)
	require.Equal(t, postID, resp.Data.Items[0]["post_id"])
	require.Len(t, h.store.Rows("posts"), 1)
}

func TestMake_不写入存储(t *testing.T) {
	h := newHarness(t)

	status, resp := h.post(t, "/make", `{"factory":"User","count":3}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, resp.Data.Items, 3)
	for _, it := range resp.Data.Items {
		require.NotContains(t, it, "id")
	}
	require.Empty(t, h.store.Tables())
}

func TestBuild_错误映射(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name   string
		body   string
		status int
		error  string
	}{
		{"未注册的工厂", `{"factory":"Planet"}`, http.StatusNotFound, "FACTORY_NOT_REGISTERED"},
		{"未知字段", `{"factory":"User","colour":"red"}`, http.StatusBadRequest, "CODE_REQ_PARAM_ERROR"},
		{"负数数量", `{"factory":"User","count":-1}`, http.StatusBadRequest, "CODE_REQ_PARAM_ERROR"},
		{"缺少构造参数", `{"factory":"Comment"}`, http.StatusUnprocessableEntity, "FACTORY_MISSING_CONSTRUCTOR_ARGUMENT"},
		{"引用不存在", `{"factory":"Comment","attributes":{"post":{"$ref":{"model":"Post","id":9}}}}`, http.StatusNotFound, "PERSISTENCE_NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, resp := h.post(t, "/make", tc.body)
			require.Equal(t, tc.status, status, resp.Msg)
			require.Equal(t, tc.status, resp.Code)
			require.Equal(t, tc.error, resp.Error)
		})
	}
}

func TestFactories_列出注册的工厂(t *testing.T) {
	h := newHarness(t)

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, RoutePrefix+"/factories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []string{"Comment", "Post", "Tag", "User"}, resp.Data)
}

func TestMetrics_统计请求和实体数(t *testing.T) {
	h := newHarness(t)

	h.post(t, "/create", `{"factory":"Post","count":2}`)
	h.post(t, "/make", `{"factory":"Comment"}`)

	require.Equal(t, 2.0, testutil.ToFloat64(h.metrics.entities.WithLabelValues("create", "Post")))
	require.Equal(t, 1.0, testutil.ToFloat64(h.metrics.requests.WithLabelValues("make", "Comment", "error")))

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, RoutePrefix+"/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "entity_factory_requests_total")
}
