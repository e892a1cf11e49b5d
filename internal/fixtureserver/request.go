package fixtureserver

import (
	"context"

	"EntityFactory/modules/kit/errx"

	"github.com/go-viper/mapstructure/v2"
)

// Request 是 make/create 接口的请求体。
//
//	{"factory":"Post","count":2,"attributes":{"title":"hi","user":{"$ref":{"model":"User","id":1}}}}
type Request struct {
	Factory    string         `mapstructure:"factory"`
	Count      *int           `mapstructure:"count"`
	Attributes map[string]any `mapstructure:"attributes"`
}

// Ref 是属性里对已管理实体的引用。
type Ref struct {
	Model string `mapstructure:"model"`
	ID    int64  `mapstructure:"id"`
}

const refKey = "$ref"

// Finder 按模型名和主键查找已管理的实体。
type Finder interface {
	Find(ctx context.Context, model string, id int64) (any, error)
}

func decodeRequest(body map[string]any) (Request, error) {
	var req Request
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &req,
		ErrorUnused: true,
	})
	if err != nil {
		return req, errx.ErrInternal.WithCause(err)
	}
	if err := dec.Decode(body); err != nil {
		return req, errx.ErrReqParamERR.WithMsgf("invalid request: %v", err)
	}
	if req.Factory == "" {
		return req, errx.ErrReqParamERR.WithMsg("factory is required")
	}
	if req.Count != nil && *req.Count < 0 {
		return req, errx.ErrReqParamERR.WithMsgf("count must not be negative: %d", *req.Count).WithData("count", *req.Count)
	}
	return req, nil
}

// count 没传时返回 -1，保留工厂默认数量。
func (r Request) count() int {
	if r.Count == nil {
		return -1
	}
	return *r.Count
}

// resolveRefs 把 {"$ref":{...}} 形式的属性替换成已管理的实体。
func resolveRefs(ctx context.Context, finder Finder, attrs map[string]any) (map[string]any, error) {
	if len(attrs) == 0 {
		return attrs, nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		m, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		raw, ok := m[refKey]
		if !ok {
			out[k] = v
			continue
		}
		var ref Ref
		if err := mapstructure.Decode(raw, &ref); err != nil || ref.Model == "" {
			return nil, errx.ErrReqParamERR.WithMsgf("attribute %s has an invalid $ref", k).WithData("attribute", k)
		}
		if finder == nil {
			return nil, errx.ErrReqParamERR.WithMsg("references are not supported by this server")
		}
		entity, err := finder.Find(ctx, ref.Model, ref.ID)
		if err != nil {
			return nil, err
		}
		out[k] = entity
	}
	return out, nil
}
