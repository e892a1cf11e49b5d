package factory

// pool 是调用方提供的可复用实例（Recycle），只读。
type pool []any

func (p pool) with(items ...any) pool {
	if len(items) == 0 {
		return p
	}
	out := make(pool, 0, len(p)+len(items))
	out = append(out, p...)
	return append(out, items...)
}

// expand 按定义顺序逐项求值：
// 闭包拿到此前已解析的属性视图；嵌套工厂优先取复用池，否则在当前 session 内 CreateOne。
func expand(s *session, raw Attributes, p pool) (Attributes, error) {
	resolved := Attributes{}
	for _, f := range raw.fields {
		v, err := evaluate(f.Value, resolved)
		if err != nil {
			return Attributes{}, err
		}
		if src, ok := v.(Source); ok {
			v, err = resolveSource(s, src, p)
			if err != nil {
				return Attributes{}, err
			}
		}
		resolved.set(f.Name, v)
	}
	return resolved, nil
}

func evaluate(v any, resolved Attributes) (any, error) {
	switch fn := v.(type) {
	case Lazy:
		return fn(resolved)
	case func(Attributes) (any, error):
		return fn(resolved)
	case func(Attributes) any:
		return fn(resolved), nil
	case func() any:
		return fn(), nil
	default:
		return v, nil
	}
}

func resolveSource(s *session, src Source, p pool) (any, error) {
	if v, ok := src.recycled(s, p); ok {
		return v, nil
	}
	return src.inherit(p).createOneIn(s)
}
