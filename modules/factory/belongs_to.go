package factory

// parentLink 是一条 belongs-to 绑定：source 可以是现成实例，也可以是工厂。
type parentLink struct {
	source any
	name   string
}

func newParentLink(source any, relationship []string) parentLink {
	name := ""
	if len(relationship) > 0 && relationship[0] != "" {
		name = relationship[0]
	} else if src, ok := source.(Source); ok {
		name = singularRelation(src.ModelName())
	} else {
		name = singularRelation(typeName(source))
	}
	return parentLink{source: source, name: name}
}

// deferred 返回延迟求值的属性值，在属性展开阶段才真正解析父实体。
func (l parentLink) deferred(s *session, p pool) Lazy {
	return func(Attributes) (any, error) {
		return l.resolve(s, p)
	}
}

// resolve 的顺序：session 记忆表 -> 复用池 -> CreateOne。
// 同一个工厂值在一次调用里只会产出一个父实体。
func (l parentLink) resolve(s *session, p pool) (any, error) {
	src, ok := l.source.(Source)
	if !ok {
		return l.source, nil
	}
	if v, ok := s.memo[src]; ok {
		return v, nil
	}
	v, ok := src.recycled(s, p)
	if !ok {
		var err error
		v, err = src.inherit(p).createOneIn(s)
		if err != nil {
			return nil, err
		}
	}
	s.memo[src] = v
	return v, nil
}
