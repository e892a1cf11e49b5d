package factory

// relationship 是 Create 阶段在父实体之上执行的一条集合关系。
type relationship interface {
	createFor(s *session, owner any, p pool) error
}

// childLink 是一条 has-many 绑定。
type childLink struct {
	factory Source
	name    string
	inverse string
}

func (l childLink) createFor(s *session, owner any, p pool) error {
	coll, err := collectionOf(owner, l.name)
	if err != nil {
		return err
	}
	bound := l.factory.inherit(p).bindParent(parentLink{source: owner, name: l.inverse})
	children, err := bound.createAllIn(s)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := coll.AddAny(child); err != nil {
			return ErrRelationshipNotCollection.
				WithMsgf("%s.%s rejected %s", describe(owner), l.name, describe(child)).
				WithCause(err)
		}
	}
	return nil
}

func collectionOf(owner any, name string) (Collection, error) {
	holder, ok := owner.(CollectionHolder)
	if !ok {
		return nil, ErrRelationshipNotCollection.
			WithMsgf("%s has no collection fields", describe(owner)).
			WithData("relationship", name)
	}
	coll, ok := holder.CollectionField(name)
	if !ok || absent(coll) {
		return nil, ErrRelationshipNotCollection.
			WithMsgf("%s.%s is not a collection", describe(owner), name).
			WithData("relationship", name)
	}
	return coll, nil
}
