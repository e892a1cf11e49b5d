package factory

// Instances 把一组现成实例作为多对多的对端。
type Instances []any

func NewInstances(items ...any) Instances {
	return Instances(items)
}

// peerLink 是一条多对多绑定，对端来自工厂或现成实例。
type peerLink struct {
	factory   Source
	instances Instances
	name      string
	inverse   string
}

func (l peerLink) createFor(s *session, owner any, p pool) error {
	coll, err := collectionOf(owner, l.name)
	if err != nil {
		return err
	}
	peers := []any(l.instances)
	if l.factory != nil {
		peers, err = l.factory.inherit(p).createAllIn(s)
		if err != nil {
			return err
		}
	}
	for _, peer := range peers {
		if !coll.ContainsAny(peer) {
			if err := coll.AddAny(peer); err != nil {
				return ErrRelationshipNotCollection.
					WithMsgf("%s.%s rejected %s", describe(owner), l.name, describe(peer)).
					WithCause(err)
			}
		}
		// 反向同步是尽力而为，对端没有反向集合时忽略。
		_ = mirror(peer, owner, l.inverse)
	}
	return nil
}

func mirror(peer, owner any, inverse string) error {
	holder, ok := peer.(CollectionHolder)
	if !ok {
		return ErrNoInverseSide.WithMsgf("%s has no collection fields", describe(peer))
	}
	coll, ok := holder.CollectionField(inverse)
	if !ok || absent(coll) {
		return ErrNoInverseSide.WithMsgf("%s.%s does not exist", describe(peer), inverse)
	}
	if coll.ContainsAny(owner) {
		return nil
	}
	return coll.AddAny(owner)
}
