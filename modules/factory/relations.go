package factory

import "fmt"

type RelationKind uint8

const (
	RelationParent RelationKind = iota + 1
	RelationChildren
	RelationPeers
)

func (k RelationKind) String() string {
	switch k {
	case RelationParent:
		return "belongs-to"
	case RelationChildren:
		return "has-many"
	case RelationPeers:
		return "many-to-many"
	default:
		return fmt.Sprintf("RelationKind(%d)", uint8(k))
	}
}

// Relation 是在 Blueprint 上显式声明的关系。
// Inverse 为空时按命名约定推导。
type Relation struct {
	Kind    RelationKind
	Model   string
	Inverse string
}

func Parent(model string) Relation {
	return Relation{Kind: RelationParent, Model: model}
}

func Children(model string, inverse ...string) Relation {
	return Relation{Kind: RelationChildren, Model: model, Inverse: firstOr(inverse, "")}
}

func Peers(model string, inverse ...string) Relation {
	return Relation{Kind: RelationPeers, Model: model, Inverse: firstOr(inverse, "")}
}

func firstOr(vs []string, def string) string {
	if len(vs) > 0 && vs[0] != "" {
		return vs[0]
	}
	return def
}

// ForRelation 按关系名绑定父实体工厂，args 可以带一个 map 作为父工厂的 state。
func (f *Factory[T]) ForRelation(reg *Registry, rel string, args ...any) (*Factory[T], error) {
	target, _, err := f.related(reg, rel, RelationParent, args)
	if err != nil {
		return nil, err
	}
	return f.For(target, rel), nil
}

// HasRelation 按关系名生成子实体，args 可以带数量（int）和 state（map）。
func (f *Factory[T]) HasRelation(reg *Registry, rel string, args ...any) (*Factory[T], error) {
	target, decl, err := f.related(reg, rel, RelationChildren, args)
	if err != nil {
		return nil, err
	}
	return f.HasAs(target, rel, decl.Inverse), nil
}

// AttachedToRelation 按关系名建立多对多，args 同 HasRelation。
func (f *Factory[T]) AttachedToRelation(reg *Registry, rel string, args ...any) (*Factory[T], error) {
	target, decl, err := f.related(reg, rel, RelationPeers, args)
	if err != nil {
		return nil, err
	}
	return f.AttachedToAs(target, rel, decl.Inverse), nil
}

// related 先查 Blueprint 的显式声明，再按约定（关系名单数 + 首字母大写）查注册表。
func (f *Factory[T]) related(reg *Registry, rel string, kind RelationKind, args []any) (Source, Relation, error) {
	decl, declared := f.bp.Relations[rel]
	if declared && decl.Kind != kind {
		return nil, Relation{}, ErrUnresolvableRelationship.
			WithMsgf("%s.%s is declared as %s, not %s", f.bp.Name, rel, decl.Kind, kind).
			WithData("relationship", rel)
	}
	model := decl.Model
	if model == "" {
		model = modelForRelation(rel)
	}

	count := -1
	var overrides map[string]any
	for _, a := range args {
		switch v := a.(type) {
		case int:
			if kind == RelationParent {
				return nil, Relation{}, ErrInvalidRelationArgument.
					WithMsgf("belongs-to relationship %s does not take a count", rel).
					WithData("relationship", rel)
			}
			count = v
		case map[string]any:
			overrides = v
		default:
			return nil, Relation{}, ErrInvalidRelationArgument.
				WithMsgf("relationship %s: unsupported argument %T", rel, a).
				WithData("relationship", rel)
		}
	}

	target, err := reg.Lookup(model)
	if err != nil {
		return nil, Relation{}, ErrUnresolvableRelationship.
			WithMsgf("call to undefined relationship %s on %s", rel, f.bp.Name).
			WithData("relationship", rel).
			WithData("model", model).
			WithCause(err)
	}
	return target.configure(count, overrides), decl, nil
}
