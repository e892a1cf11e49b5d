package factory

import (
	"fmt"
	"reflect"

	"EntityFactory/modules/kit/fieldx"
)

// Param 描述构造器的一个参数。
type Param struct {
	Name     string
	Optional bool
}

// Args 是交给构造器的参数表。
type Args map[string]any

// Arg 按名取出构造参数并做类型断言；缺失或为 nil 时返回零值。
func Arg[T any](args Args, name string) (T, error) {
	var zero T
	v, ok := args[name]
	if !ok || v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fieldx.ErrTypeMismatch.
			WithMsgf("constructor argument %q expects %T, got %T", name, zero, v).
			WithData("parameter", name)
	}
	return t, nil
}

// Blueprint 是实体类型的描述：构造签名、构造器、显式关系表。
//
// New 为 nil 时绕过构造器：指针类型分配一个新的零值对象，其它类型直接用零值。
type Blueprint[T any] struct {
	Name      string
	Params    []Param
	New       func(Args) (T, error)
	Relations map[string]Relation
}

// FieldAssigner 由实体实现，工厂通过它写入未被构造器消费的属性。
// known 为 false 表示实体不认识该字段，工厂会静默忽略。
type FieldAssigner interface {
	AssignField(name string, value any) (known bool, err error)
}

// Collection 是实体上一对多/多对多集合字段的类型擦除视图。
type Collection interface {
	AddAny(item any) error
	ContainsAny(item any) bool
	Len() int
}

// CollectionHolder 由拥有集合字段的实体实现。
type CollectionHolder interface {
	CollectionField(name string) (Collection, bool)
}

func (bp *Blueprint[T]) factoryName() string {
	return bp.Name + "Factory"
}

// build 先把属性拆成构造参数，构造完成后再逐个写入剩余属性。
func build[T any](bp *Blueprint[T], attrs Attributes) (T, error) {
	var zero T
	rest := attrs.clone()
	args := make(Args, len(bp.Params))
	for _, p := range bp.Params {
		if v, ok := rest.Get(p.Name); ok {
			args[p.Name] = v
			rest.remove(p.Name)
			continue
		}
		if p.Optional {
			continue
		}
		return zero, ErrMissingConstructorArgument.
			WithMsgf("%s is missing attribute for required constructor parameter: %s", bp.factoryName(), p.Name).
			WithData("factory", bp.factoryName()).
			WithData("parameter", p.Name)
	}

	inst, err := construct(bp, args)
	if err != nil {
		return zero, err
	}
	if rest.Len() == 0 {
		return inst, nil
	}

	// 没有 AssignField 的类型等同于不认识任何剩余字段。
	assigner, ok := any(inst).(FieldAssigner)
	if !ok {
		return inst, nil
	}
	for _, f := range rest.fields {
		if _, err := assigner.AssignField(f.Name, f.Value); err != nil {
			return zero, err
		}
	}
	return inst, nil
}

func construct[T any](bp *Blueprint[T], args Args) (T, error) {
	if bp.New != nil {
		return bp.New(args)
	}
	return allocate[T](), nil
}

func allocate[T any]() T {
	var zero T
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Pointer {
		return zero
	}
	return reflect.New(rt.Elem()).Interface().(T)
}

// absent 判断集合字段是否缺失，包括装在接口里的 nil 指针。
func absent(c Collection) bool {
	if c == nil {
		return true
	}
	if n, ok := c.(interface{ IsNil() bool }); ok {
		return n.IsNil()
	}
	rv := reflect.ValueOf(c)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// typeName 取实体的类型基名，例如 *workbench.User -> "User"。
func typeName(v any) string {
	if n, ok := v.(interface{ ModelName() string }); ok {
		return n.ModelName()
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func describe(v any) string {
	if name := typeName(v); name != "" {
		return name
	}
	return fmt.Sprintf("%T", v)
}
