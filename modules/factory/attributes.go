package factory

import "sort"

// Field 是定义中的一项：属性名 + 值（字面量、闭包、嵌套工厂）。
//
// 只有 Lazy、func(Attributes) (any, error)、func(Attributes) any、func() any
// 这几种形状会被当成闭包求值，其它函数值按字面量处理；
// 返回具体类型的无参函数用 Func 包一层。
type Field struct {
	Name  string
	Value any
}

// F 构造一个 Field。
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Definition 是有序的属性定义，顺序即求值顺序。
type Definition []Field

// Lazy 是延迟求值的属性值，参数是此前已解析完成的属性。
type Lazy func(Attributes) (any, error)

// Func 把返回任意类型的无参函数包装成 Lazy。
func Func[T any](fn func() T) Lazy {
	return func(Attributes) (any, error) {
		return fn(), nil
	}
}

// Attributes 是有序、只读的属性视图。
type Attributes struct {
	fields []Field
	index  map[string]int
}

func newAttributes(fields ...Field) Attributes {
	a := Attributes{}
	for _, f := range fields {
		a.set(f.Name, f.Value)
	}
	return a
}

func (a Attributes) Get(name string) (any, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.fields[i].Value, true
}

// Value 返回属性值，不存在时为 nil。
func (a Attributes) Value(name string) any {
	v, _ := a.Get(name)
	return v
}

func (a Attributes) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}

func (a Attributes) Len() int {
	return len(a.fields)
}

func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a.fields))
	for _, f := range a.fields {
		keys = append(keys, f.Name)
	}
	return keys
}

func (a Attributes) Fields() []Field {
	out := make([]Field, len(a.fields))
	copy(out, a.fields)
	return out
}

func (a Attributes) Map() map[string]any {
	out := make(map[string]any, len(a.fields))
	for _, f := range a.fields {
		out[f.Name] = f.Value
	}
	return out
}

// set 覆盖同名键（保留原位置），新键追加到末尾。
func (a *Attributes) set(name string, v any) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[name]; ok {
		a.fields[i].Value = v
		return
	}
	a.index[name] = len(a.fields)
	a.fields = append(a.fields, Field{Name: name, Value: v})
}

// merge 按 key 排序后写入，保证 map 覆盖的结果可复现。
func (a *Attributes) merge(overrides map[string]any) {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.set(k, overrides[k])
	}
}

func (a Attributes) clone() Attributes {
	return newAttributes(a.fields...)
}

func (a *Attributes) remove(name string) {
	i, ok := a.index[name]
	if !ok {
		return
	}
	a.fields = append(a.fields[:i:i], a.fields[i+1:]...)
	delete(a.index, name)
	for j := i; j < len(a.fields); j++ {
		a.index[a.fields[j].Name] = j
	}
}

func mergeOverrides(overrides []map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range overrides {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
