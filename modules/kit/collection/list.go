// Package collection 提供实体关系字段使用的有序集合。
//
// 实体的一对多/多对多字段统一使用 *List[T]，工厂通过 AddAny/ContainsAny
// 在不知道元素静态类型的情况下写入关系。
package collection

import (
	"errors"
	"fmt"
)

// ErrNilList 表示向未初始化的集合写入。
var ErrNilList = errors.New("collection: list is nil")

// List 是按插入顺序保存元素的可变集合，元素按引用（==）判等。
type List[T comparable] struct {
	items []T
}

func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// Add 追加元素。nil 集合没有存放位置，调用方应先用 IsNil 判断或改用 AddAny。
func (l *List[T]) Add(v T) {
	l.items = append(l.items, v)
}

// IsNil 报告集合是否为 nil 指针，实体上未初始化的集合字段会是这种状态。
func (l *List[T]) IsNil() bool {
	return l == nil
}

func (l *List[T]) Contains(v T) bool {
	if l == nil {
		return false
	}
	for _, it := range l.items {
		if it == v {
			return true
		}
	}
	return false
}

// Remove 删除第一个等于 v 的元素，返回是否删除成功。
func (l *List[T]) Remove(v T) bool {
	if l == nil {
		return false
	}
	for i, it := range l.items {
		if it == v {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

func (l *List[T]) At(i int) T {
	return l.items[i]
}

// All 返回元素快照，修改返回值不会影响集合本身。
func (l *List[T]) All() []T {
	if l == nil {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// AddAny 是类型擦除的写入口，元素类型不匹配时返回错误。
func (l *List[T]) AddAny(v any) error {
	if l == nil {
		return ErrNilList
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return fmt.Errorf("collection: cannot add %T to list of %T", v, zero)
	}
	l.Add(typed)
	return nil
}

// ContainsAny 是类型擦除的判断入口，类型不匹配视为不包含。
func (l *List[T]) ContainsAny(v any) bool {
	typed, ok := v.(T)
	if !ok {
		return false
	}
	return l.Contains(typed)
}

// AnyItems 以 []any 形式返回元素，供持久化层遍历关系。
func (l *List[T]) AnyItems() []any {
	if l == nil {
		return nil
	}
	out := make([]any, 0, len(l.items))
	for _, it := range l.items {
		out = append(out, it)
	}
	return out
}
