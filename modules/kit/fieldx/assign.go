// Package fieldx 帮助实体实现“友元”字段写入口（AssignField），
// 让工厂可以在不暴露公开字段的前提下直接注入属性。
package fieldx

import "EntityFactory/modules/kit/errx"

const CodeTypeMismatch errx.Code = "FIELD_TYPE_MISMATCH"

var ErrTypeMismatch = errx.NewBiz(CodeTypeMismatch, "")

// Assign 把 v 写入 dst。v 为 nil 时写入零值；类型不一致时返回 ErrTypeMismatch。
func Assign[T any](dst *T, field string, v any) error {
	if v == nil {
		var zero T
		*dst = zero
		return nil
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return ErrTypeMismatch.
			WithMsgf("field %q expects %T, got %T", field, zero, v).
			WithData("field", field)
	}
	*dst = typed
	return nil
}
