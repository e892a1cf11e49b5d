package factory

// Seq 是序列状态拿到的位置信息：当前实例下标和本次调用的实例总数。
type Seq struct {
	Index int
	Count int
}

// Sequence 让第 i 个实例使用 values[i % len(values)]。
// 每个值是 map[string]any 或 func(Seq) map[string]any。
func (f *Factory[T]) Sequence(values ...any) *Factory[T] {
	if len(values) == 0 {
		return f
	}
	return f.withState(func(_ Attributes, seq Seq) (map[string]any, error) {
		switch v := values[seq.Index%len(values)].(type) {
		case nil:
			return nil, nil
		case map[string]any:
			return v, nil
		case func(Seq) map[string]any:
			return v(seq), nil
		default:
			return nil, ErrInvalidState.
				WithMsgf("%s sequence value %T is neither a map nor func(Seq) map", f.bp.Name, v).
				WithData("model", f.bp.Name)
		}
	})
}

// ForEachSequence 同 Sequence，并把数量设为 len(values)。
func (f *Factory[T]) ForEachSequence(values ...any) *Factory[T] {
	return f.Sequence(values...).Count(len(values))
}
