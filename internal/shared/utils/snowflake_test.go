package utils

import (
	"errors"
	"testing"
)

func TestSnowflake_单调递增并带节点号(t *testing.T) {
	s, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake 失败: %v", err)
	}
	prev := int64(0)
	for i := 0; i < 5000; i++ {
		id := s.NextID()
		if id <= prev {
			t.Fatalf("第 %d 个 id 未递增: %d <= %d", i, id, prev)
		}
		if NodeOf(id) != 7 {
			t.Fatalf("期望节点号 7，got=%d", NodeOf(id))
		}
		prev = id
	}
}

func TestSnowflake_时钟回拨不回退(t *testing.T) {
	s, _ := NewSnowflake(1)
	ts := int64(1704067200000 + 1000)
	s.now = func() int64 { return ts }
	first := s.NextID()
	ts -= 500
	if second := s.NextID(); second <= first {
		t.Fatalf("时钟回拨后 id 不应回退: %d <= %d", second, first)
	}
}

func TestNewSnowflake_节点号越界(t *testing.T) {
	if _, err := NewSnowflake(1024); !errors.Is(err, ErrInvalidNodeID) {
		t.Fatalf("期望 ErrInvalidNodeID，got=%v", err)
	}
}
