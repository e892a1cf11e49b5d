package security

import (
	"errors"
	"testing"
	"time"
)

func TestNewIssuer_缺少secret应失败(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("期望 ErrSecretMissing，got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	iss, err := NewIssuer("test-secret-123", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer err=%v", err)
	}

	token, err := iss.Award("ci")
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	claims, err := iss.Parse(token)
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if claims.Subject != "ci" || claims.Scope != ScopeFixtures {
		t.Fatalf("claims 不对：%+v", claims)
	}
}

func TestParse_过期和错误签名(t *testing.T) {
	iss, _ := NewIssuer("s1", time.Minute)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return base }
	token, err := iss.Award("ci")
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}

	iss.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := iss.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("过期 token 应失败，got=%v", err)
	}

	other, _ := NewIssuer("s2", time.Minute)
	other.now = func() time.Time { return base }
	if _, err := other.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("不同 secret 签发的 token 应失败，got=%v", err)
	}
}
