// Package security 签发和校验 fixture 服务的访问令牌（HS256）。
package security

import (
	"errors"
	"time"

	"EntityFactory/modules/kit/errx"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeFixtures 是允许调用造数接口的 scope。
const ScopeFixtures = "fixtures"

const defaultTTL = 24 * time.Hour

var (
	ErrSecretMissing = errx.NewSys("SECURITY_SECRET_MISSING", "token secret is not configured")
	ErrTokenInvalid  = errx.NewBiz("SECURITY_TOKEN_INVALID", "token is invalid")
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer ttl<=0 时使用 24 小时。
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Award 生成 Token。
func (i *Issuer) Award(subject string) (string, error) {
	now := i.now()
	claims := &Claims{
		Scope: ScopeFixtures,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse 解析并验证 Token，签名/过期/scope 任一不对都返回 ErrTokenInvalid。
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		reason := "malformed"
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			reason = "expired"
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			reason = "signature"
		}
		return nil, ErrTokenInvalid.WithData("reason", reason).WithCause(err)
	}
	if token == nil || !token.Valid || claims.Scope != ScopeFixtures {
		return nil, ErrTokenInvalid.WithData("reason", "scope")
	}
	return claims, nil
}
