package utils

import (
	"errors"
	"strconv"
	"time"

	"social_feed/internal/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrTokenType = errors.New("unexpected token type")

// Claims 自定义JWT Claims，Subject 存用户 ID，ID 存 jti
type Claims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录或刷新后下发的令牌
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenIssuer 负责签发与解析 HS256 令牌
type TokenIssuer struct {
	secret        []byte
	issuer        string
	accessExpire  time.Duration
	refreshExpire time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{
		secret:        []byte(cfg.Secret),
		issuer:        cfg.Issuer,
		accessExpire:  cfg.AccessExpire,
		refreshExpire: cfg.RefreshExpire,
		now:           time.Now,
	}
}

// RefreshExpire 刷新令牌有效期
func (t *TokenIssuer) RefreshExpire() time.Duration {
	return t.refreshExpire
}

func (t *TokenIssuer) sign(userID int64, tokenType string, ttl time.Duration) (string, *Claims, error) {
	now := t.now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Issue 签发一对令牌，返回刷新令牌的 jti 供会话存储
func (t *TokenIssuer) Issue(userID int64) (*TokenPair, string, error) {
	access, accessClaims, err := t.sign(userID, TokenTypeAccess, t.accessExpire)
	if err != nil {
		return nil, "", err
	}
	refresh, refreshClaims, err := t.sign(userID, TokenTypeRefresh, t.refreshExpire)
	if err != nil {
		return nil, "", err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    accessClaims.ExpiresAt.Time,
	}, refreshClaims.ID, nil
}

// Parse 验证令牌签名、有效期与类型
func (t *TokenIssuer) Parse(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenType != tokenType {
		return nil, ErrTokenType
	}
	return claims, nil
}
