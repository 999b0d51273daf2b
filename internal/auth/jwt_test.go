package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"casino-server/internal/config"

	beegocontext "github.com/beego/beego/v2/server/web/context"
)

func testJWTConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.Auth.JWT.Secret = secret
	cfg.Auth.JWT.AccessTokenTTL = 3600
	cfg.Auth.JWT.RefreshTokenTTL = 7200
	cfg.Auth.JWT.Issuer = "casino-server"
	return cfg
}

func authedContext(header string) *beegocontext.Context {
	r := httptest.NewRequest("GET", "/api/user/balance", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	ctx := beegocontext.NewContext()
	ctx.Reset(httptest.NewRecorder(), r)
	return ctx
}

func TestJWTRoundTrip(t *testing.T) {
	config.Set(testJWTConfig("test-secret"))
	token, err := GenerateAccessToken(42, "alice", 1, "p-42", "demo-key")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := VerifyJWTToken(authedContext("Bearer " + token))
	if err != nil {
		t.Fatalf("VerifyJWTToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.PlatformID != 1 {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.PlatformUserID != "p-42" {
		t.Fatalf("platform_user_id = %q, want p-42", claims.PlatformUserID)
	}
	if claims.TokenType != "access" {
		t.Fatalf("token_type = %q, want access", claims.TokenType)
	}
}

func TestRefreshTokenType(t *testing.T) {
	config.Set(testJWTConfig("test-secret"))
	token, err := GenerateRefreshToken(42, "alice", 1, "p-42", "demo-key")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := VerifyJWTToken(authedContext("Bearer " + token))
	if err != nil {
		t.Fatalf("VerifyJWTToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Fatalf("token_type = %q, want refresh", claims.TokenType)
	}
}

func TestVerifyJWTTokenRejects(t *testing.T) {
	config.Set(testJWTConfig("test-secret"))
	if _, err := VerifyJWTToken(authedContext("")); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("no header = %v, want ErrMissingToken", err)
	}
	if _, err := VerifyJWTToken(authedContext("Basic dXNlcg==")); !errors.Is(err, ErrInvalidTokenFormat) {
		t.Fatalf("basic auth = %v, want ErrInvalidTokenFormat", err)
	}
	if _, err := VerifyJWTToken(authedContext("Bearer not-a-jwt")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token = %v, want ErrInvalidToken", err)
	}

	// token signed under a rotated-out secret must not verify
	token, err := GenerateAccessToken(42, "alice", 1, "p-42", "demo-key")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	config.Set(testJWTConfig("another-secret"))
	if _, err := VerifyJWTToken(authedContext("Bearer " + token)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret = %v, want ErrInvalidToken", err)
	}
}
