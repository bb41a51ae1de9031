package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning_platform/backend/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateJWTToken(42, "instructor", cfg)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "instructor", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTTokensAreUnique(t *testing.T) {
	cfg := testConfig()
	a, err := GenerateJWTToken(1, "student", cfg)
	require.NoError(t, err)
	b, err := GenerateJWTToken(1, "student", cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestParseJWTTokenFailuresAreUniform(t *testing.T) {
	cfg := testConfig()
	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	expiredCfg := testConfig()
	expiredCfg.JWTExpiration = -time.Minute
	expired, err := GenerateJWTToken(1, "student", expiredCfg)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"malformed":    "not-a-token",
		"expired":      expired,
		"wrong secret": sign(accessClaims{Role: "student", RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: future}}, jwt.SigningMethodHS256, []byte("other")),
		"no expiry":    sign(accessClaims{Role: "student", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}, jwt.SigningMethodHS256, []byte(cfg.JWTSecret)),
		"no role":      sign(accessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: future}}, jwt.SigningMethodHS256, []byte(cfg.JWTSecret)),
		"bad subject":  sign(accessClaims{Role: "student", RegisteredClaims: jwt.RegisteredClaims{Subject: "abc", ExpiresAt: future}}, jwt.SigningMethodHS256, []byte(cfg.JWTSecret)),
		"none alg":     sign(accessClaims{Role: "student", RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: future}}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := ParseJWTToken(token, cfg)
			assert.Nil(t, claims)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tok, ok := ExtractBearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = ExtractBearerToken("bearer   xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer ", "Bearer"} {
		_, ok := ExtractBearerToken(header)
		assert.False(t, ok, header)
	}
}
