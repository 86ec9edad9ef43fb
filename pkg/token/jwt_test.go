package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestGenerateAndVerifyToken(t *testing.T) {
	mgr := NewJWTManager(testSecret, 30, 60)

	tokenStr, err := mgr.GenerateToken("user-1", "alice@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := mgr.VerifyToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestRefreshTokenVerifies(t *testing.T) {
	mgr := NewJWTManager(testSecret, 1, 7)

	tokenStr, err := mgr.GenerateRefreshToken("user-1", "alice@example.com", "member")
	require.NoError(t, err)

	claims, err := mgr.VerifyToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	mgr := NewJWTManager(testSecret, 30, 60)
	other := NewJWTManager("another-secret", 30, 60)

	tokenStr, err := mgr.GenerateToken("user-1", "alice@example.com", "member")
	require.NoError(t, err)

	_, err = other.VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	mgr := NewJWTManager(testSecret, 30, 60)

	// 手工签发一个已过期的 token
	claims := CustomClaims{
		UserID: "user-1",
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenUnexpectedSigningMethod(t *testing.T) {
	mgr := NewJWTManager(testSecret, 30, 60)

	// alg=none 的 token 必须被拒绝
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = mgr.VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestSubjectIDLegacyFallback(t *testing.T) {
	// 历史 token 只携带 userId 声明
	legacy := &CustomClaims{LegacyUserID: "user-legacy"}
	id, err := legacy.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, "user-legacy", id)

	// 两个声明并存时 id 优先
	both := &CustomClaims{UserID: "user-new", LegacyUserID: "user-legacy"}
	id, err = both.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, "user-new", id)

	// 两者皆无则报错
	empty := &CustomClaims{}
	_, err = empty.SubjectID()
	assert.ErrorIs(t, err, ErrNoSubject)
}

func TestVerifyLegacyTokenEndToEnd(t *testing.T) {
	mgr := NewJWTManager(testSecret, 30, 60)

	claims := CustomClaims{
		LegacyUserID: "user-legacy",
		Email:        "bob@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parsed, err := mgr.VerifyToken(tokenStr)
	require.NoError(t, err)
	id, err := parsed.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, "user-legacy", id)
}
