package user

import (
	"testing"
	"time"

	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/testutil"
	"github.com/stable-club/horse-care-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) {
	t.Helper()
	testutil.SetupTestRedis(t)
	token.InitSecretKey("test-secret")

	prev := sessionCfg
	sessionCfg = config.SessionConfig{TTL: time.Hour}
	t.Cleanup(func() { sessionCfg = prev })
}

func TestSessionRoundTrip(t *testing.T) {
	setupSessionTest(t)

	cookieValue, err := CreateSession(5001)
	require.NoError(t, err)

	telegramID, err := ValidateSession(cookieValue)
	require.NoError(t, err)
	assert.Equal(t, int64(5001), telegramID)
}

func TestSessionRejectsTamperedCookie(t *testing.T) {
	setupSessionTest(t)

	cookieValue, err := CreateSession(5002)
	require.NoError(t, err)

	// 篡改cookie内容后签名校验必须失败
	tampered := "x" + cookieValue[1:]
	_, err = ValidateSession(tampered)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = ValidateSession("garbage")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionDestroy(t *testing.T) {
	setupSessionTest(t)

	cookieValue, err := CreateSession(5003)
	require.NoError(t, err)

	require.NoError(t, DestroySession(cookieValue))

	// 签名仍然合法，但Redis里的会话记录已被删除
	_, err = ValidateSession(cookieValue)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// 重复注销是无操作
	require.NoError(t, DestroySession(cookieValue))
	require.NoError(t, DestroySession("garbage"))
}

func TestSessionExpiresWithTTL(t *testing.T) {
	mr := testutil.SetupTestRedis(t)
	token.InitSecretKey("test-secret")

	prev := sessionCfg
	sessionCfg = config.SessionConfig{TTL: time.Minute}
	t.Cleanup(func() { sessionCfg = prev })

	cookieValue, err := CreateSession(5004)
	require.NoError(t, err)

	// 快进超过TTL后会话失效
	mr.FastForward(2 * time.Minute)
	_, err = ValidateSession(cookieValue)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
