package user

import (
	"testing"

	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/internal/testutil"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserTest(t *testing.T) {
	t.Helper()
	testutil.SetupTestDB(t, &User{})
}

func TestRegisterValidation(t *testing.T) {
	setupUserTest(t)

	assert.ErrorIs(t, Register(0, "pass", "pass"), apperr.ErrInvalidInput)
	assert.ErrorIs(t, Register(4001, "", ""), apperr.ErrInvalidInput)
	assert.ErrorIs(t, Register(4001, "pass", "different"), apperr.ErrInvalidInput)
}

func TestRegisterLazilyCreatesUser(t *testing.T) {
	setupUserTest(t)

	// 注册前users表里没有这个Telegram ID
	require.NoError(t, Register(4002, "secret", "secret"))

	u, err := GetByTelegramID(4002)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	assert.Equal(t, "user_4002", u.Username)
}

func TestRegisterOnlyOnce(t *testing.T) {
	setupUserTest(t)

	require.NoError(t, Register(4003, "secret", "secret"))
	// 凭据只能设置一次
	assert.ErrorIs(t, Register(4003, "another", "another"), apperr.ErrInvalidInput)

	// 原密码仍然有效
	ok, err := VerifyCredential(4003, "secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyCredential(t *testing.T) {
	setupUserTest(t)

	require.NoError(t, Register(4004, "secret", "secret"))

	ok, err := VerifyCredential(4004, "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyCredential(4004, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	// 不存在的用户和未设置密码的用户都返回false，不暴露区别
	ok, err = VerifyCredential(424242, "secret")
	require.NoError(t, err)
	assert.False(t, ok)

	u := User{TelegramID: 4005, Username: "nopass"}
	require.NoError(t, database.DB.Create(&u).Error)
	ok, err = VerifyCredential(4005, "secret")
	require.NoError(t, err)
	assert.False(t, ok)
}
