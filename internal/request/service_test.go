package request

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/internal/testutil"
	"github.com/stable-club/horse-care-backend/internal/user"
	"github.com/stable-club/horse-care-backend/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRequestTest(t *testing.T) {
	t.Helper()
	testutil.SetupTestDB(t, &user.User{}, &horse.Horse{}, &AttachRequest{}, &DeleteRequest{})
	testutil.SetupTestRedis(t)
	require.NoError(t, WarmupCache())
}

func createRequestUser(t *testing.T, telegramID int64) user.User {
	t.Helper()
	u := user.User{TelegramID: telegramID, Username: "tester"}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func TestCreateAttachRequestValidation(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2001)

	_, err := CreateAttachRequest(u.TelegramID, " ", "H-100", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = CreateAttachRequest(u.TelegramID, "闪电", "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	req, err := CreateAttachRequest(u.TelegramID, "闪电", "H-100", "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)

	count, err := PendingAttachCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestApproveAttachCreatesHorseAtomically(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2002)

	req, err := CreateAttachRequest(u.TelegramID, "闪电", "H-101", "photo.jpg")
	require.NoError(t, err)

	h, err := ApproveAttach(req.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, h.UserID)
	assert.Equal(t, "闪电", h.Name)
	assert.Equal(t, "H-101", h.Number)
	// 新绑定的马从满饱食、满饮水、零鲜花开始
	assert.Equal(t, 100, h.FeedLevel)
	assert.Equal(t, 100, h.WaterLevel)
	assert.Equal(t, 0, h.FlowerLevel)
	assert.False(t, h.LastDecrease.IsZero())

	var got AttachRequest
	require.NoError(t, database.DB.First(&got, req.ID).Error)
	assert.Equal(t, StatusApproved, got.Status)

	count, err := PendingAttachCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestApproveAttachTerminalStates(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2003)

	req, err := CreateAttachRequest(u.TelegramID, "闪电", "H-102", "")
	require.NoError(t, err)

	_, err = ApproveAttach(req.ID)
	require.NoError(t, err)

	// 终态的申请不能被再次批准
	_, err = ApproveAttach(req.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// 不存在的申请
	_, err = ApproveAttach(9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRejectAttachIsTerminalNoOp(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2004)

	req, err := CreateAttachRequest(u.TelegramID, "闪电", "H-103", "")
	require.NoError(t, err)

	_, err = ApproveAttach(req.ID)
	require.NoError(t, err)

	// 拒绝一条已批准的申请是无操作，不会把状态改回去
	require.NoError(t, RejectAttach(req.ID))

	var got AttachRequest
	require.NoError(t, database.DB.First(&got, req.ID).Error)
	assert.Equal(t, StatusApproved, got.Status)

	assert.ErrorIs(t, RejectAttach(9999), apperr.ErrNotFound)
}

func TestConcurrentApproveRejectSingleWinner(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2005)

	req, err := CreateAttachRequest(u.TelegramID, "闪电", "H-104", "")
	require.NoError(t, err)

	const workers = 4
	var wg sync.WaitGroup
	var approved atomic.Int32
	var conflicts atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ApproveAttach(req.ID)
			switch {
			case err == nil:
				approved.Add(1)
			case errors.Is(err, apperr.ErrConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	// 恰好一个赢家，其余全部观察到冲突
	assert.Equal(t, int32(1), approved.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	// 只创建了一匹马
	var horseCount int64
	require.NoError(t, database.DB.Model(&horse.Horse{}).Count(&horseCount).Error)
	assert.Equal(t, int64(1), horseCount)
}

func TestDeleteRequestSnapshotAndOwnership(t *testing.T) {
	setupRequestTest(t)
	owner := createRequestUser(t, 2006)
	other := createRequestUser(t, 2007)

	h := horse.NewAttachedHorse(owner.ID, "星星", "H-105", "", time.Now())
	require.NoError(t, database.DB.Create(&h).Error)

	// 只能申请删除自己的马
	_, err := CreateDeleteRequest(other.TelegramID, h.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = CreateDeleteRequest(owner.TelegramID, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	req, err := CreateDeleteRequest(owner.TelegramID, h.ID)
	require.NoError(t, err)
	// 马名和编号在提交时快照
	assert.Equal(t, "星星", req.HorseName)
	assert.Equal(t, "H-105", req.HorseNumber)
}

func TestApproveDeleteRemovesHorse(t *testing.T) {
	setupRequestTest(t)
	owner := createRequestUser(t, 2008)

	h := horse.NewAttachedHorse(owner.ID, "星星", "H-106", "", time.Now())
	require.NoError(t, database.DB.Create(&h).Error)

	req, err := CreateDeleteRequest(owner.TelegramID, h.ID)
	require.NoError(t, err)

	require.NoError(t, ApproveDelete(req.ID))

	var horseCount int64
	require.NoError(t, database.DB.Model(&horse.Horse{}).Count(&horseCount).Error)
	assert.Equal(t, int64(0), horseCount)

	var got DeleteRequest
	require.NoError(t, database.DB.First(&got, req.ID).Error)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestApproveDeleteToleratesMissingHorse(t *testing.T) {
	setupRequestTest(t)
	owner := createRequestUser(t, 2009)

	h := horse.NewAttachedHorse(owner.ID, "星星", "H-107", "", time.Now())
	require.NoError(t, database.DB.Create(&h).Error)

	req, err := CreateDeleteRequest(owner.TelegramID, h.ID)
	require.NoError(t, err)

	// 马在审核前已经被删除，批准仍然成功，状态照常迁移
	require.NoError(t, database.DB.Delete(&horse.Horse{}, h.ID).Error)
	require.NoError(t, ApproveDelete(req.ID))

	var got DeleteRequest
	require.NoError(t, database.DB.First(&got, req.ID).Error)
	assert.Equal(t, StatusApproved, got.Status)
}

func TestPendingListsAndWarmup(t *testing.T) {
	setupRequestTest(t)
	u := createRequestUser(t, 2010)

	_, err := CreateAttachRequest(u.TelegramID, "闪电", "H-108", "")
	require.NoError(t, err)
	req2, err := CreateAttachRequest(u.TelegramID, "流星", "H-109", "")
	require.NoError(t, err)
	require.NoError(t, RejectAttach(req2.ID))

	views, err := ListPendingAttach()
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "闪电", views[0].HorseName)
	assert.Equal(t, u.TelegramID, views[0].TelegramID)

	// 预热后Redis计数与数据库一致
	require.NoError(t, WarmupCache())
	count, err := PendingAttachCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
