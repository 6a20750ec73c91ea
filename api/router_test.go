package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stable-club/horse-care-backend/internal/admin"
	"github.com/stable-club/horse-care-backend/internal/horse"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/internal/request"
	"github.com/stable-club/horse-care-backend/internal/testutil"
	"github.com/stable-club/horse-care-backend/internal/user"
	"github.com/stable-club/horse-care-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMainAdminID int64 = 999

// setupAPITest 搭建一个完整的内存环境并返回配置好的路由。
func setupAPITest(t *testing.T) *gin.Engine {
	t.Helper()

	testutil.SetupTestDB(t)
	testutil.SetupTestRedis(t)
	token.InitSecretKey("test-secret")

	require.NoError(t, user.Setup(config.SessionConfig{TTL: time.Hour}))
	require.NoError(t, horse.Setup(config.GameConfig{
		DecreaseInterval: 2 * time.Hour,
		FeedDecrease:     5,
		WaterDecrease:    7,
		FlowerDecrease:   3,
		FeedIncrease:     10,
		WaterIncrease:    10,
		FlowerIncrease:   5,
	}))
	require.NoError(t, request.Setup())
	require.NoError(t, admin.Setup(config.AdminConfig{MainAdminIDs: []int64{testMainAdminID}}))

	return NewRouter(config.ServerConfig{
		Mode: gin.TestMode,
		Cors: config.CorsConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	})
}

// doJSON 发送一个JSON请求并返回响应记录器。
func doJSON(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseBody 把响应体解析成通用map。
func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "响应体: %s", w.Body.String())
	return body
}

// registerAndLogin 注册并登录一个用户，返回会话cookie。
func registerAndLogin(t *testing.T, router *gin.Engine, telegramID int64) *http.Cookie {
	t.Helper()

	w := doJSON(router, http.MethodPost, "/api/auth/register",
		`{"telegram_id": `+itoa(telegramID)+`, "password": "secret", "confirm_password": "secret"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"telegram_id": `+itoa(telegramID)+`, "password": "secret"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == user.CookieName {
			return c
		}
	}
	t.Fatal("登录响应中没有会话cookie")
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestFullLifecycleScenario(t *testing.T) {
	router := setupAPITest(t)

	// 未登录访问受保护路由
	w := doJSON(router, http.MethodGet, "/api/horses", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userCookie := registerAndLogin(t, router, 42)
	adminCookie := registerAndLogin(t, router, testMainAdminID)

	// 普通用户没有管理权限
	body := parseBody(t, doJSON(router, http.MethodGet, "/api/me/authority", "", userCookie))
	assert.Equal(t, false, body["is_admin"])
	w = doJSON(router, http.MethodGet, "/api/admin/dashboard", "", userCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 主管理员的权限来自配置
	body = parseBody(t, doJSON(router, http.MethodGet, "/api/me/authority", "", adminCookie))
	assert.Equal(t, true, body["is_admin"])
	assert.Equal(t, true, body["is_main_admin"])

	// 初始没有马
	body = parseBody(t, doJSON(router, http.MethodGet, "/api/horses", "", userCookie))
	assert.Empty(t, body["horses"])

	// 提交绑定申请
	w = doJSON(router, http.MethodPost, "/api/requests/attach",
		`{"horse_name": "星星", "horse_number": "H-001", "proof_photo": "proof.jpg"}`, userCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := parseBody(t, w)["request"].(map[string]interface{})
	requestID := int(created["id"].(float64))

	// 管理面板上能看到这条申请
	body = parseBody(t, doJSON(router, http.MethodGet, "/api/admin/requests/attach", "", adminCookie))
	require.Len(t, body["requests"], 1)

	// 批准后马匹以满饱食、满饮水、零鲜花的状态出现
	w = doJSON(router, http.MethodPost,
		"/api/admin/requests/attach/"+itoa(int64(requestID))+"/approve", "", adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 重复批准返回冲突
	w = doJSON(router, http.MethodPost,
		"/api/admin/requests/attach/"+itoa(int64(requestID))+"/approve", "", adminCookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	body = parseBody(t, doJSON(router, http.MethodGet, "/api/horses", "", userCookie))
	horses := body["horses"].([]interface{})
	require.Len(t, horses, 1)
	h := horses[0].(map[string]interface{})
	assert.Equal(t, float64(100), h["feed_level"])
	assert.Equal(t, float64(100), h["water_level"])
	assert.Equal(t, float64(0), h["flower_level"])
	horseID := int64(h["id"].(float64))

	// 把水位线拨回3小时前，模拟一段离线时间（1个完整周期+1小时余量）
	require.NoError(t, database.DB.Model(&horse.Horse{}).
		Where("id = ?", horseID).
		Update("last_decrease", time.Now().Add(-3*time.Hour)).Error)

	body = parseBody(t, doJSON(router, http.MethodGet, "/api/horses/"+itoa(horseID), "", userCookie))
	settled := body["horse"].(map[string]interface{})
	assert.Equal(t, float64(95), settled["feed_level"])
	assert.Equal(t, float64(93), settled["water_level"])

	// 喂食：95 + 10 封顶到100
	body = parseBody(t, doJSON(router, http.MethodPost,
		"/api/horses/"+itoa(horseID)+"/feed", "", userCookie))
	assert.Equal(t, float64(100), body["new_level"])

	// 别人的马不可见
	otherCookie := registerAndLogin(t, router, 43)
	w = doJSON(router, http.MethodGet, "/api/horses/"+itoa(horseID), "", otherCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 提交删除申请并批准
	w = doJSON(router, http.MethodPost, "/api/requests/delete",
		`{"horse_id": `+itoa(horseID)+`}`, userCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	deleteReq := parseBody(t, w)["request"].(map[string]interface{})
	deleteID := int64(deleteReq["id"].(float64))

	w = doJSON(router, http.MethodPost,
		"/api/admin/requests/delete/"+itoa(deleteID)+"/approve", "", adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body = parseBody(t, doJSON(router, http.MethodGet, "/api/horses", "", userCookie))
	assert.Empty(t, body["horses"])

	// 注销后会话失效
	w = doJSON(router, http.MethodPost, "/api/auth/logout", "", userCookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, "/api/horses", "", userCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRosterEndpoints(t *testing.T) {
	router := setupAPITest(t)

	adminCookie := registerAndLogin(t, router, testMainAdminID)
	userCookie := registerAndLogin(t, router, 44)

	// 任命44为管理员
	w := doJSON(router, http.MethodPost, "/api/admin/admins",
		`{"telegram_id": 44}`, adminCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 44现在能访问管理面板，但不能动名册
	w = doJSON(router, http.MethodGet, "/api/admin/dashboard", "", userCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodPost, "/api/admin/admins",
		`{"telegram_id": 45}`, userCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 任命未注册用户被拒绝
	w = doJSON(router, http.MethodPost, "/api/admin/admins",
		`{"telegram_id": 123456}`, adminCookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 主管理员不可被移除
	w = doJSON(router, http.MethodDelete,
		"/api/admin/admins/"+itoa(testMainAdminID), "", adminCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 移除44
	w = doJSON(router, http.MethodDelete, "/api/admin/admins/44", "", adminCookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodGet, "/api/admin/dashboard", "", userCookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDashboardCounts(t *testing.T) {
	router := setupAPITest(t)

	adminCookie := registerAndLogin(t, router, testMainAdminID)
	userCookie := registerAndLogin(t, router, 46)

	w := doJSON(router, http.MethodPost, "/api/requests/attach",
		`{"horse_name": "流星", "horse_number": "H-002"}`, userCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	body := parseBody(t, doJSON(router, http.MethodGet, "/api/admin/dashboard", "", adminCookie))
	assert.Equal(t, float64(1), body["pending_requests_count"])
	assert.Equal(t, float64(0), body["pending_delete_requests_count"])
	assert.Equal(t, float64(0), body["total_horses"])
}
