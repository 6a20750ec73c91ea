package user

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stable-club/horse-care-backend/internal/platform/config"
	"github.com/stable-club/horse-care-backend/internal/platform/database"
	"github.com/stable-club/horse-care-backend/pkg/token"
)

// sessionCfg 在Setup时注入，此后只读。
var sessionCfg config.SessionConfig

// ErrSessionInvalid 表示会话cookie签名非法、已过期或已被注销。
var ErrSessionInvalid = errors.New("会话无效或已过期")

// CreateSession 为指定用户签发一个新会话。
// 返回值是可直接写入cookie的字符串：HMAC签名的payload，
// 其中的token ID对应Redis里一条带TTL的会话记录。
func CreateSession(telegramID int64) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成会话ID: %w", err)
	}

	payload := token.SessionPayload{TokenID: id.String(), TelegramID: telegramID}
	cookieValue, err := token.Encode(payload)
	if err != nil {
		return "", err
	}

	err = database.RDB.Set(database.Ctx, sessionKey(payload.TokenID),
		strconv.FormatInt(telegramID, 10), sessionCfg.TTL).Err()
	if err != nil {
		return "", fmt.Errorf("写入会话记录失败: %w", err)
	}
	return cookieValue, nil
}

// ValidateSession 校验cookie值并返回持有者的Telegram ID。
// 先做无状态的签名校验挡掉伪造请求，再查Redis确认会话仍然存活。
func ValidateSession(cookieValue string) (int64, error) {
	payload, ok := token.Decode(cookieValue)
	if !ok {
		return 0, ErrSessionInvalid
	}

	stored, err := database.RDB.Get(database.Ctx, sessionKey(payload.TokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionInvalid
	}
	if err != nil {
		return 0, fmt.Errorf("查询会话记录失败: %w", err)
	}

	storedID, err := strconv.ParseInt(stored, 10, 64)
	if err != nil || storedID != payload.TelegramID {
		return 0, ErrSessionInvalid
	}
	return payload.TelegramID, nil
}

// DestroySession 注销一个会话。cookie非法或会话已不存在都按成功处理。
func DestroySession(cookieValue string) error {
	payload, ok := token.Decode(cookieValue)
	if !ok {
		return nil
	}
	if err := database.RDB.Del(database.Ctx, sessionKey(payload.TokenID)).Err(); err != nil {
		return fmt.Errorf("删除会话记录失败: %w", err)
	}
	return nil
}

// touchSession 把会话的TTL重置为完整时长，登录状态随活跃度顺延。
// 失败只影响续期，不影响本次请求，所以只记录不返回错误。
func touchSession(cookieValue string) {
	payload, ok := token.Decode(cookieValue)
	if !ok {
		return
	}
	if err := database.RDB.Expire(database.Ctx, sessionKey(payload.TokenID), sessionCfg.TTL).Err(); err != nil {
		fmt.Printf("续期会话失败: %v\n", err)
	}
}
