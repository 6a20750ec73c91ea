package user

// --- Redis 键名常量 ---

const (
	// sessionKeyPrefix 是会话记录的键前缀。
	// Key: session:<token-id>  Value: 持有者的Telegram ID，带TTL。
	// 会话只存在于Redis中：Redis重启即全员下线，由用户重新登录恢复。
	sessionKeyPrefix = "session:"
)

// sessionKey 拼出指定token的Redis键名。
func sessionKey(tokenID string) string {
	return sessionKeyPrefix + tokenID
}
