package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// secretKey 是服务器启动时初始化的32字节HMAC密钥。
var secretKey []byte

// SessionPayload 定义了会话cookie中被签名的数据结构。
// TokenID 对应Redis中的会话记录，TelegramID 用于快速识别持有者。
type SessionPayload struct {
	TokenID    string `json:"t"`
	TelegramID int64  `json:"u"`
}

// InitSecretKey 初始化HMAC密钥。
// 如果配置中提供了固定密钥，则从它派生，使会话在重启后仍然有效；
// 否则生成一个密码学安全的随机密钥（重启后所有旧会话签名失效）。
func InitSecretKey(configuredSecret string) {
	if configuredSecret != "" {
		sum := sha256.Sum256([]byte(configuredSecret))
		secretKey = sum[:]
		fmt.Println("HMAC密钥已从配置派生。")
		return
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已随机生成。")
}

// Encode 将payload序列化并附加HMAC-SHA256签名，
// 返回形如 "payload.signature" 的cookie值。
func Encode(payload SessionPayload) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("无法序列化会话payload: %w", err)
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	signature := mac.Sum(nil)

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(signature)
	return encodedPayload + "." + encodedSignature, nil
}

// Decode 解析并验证cookie值。
// 签名校验使用 hmac.Equal 进行时间恒定的比较，防止时序攻击。
func Decode(value string) (SessionPayload, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return SessionPayload{}, false
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return SessionPayload{}, false
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return SessionPayload{}, false
	}

	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	expectedSignature := mac.Sum(nil)

	if !hmac.Equal(expectedSignature, actualSignature) {
		return SessionPayload{}, false
	}

	var payload SessionPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return SessionPayload{}, false
	}
	return payload, true
}
