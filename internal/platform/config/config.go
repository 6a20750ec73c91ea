package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，存储加载完成的应用配置。
// 各模块在启动时通过 Setup/Configure 注入自己需要的子配置，
// 运行期不再读取全局变量。
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项，
// 与 config.yaml 文件的结构完全对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Session  SessionConfig  `mapstructure:"session"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

// ServerConfig 定义了HTTP服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 可以是 "sqlite" 或 "postgres"
	Driver string      `mapstructure:"driver"`
	DSN    string      `mapstructure:"dsn"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig 定义了养马玩法的数值配置。
// 数值集中为一份不可变配置，在启动时注入核心模块，
// 便于用不同的数值进行测试。
type GameConfig struct {
	// DecreaseInterval 是状态衰减的结算周期
	DecreaseInterval time.Duration `mapstructure:"decreaseInterval"`

	// 每个周期各项状态的衰减量
	FeedDecrease   int `mapstructure:"feedDecrease"`
	WaterDecrease  int `mapstructure:"waterDecrease"`
	FlowerDecrease int `mapstructure:"flowerDecrease"`

	// 每次照料动作各项状态的增加量（上限100）
	FeedIncrease   int `mapstructure:"feedIncrease"`
	WaterIncrease  int `mapstructure:"waterIncrease"`
	FlowerIncrease int `mapstructure:"flowerIncrease"`
}

// AdminConfig 定义了管理员权限相关的配置
type AdminConfig struct {
	// MainAdminIDs 是主管理员的Telegram ID列表。
	// 主管理员不存在于admins表中，始终拥有全部权限且不可被移除。
	MainAdminIDs []int64 `mapstructure:"mainAdminIds"`
}

// SessionConfig 定义了会话相关的配置
type SessionConfig struct {
	// Secret 用于派生会话签名密钥；留空则每次启动随机生成
	Secret string `mapstructure:"secret"`
	// TTL 是会话在Redis中的存活时间
	TTL time.Duration `mapstructure:"ttl"`
}

// BackupConfig 定义了SQLite定时备份的配置
type BackupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Dir      string        `mapstructure:"dir"`
}

// LoadConfig 查找、加载并解析配置文件。
// 它会在 ./config 和当前目录中查找名为 config.yaml 的文件，
// 并允许通过环境变量覆盖任意配置项（例如 SERVER_ADDRESS）。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 配置文件缺失不是致命错误，默认值足以在本地启动
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}

// setDefaults 设置默认数值。
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "horses.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("game.decreaseInterval", "2h")
	v.SetDefault("game.feedDecrease", 5)
	v.SetDefault("game.waterDecrease", 7)
	v.SetDefault("game.flowerDecrease", 3)
	v.SetDefault("game.feedIncrease", 10)
	v.SetDefault("game.waterIncrease", 10)
	v.SetDefault("game.flowerIncrease", 5)

	v.SetDefault("admin.mainAdminIds", []int64{})

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "720h")

	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.interval", "6h")
	v.SetDefault("backup.dir", "./backups")
}
