package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "PT"

// DefaultDBPath 房间历史数据库的默认位置
const DefaultDBPath = "./db/pink-tide.db"

// 监听模式
const (
	WatchModeAuto = "auto"
	WatchModeSSE  = "sse"
	WatchModePoll = "poll"
)

// AppConfig 包含应用程序的所有配置项
type AppConfig struct {
	Viper *viper.Viper `json:"-" mapstructure:"-"`

	LogLevel string       `json:"log_level" mapstructure:"log_level"` // 日志级别
	Server   ServerConfig `json:"server" mapstructure:"server"`
	Client   ClientConfig `json:"client" mapstructure:"client"`
	Bili     BiliConfig   `json:"bili" mapstructure:"bili"`
	Proxy    ProxyConfig  `json:"proxy" mapstructure:"proxy"`
	Cache    CacheConfig  `json:"cache" mapstructure:"cache"`
	DB       DBConfig     `json:"db" mapstructure:"db"`
}

// ServerConfig 服务端配置
type ServerConfig struct {
	Port          int           `json:"port" mapstructure:"port"`                     // 监听端口
	DefaultRoomID string        `json:"default_room_id" mapstructure:"default_room_id"` // 未携带 room_id 时使用的房间
	WatchInterval time.Duration `json:"watch_interval" mapstructure:"watch_interval"` // SSE 推送间隔
	GinMode       string        `json:"gin_mode" mapstructure:"gin_mode"`             // gin 模式
	TLS           TLSConfig     `json:"tls" mapstructure:"tls"`
}

// TLSConfig HTTPS 配置，证书文件缺失时在 cert_dir 下生成自签证书
type TLSConfig struct {
	Enabled      bool   `json:"enabled" mapstructure:"enabled"`
	CertFile     string `json:"cert_file" mapstructure:"cert_file"`
	KeyFile      string `json:"key_file" mapstructure:"key_file"`
	CertDir      string `json:"cert_dir" mapstructure:"cert_dir"`
	RedirectPort int    `json:"redirect_port" mapstructure:"redirect_port"` // HTTP 跳转 HTTPS 的端口，0 不启用
}

// ClientConfig 客户端（链接生成 / 状态监听）配置
type ClientConfig struct {
	BaseURL        string        `json:"base_url" mapstructure:"base_url"`               // 服务端地址，同时作为链接 origin
	PollInterval   time.Duration `json:"poll_interval" mapstructure:"poll_interval"`     // 轮询间隔
	WatchMode      string        `json:"watch_mode" mapstructure:"watch_mode"`           // auto | sse | poll
	RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"` // 单次状态请求超时
}

// BiliConfig B站接口配置
type BiliConfig struct {
	Cookie        string        `json:"cookie" mapstructure:"cookie"` // B站 Cookie
	RetryAttempts int           `json:"retry_attempts" mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `json:"retry_delay" mapstructure:"retry_delay"`
}

// ProxyConfig 出站 HTTP 代理
type ProxyConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`           // 是否启用 HTTP 代理
	SystemProxy bool   `json:"system_proxy" mapstructure:"system_proxy"` // 是否使用系统代理
	Protocol    string `json:"protocol" mapstructure:"protocol"`         // 代理协议
	Host        string `json:"host" mapstructure:"host"`                 // 代理主机
	Port        int    `json:"port" mapstructure:"port"`                 // 代理端口
	Username    string `json:"username" mapstructure:"username"`
	Password    string `json:"password" mapstructure:"password"`
}

// CacheConfig 播放地址缓存
type CacheConfig struct {
	Type       string        `json:"type" mapstructure:"type"` // none | memory | redis
	TTL        time.Duration `json:"ttl" mapstructure:"ttl"`
	MaxEntries int           `json:"max_entries" mapstructure:"max_entries"` // 内存缓存容量
	Redis      RedisConfig   `json:"redis" mapstructure:"redis"`
}

// RedisConfig redis 连接配置
type RedisConfig struct {
	Address   string `json:"address" mapstructure:"address"`
	Password  string `json:"password" mapstructure:"password"`
	DB        int    `json:"db" mapstructure:"db"`
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix"`
}

// DBConfig 房间历史数据库
type DBConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// MarshalZerologObject 实现 zerolog 接口，用于安全地打印配置
func (config *AppConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("log_level", config.LogLevel)

	e.Dict("server", zerolog.Dict().
		Int("port", config.Server.Port).
		Str("default_room_id", config.Server.DefaultRoomID).
		Dur("watch_interval", config.Server.WatchInterval).
		Str("gin_mode", config.Server.GinMode).
		Bool("tls_enabled", config.Server.TLS.Enabled).
		Str("tls_cert_file", config.Server.TLS.CertFile).
		Str("tls_key_file", config.Server.TLS.KeyFile).
		Str("tls_cert_dir", config.Server.TLS.CertDir).
		Int("tls_redirect_port", config.Server.TLS.RedirectPort))

	e.Dict("client", zerolog.Dict().
		Str("base_url", config.Client.BaseURL).
		Dur("poll_interval", config.Client.PollInterval).
		Str("watch_mode", config.Client.WatchMode).
		Dur("request_timeout", config.Client.RequestTimeout))

	e.Dict("bili", zerolog.Dict().
		Str("cookie", maskSecret(config.Bili.Cookie)).
		Int("retry_attempts", config.Bili.RetryAttempts).
		Dur("retry_delay", config.Bili.RetryDelay))

	e.Dict("proxy", zerolog.Dict().
		Bool("enabled", config.Proxy.Enabled).
		Bool("system_proxy", config.Proxy.SystemProxy).
		Str("protocol", config.Proxy.Protocol).
		Str("host", config.Proxy.Host).
		Int("port", config.Proxy.Port).
		Str("username", config.Proxy.Username).
		Str("password", maskSecret(config.Proxy.Password)))

	e.Dict("cache", zerolog.Dict().
		Str("type", config.Cache.Type).
		Dur("ttl", config.Cache.TTL).
		Int("max_entries", config.Cache.MaxEntries).
		Str("redis_address", config.Cache.Redis.Address).
		Str("redis_password", maskSecret(config.Cache.Redis.Password)))

	e.Str("db_path", config.DB.Path)
}

// SetDefaults 写入所有默认值 (最低优先级)
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.default_room_id", "")
	v.SetDefault("server.watch_interval", 2*time.Second)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.tls.enabled", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("server.tls.cert_dir", "certs")
	v.SetDefault("server.tls.redirect_port", 0)

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.poll_interval", 2*time.Second)
	v.SetDefault("client.watch_mode", WatchModeAuto)
	v.SetDefault("client.request_timeout", 10*time.Second)

	v.SetDefault("bili.cookie", "")
	v.SetDefault("bili.retry_attempts", 3)
	v.SetDefault("bili.retry_delay", 200*time.Millisecond)

	v.SetDefault("proxy.enabled", false)
	v.SetDefault("proxy.system_proxy", false)
	v.SetDefault("proxy.protocol", "http")
	v.SetDefault("proxy.host", "")
	v.SetDefault("proxy.port", 0)
	v.SetDefault("proxy.username", "")
	v.SetDefault("proxy.password", "")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("cache.redis.address", "")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "pt:playurl:")

	v.SetDefault("db.path", DefaultDBPath)
}

// InitViper 负责 Viper 的初始化、加载和反序列化
// 优先级：默认值 < 数据库配置 < 配置文件 / 环境变量 < 命令行参数
func InitViper(configFilePath string, cmdFlags map[string]interface{}, configMap map[string]string) (*AppConfig, error) {
	v := viper.New()

	// 1. 默认值
	SetDefaults(v)

	// 数据库中的配置覆盖默认值
	for key, value := range configMap {
		v.SetDefault(key, value)
	}

	// 2. 环境变量 PT_SERVER_PORT -> server.port
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 3. 配置文件
	if configFilePath != "" {
		v.SetConfigFile(configFilePath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./conf/")
		v.AddConfigPath("$HOME/.config/pink-tide/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			// 文件存在，但格式错误等其他错误
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		log.Debug().Msg("未找到配置文件，使用[默认值|数据库配置|环境变量|命令行参数]")
	} else {
		log.Info().Msgf("成功加载配置文件: %s", v.ConfigFileUsed())
	}

	// 4. 命令行 Flag (最高优先级)
	for key, value := range cmdFlags {
		v.Set(key, value)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("反序列化配置失败: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Viper = v

	log.Debug().Object("config", &cfg).Msg("[config] 配置加载完成")
	return &cfg, nil
}

// Normalize 去除首尾空白与多余的斜杠
func (config *AppConfig) Normalize() {
	config.Client.BaseURL = strings.TrimRight(strings.TrimSpace(config.Client.BaseURL), "/")
	config.Client.WatchMode = strings.ToLower(strings.TrimSpace(config.Client.WatchMode))
	config.Server.DefaultRoomID = strings.TrimSpace(config.Server.DefaultRoomID)
	config.Bili.Cookie = strings.TrimSpace(config.Bili.Cookie)
	config.Cache.Type = strings.ToLower(strings.TrimSpace(config.Cache.Type))
	config.DB.Path = strings.TrimSpace(config.DB.Path)
	config.Server.TLS.CertFile = strings.TrimSpace(config.Server.TLS.CertFile)
	config.Server.TLS.KeyFile = strings.TrimSpace(config.Server.TLS.KeyFile)
	config.Server.TLS.CertDir = strings.TrimSpace(config.Server.TLS.CertDir)
}

// Validate 校验必填项与取值范围
func (config *AppConfig) Validate() error {
	switch config.Client.WatchMode {
	case WatchModeAuto, WatchModeSSE, WatchModePoll:
	default:
		return fmt.Errorf("client.watch_mode 取值有误: %q", config.Client.WatchMode)
	}
	if config.Client.PollInterval <= 0 {
		return fmt.Errorf("client.poll_interval 必须大于 0")
	}
	if config.Server.WatchInterval <= 0 {
		return fmt.Errorf("server.watch_interval 必须大于 0")
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port 取值有误: %d", config.Server.Port)
	}
	if tls := config.Server.TLS; tls.Enabled {
		if (tls.CertFile == "") != (tls.KeyFile == "") {
			return fmt.Errorf("server.tls.cert_file 与 server.tls.key_file 需要同时配置")
		}
		if tls.RedirectPort < 0 || tls.RedirectPort > 65535 || tls.RedirectPort == config.Server.Port {
			return fmt.Errorf("server.tls.redirect_port 取值有误: %d", tls.RedirectPort)
		}
	}
	if config.Client.BaseURL != "" {
		u, err := url.Parse(config.Client.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("client.base_url 格式有误: %q", config.Client.BaseURL)
		}
	}
	return nil
}

// maskSecret 简单的脱敏辅助函数
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	// 只显示前2位和后2位
	return s[:2] + "******" + s[len(s)-2:]
}
