/*
 * @Description: 统一配置管理 (手动加载，文件默认值 + 环境变量覆盖)
 * @Author: 李志伟
 * @Date: 2025-11-02 23:40:18
 * @LastEditTime: 2026-04-22 10:27:45
 * @LastEditors: 李志伟
 */
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeySiteName, KeySiteURL, KeySiteDescription, KeySiteAuthor,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyJWTSecret, KeyJWTExpireHours, KeyAdminEmails, KeyAdminEmail, KeyAdminPassword,
	KeyCORSOrigins, KeyCaptchaEnabled, KeyCommentLimitPerMinute,
	KeyStorageProvider, KeyStorageLocalDir, KeyStorageBucket, KeyStorageEndpoint,
	KeyStorageRegion, KeyStorageAccessKey, KeyStorageSecretKey, KeyStoragePublicURL,
}

const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"

	KeySiteName        = "Site.Name"
	KeySiteURL         = "Site.URL"
	KeySiteDescription = "Site.Description"
	KeySiteAuthor      = "Site.Author"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"
	KeyDBDebug    = "Database.Debug"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyJWTSecret      = "Auth.JWTSecret"
	KeyJWTExpireHours = "Auth.JWTExpireHours"
	KeyAdminEmails    = "Auth.AdminEmails"
	KeyAdminEmail     = "Auth.AdminEmail"
	KeyAdminPassword  = "Auth.AdminPassword"

	KeyCORSOrigins           = "Security.CORSOrigins"
	KeyCaptchaEnabled        = "Security.CaptchaEnabled"
	KeyCommentLimitPerMinute = "Security.CommentLimitPerMinute"

	KeyStorageProvider  = "Storage.Provider"
	KeyStorageLocalDir  = "Storage.LocalDir"
	KeyStorageBucket    = "Storage.Bucket"
	KeyStorageEndpoint  = "Storage.Endpoint"
	KeyStorageRegion    = "Storage.Region"
	KeyStorageAccessKey = "Storage.AccessKey"
	KeyStorageSecretKey = "Storage.SecretKey"
	KeyStoragePublicURL = "Storage.PublicURL"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 手动加载配置：先读 data/conf.ini 作为默认值，再用环境变量逐键覆盖。
func NewConfig() (*Config, error) {
	vp := viper.New()
	filePath := "data/conf.ini"

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将仅依赖环境变量或内部默认值。", filePath)
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	// 如果文件成功加载，则将其中的值全部设置到 Viper 中
	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				// 构建 Viper 使用的 key，例如 "Database.Host"
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				// 特殊处理默认分区 "DEFAULT"
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Println("从 data/conf.ini 文件加载了默认配置。")
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "ECHOES"

	for _, key := range allKeys {
		// 构建环境变量名，例如 ECHOES_DATABASE_HOST
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))

		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetStringSlice 读取逗号分隔的配置值并去除首尾空白，空值返回 nil。
func (c *Config) GetStringSlice(key string) []string {
	raw := c.vp.GetString(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
