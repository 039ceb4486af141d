/*
 * @Description: 数据库连接管理 (支持多种数据库)
 * @Author: 李志伟
 * @Date: 2025-11-02 23:55:10
 * @LastEditTime: 2026-05-19 09:31:46
 * @LastEditors: 李志伟
 */
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lizhiwei-dev/echoes-app/internal/infra/config"

	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
)

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池，支持多种数据库。
func NewSQLDB(cfg *config.Config) (*sql.DB, error) {
	driver := cfg.GetString(config.KeyDBType)
	if driver == "" {
		log.Println("警告: 配置文件中未指定 'Database.Type'，将默认使用 'sqlite'")
		driver = "sqlite"
	}

	var dsn string
	var driverName string

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	switch driver {
	case "mysql":
		driverName = "mysql"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
	case "postgres":
		driverName = "postgres"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case "sqlite", "sqlite3":
		driverName = "sqlite3"

		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("无法创建 data 目录: %w", err)
		}

		finalDbName := dbName
		if finalDbName == "" {
			finalDbName = "echoes_app.db" // 如果未指定数据库名，则使用默认值
		}

		finalPath := filepath.Join(dataDir, finalDbName)
		log.Printf("【提示】SQLite 数据库路径: %s\n", finalPath)

		// 使用 file: DSN 格式并启用外键约束
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", finalPath)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s (支持: mysql, postgres, sqlite)", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 sql.DB 连接失败 (驱动: %s): %w", driverName, err)
	}

	// 设置连接池参数
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	// 验证数据库连接
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通数据库 (DSN: %s): %w", dsn, err)
	}

	log.Printf("✅ %s 数据库连接池创建成功！\n", driver)
	return db, nil
}

// NewGormDB 在已有的 *sql.DB 连接池之上创建 GORM 客户端。
func NewGormDB(db *sql.DB, cfg *config.Config) (*gorm.DB, error) {
	driverName := cfg.GetString(config.KeyDBType)
	if driverName == "" {
		driverName = "sqlite" // 保持与 NewSQLDB 的默认值一致
	}

	var dialector gorm.Dialector
	switch driverName {
	case "mysql":
		dialector = gormmysql.New(gormmysql.Config{Conn: db})
	case "postgres":
		dialector = gormpostgres.New(gormpostgres.Config{Conn: db})
	case "sqlite", "sqlite3":
		dialector = gormlite.OpenDB(db)
	default:
		return nil, fmt.Errorf("不支持的 GORM 方言: %s", driverName)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// 统一把方言层的唯一键冲突翻译成 gorm.ErrDuplicatedKey
		TranslateError: true,
	}
	if cfg.GetBool(config.KeyDBDebug) {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
		log.Println("【数据库】GORM Debug模式已开启，将打印所有执行的SQL语句。")
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("初始化 GORM 客户端失败: %w", err)
	}

	log.Println("✅ GORM 客户端初始化成功！")
	return gormDB, nil
}
