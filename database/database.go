package database

import (
	"fmt"
	"log"

	"butce/config"
	"butce/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	// 构建 MySQL DSN 连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
	sqlDB.SetMaxOpenConns(100) // 最大打开连接数

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
	); err != nil {
		return err
	}

	if err := seedDefaultCategories(); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// seedDefaultCategories 播种全局默认类别（仅当不存在任何默认类别时）
// 默认类别 user_id 为 NULL，对所有用户可见，不可修改、不可删除
func seedDefaultCategories() error {
	var count int64
	if err := DB.Model(&models.Category{}).
		Where("is_default = ? AND user_id IS NULL", true).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := models.DefaultCategories()
	if err := DB.Create(&defaults).Error; err != nil {
		return fmt.Errorf("播种默认类别失败: %w", err)
	}
	log.Printf("已播种 %d 个默认类别", len(defaults))
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
