package repository

import (
	"fmt"

	"github.com/devpool/pps/internal/config"
	"github.com/devpool/pps/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 禁用 GORM 的默认日志输出
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true, // 禁用复数表名
		},
		TranslateError: true, // 唯一键冲突翻译为 gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 自动迁移
	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate 迁移表结构并预置凭证类型目录
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.PartnerContract{},
		&model.PaymentPeriod{},
		&model.ContractPayment{},
		&model.DocumentType{},
		&model.SupportingDocument{},
		&model.User{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return seedDocumentTypes(db)
}

// seedDocumentTypes 凭证类型为固定目录,缺失时补齐
func seedDocumentTypes(db *gorm.DB) error {
	types := []model.DocumentType{
		{Code: model.DocumentTypeAcceptance, Name: "验收单"},
		{Code: model.DocumentTypeInvoice, Name: "发票"},
		{Code: model.DocumentTypeReceipt, Name: "付款回单"},
	}

	for _, dt := range types {
		var count int64
		if err := db.Model(&model.DocumentType{}).
			Where("code = ?", dt.Code).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check document type %s: %w", dt.Code, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&dt).Error; err != nil {
			return fmt.Errorf("failed to seed document type %s: %w", dt.Code, err)
		}
	}

	return nil
}
