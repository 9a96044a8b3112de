package model

import (
	"time"
)

// DocumentType 凭证类型目录,随迁移预置
type DocumentType struct {
	Id   int64  `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"not null;uniqueIndex"`
	Name string `json:"name" gorm:"not null"`
}

const (
	DocumentTypeAcceptance = "acceptance" // 验收单
	DocumentTypeInvoice    = "invoice"    // 发票
	DocumentTypeReceipt    = "receipt"    // 回单
)

// TableName 自定义表名
func (DocumentType) TableName() string {
	return "document_type"
}

// SupportingDocument 付款凭证,创建后不再修改
type SupportingDocument struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ContractPaymentId int64  `json:"contract_payment_id" gorm:"not null;index"`
	DocumentTypeId    int64  `json:"document_type_id" gorm:"not null"`
	FilePath          string `json:"file_path" gorm:"not null"`
	UploadedByUserId  int64  `json:"uploaded_by_user_id" gorm:"not null"`
	Description       string `json:"description"`
}

// TableName 自定义表名
func (SupportingDocument) TableName() string {
	return "supporting_document"
}
