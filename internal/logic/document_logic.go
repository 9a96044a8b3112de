package logic

import (
	"errors"
	"fmt"

	"github.com/devpool/pps/internal/model"
	"gorm.io/gorm"
)

// DocumentLogic 付款凭证业务逻辑。凭证创建后不再修改。
type DocumentLogic struct {
	db *gorm.DB
}

// NewDocumentLogic 创建凭证业务逻辑
func NewDocumentLogic(db *gorm.DB) *DocumentLogic {
	return &DocumentLogic{db: db}
}

// Attach 为付款记录挂载一份凭证,filePath 为存储层返回的不透明URL
func (l *DocumentLogic) Attach(actor model.Actor, paymentId int64, typeCode, filePath, description string) (*model.SupportingDocument, error) {
	var payment model.ContractPayment
	if err := l.db.First(&payment, paymentId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 付款记录 %d", ErrNotFound, paymentId)
		}
		return nil, fmt.Errorf("获取付款记录失败: %w", err)
	}

	var docType model.DocumentType
	if err := l.db.Where("code = ?", typeCode).First(&docType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, preconditionf("未知的凭证类型: %s", typeCode)
		}
		return nil, fmt.Errorf("获取凭证类型失败: %w", err)
	}

	document := model.SupportingDocument{
		ContractPaymentId: payment.Id,
		DocumentTypeId:    docType.Id,
		FilePath:          filePath,
		UploadedByUserId:  actor.UserId,
		Description:       description,
	}
	if err := l.db.Create(&document).Error; err != nil {
		return nil, fmt.Errorf("创建凭证记录失败: %w", err)
	}
	return &document, nil
}

// ListByPayment 获取付款记录的凭证列表
func (l *DocumentLogic) ListByPayment(paymentId int64) ([]model.SupportingDocument, error) {
	var documents []model.SupportingDocument
	if err := l.db.Where("contract_payment_id = ?", paymentId).
		Order("id ASC").
		Find(&documents).Error; err != nil {
		return nil, fmt.Errorf("获取凭证列表失败: %w", err)
	}
	return documents, nil
}
