package logic

import (
	"testing"
	"time"

	"github.com/devpool/pps/internal/model"
	"github.com/devpool/pps/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDB 每个测试一个内存库,限制单连接保证内存库不被提前回收
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true,
		},
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	return db
}

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func createContract(t *testing.T, db *gorm.DB, partnerId, talentId int64, start, end *time.Time, status model.ContractStatus) model.PartnerContract {
	t.Helper()
	contract := model.PartnerContract{
		PartnerId: partnerId,
		TalentId:  talentId,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	require.NoError(t, db.Create(&contract).Error)
	return contract
}

func createPeriod(t *testing.T, db *gorm.DB, partnerId int64, year, month int, status model.PeriodStatus) model.PaymentPeriod {
	t.Helper()
	period := model.PaymentPeriod{
		PartnerId:   partnerId,
		PeriodYear:  year,
		PeriodMonth: month,
		Status:      status,
	}
	require.NoError(t, db.Create(&period).Error)
	return period
}

func createPayment(t *testing.T, db *gorm.DB, periodId, contractId, talentId int64, status model.PaymentStatus) model.ContractPayment {
	t.Helper()
	payment := model.ContractPayment{
		PartnerPeriodId:   periodId,
		PartnerContractId: contractId,
		TalentId:          talentId,
		Status:            status,
	}
	require.NoError(t, db.Create(&payment).Error)
	return payment
}

func attachDocument(t *testing.T, db *gorm.DB, paymentId int64, typeCode string) {
	t.Helper()
	var docType model.DocumentType
	require.NoError(t, db.Where("code = ?", typeCode).First(&docType).Error)
	require.NoError(t, db.Create(&model.SupportingDocument{
		ContractPaymentId: paymentId,
		DocumentTypeId:    docType.Id,
		FilePath:          "https://files.example.com/" + typeCode + ".pdf",
		UploadedByUserId:  1,
	}).Error)
}

// notifierStub 同步记录通知调用,供状态机测试断言
type notifierStub struct {
	roleCalls []model.Role
	userCalls [][]int64
}

func (s *notifierStub) NotifyRole(role model.Role, _, _, _ string, _ int64) {
	s.roleCalls = append(s.roleCalls, role)
}

func (s *notifierStub) NotifyUsers(userIds []int64, _, _, _ string, _ int64) {
	s.userCalls = append(s.userCalls, userIds)
}
