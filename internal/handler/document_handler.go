package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/devpool/pps/internal/blob"
	"github.com/devpool/pps/internal/logic"
	"github.com/devpool/pps/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentHandler struct {
	documentLogic *logic.DocumentLogic
	blobStore     blob.Store
}

func NewDocumentHandler(db *gorm.DB, blobStore blob.Store) *DocumentHandler {
	return &DocumentHandler{
		documentLogic: logic.NewDocumentLogic(db),
		blobStore:     blobStore,
	}
}

// Upload 上传付款凭证。multipart字段: file, document_type, description(可选)
func (h *DocumentHandler) Upload(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	typeCode := c.PostForm("document_type")
	if typeCode == "" {
		ErrorResponse(c, http.StatusBadRequest, "必须指定凭证类型")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "未提供凭证文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "读取凭证文件失败")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("payments/%d/%s%s", paymentId, uuid.NewString(),
		filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := h.blobStore.Upload(c.Request.Context(), key, contentType, file)
	if err != nil {
		ErrorResponse(c, http.StatusBadGateway, "凭证文件上传失败: "+err.Error())
		return
	}

	document, err := h.documentLogic.Attach(middleware.ActorFrom(c), paymentId,
		typeCode, url, c.PostForm("description"))
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "凭证已上传", document)
}

// List 获取付款记录的凭证列表
func (h *DocumentHandler) List(c *gin.Context) {
	paymentId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的付款记录ID")
		return
	}

	documents, err := h.documentLogic.ListByPayment(paymentId)
	if err != nil {
		LogicErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     len(documents),
	})
}
