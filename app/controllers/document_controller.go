package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aihub/rag-go/app/bootstrap"
	apperrors "github.com/aihub/rag-go/internal/errors"
	"github.com/aihub/rag-go/internal/services"
)

// 上传端点允许的扩展名集合
var allowedExtensions = map[string]bool{
	"txt": true,
	"pdf": true,
	"md":  true,
}

func allowedFile(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return allowedExtensions[ext]
}

// DocumentController 文档摄取控制器
type DocumentController struct {
	BaseController
	ragService *services.RAGService
}

func (c *DocumentController) Prepare() {
	if c.ragService == nil {
		c.ragService = bootstrap.GetApp().RAGService()
	}
}

// Upload POST /upload_doc
// 接收multipart文件和doc_name字段，校验全部通过后才产生副作用
func (c *DocumentController) Upload() {
	file, header, err := c.GetFile("file")
	if err != nil {
		c.JSONError(http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.JSONError(http.StatusBadRequest, "No selected file")
		return
	}

	docName := strings.TrimSpace(c.GetString("doc_name"))
	if docName == "" {
		c.JSONError(http.StatusBadRequest, "'doc_name' is required and cannot be empty")
		return
	}

	if !allowedFile(header.Filename) {
		c.JSONError(http.StatusBadRequest, "Invalid file format. Allowed formats: txt, pdf, md.")
		return
	}

	ctx := c.Ctx.Request.Context()
	if err := c.ragService.IngestDocument(ctx, docName, header.Filename, file, header.Size); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSONError(appErr.HTTPCode, appErr.Message)
			return
		}
		c.JSONError(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Document uploaded and processed successfully!",
	})
}

// docNameParam 读取路径参数并还原完整ID
// beego把末段路径在最后一个点处拆成:doc_name和:ext
func (c *DocumentController) docNameParam() string {
	docName := c.GetString(":doc_name")
	if ext := c.GetString(":ext"); ext != "" {
		docName += "." + ext
	}
	return docName
}

// Delete DELETE /documents/:doc_name
// 按完整分块ID删除，目标不存在时返回404而非异常
func (c *DocumentController) Delete() {
	docName := c.docNameParam()
	if docName == "" {
		c.JSONError(http.StatusBadRequest, "'doc_name' is required and cannot be empty")
		return
	}

	deleted, err := c.ragService.DeleteDocument(c.Ctx.Request.Context(), docName)
	if err != nil {
		c.JSONError(http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		c.JSONError(http.StatusNotFound, fmt.Sprintf("No chunks found with doc_name: %s.", docName))
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Deleted chunks associated with doc_name: %s.", docName),
	})
}

// Exists GET /documents/:doc_name/exists
func (c *DocumentController) Exists() {
	docName := c.docNameParam()
	if docName == "" {
		c.JSONError(http.StatusBadRequest, "'doc_name' is required and cannot be empty")
		return
	}

	exists, err := c.ragService.DocumentExists(c.Ctx.Request.Context(), docName)
	if err != nil {
		c.JSONError(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"doc_name": docName,
		"exists":   exists,
	})
}
