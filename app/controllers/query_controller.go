package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/aihub/rag-go/app/bootstrap"
	"github.com/aihub/rag-go/internal/services"
)

var validate = validator.New()

// QueryRequest 查询请求体
type QueryRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// QueryController 检索问答控制器
type QueryController struct {
	BaseController
	ragService *services.RAGService
}

func (c *QueryController) Prepare() {
	if c.ragService == nil {
		c.ragService = bootstrap.GetApp().RAGService()
	}
}

// Query POST /query
// 生成失败折叠为哨兵应答，端点仍返回成功状态；其余异常统一500
func (c *QueryController) Query() {
	var req QueryRequest
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, &req); err != nil {
		c.JSONError(http.StatusInternalServerError, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		c.JSONError(http.StatusBadRequest, "'prompt' is required")
		return
	}

	answer, err := c.ragService.Query(c.Ctx.Request.Context(), req.Prompt)
	if err != nil {
		c.JSONError(http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"response": answer,
	})
}
