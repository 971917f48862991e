package rag

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FailedResponse 生成失败时返回的哨兵值
// 查询端点把它当作正常应答文本返回，不升级为错误状态
const FailedResponse = "FAILED"

// chatCompleter 聊天补全客户端，便于测试替换
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator 基于检索上下文生成最终回答
type Generator struct {
	client chatCompleter
	model  string
}

// NewGenerator 创建生成器，baseURL可指向任何OpenAI兼容端点
func NewGenerator(apiKey, baseURL, model string) *Generator {
	apiKey = strings.TrimSpace(apiKey)
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	if apiKey == "" {
		return &Generator{model: model}
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

// FormatPrompt 将上下文和问题组装成单条指令
// 要求模型自然作答、上下文不足时明确说明但仍尽力回答、引用时注明来源文档
func (g *Generator) FormatPrompt(contextText, question string) string {
	return fmt.Sprintf("You are part of a RAG pipeline. Using the information below, "+
		"answer the following question as naturally as possible. If the context is "+
		"insufficient to fully answer, state that clearly, but still provide the best "+
		"possible response. When quoting, specify the document source.\n"+
		"Context: %s\n\nQuestion: %s", contextText, question)
}

// GenerateResponse 以单条用户消息调用补全端点
func (g *Generator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("llm client not configured")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response empty")
	}
	return resp.Choices[0].Message.Content, nil
}

// ProcessAndRespond 组合格式化和生成两步
// 任何传输/接口失败都折叠为FailedResponse哨兵，不向调用方抛错
func (g *Generator) ProcessAndRespond(ctx context.Context, contextText, question string) string {
	prompt := g.FormatPrompt(contextText, question)
	response, err := g.GenerateResponse(ctx, prompt)
	if err != nil {
		return FailedResponse
	}
	return response
}
