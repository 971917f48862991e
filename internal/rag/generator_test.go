package rag

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatCompleter 可注入响应或错误的补全客户端
type fakeChatCompleter struct {
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.response}},
		},
	}, nil
}

func TestFormatPrompt(t *testing.T) {
	generator := NewGenerator("", "", "test-model")

	prompt := generator.FormatPrompt("some context", "What is X?")
	assert.Contains(t, prompt, "Context: some context")
	assert.Contains(t, prompt, "Question: What is X?")
	assert.Contains(t, prompt, "answer the following question as naturally as possible")
	assert.Contains(t, prompt, "state that clearly")
	assert.Contains(t, prompt, "specify the document source")

	// 相同输入产生完全相同的提示词
	assert.Equal(t, prompt, generator.FormatPrompt("some context", "What is X?"))
}

func TestProcessAndRespond(t *testing.T) {
	fake := &fakeChatCompleter{response: "The answer is 42."}
	generator := &Generator{client: fake, model: "test-model"}

	answer := generator.ProcessAndRespond(context.Background(), "ctx text", "question?")
	assert.Equal(t, "The answer is 42.", answer)

	// 提示词作为唯一的用户消息发送
	require.Len(t, fake.lastReq.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, fake.lastReq.Messages[0].Role)
	assert.Contains(t, fake.lastReq.Messages[0].Content, "Question: question?")
	assert.Equal(t, "test-model", fake.lastReq.Model)
}

// 传输/接口失败折叠为哨兵值而不是向上抛错
func TestProcessAndRespondFailure(t *testing.T) {
	generator := &Generator{
		client: &fakeChatCompleter{err: errors.New("connection refused")},
		model:  "test-model",
	}

	answer := generator.ProcessAndRespond(context.Background(), "ctx", "question")
	assert.Equal(t, FailedResponse, answer)
}

func TestProcessAndRespondNoClient(t *testing.T) {
	generator := NewGenerator("", "", "")
	answer := generator.ProcessAndRespond(context.Background(), "ctx", "question")
	assert.Equal(t, FailedResponse, answer)
}

// 空choices视为失败
func TestGenerateResponseEmptyChoices(t *testing.T) {
	generator := &Generator{client: &emptyChoicesCompleter{}, model: "m"}
	_, err := generator.GenerateResponse(context.Background(), "p")
	assert.Error(t, err)
}

type emptyChoicesCompleter struct{}

func (e *emptyChoicesCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}
