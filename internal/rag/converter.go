package rag

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	apperrors "github.com/aihub/rag-go/internal/errors"
)

// Markdown语法清洗规则，与分块前的文本归一化配合使用
// 链接整体移除，不保留链接文字
var (
	markdownHeadingRe  = regexp.MustCompile(`#+\s*`)
	markdownEmphasisRe = regexp.MustCompile("[*_~`]+")
	markdownLinkRe     = regexp.MustCompile(`\[.*?\]\(.*?\)`)
)

// Converter 将文档转换为带向量的分块序列
type Converter struct {
	chunker  *Chunker
	embedder Embedder
}

// NewConverter 创建转换器
func NewConverter(chunker *Chunker, embedder Embedder) *Converter {
	return &Converter{
		chunker:  chunker,
		embedder: embedder,
	}
}

// ConvertToChunks 按文件扩展名分派解析，返回按块序排列的分块记录
// 支持的类型是封闭集合：pdf、txt、md/markdown，其余返回UnsupportedFileType
func (c *Converter) ConvertToChunks(ctx context.Context, filePath, docName string) ([]Chunk, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDFText(filePath)
	case "txt":
		text, err = readTextFile(filePath)
	case "md", "markdown":
		text, err = readTextFile(filePath)
		if err == nil {
			text = stripMarkdown(text)
		}
	default:
		return nil, apperrors.NewUnsupportedFileType(ext)
	}
	if err != nil {
		return nil, err
	}

	return c.processText(ctx, text, docName)
}

// processText 清洗、分块并向量化文本
func (c *Converter) processText(ctx context.Context, text, docName string) ([]Chunk, error) {
	cleaned := CleanText(text)
	windows := c.chunker.Split(cleaned)
	if len(windows) == 0 {
		return nil, nil
	}

	embeddings, err := c.embedder.EmbedBatch(ctx, windows)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(windows) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(windows))
	}

	chunks := make([]Chunk, len(windows))
	for i, window := range windows {
		chunks[i] = Chunk{
			ID:        fmt.Sprintf("%s_chunk_%d", docName, i),
			Text:      window,
			Embedding: embeddings[i],
		}
	}
	return chunks, nil
}

func readTextFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// extractPDFText 按页序拼接所有页面的文本
func extractPDFText(filePath string) (string, error) {
	pdfBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf file: %w", err)
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(pdfBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get pdf page count: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("failed to get pdf page %d: %w", i, err)
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("failed to create extractor for page %d: %w", i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

// stripMarkdown 去除Markdown格式标记：标题、强调/行内代码、链接
func stripMarkdown(text string) string {
	text = markdownHeadingRe.ReplaceAllString(text, "")
	text = markdownEmphasisRe.ReplaceAllString(text, "")
	text = markdownLinkRe.ReplaceAllString(text, "")
	return text
}
