package rag

import (
	"strings"
	"unicode"
)

// Chunker 按词数切分文本的分块器
type Chunker struct {
	chunkSize int
}

// NewChunker 创建分块器，chunkSize为每块的词数
func NewChunker(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 200
	}
	return &Chunker{chunkSize: chunkSize}
}

// ChunkSize 返回每块的词数
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split 将清洗后的文本按空白切词，再按chunkSize组成连续窗口
// 窗口之间不重叠，保持原文词序，最后一个窗口可以不足chunkSize
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.chunkSize-1)/c.chunkSize)
	for start := 0; start < len(words); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}

	return chunks
}

// CleanText 将连续空白（含换行）折叠为单个空格并去掉首尾空白
// 幂等：对已清洗文本再次调用结果不变
func CleanText(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	var prevSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			builder.WriteRune(' ')
			prevSpace = true
			continue
		}
		builder.WriteRune(r)
		prevSpace = false
	}

	return strings.TrimSpace(builder.String())
}
