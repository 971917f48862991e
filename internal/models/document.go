package models

import "time"

// Document 已摄取文档的登记记录
// 原始内容的事实来源是文件存储，这里只记录元数据
type Document struct {
	DocumentID uint      `gorm:"primaryKey;column:document_id" json:"document_id"`
	DocName    string    `gorm:"column:doc_name;size:255;uniqueIndex;not null" json:"doc_name"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	FilePath   string    `gorm:"size:500" json:"file_path"`
	FileType   string    `gorm:"size:20" json:"file_type"`
	ChunkCount int       `gorm:"column:chunk_count;default:0" json:"chunk_count"`
	Status     string    `gorm:"size:20;default:processing" json:"status"`
	CreateTime time.Time `gorm:"column:create_time" json:"create_time"`
	UpdateTime time.Time `gorm:"column:update_time" json:"update_time"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "documents"
}
