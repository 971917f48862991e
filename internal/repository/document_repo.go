package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aihub/rag-go/internal/models"
)

// DocumentRepo 文档登记表访问层
type DocumentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo 创建文档仓储
func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert 按doc_name记录一次摄取，重复摄取更新现有记录
func (r *DocumentRepo) Upsert(doc *models.Document) error {
	now := time.Now()
	if doc.CreateTime.IsZero() {
		doc.CreateTime = now
	}
	doc.UpdateTime = now

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doc_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"filename", "file_path", "file_type", "chunk_count", "status", "update_time",
		}),
	}).Create(doc).Error
}

// GetByName 按文档名查询登记记录
func (r *DocumentRepo) GetByName(docName string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.Where("doc_name = ?", docName).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List 按摄取时间倒序返回所有登记记录
func (r *DocumentRepo) List() ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.Order("update_time DESC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete 删除登记记录，目标不存在时不报错
func (r *DocumentRepo) Delete(docName string) error {
	return r.db.Where("doc_name = ?", docName).Delete(&models.Document{}).Error
}
