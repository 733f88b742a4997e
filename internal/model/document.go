package model

import (
	"strings"
	"time"
)

// Document 表示候选人上传的附件(照片、简历、各类证书)
// - Label: 上传槽位名称，例如 resume、photo、education_certificate_1
// - CandidateID + Label 组成唯一键，同一槽位重复上传覆盖旧记录
// - Path: 存储层相对路径，下载与报告合并都通过它寻址
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CandidateID string    `gorm:"index:idx_document_slot,unique;not null" json:"candidate_id"`
	Label       string    `gorm:"index:idx_document_slot,unique;not null" json:"label"`
	FileName    string    `json:"file_name"`
	Path        string    `gorm:"index;not null" json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsPDF 根据文件名后缀判断能否参与报告页合并。
func IsPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
