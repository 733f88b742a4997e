package model

import (
	"time"

	"gorm.io/datatypes"
)

// ApplicationStatus 申请记录的审核状态。
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// ApplicationDraft 表示进行中的申请草稿
// - CandidateID + JobID 组成唯一键，同一候选人对同一岗位仅保留一份草稿
// - Payload: 向导聚合状态的 JSON 序列化结果，解析失败按"无草稿"处理
// - CategoryStale: 岗位类别在草稿保存后发生过变化，由清理任务标记
type ApplicationDraft struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CandidateID   string         `gorm:"index:idx_draft_key,unique;not null" json:"candidate_id"`
	JobID         uint           `gorm:"index:idx_draft_key,unique;not null" json:"job_id"`
	Payload       datatypes.JSON `json:"payload"`
	CategoryStale bool           `json:"category_stale"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Application 表示已完成最终提交的申请
// - Reference: 对外展示的申请编号
// - Payload: 提交时的完整聚合数据，后台审核与报告导出均基于此
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Reference   string            `gorm:"uniqueIndex;not null" json:"reference"`
	CandidateID string            `gorm:"index:idx_app_key,unique;not null" json:"candidate_id"`
	JobID       uint              `gorm:"index:idx_app_key,unique;not null" json:"job_id"`
	Payload     datatypes.JSON    `json:"payload"`
	Status      ApplicationStatus `gorm:"default:'submitted'" json:"status"`
	SubmittedAt time.Time         `json:"submitted_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
