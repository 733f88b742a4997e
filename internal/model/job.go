package model

import (
	"time"
)

// JobCategory 岗位类别，决定申请向导的分区顺序与报告结构。
type JobCategory string

const (
	JobCategoryTeaching    JobCategory = "Teaching"
	JobCategoryNonTeaching JobCategory = "Non-Teaching"
	JobCategoryAdmin       JobCategory = "Administration"
)

// JobStatus 岗位发布状态。
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// JobPost 表示一条招聘岗位
// - Category: 岗位类别，Teaching 类岗位申请流程包含科研分区
// - Status: open 岗位对外可见，closed 岗位仅后台可见
// - ClosingDate: 截止时间，为空表示长期有效
type JobPost struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Department  string      `json:"department"`
	Category    JobCategory `gorm:"not null" json:"category"`
	Description string      `gorm:"type:text" json:"description"`
	Openings    int         `json:"openings"`
	Status      JobStatus   `gorm:"default:'open'" json:"status"`
	ClosingDate *time.Time  `json:"closing_date,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Closed 判断岗位是否已停止接收申请。
func (j JobPost) Closed(now time.Time) bool {
	if j.Status == JobStatusClosed {
		return true
	}
	if j.ClosingDate != nil && j.ClosingDate.Before(now) {
		return true
	}
	return false
}
