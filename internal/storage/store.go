package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"careers-portal/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 封装 SQLite 数据库访问，负责岗位、草稿、申请与附件记录的增删查。
type Store struct {
	db *gorm.DB
}

// JobQueryOptions 提供岗位查询过滤条件。
type JobQueryOptions struct {
	IncludeClosed bool
	Category      model.JobCategory
	Limit         int
	Offset        int
}

// NewStore 创建 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&model.JobPost{}, &model.ApplicationDraft{}, &model.Application{}, &model.Document{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// CreateJobPost 新增岗位。
func (s *Store) CreateJobPost(ctx context.Context, job *model.JobPost) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("create job post: %w", err)
	}
	return nil
}

// UpdateJobPost 按主键整体更新岗位。
func (s *Store) UpdateJobPost(ctx context.Context, job *model.JobPost) error {
	tx := s.db.WithContext(ctx).Model(&model.JobPost{}).Where("id = ?", job.ID).Updates(map[string]any{
		"title":        job.Title,
		"department":   job.Department,
		"category":     job.Category,
		"description":  job.Description,
		"openings":     job.Openings,
		"status":       job.Status,
		"closing_date": job.ClosingDate,
	})
	if tx.Error != nil {
		return fmt.Errorf("update job post: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteJobPost 删除岗位。
func (s *Store) DeleteJobPost(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Delete(&model.JobPost{}, id)
	if tx.Error != nil {
		return fmt.Errorf("delete job post: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetJobPost 根据 ID 获取岗位。
func (s *Store) GetJobPost(ctx context.Context, id uint) (*model.JobPost, error) {
	var job model.JobPost
	if err := s.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get job post: %w", err)
	}
	return &job, nil
}

// ListJobPosts 返回按创建时间倒序的岗位列表。
func (s *Store) ListJobPosts(ctx context.Context, opts JobQueryOptions) ([]model.JobPost, error) {
	var jobs []model.JobPost
	query := s.db.WithContext(ctx).Model(&model.JobPost{}).Order("created_at DESC")
	if !opts.IncludeClosed {
		query = query.Where("status = ?", model.JobStatusOpen)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list job posts: %w", err)
	}
	return jobs, nil
}

// CountJobPosts 返回满足过滤条件的岗位数量。
func (s *Store) CountJobPosts(ctx context.Context, opts JobQueryOptions) (int64, error) {
	var total int64
	query := s.db.WithContext(ctx).Model(&model.JobPost{})
	if !opts.IncludeClosed {
		query = query.Where("status = ?", model.JobStatusOpen)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count job posts: %w", err)
	}
	return total, nil
}

// PutDraft 写入草稿，同一 (candidate, job) 覆盖旧值。
func (s *Store) PutDraft(ctx context.Context, candidateID string, jobID uint, payload []byte) error {
	draft := model.ApplicationDraft{
		CandidateID: candidateID,
		JobID:       jobID,
		Payload:     datatypes.JSON(payload),
	}
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "category_stale", "updated_at"}),
	}).Create(&draft)
	if tx.Error != nil {
		return fmt.Errorf("put draft: %w", tx.Error)
	}
	return nil
}

// GetDraft 返回草稿原始字节，不存在时 found=false。
func (s *Store) GetDraft(ctx context.Context, candidateID string, jobID uint) ([]byte, bool, error) {
	var draft model.ApplicationDraft
	err := s.db.WithContext(ctx).First(&draft, "candidate_id = ? AND job_id = ?", candidateID, jobID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get draft: %w", err)
	}
	return []byte(draft.Payload), true, nil
}

// DeleteDraft 删除草稿，不存在时静默成功。
func (s *Store) DeleteDraft(ctx context.Context, candidateID string, jobID uint) error {
	if err := s.db.WithContext(ctx).Where("candidate_id = ? AND job_id = ?", candidateID, jobID).Delete(&model.ApplicationDraft{}).Error; err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// ListDrafts 返回全部草稿记录，供清理任务扫描。
func (s *Store) ListDrafts(ctx context.Context) ([]model.ApplicationDraft, error) {
	var drafts []model.ApplicationDraft
	if err := s.db.WithContext(ctx).Order("updated_at ASC").Find(&drafts).Error; err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}

// MarkDraftCategoryStale 标记草稿的岗位类别已变化。
func (s *Store) MarkDraftCategoryStale(ctx context.Context, id uint, stale bool) error {
	tx := s.db.WithContext(ctx).Model(&model.ApplicationDraft{}).Where("id = ?", id).Update("category_stale", stale)
	if tx.Error != nil {
		return fmt.Errorf("mark draft stale: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("mark draft stale: id %d not found", id)
	}
	return nil
}

// CreateApplication 写入最终提交记录，唯一键冲突直接返回错误。
func (s *Store) CreateApplication(ctx context.Context, app *model.Application) error {
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// GetApplication 查询候选人对指定岗位的提交记录。
func (s *Store) GetApplication(ctx context.Context, candidateID string, jobID uint) (*model.Application, error) {
	var app model.Application
	err := s.db.WithContext(ctx).First(&app, "candidate_id = ? AND job_id = ?", candidateID, jobID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	return &app, nil
}

// ListApplicationsByJob 返回岗位下全部提交记录，按提交时间升序。
func (s *Store) ListApplicationsByJob(ctx context.Context, jobID uint) ([]model.Application, error) {
	var apps []model.Application
	if err := s.db.WithContext(ctx).Where("job_id = ?", jobID).Order("submitted_at ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus 更新审核状态。
func (s *Store) UpdateApplicationStatus(ctx context.Context, id uint, status model.ApplicationStatus) error {
	tx := s.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return fmt.Errorf("update application status: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateDocument 记录一份已上传附件，同一 (candidate, label) 槽位覆盖旧记录。
func (s *Store) CreateDocument(ctx context.Context, doc *model.Document) error {
	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "label"}},
		DoUpdates: clause.AssignmentColumns([]string{"file_name", "path", "size", "content_type", "created_at"}),
	}).Create(doc)
	if tx.Error != nil {
		return fmt.Errorf("create document: %w", tx.Error)
	}
	return nil
}

// GetDocumentByPath 按存储路径查询附件。
func (s *Store) GetDocumentByPath(ctx context.Context, path string) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).First(&doc, "path = ?", path).Error
	if err == gorm.ErrRecordNotFound {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments 返回候选人全部附件记录。
func (s *Store) ListDocuments(ctx context.Context, candidateID string) ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument 删除候选人指定槽位的附件记录。
func (s *Store) DeleteDocument(ctx context.Context, candidateID, label string) error {
	tx := s.db.WithContext(ctx).Where("candidate_id = ? AND label = ?", candidateID, label).Delete(&model.Document{})
	if tx.Error != nil {
		return fmt.Errorf("delete document: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
