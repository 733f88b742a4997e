package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careers-portal/internal/model"
	"careers-portal/internal/storage"
)

// Store 定义岗位持久化接口。
type Store interface {
	CreateJobPost(ctx context.Context, job *model.JobPost) error
	UpdateJobPost(ctx context.Context, job *model.JobPost) error
	DeleteJobPost(ctx context.Context, id uint) error
	GetJobPost(ctx context.Context, id uint) (*model.JobPost, error)
	ListJobPosts(ctx context.Context, opts storage.JobQueryOptions) ([]model.JobPost, error)
}

// Config 控制可用岗位类别。
type Config struct {
	AllowedCategories []string `yaml:"allowed_categories" json:"allowed_categories"`
}

// Request 表示后台新增或修改岗位的请求。
type Request struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Openings    int    `json:"openings"`
	Status      string `json:"status"`
	ClosingDate string `json:"closing_date"`
}

// Service 负责校验并维护岗位发布。
type Service struct {
	store      Store
	categories map[string]model.JobCategory
}

// NewService 创建岗位服务，未配置类别时放开全部内置类别。
func NewService(store Store, cfg Config) *Service {
	allowed := cfg.AllowedCategories
	if len(allowed) == 0 {
		allowed = []string{
			string(model.JobCategoryTeaching),
			string(model.JobCategoryNonTeaching),
			string(model.JobCategoryAdmin),
		}
	}
	categoryMap := make(map[string]model.JobCategory, len(allowed))
	for _, cat := range allowed {
		if trimmed := strings.TrimSpace(cat); trimmed != "" {
			categoryMap[strings.ToLower(trimmed)] = model.JobCategory(trimmed)
		}
	}
	return &Service{store: store, categories: categoryMap}
}

// Create 校验请求并写入岗位。
func (s *Service) Create(ctx context.Context, req Request) (model.JobPost, error) {
	job, err := s.build(req)
	if err != nil {
		return model.JobPost{}, err
	}
	if err := s.store.CreateJobPost(ctx, &job); err != nil {
		return model.JobPost{}, err
	}
	return job, nil
}

// Update 校验请求并整体更新岗位。
func (s *Service) Update(ctx context.Context, id uint, req Request) (model.JobPost, error) {
	job, err := s.build(req)
	if err != nil {
		return model.JobPost{}, err
	}
	job.ID = id
	if err := s.store.UpdateJobPost(ctx, &job); err != nil {
		return model.JobPost{}, err
	}
	return job, nil
}

// Delete 删除岗位。
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteJobPost(ctx, id)
}

// Get 返回单个岗位。
func (s *Service) Get(ctx context.Context, id uint) (*model.JobPost, error) {
	return s.store.GetJobPost(ctx, id)
}

// List 返回岗位列表，公开侧只看到 open 状态。
func (s *Service) List(ctx context.Context, opts storage.JobQueryOptions) ([]model.JobPost, error) {
	return s.store.ListJobPosts(ctx, opts)
}

func (s *Service) build(req Request) (model.JobPost, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.JobPost{}, fmt.Errorf("title required")
	}

	category, ok := s.categories[strings.ToLower(strings.TrimSpace(req.Category))]
	if !ok {
		return model.JobPost{}, fmt.Errorf("unsupported category %s", req.Category)
	}

	status := model.JobStatusOpen
	switch strings.ToLower(strings.TrimSpace(req.Status)) {
	case "", "open":
	case "closed":
		status = model.JobStatusClosed
	default:
		return model.JobPost{}, fmt.Errorf("unsupported status %s", req.Status)
	}

	openings := req.Openings
	if openings <= 0 {
		openings = 1
	}

	var closing *time.Time
	if strings.TrimSpace(req.ClosingDate) != "" {
		t, err := time.Parse("2006-01-02", req.ClosingDate)
		if err != nil {
			return model.JobPost{}, fmt.Errorf("invalid closing date: %w", err)
		}
		closing = &t
	}

	return model.JobPost{
		Title:       title,
		Department:  strings.TrimSpace(req.Department),
		Category:    category,
		Description: req.Description,
		Openings:    openings,
		Status:      status,
		ClosingDate: closing,
	}, nil
}
