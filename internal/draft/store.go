package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Key 以候选人与岗位组合定位一份草稿，保证 per-(user,job) 隔离。
type Key struct {
	CandidateID string
	JobID       uint
}

// String 返回统一的命名空间键，取代历史上各表单各自拼接的本地键。
func (k Key) String() string {
	return fmt.Sprintf("draft:%s:%d", k.CandidateID, k.JobID)
}

// Backend 定义草稿字节的持久化接口。
type Backend interface {
	PutDraft(ctx context.Context, candidateID string, jobID uint, payload []byte) error
	GetDraft(ctx context.Context, candidateID string, jobID uint) ([]byte, bool, error)
	DeleteDraft(ctx context.Context, candidateID string, jobID uint) error
}

// Store 是草稿读写的唯一序列化边界。
// 损坏的持久化数据在这里统一按"无草稿"处理，绝不向调用方抛出解析错误。
type Store struct {
	backend Backend
	logger  *log.Logger
}

// NewStore 创建 Store，未提供 logger 时输出到标准输出。
func NewStore(backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stdout, "[draft] ", log.LstdFlags)
	}
	return &Store{backend: backend, logger: logger}
}

// Save 序列化并整体覆盖写入草稿。
func (s *Store) Save(ctx context.Context, key Key, aggregate any) error {
	payload, err := json.Marshal(aggregate)
	if err != nil {
		return fmt.Errorf("marshal draft %s: %w", key, err)
	}
	if err := s.backend.PutDraft(ctx, key.CandidateID, key.JobID, payload); err != nil {
		return fmt.Errorf("save draft %s: %w", key, err)
	}
	return nil
}

// Load 读取草稿并反序列化到 out。
// 键不存在或存量数据无法解析时返回 found=false 且 err=nil。
func (s *Store) Load(ctx context.Context, key Key, out any) (bool, error) {
	payload, found, err := s.backend.GetDraft(ctx, key.CandidateID, key.JobID)
	if err != nil {
		return false, fmt.Errorf("load draft %s: %w", key, err)
	}
	if !found || len(payload) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Printf("discarding corrupt draft %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// Clear 删除草稿，用于最终提交成功后的清理。
func (s *Store) Clear(ctx context.Context, key Key) error {
	if err := s.backend.DeleteDraft(ctx, key.CandidateID, key.JobID); err != nil {
		return fmt.Errorf("clear draft %s: %w", key, err)
	}
	return nil
}
