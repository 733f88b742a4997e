package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"

	"careers-portal/internal/model"

	"golang.org/x/sync/errgroup"
)

// Config 清理任务配置。
type Config struct {
	Interval string `yaml:"interval" json:"interval"`
	Timeout  string `yaml:"timeout" json:"timeout"`
}

// Store 抽象清理所需的存储接口，便于测试替换。
type Store interface {
	ListDrafts(ctx context.Context) ([]model.ApplicationDraft, error)
	DeleteDraft(ctx context.Context, candidateID string, jobID uint) error
	MarkDraftCategoryStale(ctx context.Context, id uint, stale bool) error
	GetJobPost(ctx context.Context, id uint) (*model.JobPost, error)
}

// SweepResult 单轮清理的统计。
type SweepResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
	Flagged int `json:"flagged"`
}

// Sweeper 周期性核对草稿与岗位现状。
// 草稿本身永不过期，但指向已关闭或已删除岗位的草稿会被清除，
// 岗位类别变化的草稿被标记，向导下次加载时按新类别重排分区。
type Sweeper struct {
	store     Store
	interval  time.Duration
	timeout   time.Duration
	running   atomic.Bool
	newTicker func(time.Duration) ticker
	now       func() time.Time
	logger    *log.Logger
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewSweeper 创建 Sweeper，解析配置的间隔与超时。
func NewSweeper(store Store, cfg Config) *Sweeper {
	interval := 6 * time.Hour
	if cfg.Interval != "" {
		if d, err := time.ParseDuration(cfg.Interval); err == nil && d > 0 {
			interval = d
		}
	}
	timeout := 30 * time.Second
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
			timeout = d
		}
	}

	return &Sweeper{
		store:     store,
		interval:  interval,
		timeout:   timeout,
		newTicker: defaultTicker,
		now:       time.Now,
		logger:    log.New(os.Stdout, "[sweeper] ", log.LstdFlags),
	}
}

// Start 启动清理循环，直到上下文取消。
func (s *Sweeper) Start(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("sweeper missing store")
	}

	g, ctx := errgroup.WithContext(ctx)

	tick := s.newTicker(s.interval)
	ch := tick.C()

	g.Go(func() error {
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ch:
				if _, err := s.runOnce(ctx); err != nil {
					return err
				}
			drain:
				for {
					select {
					case <-ch:
						continue
					default:
						break drain
					}
				}
			}
		}
	})

	return g.Wait()
}

// RunOnce 对外暴露单轮清理，供后台手动触发。
func (s *Sweeper) RunOnce(ctx context.Context) (SweepResult, error) {
	return s.runOnce(ctx)
}

func (s *Sweeper) runOnce(ctx context.Context) (SweepResult, error) {
	res := SweepResult{}
	if s.running.Swap(true) {
		return res, nil
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	drafts, err := s.store.ListDrafts(ctx)
	if err != nil {
		return res, fmt.Errorf("list drafts: %w", err)
	}

	now := s.now()
	for _, d := range drafts {
		res.Scanned++

		job, err := s.store.GetJobPost(ctx, d.JobID)
		if errors.Is(err, sql.ErrNoRows) {
			if err := s.store.DeleteDraft(ctx, d.CandidateID, d.JobID); err != nil {
				return res, fmt.Errorf("delete orphan draft %d: %w", d.ID, err)
			}
			s.logger.Printf("removed draft for deleted job %d (candidate %s)", d.JobID, d.CandidateID)
			res.Removed++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("get job %d: %w", d.JobID, err)
		}

		if job.Closed(now) {
			if err := s.store.DeleteDraft(ctx, d.CandidateID, d.JobID); err != nil {
				return res, fmt.Errorf("delete closed-job draft %d: %w", d.ID, err)
			}
			s.logger.Printf("removed draft for closed job %d (candidate %s)", d.JobID, d.CandidateID)
			res.Removed++
			continue
		}

		if cat := draftCategory(d.Payload); cat != "" && cat != job.Category && !d.CategoryStale {
			if err := s.store.MarkDraftCategoryStale(ctx, d.ID, true); err != nil {
				return res, fmt.Errorf("flag draft %d: %w", d.ID, err)
			}
			s.logger.Printf("flagged draft %d: job %d recategorized %s -> %s", d.ID, d.JobID, cat, job.Category)
			res.Flagged++
		}
	}

	return res, nil
}

// draftCategory 从草稿负载里读出保存时的岗位类别，解析失败返回空。
func draftCategory(payload []byte) model.JobCategory {
	var probe struct {
		Category model.JobCategory `json:"job_category"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.Category
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }
