package wizard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"careers-portal/internal/draft"
	"careers-portal/internal/forms"
	"careers-portal/internal/model"

	"github.com/google/uuid"
)

// Aggregate 聚合六个分区的已提交数据。
// 分区字段只在对应分区提交过之后出现，Research 仅在 Teaching 类别下保留。
type Aggregate struct {
	Personal    *forms.PersonalDetails      `json:"personal_details,omitempty"`
	Education   *forms.EducationDetails     `json:"education_details,omitempty"`
	Research    *forms.ResearchContribution `json:"research_contribution,omitempty"`
	Work        *forms.WorkExperience       `json:"work_experience,omitempty"`
	Other       *forms.OtherDetails         `json:"other_details,omitempty"`
	Declaration *forms.Declaration          `json:"declaration,omitempty"`
	Category    model.JobCategory           `json:"job_category,omitempty"`
	Step        int                         `json:"current_step"`
}

// State 是向导返回给调用方的快照。
// Reveal 指向本次提交后新展示的分区，供前端滚动定位。
type State struct {
	CandidateID string            `json:"candidate_id"`
	JobID       uint              `json:"job_id"`
	Category    model.JobCategory `json:"category"`
	Step        int               `json:"step"`
	Visible     []SectionKey      `json:"visible"`
	Reveal      SectionKey        `json:"reveal,omitempty"`
	Submitted   bool              `json:"submitted"`
	Aggregate   Aggregate         `json:"aggregate"`
}

// JobStore 抽象岗位读取接口。
type JobStore interface {
	GetJobPost(ctx context.Context, id uint) (*model.JobPost, error)
}

// Drafts 抽象草稿读写接口。
type Drafts interface {
	Save(ctx context.Context, key draft.Key, aggregate any) error
	Load(ctx context.Context, key draft.Key, out any) (bool, error)
	Clear(ctx context.Context, key draft.Key) error
}

// Applications 抽象最终提交记录的读写。
type Applications interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplication(ctx context.Context, candidateID string, jobID uint) (*model.Application, error)
}

// Notifier 在最终提交成功后发送通知。
type Notifier interface {
	Notify(ctx context.Context, app model.Application, job *model.JobPost) error
}

// Controller 串联分区表单、草稿存储与最终提交。
// 每次分区提交都会整体落盘聚合状态，步数只前进不回退。
type Controller struct {
	jobs   JobStore
	drafts Drafts
	apps   Applications
	notif  Notifier
	logger *log.Logger
	now    func() time.Time
}

// NewController 创建 Controller，notif 可为 nil。
func NewController(jobs JobStore, drafts Drafts, apps Applications, notif Notifier, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(os.Stdout, "[wizard] ", log.LstdFlags)
	}
	return &Controller{jobs: jobs, drafts: drafts, apps: apps, notif: notif, logger: logger, now: time.Now}
}

// Initialize 恢复或新建向导状态。
// 类别先从草稿中的个人信息推断，默认 Teaching，岗位记录可用时以岗位类别为准。
func (c *Controller) Initialize(ctx context.Context, candidateID string, jobID uint) (State, error) {
	key := draft.Key{CandidateID: candidateID, JobID: jobID}

	var agg Aggregate
	found, err := c.drafts.Load(ctx, key, &agg)
	if err != nil {
		// 读路径失败按无草稿处理，不让候选人卡在加载上
		c.logger.Printf("load draft %s failed, starting fresh: %v", key, err)
		agg = Aggregate{}
		found = false
	}
	if !found {
		agg = Aggregate{}
	}

	category := agg.Category
	if category == "" && agg.Personal != nil {
		category = agg.Personal.Category
	}
	if category == "" {
		category = model.JobCategoryTeaching
	}

	var job *model.JobPost
	if j, err := c.jobs.GetJobPost(ctx, jobID); err == nil {
		job = j
		category = job.Category
	} else if !errors.Is(err, sql.ErrNoRows) {
		c.logger.Printf("fetch job %d failed, keeping inferred category %s: %v", jobID, category, err)
	}

	step := agg.Step
	if step < 1 {
		step = 1
	}
	if max := len(SectionOrder(category)) + 1; step > max {
		step = max
	}
	agg.Category = category
	agg.Step = step
	if category != model.JobCategoryTeaching {
		agg.Research = nil
	}

	submitted := false
	if app, err := c.apps.GetApplication(ctx, candidateID, jobID); err == nil && app != nil {
		submitted = true
	}

	return State{
		CandidateID: candidateID,
		JobID:       jobID,
		Category:    category,
		Step:        step,
		Visible:     VisibleSections(step, category),
		Submitted:   submitted,
		Aggregate:   agg,
	}, nil
}

// SubmitSection 校验并合并一个分区，随后整体持久化并推进步数。
func (c *Controller) SubmitSection(ctx context.Context, candidateID string, jobID uint, section SectionKey, payload json.RawMessage) (State, error) {
	st, err := c.Initialize(ctx, candidateID, jobID)
	if err != nil {
		return State{}, err
	}
	if st.Submitted {
		return st, fmt.Errorf("application already submitted")
	}

	agg := st.Aggregate
	category := st.Category

	switch section {
	case SectionPersonal:
		var data forms.PersonalDetails
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode personal details: %w", err)
		}
		if err := data.Validate(); err != nil {
			return st, err
		}
		agg.Personal = &data
		if data.Category != "" {
			category = data.Category
		}
	case SectionEducation:
		var data forms.EducationDetails
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode education details: %w", err)
		}
		if err := data.Validate(); err != nil {
			return st, err
		}
		agg.Education = &data
	case SectionResearch:
		if category != model.JobCategoryTeaching {
			return st, &forms.ValidationError{Field: string(section), Message: "research contribution applies to Teaching posts only"}
		}
		var data forms.ResearchContribution
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode research contribution: %w", err)
		}
		if err := data.Validate(); err != nil {
			return st, err
		}
		agg.Research = &data
	case SectionWork:
		var data forms.WorkExperience
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode work experience: %w", err)
		}
		if err := data.ValidateFor(category); err != nil {
			return st, err
		}
		agg.Work = &data
	case SectionOther:
		var data forms.OtherDetails
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode other details: %w", err)
		}
		if err := data.Validate(); err != nil {
			return st, err
		}
		agg.Other = &data
	case SectionDeclaration:
		var data forms.Declaration
		if err := json.Unmarshal(payload, &data); err != nil {
			return st, fmt.Errorf("decode declaration: %w", err)
		}
		if err := data.Validate(); err != nil {
			return st, err
		}
		agg.Declaration = &data
	default:
		return st, fmt.Errorf("unknown section %s", section)
	}

	if category != model.JobCategoryTeaching {
		agg.Research = nil
	}

	ord, ok := Ordinal(section, category)
	if !ok {
		return st, fmt.Errorf("section %s not applicable for category %s", section, category)
	}
	step := st.Step
	if next := ord + 1; next > step {
		step = next
	}
	if max := len(SectionOrder(category)) + 1; step > max {
		step = max
	}

	agg.Category = category
	agg.Step = step

	key := draft.Key{CandidateID: candidateID, JobID: jobID}
	if err := c.drafts.Save(ctx, key, agg); err != nil {
		return st, err
	}

	st.Aggregate = agg
	st.Category = category
	st.Step = step
	st.Visible = VisibleSections(step, category)
	st.Reveal = ""
	if order := SectionOrder(category); step <= len(order) && step-1 > 0 {
		st.Reveal = order[step-1]
	}
	return st, nil
}

// Submit 执行最终提交: 写入申请记录、清理草稿、发送通知。
// 已存在提交记录时直接返回旧记录，不会产生第二次写入。
func (c *Controller) Submit(ctx context.Context, candidateID string, jobID uint) (*model.Application, error) {
	if existing, err := c.apps.GetApplication(ctx, candidateID, jobID); err == nil && existing != nil {
		return existing, nil
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing application: %w", err)
	}

	st, err := c.Initialize(ctx, candidateID, jobID)
	if err != nil {
		return nil, err
	}

	agg := st.Aggregate
	for _, section := range SectionOrder(st.Category) {
		if !sectionPresent(agg, section) {
			return nil, &forms.ValidationError{Field: string(section), Message: fmt.Sprintf("section %s must be completed before submission", section)}
		}
	}
	if err := agg.Declaration.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(agg)
	if err != nil {
		return nil, fmt.Errorf("marshal application payload: %w", err)
	}

	app := &model.Application{
		Reference:   uuid.NewString(),
		CandidateID: candidateID,
		JobID:       jobID,
		Payload:     payload,
		Status:      model.ApplicationStatusSubmitted,
		SubmittedAt: c.now(),
	}
	if err := c.apps.CreateApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	key := draft.Key{CandidateID: candidateID, JobID: jobID}
	if err := c.drafts.Clear(ctx, key); err != nil {
		c.logger.Printf("clear draft %s after submit: %v", key, err)
	}

	if c.notif != nil {
		var job *model.JobPost
		if j, err := c.jobs.GetJobPost(ctx, jobID); err == nil {
			job = j
		}
		if err := c.notif.Notify(ctx, *app, job); err != nil {
			c.logger.Printf("notify submission %s: %v", app.Reference, err)
		}
	}

	return app, nil
}

func sectionPresent(agg Aggregate, section SectionKey) bool {
	switch section {
	case SectionPersonal:
		return agg.Personal != nil
	case SectionEducation:
		return agg.Education != nil
	case SectionResearch:
		return agg.Research != nil
	case SectionWork:
		return agg.Work != nil
	case SectionOther:
		return agg.Other != nil
	case SectionDeclaration:
		return agg.Declaration != nil
	}
	return false
}
