package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"careers-portal/internal/forms"
	"careers-portal/internal/model"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// AttachmentFetcher 按相对路径拉取附件字节。
type AttachmentFetcher interface {
	Fetch(ctx context.Context, relPath string) ([]byte, error)
}

// Profile 汇总一名候选人的全部已提交分区数据。
type Profile struct {
	Personal  *forms.PersonalDetails
	Education *forms.EducationDetails
	Research  *forms.ResearchContribution
	Work      *forms.WorkExperience
	Other     *forms.OtherDetails
}

// SkippedAttachment 记录一份未能合并的附件及原因。
type SkippedAttachment struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ExportOutcome 报告导出的逐附件结果。
// 单个附件失败只记录不中断，导出始终产出可下载文件。
type ExportOutcome struct {
	MergedPaths []string            `json:"merged_paths"`
	Skipped     []SkippedAttachment `json:"skipped"`
}

// Exporter 将候选人数据渲染为摘要并与已上传的 PDF 附件合并。
type Exporter struct {
	fetcher AttachmentFetcher
	logger  *log.Logger
}

// NewExporter 创建 Exporter。
func NewExporter(fetcher AttachmentFetcher, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(os.Stdout, "[report] ", log.LstdFlags)
	}
	return &Exporter{fetcher: fetcher, logger: logger}
}

// FileName 根据候选人姓名生成下载文件名。
func FileName(p Profile) string {
	name := "candidate"
	if p.Personal != nil && strings.TrimSpace(p.Personal.FullName) != "" {
		name = strings.TrimSpace(p.Personal.FullName)
	}
	return name + " Profile.pdf"
}

// ExportCandidateReport 生成完整报告。
// 页序固定: 摘要、简历、学历证书(按列表序)、企业经历证书、教学经历证书。
// 非 PDF 附件与拉取/合并失败的附件跳过并记入 outcome，不会使导出整体失败。
func (e *Exporter) ExportCandidateReport(ctx context.Context, p Profile, category model.JobCategory) ([]byte, ExportOutcome, error) {
	outcome := ExportOutcome{}

	merged, err := renderSummary(p, category)
	if err != nil {
		return nil, outcome, fmt.Errorf("render summary: %w", err)
	}

	for _, relPath := range attachmentOrder(p) {
		if !model.IsPDF(relPath) {
			e.logger.Printf("skipping non-pdf attachment %s", relPath)
			outcome.Skipped = append(outcome.Skipped, SkippedAttachment{Path: relPath, Reason: "not a pdf"})
			continue
		}
		data, err := e.fetcher.Fetch(ctx, relPath)
		if err != nil {
			e.logger.Printf("skipping attachment %s: %v", relPath, err)
			outcome.Skipped = append(outcome.Skipped, SkippedAttachment{Path: relPath, Reason: fmt.Sprintf("fetch failed: %v", err)})
			continue
		}
		next, err := mergePDF(merged, data)
		if err != nil {
			e.logger.Printf("skipping unmergeable attachment %s: %v", relPath, err)
			outcome.Skipped = append(outcome.Skipped, SkippedAttachment{Path: relPath, Reason: fmt.Sprintf("merge failed: %v", err)})
			continue
		}
		merged = next
		outcome.MergedPaths = append(outcome.MergedPaths, relPath)
	}

	return merged, outcome, nil
}

// attachmentOrder 返回固定合并顺序的附件相对路径。
func attachmentOrder(p Profile) []string {
	var paths []string
	if p.Personal != nil && p.Personal.ResumePath != "" {
		paths = append(paths, p.Personal.ResumePath)
	}
	if p.Education != nil {
		for _, entry := range p.Education.Entries {
			if entry.CertificatePath != "" {
				paths = append(paths, entry.CertificatePath)
			}
		}
	}
	if p.Work != nil {
		for _, entry := range p.Work.Industry {
			if entry.CertificatePath != "" {
				paths = append(paths, entry.CertificatePath)
			}
		}
		for _, entry := range p.Work.Teaching {
			if entry.CertificatePath != "" {
				paths = append(paths, entry.CertificatePath)
			}
		}
	}
	return paths
}

// mergePDF 逐份合并以隔离单个附件的解析失败。
func mergePDF(base, add []byte) ([]byte, error) {
	var buf bytes.Buffer
	readers := []io.ReadSeeker{bytes.NewReader(base), bytes.NewReader(add)}
	if err := api.MergeRaw(readers, &buf, false, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
