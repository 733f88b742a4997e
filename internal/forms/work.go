package forms

import (
	"fmt"
	"time"

	"careers-portal/internal/model"
)

// WorkEntry 一条工作经历。
// ToDate 与 CurrentlyWorking 互斥: 勾选在职会清空 ToDate。
type WorkEntry struct {
	Designation          string `json:"designation" validate:"required"`
	Institution          string `json:"institution" validate:"required"`
	Address              string `json:"address" validate:"required"`
	Specialization       string `json:"specialization" validate:"required"`
	CertificateAvailable string `json:"certificate_available" validate:"required,oneof=Yes No"`
	CertificatePath      string `json:"certificate_path"`
	FromDate             string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate               string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
	CurrentlyWorking     bool   `json:"currently_working"`
}

func (e WorkEntry) empty() bool {
	return e.Designation == "" && e.Institution == "" && e.Address == "" &&
		e.Specialization == "" && e.CertificateAvailable == "" && e.CertificatePath == "" &&
		e.FromDate == "" && e.ToDate == "" && !e.CurrentlyWorking
}

// WorkExperience 工作经历分区，教学与企业两个列表独立维护。
// Teaching 类岗位只校验教学列表，其余类别只校验企业列表。
type WorkExperience struct {
	Teaching []WorkEntry `json:"teaching"`
	Industry []WorkEntry `json:"industry"`
}

var workMessages = map[string]string{
	"Designation":          "designation is required",
	"Institution":          "institution or company is required",
	"Address":              "address is required",
	"Specialization":       "specialization is required",
	"CertificateAvailable": "certificate availability must be Yes or No",
	"FromDate":             "from date is required in YYYY-MM-DD format",
	"ToDate":               "to date must be in YYYY-MM-DD format",
}

// ValidateFor 按岗位类别校验相应列表，整行为空的记录先剔除。
// 证书声明为 Yes 而未上传文件按硬性失败处理。
func (w *WorkExperience) ValidateFor(category model.JobCategory) error {
	w.Teaching = pruneWork(w.Teaching)
	w.Industry = pruneWork(w.Industry)

	entries := w.Industry
	listName := "Industry"
	if category == model.JobCategoryTeaching {
		entries = w.Teaching
		listName = "Teaching"
	}

	for i := range entries {
		entry := &entries[i]
		if entry.CurrentlyWorking {
			entry.ToDate = ""
		}
		if err := validate.Struct(entry); err != nil {
			if verr := firstError(err, workMessages); verr != nil {
				if ve, ok := verr.(*ValidationError); ok {
					ve.Field = fmt.Sprintf("%s[%d].%s", listName, i, ve.Field)
				}
				return verr
			}
		}
		if !entry.CurrentlyWorking && entry.ToDate == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("%s[%d].ToDate", listName, i),
				Message: "either a to date or currently working is required",
			}
		}
		if entry.ToDate != "" {
			from, _ := time.Parse("2006-01-02", entry.FromDate)
			to, _ := time.Parse("2006-01-02", entry.ToDate)
			if from.After(to) {
				return &ValidationError{
					Field:   fmt.Sprintf("%s[%d].FromDate", listName, i),
					Message: "from date must not be later than to date",
				}
			}
		}
		if entry.CertificateAvailable == "Yes" && entry.CertificatePath == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("%s[%d].CertificatePath", listName, i),
				Message: "experience certificate upload is required when availability is Yes",
			}
		}
	}
	return nil
}

func pruneWork(entries []WorkEntry) []WorkEntry {
	kept := entries[:0]
	for _, entry := range entries {
		if !entry.empty() {
			kept = append(kept, entry)
		}
	}
	return kept
}
