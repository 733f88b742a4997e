package forms

import (
	"fmt"
)

// EducationEntry 一条学历记录，全部字段必填。
type EducationEntry struct {
	Qualification   string `json:"qualification" validate:"required"`
	Degree          string `json:"degree" validate:"required"`
	Specialization  string `json:"specialization" validate:"required"`
	Percentage      string `json:"percentage" validate:"required"`
	PassingYear     string `json:"passing_year" validate:"required,len=4,numeric"`
	School          string `json:"school" validate:"required"`
	University      string `json:"university" validate:"required"`
	Mode            string `json:"mode" validate:"required"`
	Type            string `json:"type" validate:"required"`
	CertificatePath string `json:"certificate_path"`
}

func (e EducationEntry) empty() bool {
	return e.Qualification == "" && e.Degree == "" && e.Specialization == "" &&
		e.Percentage == "" && e.PassingYear == "" && e.School == "" &&
		e.University == "" && e.Mode == "" && e.Type == "" && e.CertificatePath == ""
}

// EducationDetails 学历分区。
// EligibilityTests 与 ExtraCurricular 仅对 Teaching 类岗位有意义，
// 其他类别的提交允许携带但报告导出会忽略。
type EducationDetails struct {
	Entries          []EducationEntry `json:"entries"`
	EligibilityTests []string         `json:"eligibility_tests"`
	ExtraCurricular  []string         `json:"extra_curricular"`
}

var educationMessages = map[string]string{
	"Qualification":  "qualification is required",
	"Degree":         "degree is required",
	"Specialization": "specialization is required",
	"Percentage":     "percentage is required",
	"PassingYear":    "passing year must be a 4 digit year",
	"School":         "school or college is required",
	"University":     "board or university is required",
	"Mode":           "mode of study is required",
	"Type":           "type of degree is required",
}

var eligibilityTests = map[string]struct{}{
	"NET":  {},
	"SET":  {},
	"SLET": {},
}

// Validate 剔除整行为空的记录后逐条校验，至少保留一条学历。
func (e *EducationDetails) Validate() error {
	e.Entries = pruneEducation(e.Entries)
	if len(e.Entries) == 0 {
		return &ValidationError{Field: "Entries", Message: "at least one education entry is required"}
	}
	for i := range e.Entries {
		if err := validate.Struct(&e.Entries[i]); err != nil {
			if verr := firstError(err, educationMessages); verr != nil {
				if ve, ok := verr.(*ValidationError); ok {
					ve.Field = fmt.Sprintf("Entries[%d].%s", i, ve.Field)
				}
				return verr
			}
		}
	}
	for _, test := range e.EligibilityTests {
		if _, ok := eligibilityTests[test]; !ok {
			return &ValidationError{Field: "EligibilityTests", Message: fmt.Sprintf("unknown eligibility test %s", test)}
		}
	}
	return nil
}

func pruneEducation(entries []EducationEntry) []EducationEntry {
	kept := entries[:0]
	for _, entry := range entries {
		if !entry.empty() {
			kept = append(kept, entry)
		}
	}
	return kept
}
