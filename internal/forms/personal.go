package forms

import (
	"fmt"
	"strings"

	"careers-portal/internal/model"
)

// Address 通讯或户籍地址，邮编可选但填写时必须是 6 位数字。
type Address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

// LanguageKnown 一条掌握语言记录，至少勾选读/写/说之一。
type LanguageKnown struct {
	Language string `json:"language" validate:"required"`
	Read     bool   `json:"read"`
	Write    bool   `json:"write"`
	Speak    bool   `json:"speak"`
}

// PersonalDetails 个人信息分区。
// Category 为申请岗位类别，向导用它决定后续分区顺序。
type PersonalDetails struct {
	FullName          string            `json:"full_name" validate:"required"`
	DateOfBirth       string            `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender            string            `json:"gender" validate:"required"`
	Category          model.JobCategory `json:"category" validate:"required"`
	MaritalStatus     string            `json:"marital_status" validate:"required"`
	Mobile            string            `json:"mobile" validate:"required,len=10,numeric"`
	Email             string            `json:"email" validate:"required,email"`
	Aadhar            string            `json:"aadhar" validate:"omitempty,len=12,numeric"`
	PAN               string            `json:"pan" validate:"omitempty,pan"`
	PermanentAddr     Address           `json:"permanent_address"`
	SameAsPermanent   bool              `json:"same_as_permanent"`
	CommunicationAddr Address           `json:"communication_address"`
	Languages         []LanguageKnown   `json:"languages" validate:"dive"`
	PhotoPath         string            `json:"photo_path"`
	ResumePath        string            `json:"resume_path"`
}

var personalMessages = map[string]string{
	"FullName":      "full name is required",
	"DateOfBirth":   "date of birth is required in YYYY-MM-DD format",
	"Gender":        "gender is required",
	"Category":      "category is required",
	"MaritalStatus": "marital status is required",
	"Mobile":        "mobile number must be exactly 10 digits",
	"Email":         "a valid email address is required",
	"Aadhar":        "aadhar number must be exactly 12 digits",
	"PAN":           "PAN must be 5 letters, 4 digits and a letter",
	"Pincode":       "pincode must be exactly 6 digits",
	"Language":      "language name is required",
}

// Validate 按固定顺序校验个人信息，返回首条违规。
// SameAsPermanent 勾选且通讯地址为空时做一次性拷贝，之后两份地址互不影响。
func (p *PersonalDetails) Validate() error {
	if p.SameAsPermanent && p.CommunicationAddr == (Address{}) {
		p.CommunicationAddr = p.PermanentAddr
	}
	if err := validate.Struct(p); err != nil {
		return firstError(err, personalMessages)
	}
	for i, lang := range p.Languages {
		if !lang.Read && !lang.Write && !lang.Speak {
			return &ValidationError{
				Field:   fmt.Sprintf("Languages[%d]", i),
				Message: fmt.Sprintf("select at least one of read, write or speak for %s", strings.TrimSpace(lang.Language)),
			}
		}
	}
	return nil
}
