package forms

import (
	"fmt"
)

// Reference 证明人信息块，固定两个。
type Reference struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Designation string `json:"designation" validate:"required"`
	Mobile      string `json:"mobile" validate:"required,len=10,numeric"`
	Email       string `json:"email" validate:"required,email"`
}

// DocumentSlots 其他材料清单的固定槽位，每个槽位独立上传、删除与预览。
var DocumentSlots = []string{
	"photo",
	"signature",
	"resume",
	"birth_certificate",
	"caste_certificate",
	"tenth_marksheet",
	"twelfth_marksheet",
	"graduation_certificate",
	"post_graduation_certificate",
	"phd_certificate",
	"net_set_certificate",
	"experience_certificate",
	"last_pay_slip",
	"relieving_letter",
	"identity_proof",
}

var documentSlotSet = buildSlotSet()

func buildSlotSet() map[string]struct{} {
	set := make(map[string]struct{}, len(DocumentSlots))
	for _, slot := range DocumentSlots {
		set[slot] = struct{}{}
	}
	return set
}

// KnownDocumentSlot 判断槽位名是否在清单内。
func KnownDocumentSlot(label string) bool {
	_, ok := documentSlotSet[label]
	return ok
}

// OtherDetails 其他信息分区。
type OtherDetails struct {
	References      []Reference       `json:"references" validate:"len=2,dive"`
	JoiningTime     string            `json:"joining_time" validate:"required"`
	AttendInterview string            `json:"attend_interview" validate:"required,oneof=Yes No"`
	VacancySource   string            `json:"vacancy_source" validate:"required"`
	ExpectedPay     string            `json:"expected_pay" validate:"required"`
	LastPay         string            `json:"last_pay" validate:"required"`
	NoticePeriod    string            `json:"notice_period"`
	Documents       map[string]string `json:"documents"`
}

var otherMessages = map[string]string{
	"References":      "exactly two references are required",
	"Name":            "reference name is required",
	"Address":         "reference address is required",
	"Designation":     "reference designation is required",
	"Mobile":          "reference mobile must be exactly 10 digits",
	"Email":           "a valid reference email is required",
	"JoiningTime":     "joining time is required",
	"AttendInterview": "willingness to attend interview must be Yes or No",
	"VacancySource":   "source of vacancy is required",
	"ExpectedPay":     "expected pay is required",
	"LastPay":         "last drawn pay is required",
}

// Validate 校验必填字段与材料槽位名称。
func (o *OtherDetails) Validate() error {
	if err := validate.Struct(o); err != nil {
		return firstError(err, otherMessages)
	}
	for label := range o.Documents {
		if !KnownDocumentSlot(label) {
			return &ValidationError{Field: "Documents", Message: fmt.Sprintf("unknown document slot %s", label)}
		}
	}
	return nil
}
