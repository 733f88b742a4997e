package wizard

import (
	"careers-portal/internal/model"
)

// SectionKey 标识申请向导的一个分区。
type SectionKey string

const (
	SectionPersonal    SectionKey = "personal_details"
	SectionEducation   SectionKey = "education_details"
	SectionResearch    SectionKey = "research_contribution"
	SectionWork        SectionKey = "work_experience"
	SectionOther       SectionKey = "other_details"
	SectionDeclaration SectionKey = "declaration"
)

// SectionOrder 返回类别对应的分区顺序。
// Teaching 类岗位包含科研分区，其他类别跳过它且后续序号依次前移。
func SectionOrder(category model.JobCategory) []SectionKey {
	if category == model.JobCategoryTeaching {
		return []SectionKey{SectionPersonal, SectionEducation, SectionResearch, SectionWork, SectionOther, SectionDeclaration}
	}
	return []SectionKey{SectionPersonal, SectionEducation, SectionWork, SectionOther, SectionDeclaration}
}

// Ordinal 返回分区在该类别下的序号，从 1 开始。
// 分区不适用于该类别时返回 ok=false。
func Ordinal(key SectionKey, category model.JobCategory) (int, bool) {
	for i, section := range SectionOrder(category) {
		if section == key {
			return i + 1, true
		}
	}
	return 0, false
}

// VisibleSections 返回当前步数下应当渲染的分区。
// 分区一旦展示便保持可见，步数只增不减。
func VisibleSections(step int, category model.JobCategory) []SectionKey {
	order := SectionOrder(category)
	if step < 1 {
		step = 1
	}
	if step > len(order) {
		step = len(order)
	}
	return order[:step]
}
