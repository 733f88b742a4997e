package forms

// 科研贡献分区仅 Teaching 类岗位填写。
// 六个子列表各自独立增删行，留空的行在提交时丢弃。

// ProjectRow 在研或已结题项目。
type ProjectRow struct {
	Title         string `json:"title"`
	FundingAgency string `json:"funding_agency"`
	Amount        string `json:"amount"`
	Duration      string `json:"duration"`
	Status        string `json:"status"`
}

// PatentRow 专利记录。
type PatentRow struct {
	Title  string `json:"title"`
	Number string `json:"number"`
	Status string `json:"status"`
	Year   string `json:"year"`
}

// FellowshipRow 博士后经历。
type FellowshipRow struct {
	Title     string `json:"title"`
	Institute string `json:"institute"`
	Duration  string `json:"duration"`
	Year      string `json:"year"`
}

// ConsultancyRow 横向课题或咨询服务。
type ConsultancyRow struct {
	Organization string `json:"organization"`
	Nature       string `json:"nature"`
	Amount       string `json:"amount"`
	Year         string `json:"year"`
}

// ConferenceRow 会议报告记录。
type ConferenceRow struct {
	Title     string `json:"title"`
	Organizer string `json:"organizer"`
	Level     string `json:"level"`
	Year      string `json:"year"`
}

// ForeignVisitRow 出访记录。
type ForeignVisitRow struct {
	Country  string `json:"country"`
	Purpose  string `json:"purpose"`
	Duration string `json:"duration"`
	Year     string `json:"year"`
}

// ResearchContribution 科研贡献分区。
type ResearchContribution struct {
	SciPublications    int    `json:"sci_publications" validate:"min=0"`
	ScopusPublications int    `json:"scopus_publications" validate:"min=0"`
	UGCPublications    int    `json:"ugc_publications" validate:"min=0"`
	OtherPublications  int    `json:"other_publications" validate:"min=0"`
	OrcidID            string `json:"orcid_id"`
	ScopusID           string `json:"scopus_id"`
	ResearcherID       string `json:"researcher_id"`
	GoogleScholarID    string `json:"google_scholar_id"`

	Projects      []ProjectRow      `json:"projects"`
	Patents       []PatentRow       `json:"patents"`
	Fellowships   []FellowshipRow   `json:"fellowships"`
	Consultancy   []ConsultancyRow  `json:"consultancy"`
	Conferences   []ConferenceRow   `json:"conferences"`
	ForeignVisits []ForeignVisitRow `json:"foreign_visits"`
}

var researchMessages = map[string]string{
	"SciPublications":    "SCI publication count cannot be negative",
	"ScopusPublications": "Scopus publication count cannot be negative",
	"UGCPublications":    "UGC publication count cannot be negative",
	"OtherPublications":  "publication count cannot be negative",
}

// Validate 校验计数字段非负，子列表内容按原样保留。
func (r *ResearchContribution) Validate() error {
	if err := validate.Struct(r); err != nil {
		return firstError(err, researchMessages)
	}
	return nil
}
