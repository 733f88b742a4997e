package report

import (
	"fmt"
	"strings"

	"careers-portal/internal/forms"
	"careers-portal/internal/model"
)

// renderSummary 生成报告摘要部分。
// 节顺序: 个人信息、语言、学历、工作经历(企业在前)、科研(仅 Teaching)、其他信息与证明人。
func renderSummary(p Profile, category model.JobCategory) ([]byte, error) {
	w := NewDocWriter()
	w.Title(strings.TrimSuffix(FileName(p), ".pdf"))

	if p.Personal != nil {
		writePersonal(w, p.Personal)
	}
	if p.Education != nil && len(p.Education.Entries) > 0 {
		writeEducation(w, p.Education, category)
	}
	if p.Work != nil {
		writeWork(w, p.Work)
	}
	if category == model.JobCategoryTeaching && p.Research != nil {
		writeResearch(w, p.Research)
	}
	if p.Other != nil {
		writeOther(w, p.Other)
	}

	return w.Bytes()
}

func writePersonal(w *DocWriter, p *forms.PersonalDetails) {
	w.Heading("Personal Details")
	w.KeyValue("Full Name", p.FullName)
	w.KeyValue("Date of Birth", p.DateOfBirth)
	w.KeyValue("Gender", p.Gender)
	w.KeyValue("Category", string(p.Category))
	w.KeyValue("Marital Status", p.MaritalStatus)
	w.KeyValue("Mobile", p.Mobile)
	w.KeyValue("Email", p.Email)
	if p.Aadhar != "" {
		w.KeyValue("Aadhar", p.Aadhar)
	}
	if p.PAN != "" {
		w.KeyValue("PAN", p.PAN)
	}
	w.KeyValue("Permanent Address", formatAddress(p.PermanentAddr))
	w.KeyValue("Communication Address", formatAddress(p.CommunicationAddr))

	if len(p.Languages) > 0 {
		rows := make([][]string, 0, len(p.Languages))
		for _, lang := range p.Languages {
			rows = append(rows, []string{lang.Language, mark(lang.Read), mark(lang.Write), mark(lang.Speak)})
		}
		w.Table([]string{"Language", "Read", "Write", "Speak"}, rows)
	}
}

func writeEducation(w *DocWriter, e *forms.EducationDetails, category model.JobCategory) {
	w.Heading("Education Details")
	rows := make([][]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		rows = append(rows, []string{
			entry.Qualification, entry.Degree, entry.Specialization,
			entry.Percentage, entry.PassingYear, entry.University,
		})
	}
	w.Table([]string{"Qualification", "Degree", "Specialization", "%", "Year", "University"}, rows)

	if category == model.JobCategoryTeaching {
		if len(e.EligibilityTests) > 0 {
			w.KeyValue("Eligibility Tests", strings.Join(e.EligibilityTests, ", "))
		}
		if len(e.ExtraCurricular) > 0 {
			w.KeyValue("Extra Curricular", strings.Join(e.ExtraCurricular, ", "))
		}
	}
}

func writeWork(w *DocWriter, work *forms.WorkExperience) {
	if len(work.Industry) > 0 {
		w.Heading("Industry Experience")
		w.Table([]string{"Designation", "Company", "Specialization", "From", "To"}, workRows(work.Industry))
	}
	if len(work.Teaching) > 0 {
		w.Heading("Teaching Experience")
		w.Table([]string{"Designation", "Institution", "Specialization", "From", "To"}, workRows(work.Teaching))
	}
}

func workRows(entries []forms.WorkEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		to := entry.ToDate
		if entry.CurrentlyWorking {
			to = "Present"
		}
		rows = append(rows, []string{entry.Designation, entry.Institution, entry.Specialization, entry.FromDate, to})
	}
	return rows
}

func writeResearch(w *DocWriter, r *forms.ResearchContribution) {
	w.Heading("Research Contribution")
	w.KeyValue("SCI Publications", fmt.Sprintf("%d", r.SciPublications))
	w.KeyValue("Scopus Publications", fmt.Sprintf("%d", r.ScopusPublications))
	w.KeyValue("UGC Publications", fmt.Sprintf("%d", r.UGCPublications))
	w.KeyValue("Other Publications", fmt.Sprintf("%d", r.OtherPublications))
	if r.OrcidID != "" {
		w.KeyValue("ORCID", r.OrcidID)
	}
	if r.ScopusID != "" {
		w.KeyValue("Scopus ID", r.ScopusID)
	}
	if r.ResearcherID != "" {
		w.KeyValue("Researcher ID", r.ResearcherID)
	}
	if r.GoogleScholarID != "" {
		w.KeyValue("Google Scholar", r.GoogleScholarID)
	}

	if len(r.Projects) > 0 {
		w.Line("Projects")
		rows := make([][]string, 0, len(r.Projects))
		for _, row := range r.Projects {
			rows = append(rows, []string{row.Title, row.FundingAgency, row.Amount, row.Duration, row.Status})
		}
		w.Table([]string{"Title", "Funding Agency", "Amount", "Duration", "Status"}, rows)
	}
	if len(r.Patents) > 0 {
		w.Line("Patents")
		rows := make([][]string, 0, len(r.Patents))
		for _, row := range r.Patents {
			rows = append(rows, []string{row.Title, row.Number, row.Status, row.Year})
		}
		w.Table([]string{"Title", "Number", "Status", "Year"}, rows)
	}
	if len(r.Fellowships) > 0 {
		w.Line("Post-Doctoral Fellowships")
		rows := make([][]string, 0, len(r.Fellowships))
		for _, row := range r.Fellowships {
			rows = append(rows, []string{row.Title, row.Institute, row.Duration, row.Year})
		}
		w.Table([]string{"Title", "Institute", "Duration", "Year"}, rows)
	}
	if len(r.Consultancy) > 0 {
		w.Line("Consultancy")
		rows := make([][]string, 0, len(r.Consultancy))
		for _, row := range r.Consultancy {
			rows = append(rows, []string{row.Organization, row.Nature, row.Amount, row.Year})
		}
		w.Table([]string{"Organization", "Nature", "Amount", "Year"}, rows)
	}
	if len(r.Conferences) > 0 {
		w.Line("Conferences")
		rows := make([][]string, 0, len(r.Conferences))
		for _, row := range r.Conferences {
			rows = append(rows, []string{row.Title, row.Organizer, row.Level, row.Year})
		}
		w.Table([]string{"Title", "Organizer", "Level", "Year"}, rows)
	}
	if len(r.ForeignVisits) > 0 {
		w.Line("Foreign Visits")
		rows := make([][]string, 0, len(r.ForeignVisits))
		for _, row := range r.ForeignVisits {
			rows = append(rows, []string{row.Country, row.Purpose, row.Duration, row.Year})
		}
		w.Table([]string{"Country", "Purpose", "Duration", "Year"}, rows)
	}
}

func writeOther(w *DocWriter, o *forms.OtherDetails) {
	w.Heading("Other Details")
	w.KeyValue("Joining Time", o.JoiningTime)
	w.KeyValue("Willing to Attend Interview", o.AttendInterview)
	w.KeyValue("Source of Vacancy", o.VacancySource)
	w.KeyValue("Expected Pay", o.ExpectedPay)
	w.KeyValue("Last Drawn Pay", o.LastPay)
	if o.NoticePeriod != "" {
		w.KeyValue("Notice Period", o.NoticePeriod)
	}

	for i, ref := range o.References {
		w.Line(fmt.Sprintf("Reference %d", i+1))
		w.Table([]string{"Field", "Value"}, [][]string{
			{"Name", ref.Name},
			{"Designation", ref.Designation},
			{"Address", ref.Address},
			{"Mobile", ref.Mobile},
			{"Email", ref.Email},
		})
	}
}

func formatAddress(a forms.Address) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Line1, a.Line2, a.City, a.State, a.Pincode} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	return strings.Join(parts, ", ")
}

func mark(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
