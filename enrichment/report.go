package enrichment

import "strings"

type EmploymentRecord struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Years   string `json:"years"`
}

// Report — фиктивное досье по лиду.
type Report struct {
	EmploymentHistory []EmploymentRecord `json:"employmentHistory"`
	CriminalRecord    string             `json:"criminalRecord"`
	FinancialStanding string             `json:"financialStanding"`
	SocialPresence    []string           `json:"socialPresence"`
	Notes             string             `json:"notes"`
}

// BackgroundReport детерминированно строит досье по слагу из URL.
// Ссылки собираются из слага как есть, без нормализации регистра.
func BackgroundReport(slug string) Report {
	return Report{
		EmploymentHistory: []EmploymentRecord{
			{Company: "Home Depot", Role: "Sales Associate", Years: "2018–2020"},
			{Company: "Meta Applications Inc.", Role: "Junior Software Engineer", Years: "2020–2023"},
			{Company: "Nova WorldWide", Role: "Senior Software Engineer", Years: "2023–Current"},
		},
		CriminalRecord:    "Clear (No criminal history found)",
		FinancialStanding: "Good (No bankruptcies or liens reported)",
		SocialPresence: []string{
			"https://facebook.com/" + slug,
			"https://linkedin.com/in/" + slug,
		},
		Notes: "Lead shows consistent employment and a clean background.",
	}
}

// DisplayName — дефисы отображаются пробелами только в заголовке отчёта.
func DisplayName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
