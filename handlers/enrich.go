package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"securelead/enrichment"
	"securelead/models"
)

type EnrichRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EnrichLead — POST /enrich. Отдаёт фиктивные данные обогащения,
// наружу никакие запросы не уходят.
func EnrichLead(c *gin.Context) {
	var req EnrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	result, err := enrichment.Enrich(req.Name, req.Email)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enrich lead"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// BackgroundReportPage — GET /background/:name. Страница с фиктивным досье,
// целиком выводится из слага в URL.
func BackgroundReportPage(c *gin.Context) {
	slug := c.Param("name")
	report := enrichment.BackgroundReport(slug)

	c.HTML(http.StatusOK, "background", gin.H{
		"Name":   enrichment.DisplayName(slug),
		"Report": report,
	})
}

const backgroundPage = `<!DOCTYPE html>
<html>
<head>
  <title>Background Report</title>
</head>
<body>
  <h1>Background Report: {{ .Name }}</h1>
  <h2>Employment History</h2>
  <ul>
  {{ range .Report.EmploymentHistory }}  <li>{{ .Role }} at <strong>{{ .Company }}</strong> ({{ .Years }})</li>
  {{ end }}</ul>
  <h2>Criminal Record</h2>
  <p>{{ .Report.CriminalRecord }}</p>
  <h2>Financial Standing</h2>
  <p>{{ .Report.FinancialStanding }}</p>
  <h2>Social Media</h2>
  <ul>
  {{ range .Report.SocialPresence }}  <li><a href="{{ . }}" target="_blank" rel="noopener noreferrer">{{ . }}</a></li>
  {{ end }}</ul>
  <h2>Notes</h2>
  <p>{{ .Report.Notes }}</p>
</body>
</html>
`

// BackgroundTemplate отдаёт шаблон страницы досье для router.SetHTMLTemplate.
func BackgroundTemplate() *template.Template {
	return template.Must(template.New("background").Parse(backgroundPage))
}
