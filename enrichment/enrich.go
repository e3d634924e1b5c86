// Package enrichment содержит демонстрационные заглушки обогащения лида.
// Настоящего провайдера данных нет: результаты фиксированные, без сети и
// без состояния, в будущем логика заменяется вызовом стороннего API.
package enrichment

import (
	"strings"

	"securelead/models"
)

// Result — данные обогащения. Нигде не сохраняются, вычисляются на каждый запрос.
type Result struct {
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Socials  []string `json:"socials"`
	Notes    string   `json:"notes"`
}

// Enrich детерминированно строит данные обогащения по имени лида.
// Email опционален и на результат не влияет.
func Enrich(name, email string) (*Result, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Message: "Name is required"}
	}

	slug := slugify(name)
	return &Result{
		Phone:    "123-456-7890",
		Location: "Tampa, FL",
		Socials: []string{
			"https://facebook.com/" + slug,
			"https://linkedin.com/in/" + slug,
		},
		Notes: "Verified client with strong buying intent.",
	}, nil
}

// slugify убирает пробельные символы и приводит имя к нижнему регистру.
func slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
