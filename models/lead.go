package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead — карточка потенциального клиента. ID и CreatedAt назначаются
// хранилищем при создании и больше не меняются.
type Lead struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneSeparator = regexp.MustCompile(`[\s\-.()]+`)
	tenDigits      = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateNewLead проверяет поля перед созданием лида.
func ValidateNewLead(lead *Lead) error {
	if strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.Email) == "" {
		return &ValidationError{Message: "Name and email are required"}
	}
	return validateFormats(lead)
}

// ValidateLeadUpdate проверяет поля перед обновлением лида.
func ValidateLeadUpdate(id string, lead *Lead) error {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(lead.Name) == "" || strings.TrimSpace(lead.Email) == "" {
		return &ValidationError{Message: "ID, name, and email are required for update"}
	}
	return validateFormats(lead)
}

func validateFormats(lead *Lead) error {
	if !emailPattern.MatchString(lead.Email) {
		return &ValidationError{Message: "Invalid email format"}
	}
	// Телефон опционален; разделители допускаются, но цифр должно быть ровно 10
	if lead.Phone != "" {
		digits := phoneSeparator.ReplaceAllString(lead.Phone, "")
		if !tenDigits.MatchString(digits) {
			return &ValidationError{Message: "Phone must contain 10 digits"}
		}
	}
	return nil
}
