package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly French labels
var FieldLabels = map[string]string{
	// EvaluationPayload fields
	"OverallScore":    "Note globale",
	"Technical":       "Compétences techniques",
	"SoftSkills":      "Savoir-être",
	"Communication":   "Communication",
	"Motivation":      "Motivation",
	"Summary":         "Synthèse",
	"InterviewNotes":  "Notes d'entretien",
	"Recommendations": "Recommandations",

	// Profile fields
	"FirstName": "Prénom",
	"LastName":  "Nom",
	"Email":     "Email",
	"Title":     "Intitulé du profil",
	"Skills":    "Compétences",
	"ResumeURL": "URL du CV",

	// JobPosting fields
	"Company":                "Entreprise",
	"Description":            "Description",
	"Location":               "Localisation",
	"ApplicationType":        "Mode de candidature",
	"ExternalApplicationURL": "URL de candidature externe",
	"ApplicationEmail":       "Email de candidature",
	"ExpiresAt":              "Date d'expiration",
	"NewExpiresAt":           "Nouvelle date d'expiration",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s : champ obligatoire", label)

	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : minimum %s caractères", label, param)
		}
		return fmt.Sprintf("%s : minimum %s", label, param)

	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s : maximum %s caractères", label, param)
		}
		return fmt.Sprintf("%s : maximum %s", label, param)

	case "oneof":
		return fmt.Sprintf("%s : doit être l'un de : %s", label, strings.Join(strings.Split(param, " "), ", "))

	case "email":
		return fmt.Sprintf("%s : format d'email invalide", label)

	case "url":
		return fmt.Sprintf("%s : format d'URL invalide", label)

	case "score_grid":
		return fmt.Sprintf("%s : la note doit être entre 0 et 5, par pas de 0,5", label)

	case "future_date":
		return fmt.Sprintf("%s : la date doit être dans le futur", label)

	default:
		return fmt.Sprintf("%s : validation échouée (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
