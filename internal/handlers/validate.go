package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxQuestionLen = 500
	maxContentLen  = 100_000
	maxNameLen     = 255
	maxEmailLen    = 255
)

// validateQuestion checks an information record title.
func validateQuestion(question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return "Question is required."
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		return "Question is too long (max 500 characters)."
	}
	return ""
}

// validateContent checks an information record body.
func validateContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 100,000 characters)."
	}
	return ""
}

// validateName checks a category or subcategory name.
func validateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 255 characters)."
	}
	return ""
}

// validateCredentials checks login and user-creation inputs.
func validateCredentials(email, password string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "A valid email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long (max 255 characters)."
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters."
	}
	return ""
}
