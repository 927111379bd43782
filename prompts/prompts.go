package prompts

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

func loadPrompt(path string, data any) (string, error) {
	content, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(path).Parse(string(content))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// BookingSystemPrompt steers the intake conversation: condition first,
// doctors second, date and time last.
func BookingSystemPrompt() (string, error) {
	return loadPrompt("templates/booking_system.md", nil)
}

// RenderSlotExtractionPrompt renders the strict-JSON extraction instruction
// over the newline-joined user messages.
func RenderSlotExtractionPrompt(userMessages string) (string, error) {
	return loadPrompt("templates/slot_extraction.md", struct {
		UserMessages string
	}{UserMessages: userMessages})
}

func RenderNotesSystemPrompt(patientName string) (string, error) {
	return loadPrompt("templates/notes_system.md", struct {
		PatientName string
	}{PatientName: patientName})
}

// RenderSummaryPrompt renders the fixed-heading consultation summary prompt.
func RenderSummaryPrompt(transcript string) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = loadPrompt("templates/summary_system.md", nil)
	if err != nil {
		return "", "", err
	}

	userPrompt, err = loadPrompt("templates/summary_user.md", struct {
		Transcript string
	}{Transcript: transcript})
	if err != nil {
		return "", "", err
	}
	return systemPrompt, userPrompt, nil
}
