// Package contactlog persists contact-form submissions as a JSON array on
// disk. The read-modify-write cycle has no cross-process coordination; two
// concurrent writers can drop an entry.
package contactlog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/models"
)

type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Append adds a submission to the file, creating the containing directory on
// first use. A corrupt or missing file is treated as an empty list.
func (l *Log) Append(email, message string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	messages, err := l.All()
	if err != nil {
		return err
	}
	messages = append(messages, models.ContactMessage{
		Email:       email,
		Message:     message,
		SubmittedAt: time.Now().UTC(),
	})

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o644)
}

// All returns every recorded submission, oldest first. An absent file yields
// an empty list rather than an error.
func (l *Log) All() ([]models.ContactMessage, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.ContactMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	messages := []models.ContactMessage{}
	if err := json.Unmarshal(data, &messages); err != nil {
		// Tolerate a mangled file instead of wedging the contact form.
		return []models.ContactMessage{}, nil
	}
	return messages, nil
}
