package cv

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// Store knows where the predefined CV lives and where uploads go.
// Uploads are named after the Telegram user and are never cleaned up; a
// second upload by the same user overwrites the first.
type Store struct {
	predefined string
	uploadDir  string
}

func NewStore(predefinedPath, uploadDir string) *Store {
	return &Store{predefined: predefinedPath, uploadDir: uploadDir}
}

// Predefined returns the path of the fixed CV document.
func (s *Store) Predefined() string {
	return s.predefined
}

// CheckPredefined warns at startup when the predefined CV is missing;
// emails chosen with it would go out without an attachment.
func (s *Store) CheckPredefined() {
	if _, err := os.Stat(s.predefined); err != nil {
		log.Printf("⚠️ Predefined CV %s is not readable: %v", s.predefined, err)
		return
	}
	log.Printf("📄 Predefined CV: %s", s.predefined)
}

// UploadPath is the file an upload from userID is stored in.
func (s *Store) UploadPath(userID int64) string {
	return filepath.Join(s.uploadDir, fmt.Sprintf("user_cv_%d.pdf", userID))
}

// SaveUpload writes an uploaded document and returns its path.
func (s *Store) SaveUpload(userID int64, data []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("could not create upload directory: %w", err)
	}
	path := s.UploadPath(userID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("could not save uploaded CV: %w", err)
	}
	return path, nil
}

// PageCount opens data as a PDF and returns its number of pages. The pdf
// reader panics on some truncated files; that is reported as an error.
func PageCount(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}
	return r.NumPage(), nil
}
