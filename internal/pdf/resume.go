package pdf

import (
	"encoding/json"
	"fmt"
	"os"

	"go-openclaw-mailer/internal/models"
)

// LoadResume reads the master resume JSON.
func LoadResume(path string) (*models.Resume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	var resume models.Resume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume %s: %w", path, err)
	}
	return &resume, nil
}
