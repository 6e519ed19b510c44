package database

import (
	"context"
	"os"
	"testing"
	"time"

	"go-openclaw-mailer/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integration test: needs a disposable Postgres in TEST_DATABASE_URL
func TestRepository_RecordAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	repo, err := ConnectDB(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.EnsureSchema(ctx))

	telegramID := time.Now().UnixNano()
	for i, status := range []models.ApplicationStatus{models.StatusNotSent, models.StatusSent} {
		err := repo.Record(ctx, &models.Application{
			ID:             uuid.NewString(),
			SessionID:      uuid.NewString(),
			TelegramID:     telegramID,
			Recipient:      "hr@company.com",
			JobDescription: "Data internship, type: PFA",
			Subject:        "Apply for internship",
			Status:         status,
			CreatedAt:      time.Now().Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	apps, err := repo.ListApplications(ctx, telegramID, 10)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, models.StatusSent, apps[0].Status)
	assert.Equal(t, "hr@company.com", apps[1].Recipient)
}
