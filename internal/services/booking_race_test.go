package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/forma-studio/forma-portal/internal/config"
	"github.com/forma-studio/forma-portal/internal/database"
	"github.com/forma-studio/forma-portal/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestConcurrentSlotClaimPostgres races real goroutines over one slot on
// a real PostgreSQL server, where the row-level claim semantics actually
// hold. SQLite serializes on a single connection and cannot exercise
// this. Requires Docker; enable with INTEGRATION_DB=1.
func TestConcurrentSlotClaimPostgres(t *testing.T) {
	if os.Getenv("INTEGRATION_DB") != "1" {
		t.Skip("Skipping container test; set INTEGRATION_DB=1 to run")
	}
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "testdb",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
			},
			WaitingFor: wait.ForListeningPort(nat.Port("5432/tcp")).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 20,
	}

	time.Sleep(2 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	svc := NewRequestService(db, &recordingMailer{})

	slot := models.AvailabilitySlot{
		StartAt: time.Now().Add(24 * time.Hour),
		EndAt:   time.Now().Add(25 * time.Hour),
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("Failed to create slot: %v", err)
	}

	const claimants = 10
	clients := make([]*models.User, claimants)
	for i := range clients {
		clients[i] = createClient(t, db, fmt.Sprintf("racer%d@example.com", i))
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(client *models.User) {
			defer wg.Done()
			input := validCreateInput()
			input.Type = models.RequestTypeConsultation
			input.AvailabilitySlotID = slot.ID

			_, err := svc.Create(context.Background(), client, input)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSlotUnavailable):
				losses++
			default:
				t.Errorf("Unexpected claim error: %v", err)
			}
		}(clients[i])
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Winners = %d, want exactly 1", wins)
	}
	if losses != claimants-1 {
		t.Errorf("Losers = %d, want %d", losses, claimants-1)
	}

	var requests int64
	db.Model(&models.Request{}).Count(&requests)
	if requests != 1 {
		t.Errorf("Request rows = %d, want 1", requests)
	}

	var reloaded models.AvailabilitySlot
	db.First(&reloaded, "id = ?", slot.ID)
	if !reloaded.IsBooked || reloaded.BookedRequestID == nil {
		t.Errorf("Slot not booked exactly once: %+v", reloaded)
	}
}
