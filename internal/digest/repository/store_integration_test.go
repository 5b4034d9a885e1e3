package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/entity"
	database "ipo-hype-tracker/pkg/postgres"
	"ipo-hype-tracker/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupTestDB starts a PostgreSQL container and applies every up migration.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("digest_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	db, err := database.Open(dsn, database.Config{})
	require.NoError(t, err, "failed to open database")

	applyMigrations(t, db.DB)
	return db.DB
}

func applyMigrations(t *testing.T, db *gorm.DB) {
	t.Helper()

	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "failed to read migrations directory")

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err, "failed to read migration file: %s", file)
		require.NoError(t, db.Exec(string(sql)).Error, "failed to execute migration: %s", file)
	}
}

func TestSubscriberRepository_FindActiveEmails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriberRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Subscriber{Email: "a@example.com", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &entity.Subscriber{Email: "b@example.com", IsActive: true, UnsubscribedAt: utils.ToPointer(time.Now())}))
	require.NoError(t, repo.Create(ctx, &entity.Subscriber{Email: "c@example.com", IsActive: true}))
	require.NoError(t, db.Model(&entity.Subscriber{}).Where("email = ?", "c@example.com").Update("is_active", false).Error)
	require.NoError(t, repo.Create(ctx, &entity.Subscriber{Email: "d@example.com", IsActive: true}))

	emails, err := repo.FindActiveEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "d@example.com"}, emails)
}

func TestDigestRunRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDigestRunRepository(db)
	ctx := context.Background()

	missing, err := repo.FindByRunID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	older := &entity.DigestRun{RunID: "run-1", Trigger: "cli", Status: dto.RunStatusCompleted, StartedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.Create(ctx, older))

	run := &entity.DigestRun{RunID: "run-2", Trigger: "api", Status: dto.RunStatusRunning, StartedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, run))

	run.Status = dto.RunStatusPartial
	run.RankedTickers = []string{"ACME", "BETA"}
	run.FailedRecipients = []string{"x@example.com"}
	run.Summary = []byte(`{"run_id":"run-2"}`)
	run.RecipientsFailed = 1
	run.FinishedAt = utils.ToPointer(time.Now())
	require.NoError(t, repo.Update(ctx, run))

	got, err := repo.FindByRunID(ctx, "run-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, dto.RunStatusPartial, got.Status)
	assert.Equal(t, []string{"ACME", "BETA"}, []string(got.RankedTickers))
	assert.Equal(t, []string{"x@example.com"}, []string(got.FailedRecipients))
	assert.JSONEq(t, `{"run_id":"run-2"}`, string(got.Summary))
	assert.NotNil(t, got.FinishedAt)

	recent, err := repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "run-2", recent[0].RunID)
	assert.Equal(t, "run-1", recent[1].RunID)
}

func TestComparableRepository_FindSimilar(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	rows := []entity.HistoricalIPO{
		{Ticker: "SNOW", Name: "Snowflake", Sector: utils.ToPointer("Technology"), Industry: utils.ToPointer("Software"), MarketCapCategory: utils.ToPointer("mid"), IPODate: now.AddDate(-1, 0, 0)},
		{Ticker: "ARM", Name: "Arm", Sector: utils.ToPointer("Technology"), MarketCapCategory: utils.ToPointer("mega"), IPODate: now.AddDate(-2, 0, 0)},
		{Ticker: "OLD", Name: "Old Tech", Sector: utils.ToPointer("Technology"), Industry: utils.ToPointer("Software"), MarketCapCategory: utils.ToPointer("mid"), IPODate: now.AddDate(-9, 0, 0)},
		{Ticker: "CAVA", Name: "Cava", Sector: utils.ToPointer("Consumer"), MarketCapCategory: utils.ToPointer("mid"), IPODate: now.AddDate(0, -6, 0)},
	}
	require.NoError(t, db.Create(&rows).Error)

	repo := NewComparableRepository(db, 10, 5)
	got, err := repo.FindSimilar(context.Background(), dto.ComparableQuery{ImpliedMarketCap: 4e9, Sector: "Technology", Industry: "Software"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "SNOW", got[0].Ticker)
	assert.Equal(t, 0.7, got[0].SimilarityScore)
	assert.Equal(t, "CAVA", got[1].Ticker)
	assert.Equal(t, 0.3, got[1].SimilarityScore)
}

func TestComparableRepository_FindSimilarUnknownMarketCap(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	rows := []entity.HistoricalIPO{
		{Ticker: "TINY", Name: "Tiny Co", Sector: utils.ToPointer("Consumer"), MarketCapCategory: utils.ToPointer("micro"), IPODate: now.AddDate(-1, 0, 0)},
		{Ticker: "SNOW", Name: "Snowflake", Sector: utils.ToPointer("Technology"), Industry: utils.ToPointer("Software"), MarketCapCategory: utils.ToPointer("mid"), IPODate: now.AddDate(-1, 0, 0)},
	}
	require.NoError(t, db.Create(&rows).Error)

	repo := NewComparableRepository(db, 10, 5)
	got, err := repo.FindSimilar(context.Background(), dto.ComparableQuery{Sector: "Technology", Industry: "Software"})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "SNOW", got[0].Ticker)
	assert.Equal(t, 0.4, got[0].SimilarityScore)
}

func TestDigestCacheRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewDigestCacheRepository(client)

	latest, err := repo.GetLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	ok, err := repo.AcquireRunLock(ctx, "run-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AcquireRunLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock is held by run-1")

	require.NoError(t, repo.ReleaseRunLock(ctx, "run-2"))
	ok, err = repo.AcquireRunLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "only the owner may release the lock")

	require.NoError(t, repo.ReleaseRunLock(ctx, "run-1"))
	ok, err = repo.AcquireRunLock(ctx, "run-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	summary := &dto.RunSummary{RunID: "run-2", Status: dto.RunStatusCompleted, CandidatesRanked: 3}
	require.NoError(t, repo.SaveLatest(ctx, summary, time.Hour))

	latest, err = repo.GetLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-2", latest.RunID)
	assert.Equal(t, 3, latest.CandidatesRanked)
}
