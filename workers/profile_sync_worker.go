// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSyncWorker mirrors display names and avatars from the profile service
// into user_profiles so leaderboards can show them.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g. "http://localhost:8500"
	endpointPath string // e.g. "/api/v1/public/profiles"
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, baseURL, endpointPath, serviceToken string, interval time.Duration) *ProfileSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ProfileSyncWorker{
		db:           db,
		interval:     interval,
		baseURL:      baseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.NewHTTPClient(30 * time.Second),
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (profile service → user_profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	if _, err := w.SyncOnce(ctx); err != nil {
		log.Printf("[SYNC] ⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.SyncOnce(ctx); err != nil {
				log.Printf("[SYNC] ❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// lastSyncTime is the newest remote update already mirrored, or the epoch.
func (w *ProfileSyncWorker) lastSyncTime(ctx context.Context) time.Time {
	var latest models.UserProfile
	err := w.db.WithContext(ctx).
		Select("profile_updated_at").
		Where("profile_updated_at IS NOT NULL").
		Order("profile_updated_at desc").
		Take(&latest).Error
	if err != nil || latest.ProfileUpdatedAt == nil {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[SYNC] ⚠️ cursor lookup failed, resyncing from epoch: %v", err)
		}
		return time.Unix(0, 0).UTC()
	}
	return *latest.ProfileUpdatedAt
}

// SyncOnce pulls every profile changed since the cursor and upserts it.
// It returns the number of rows written.
func (w *ProfileSyncWorker) SyncOnce(ctx context.Context) (int, error) {
	since := w.lastSyncTime(ctx)
	changes, err := w.fetch(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(changes.Users) == 0 {
		return 0, nil
	}

	var upserted, failed int
	for _, remote := range changes.Users {
		if remote.ExternalID == "" {
			continue
		}
		if err := w.upsert(ctx, remote); err != nil {
			failed++
			log.Printf("[SYNC] ⚠️ Failed to upsert profile (external_id=%q): %v", remote.ExternalID, err)
			continue
		}
		upserted++
	}

	log.Printf("[SYNC] ✅ Synced %d profile(s) (%d upserted, %d errors)", len(changes.Users), upserted, failed)
	return upserted, nil
}

func (w *ProfileSyncWorker) fetch(ctx context.Context, since time.Time) (*models.ProfileChanges, error) {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sync service URL %q: %w", w.baseURL, err)
	}
	endpoint := base.JoinPath(w.endpointPath)
	q := endpoint.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sync service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var changes models.ProfileChanges
	if err := json.NewDecoder(resp.Body).Decode(&changes); err != nil {
		return nil, fmt.Errorf("decode sync response: %w", err)
	}
	return &changes, nil
}

// upsert writes the display fields only. A profile without a picture keeps
// whatever avatar the user equipped locally.
func (w *ProfileSyncWorker) upsert(ctx context.Context, remote models.RemoteProfile) error {
	updatedAt := remote.UpdatedAt.UTC()
	row := models.UserProfile{
		ExternalUserID:   remote.ExternalID,
		Name:             remote.DisplayName(),
		ProfileUpdatedAt: &updatedAt,
	}
	columns := []string{"name", "profile_updated_at"}
	if remote.ProfilePictureURL != nil && *remote.ProfilePictureURL != "" {
		row.Avatar = *remote.ProfilePictureURL
		columns = append(columns, "avatar")
	}

	return w.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_user_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
}
