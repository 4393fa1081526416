package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"lingo-progress-system/models"
	"lingo-progress-system/progression"

	"gorm.io/gorm"
)

const (
	minFriendSearch = 2
	maxFriendSearch = 20
)

type FriendService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{DB: db, Now: time.Now}
}

type Friend struct {
	UserID       string             `json:"user_id"`
	Name         string             `json:"name"`
	Avatar       string             `json:"avatar"`
	Level        int                `json:"level"`
	XP           int                `json:"xp"`
	League       progression.League `json:"league"`
	FriendsSince *time.Time         `json:"friends_since,omitempty"`
}

type FriendRequest struct {
	RequestID string    `json:"request_id"`
	From      Friend    `json:"from"`
	SentAt    time.Time `json:"sent_at"`
}

type FriendBoard struct {
	Rankings     []progression.RankedEntry `json:"rankings"`
	TotalPlayers int                       `json:"total_players"`
	UserRank     int                       `json:"user_rank"`
	BuiltAt      time.Time                 `json:"built_at"`
}

func friendFrom(p *models.UserProfile) Friend {
	return Friend{UserID: p.ExternalUserID, Name: p.Name, Avatar: p.Avatar, Level: p.Level, XP: p.XP, League: p.League}
}

// pair matches the row between a and b in either direction.
func pair(tx *gorm.DB, a, b string) *gorm.DB {
	return tx.Where("((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?))", a, b, b, a)
}

// Request sends a friend request. The target must already have a profile.
func (s *FriendService) Request(fromUserID, toUserID string) (*models.Friendship, error) {
	toUserID = strings.TrimSpace(toUserID)
	if toUserID == "" || toUserID == fromUserID {
		return nil, fmt.Errorf("cannot befriend yourself: %w", progression.ErrInvalidState)
	}

	var out models.Friendship
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var target models.UserProfile
		if err := tx.Where("external_user_id = ?", toUserID).First(&target).Error; err != nil {
			return notFound(err, "user %s", toUserID)
		}
		if _, err := ensureProfileTx(tx, fromUserID); err != nil {
			return err
		}

		var existing models.Friendship
		err := pair(tx, fromUserID, toUserID).First(&existing).Error
		switch {
		case err == nil && existing.Status == models.FriendshipAccepted:
			return fmt.Errorf("already friends with %s: %w", toUserID, progression.ErrInvalidState)
		case err == nil:
			return fmt.Errorf("request with %s already pending: %w", toUserID, progression.ErrInvalidState)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		out = models.Friendship{RequesterID: fromUserID, AddresseeID: toUserID, Status: models.FriendshipPending}
		return tx.Create(&out).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("👋 Friend request %s -> %s", fromUserID, toUserID)
	return &out, nil
}

// Accept turns a pending request addressed to userID into a mutual friendship.
func (s *FriendService) Accept(userID, requestID string) (*models.Friendship, error) {
	var f models.Friendship
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND addressee_id = ? AND status = ?", requestID, userID, models.FriendshipPending).
			First(&f).Error
		if err != nil {
			return notFound(err, "friend request %s", requestID)
		}
		now := s.Now()
		f.Status = models.FriendshipAccepted
		f.AcceptedAt = &now
		return tx.Save(&f).Error
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Reject drops a pending request addressed to userID.
func (s *FriendService) Reject(userID, requestID string) error {
	res := s.DB.Where("id = ? AND addressee_id = ? AND status = ?", requestID, userID, models.FriendshipPending).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friend request %s: %w", requestID, progression.ErrNotFound)
	}
	return nil
}

// Remove ends a friendship for both sides.
func (s *FriendService) Remove(userID, friendID string) error {
	res := pair(s.DB.Where("status = ?", models.FriendshipAccepted), userID, friendID).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("friend %s: %w", friendID, progression.ErrNotFound)
	}
	return nil
}

// List returns accepted friends, oldest friendship first.
func (s *FriendService) List(userID string) ([]Friend, error) {
	var rows []models.Friendship
	err := s.DB.Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipAccepted, userID, userID).
		Order("accepted_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].Other(userID)
	}
	profiles, err := s.profilesByID(ids)
	if err != nil {
		return nil, err
	}

	out := make([]Friend, 0, len(rows))
	for i := range rows {
		p, ok := profiles[ids[i]]
		if !ok {
			continue
		}
		f := friendFrom(p)
		f.FriendsSince = rows[i].AcceptedAt
		out = append(out, f)
	}
	return out, nil
}

// Requests lists pending requests addressed to userID, newest first.
func (s *FriendService) Requests(userID string) ([]FriendRequest, error) {
	var rows []models.Friendship
	err := s.DB.Where("status = ? AND addressee_id = ?", models.FriendshipPending, userID).
		Order("created_at desc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].RequesterID
	}
	profiles, err := s.profilesByID(ids)
	if err != nil {
		return nil, err
	}

	out := make([]FriendRequest, 0, len(rows))
	for _, r := range rows {
		req := FriendRequest{RequestID: r.ID, SentAt: r.CreatedAt, From: Friend{UserID: r.RequesterID}}
		if p, ok := profiles[r.RequesterID]; ok {
			req.From = friendFrom(p)
		}
		out = append(out, req)
	}
	return out, nil
}

// Search matches other users by a case-insensitive name fragment.
func (s *FriendService) Search(userID, query string) ([]Friend, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minFriendSearch {
		return nil, fmt.Errorf("search needs at least %d characters: %w", minFriendSearch, progression.ErrInvalidState)
	}

	var profiles []models.UserProfile
	err := s.DB.Where("LOWER(name) LIKE ? AND external_user_id <> ?", "%"+strings.ToLower(query)+"%", userID).
		Order("name asc, id asc").
		Limit(maxFriendSearch).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	out := make([]Friend, len(profiles))
	for i := range profiles {
		out[i] = friendFrom(&profiles[i])
	}
	return out, nil
}

// Leaderboard ranks the caller and their friends by total XP.
func (s *FriendService) Leaderboard(userID string) (*FriendBoard, error) {
	me, err := ensureProfileTx(s.DB, userID)
	if err != nil {
		return nil, err
	}

	var links []models.Friendship
	err = s.DB.Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipAccepted, userID, userID).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := []string{me.ExternalUserID}
	for i := range links {
		ids = append(ids, links[i].Other(userID))
	}

	var profiles []models.UserProfile
	err = s.DB.Where("external_user_id IN ?", ids).
		Order("xp desc, id asc").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	rows := make([]progression.Ranked, len(profiles))
	for i, p := range profiles {
		rows[i] = progression.Ranked{
			UserID: p.ExternalUserID,
			Name:   p.Name,
			Avatar: p.Avatar,
			Level:  p.Level,
			League: p.League,
			Score:  p.XP,
		}
	}

	board := &FriendBoard{
		Rankings:     progression.RankEntries(rows, progression.MaxLeaderboardEntries),
		TotalPlayers: len(rows),
		BuiltAt:      s.Now(),
	}
	for _, e := range board.Rankings {
		if e.UserID == userID {
			board.UserRank = e.Rank
			break
		}
	}
	return board, nil
}

func (s *FriendService) profilesByID(ids []string) (map[string]*models.UserProfile, error) {
	out := make(map[string]*models.UserProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var profiles []models.UserProfile
	if err := s.DB.Where("external_user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for i := range profiles {
		out[profiles[i].ExternalUserID] = &profiles[i]
	}
	return out, nil
}
