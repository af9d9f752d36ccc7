package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tagInactive = "inactive"
	tagActive   = "active"
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

type User struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	Role            string
	IsEmailVerified bool
	PasswordHash    []byte
	CreatedAt       time.Time
}

type Tag struct {
	Code            string
	Status          string
	OwnerID         string
	ItemName        string
	ItemDescription string
	Category        string
	OwnerName       string
	OwnerPhone      string
	OwnerEmail      string
	Message         string
	ShowPhone       bool
	ShowEmail       bool
	ScanCount       int
	ActivatedAt     *time.Time
	UpdatedAt       *time.Time
}

// Activation carries the owner-supplied fields of a tag.
type Activation struct {
	ItemName        string `json:"itemName"`
	ItemDescription string `json:"itemDescription"`
	Category        string `json:"category"`
	OwnerName       string `json:"ownerName"`
	OwnerPhone      string `json:"ownerPhone"`
	OwnerEmail      string `json:"ownerEmail"`
	Message         string `json:"message"`
	ShowPhone       bool   `json:"showPhone"`
	ShowEmail       bool   `json:"showEmail"`
}

// TagPatch is a partial update; nil fields are left as they are.
type TagPatch struct {
	ItemName        *string `json:"itemName"`
	ItemDescription *string `json:"itemDescription"`
	Category        *string `json:"category"`
	OwnerName       *string `json:"ownerName"`
	OwnerPhone      *string `json:"ownerPhone"`
	OwnerEmail      *string `json:"ownerEmail"`
	Message         *string `json:"message"`
	ShowPhone       *bool   `json:"showPhone"`
	ShowEmail       *bool   `json:"showEmail"`
}

// Store keeps users and tags in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*User
	byEmail map[string]string
	tags    map[string]*Tag
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
		tags:    make(map[string]*Tag),
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddUser creates a user with a bcrypt-hashed password.
func (s *Store) AddUser(name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, ok := s.byEmail[key]; ok {
		return nil, fmt.Errorf("user %s already exists", email)
	}
	u := &User{
		ID:              uuid.NewString(),
		Name:            name,
		Email:           key,
		Role:            "user",
		IsEmailVerified: true,
		PasswordHash:    hash,
		CreatedAt:       s.now(),
	}
	s.users[u.ID] = u
	s.byEmail[key] = u.ID
	cp := *u
	return &cp, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Store) Authenticate(email, password string) (*User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[normalizeEmail(email)]
	var u User
	if ok {
		u = *s.users[id]
	}
	s.mu.RUnlock()

	if !ok {
		return nil, common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return &u, nil
}

func (s *Store) UserByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) HasEmail(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[normalizeEmail(email)]
	return ok
}

// AddTag registers an unclaimed tag. Existing codes are left untouched.
func (s *Store) AddTag(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[code]; !ok {
		s.tags[code] = &Tag{Code: code, Status: tagInactive}
	}
}

// Scan returns the tag as seen by viewerID (empty for anonymous finders).
// Views by anyone but the owner count as scans.
func (s *Store) Scan(code, viewerID string) (Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[code]
	if !ok {
		return Tag{}, common.ErrorNotFound
	}
	if t.Status == tagActive && t.OwnerID != viewerID {
		t.ScanCount++
	}
	return *t, nil
}

func (s *Store) Activate(code, ownerID string, a Activation) (Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tags[code]
	if !ok {
		return Tag{}, common.ErrorNotFound
	}
	if t.Status == tagActive {
		return Tag{}, common.ErrTagAlreadyActive
	}

	now := s.now()
	*t = Tag{
		Code:            code,
		Status:          tagActive,
		OwnerID:         ownerID,
		ItemName:        a.ItemName,
		ItemDescription: a.ItemDescription,
		Category:        a.Category,
		OwnerName:       a.OwnerName,
		OwnerPhone:      a.OwnerPhone,
		OwnerEmail:      a.OwnerEmail,
		Message:         a.Message,
		ShowPhone:       a.ShowPhone,
		ShowEmail:       a.ShowEmail,
		ActivatedAt:     &now,
		UpdatedAt:       &now,
	}
	return *t, nil
}

// UserTags lists the tags owned by ownerID, ordered by code.
func (s *Store) UserTags(ownerID string) []Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tag, 0)
	for _, t := range s.tags {
		if t.OwnerID == ownerID && t.Status == tagActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *Store) owned(code, ownerID string) (*Tag, error) {
	t, ok := s.tags[code]
	if !ok || t.Status != tagActive {
		return nil, common.ErrorNotFound
	}
	if t.OwnerID != ownerID {
		return nil, common.ErrTagNotOwned
	}
	return t, nil
}

func (s *Store) Update(code, ownerID string, p TagPatch) (Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.owned(code, ownerID)
	if err != nil {
		return Tag{}, err
	}

	setString(&t.ItemName, p.ItemName)
	setString(&t.ItemDescription, p.ItemDescription)
	setString(&t.Category, p.Category)
	setString(&t.OwnerName, p.OwnerName)
	setString(&t.OwnerPhone, p.OwnerPhone)
	setString(&t.OwnerEmail, p.OwnerEmail)
	setString(&t.Message, p.Message)
	if p.ShowPhone != nil {
		t.ShowPhone = *p.ShowPhone
	}
	if p.ShowEmail != nil {
		t.ShowEmail = *p.ShowEmail
	}
	now := s.now()
	t.UpdatedAt = &now
	return *t, nil
}

// Delete releases the tag: the sticker goes back to unclaimed and can be
// activated again.
func (s *Store) Delete(code, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(code, ownerID); err != nil {
		return err
	}
	s.tags[code] = &Tag{Code: code, Status: tagInactive}
	return nil
}

// Stats summarises ownerID's tags for the profile view.
func (s *Store) Stats(ownerID string) map[string]any {
	tags := s.UserTags(ownerID)
	scans := 0
	for _, t := range tags {
		scans += t.ScanCount
	}
	return map[string]any{"totalTags": len(tags), "totalScans": scans}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
