// File: services/class_store.go
package services

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go-gym-classes/logger"
	"go-gym-classes/models"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// recurrence expansion window around the load time
const (
	recurrencePast    = 4 * 7 * 24 * time.Hour
	recurrenceHorizon = 12 * 7 * 24 * time.Hour
)

// ClassStore is an in-memory class collaborator used when no upstream API is configured.
// It serves listings, accepts signups and issues session tokens for seeded members.
type ClassStore struct {
	mu      sync.Mutex
	classes map[string]*models.ClassRecord
	order   []string
	members map[string]models.Member // by username
	tokens  map[string]string        // token -> member id
}

var (
	_ ClassListingService = (*ClassStore)(nil)
	_ Authenticator       = (*ClassStore)(nil)
)

// NewClassStore creates an empty store.
func NewClassStore() *ClassStore {
	return &ClassStore{
		classes: make(map[string]*models.ClassRecord),
		members: make(map[string]models.Member),
		tokens:  make(map[string]string),
	}
}

// AddClass validates r and stores a copy of it.
func (s *ClassStore) AddClass(r models.ClassRecord) error {
	if err := ValidateRecord(r); err != nil {
		return fmt.Errorf("invalid class %q: %w", r.ID, err)
	}
	r.ParticipantList = slices.Clone(r.ParticipantList)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.classes[r.ID]; exists {
		return fmt.Errorf("duplicate class id %q", r.ID)
	}
	s.classes[r.ID] = &r
	s.order = append(s.order, r.ID)
	return nil
}

// AddMember registers a member whose Password is a bcrypt hash.
func (s *ClassStore) AddMember(m models.Member) error {
	if err := recordValidator.Struct(m); err != nil {
		return fmt.Errorf("invalid member %q: %w", m.Username, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.Username] = m
	return nil
}

// ListClasses returns copies of all classes in load order.
func (s *ClassStore) ListClasses(_ context.Context) ([]models.ClassRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ClassRecord, 0, len(s.order))
	for _, id := range s.order {
		r := *s.classes[id]
		r.ParticipantList = slices.Clone(r.ParticipantList)
		out = append(out, r)
	}
	logger.Debug.Printf("[ClassStore.ListClasses] Returning %d classes", len(out))
	return out, nil
}

// GetClass returns a copy of one class or ErrNotFound.
func (s *ClassStore) GetClass(_ context.Context, id string) (models.ClassRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.classes[id]
	if !ok {
		return models.ClassRecord{}, ErrNotFound
	}
	out := *r
	out.ParticipantList = slices.Clone(r.ParticipantList)
	return out, nil
}

// SignUp adds the token holder to the class. Signing up twice is a no-op.
func (s *ClassStore) SignUp(_ context.Context, id, authToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	memberID, ok := s.tokens[authToken]
	if !ok {
		logger.Warn.Printf("[ClassStore.SignUp] Unknown token used for class %s", id)
		return ErrUnauthenticated
	}
	r, ok := s.classes[id]
	if !ok {
		return ErrNotFound
	}
	if slices.Contains(r.ParticipantList, memberID) {
		logger.Info.Printf("[ClassStore.SignUp] Member %s already in class %s", memberID, id)
		return nil
	}
	r.ParticipantList = append(r.ParticipantList, memberID)
	logger.Info.Printf("[ClassStore.SignUp] Member %s joined class %s (%d participants)", memberID, id, len(r.ParticipantList))
	return nil
}

// Authenticate checks the password against the member's bcrypt hash and issues a new token.
func (s *ClassStore) Authenticate(_ context.Context, username, password string) (models.CurrentUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) != nil {
		logger.Warn.Printf("[ClassStore.Authenticate] Failed login for %q", username)
		return models.Anonymous, ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.tokens[token] = m.ID
	logger.Info.Printf("[ClassStore.Authenticate] Member %s logged in", m.ID)
	return models.CurrentUser{ID: m.ID, Token: token}, nil
}

// Revoke invalidates a token issued by Authenticate.
func (s *ClassStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// ------------------- seed file -------------------

type seedClass struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Trainer      string   `yaml:"trainer"`
	Start        string   `yaml:"start"`
	End          string   `yaml:"end"`
	Repeat       string   `yaml:"repeat"`
	Participants []string `yaml:"participants"`
}

type seedFile struct {
	Members []models.Member `yaml:"members"`
	Classes []seedClass     `yaml:"classes"`
}

// LoadClassStore builds a store from a YAML seed file. Classes with a `repeat`
// RRULE are expanded into one occurrence per date around now, each with id
// "<id>-<yyyymmdd>".
func LoadClassStore(path string, loc *time.Location, now time.Time) (*ClassStore, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	var records []models.ClassRecord
	for _, c := range seed.Classes {
		expanded, err := expandSeedClass(c, loc, now)
		if err != nil {
			return nil, err
		}
		records = append(records, expanded...)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})

	store := NewClassStore()
	for _, r := range records {
		if err := store.AddClass(r); err != nil {
			return nil, err
		}
	}
	for _, m := range seed.Members {
		if err := store.AddMember(m); err != nil {
			return nil, err
		}
	}

	logger.Info.Printf("[LoadClassStore] Loaded %d classes and %d members from %s", len(records), len(seed.Members), path)
	return store, nil
}

func expandSeedClass(c seedClass, loc *time.Location, now time.Time) ([]models.ClassRecord, error) {
	start, err := ParseClassTime(c.Start, loc)
	if err != nil {
		return nil, fmt.Errorf("class %q start: %w", c.ID, err)
	}
	end, err := ParseClassTime(c.End, loc)
	if err != nil {
		return nil, fmt.Errorf("class %q end: %w", c.ID, err)
	}

	base := models.ClassRecord{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Trainer:         c.Trainer,
		Start:           start,
		End:             end,
		ParticipantList: c.Participants,
	}
	if c.Repeat == "" {
		return []models.ClassRecord{base}, nil
	}

	r, err := rrule.StrToRRule(c.Repeat)
	if err != nil {
		return nil, fmt.Errorf("class %q repeat: %w", c.ID, err)
	}
	r.DTStart(start)

	duration := end.Sub(start)
	var out []models.ClassRecord
	for _, occStart := range r.Between(now.Add(-recurrencePast), now.Add(recurrenceHorizon), true) {
		occ := base
		occ.ID = c.ID + "-" + occStart.Format("20060102")
		occ.Start = occStart
		occ.End = occStart.Add(duration)
		occ.ParticipantList = slices.Clone(c.Participants)
		out = append(out, occ)
	}
	return out, nil
}
