// File: services/class_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go-gym-classes/logger"
	"go-gym-classes/models"
)

// ClassListingService is the class collaborator consumed by the views and the signup gate.
type ClassListingService interface {
	ListClasses(ctx context.Context) ([]models.ClassRecord, error)
	GetClass(ctx context.Context, id string) (models.ClassRecord, error)
	SignUp(ctx context.Context, id, authToken string) error
}

// Authenticator exchanges member credentials for a session user.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (models.CurrentUser, error)
}

// SessionStore exposes the user of the current browser session.
type SessionStore interface {
	CurrentUser() models.CurrentUser
}

// StaticSession is a SessionStore that always returns the same user.
type StaticSession models.CurrentUser

// CurrentUser returns the fixed user.
func (s StaticSession) CurrentUser() models.CurrentUser {
	return models.CurrentUser(s).Normalize()
}

var recordValidator = validator.New()

// ValidateRecord checks the required fields and that the class ends after it starts.
func ValidateRecord(r models.ClassRecord) error {
	return recordValidator.Struct(r)
}

// ------------------- wire format -------------------

// classTimeLayouts are tried in order; zone-less values are read in the service location.
var classTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseClassTime accepts RFC 3339 or a zone-less local timestamp.
func ParseClassTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range classTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// flexibleID accepts JSON strings and numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type classDTO struct {
	ID              flexibleID   `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Trainer         string       `json:"trainer"`
	Start           string       `json:"start"`
	End             string       `json:"end"`
	ParticipantList []flexibleID `json:"participantList"`
}

func (d classDTO) toRecord(loc *time.Location) (models.ClassRecord, error) {
	start, err := ParseClassTime(d.Start, loc)
	if err != nil {
		return models.ClassRecord{}, fmt.Errorf("class %s start: %w", d.ID, err)
	}
	end, err := ParseClassTime(d.End, loc)
	if err != nil {
		return models.ClassRecord{}, fmt.Errorf("class %s end: %w", d.ID, err)
	}
	participants := make([]string, 0, len(d.ParticipantList))
	for _, p := range d.ParticipantList {
		participants = append(participants, string(p))
	}
	r := models.ClassRecord{
		ID:              string(d.ID),
		Title:           d.Title,
		Description:     d.Description,
		Trainer:         d.Trainer,
		Start:           start,
		End:             end,
		ParticipantList: participants,
	}
	if err := ValidateRecord(r); err != nil {
		return models.ClassRecord{}, fmt.Errorf("class %s: %w", d.ID, err)
	}
	return r, nil
}

// ------------------- HTTP collaborator -------------------

// HTTPClassService talks to the upstream class API.
type HTTPClassService struct {
	baseURL  string
	client   *http.Client
	location *time.Location
}

// NewHTTPClassService creates a client for the API rooted at baseURL.
// Timeouts and tracing belong to the supplied http.Client.
func NewHTTPClassService(baseURL string, client *http.Client, loc *time.Location) *HTTPClassService {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClassService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		location: loc,
	}
}

// ListClasses fetches every class. Any failure is reported as ErrUnavailable.
func (s *HTTPClassService) ListClasses(ctx context.Context) ([]models.ClassRecord, error) {
	var dtos []classDTO
	status, err := s.do(ctx, http.MethodGet, "/class", "", nil, &dtos)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, status)
	}

	records := make([]models.ClassRecord, 0, len(dtos))
	for _, d := range dtos {
		r, err := d.toRecord(s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		records = append(records, r)
	}
	logger.Debug.Printf("[HTTPClassService.ListClasses] Fetched %d classes", len(records))
	return records, nil
}

// GetClass fetches one class; a 404 is reported as ErrNotFound.
func (s *HTTPClassService) GetClass(ctx context.Context, id string) (models.ClassRecord, error) {
	var d classDTO
	status, err := s.do(ctx, http.MethodGet, "/class/"+url.PathEscape(id), "", nil, &d)
	if err != nil {
		return models.ClassRecord{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return models.ClassRecord{}, ErrNotFound
	default:
		return models.ClassRecord{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, status)
	}

	r, err := d.toRecord(s.location)
	if err != nil {
		return models.ClassRecord{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return r, nil
}

// SignUp posts a registration for class id on behalf of the token holder.
func (s *HTTPClassService) SignUp(ctx context.Context, id, authToken string) error {
	status, err := s.do(ctx, http.MethodPost, "/class/"+url.PathEscape(id)+"/signup", authToken, nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("server rejected signup with status %d", status)
	}
	return nil
}

type loginResponse struct {
	ID    flexibleID `json:"id"`
	Token string     `json:"token"`
}

// Authenticate exchanges credentials for a user id and token at POST /auth/login.
func (s *HTTPClassService) Authenticate(ctx context.Context, username, password string) (models.CurrentUser, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	status, err := s.do(ctx, http.MethodPost, "/auth/login", "", body, &resp)
	if err != nil {
		return models.Anonymous, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	switch status {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.Anonymous, ErrInvalidCredentials
	default:
		return models.Anonymous, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, status)
	}

	user := models.CurrentUser{ID: string(resp.ID), Token: resp.Token}
	if !user.IsAuthenticated() {
		return models.Anonymous, fmt.Errorf("%w: login response without id or token", ErrUnavailable)
	}
	return user, nil
}

// do sends one request. out is decoded only for 2xx responses.
func (s *HTTPClassService) do(ctx context.Context, method, path, token string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn.Printf("[HTTPClassService.do] Error closing body for %s %s: %v", method, path, cerr)
		}
	}()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
