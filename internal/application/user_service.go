package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/deliverymx/user-service/internal/domain/entity"
	repo "github.com/deliverymx/user-service/internal/domain/repository"
	"github.com/deliverymx/user-service/internal/domain/valueobject"
	"github.com/deliverymx/user-service/pkg/helpers"
	"github.com/deliverymx/user-service/pkg/mailer"
)

const userViewTTL = 10 * time.Minute

// Service orchestrates the user use cases. Only Repo is mandatory; the
// other collaborators (cache, search index, object storage, event and
// mail queues) are nil-guarded so the core paths run without them.
type Service struct {
	Repo         repo.UserRepository
	Redis        *redis.Client
	Logger       *logrus.Logger
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Events       *helpers.RabbitPublisher
	MailQueue    *helpers.RabbitPublisher
}

func NewService(repo repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esUsersIndex string, events, mailQueue *helpers.RabbitPublisher) *Service {
	return &Service{
		Repo:         repo,
		Redis:        rdb,
		Logger:       logger,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Events:       events,
		MailQueue:    mailQueue,
	}
}

type ContactInput struct {
	Email string
	Phone string
}

type AddressInput struct {
	Street         string
	Number         string
	Neighborhood   string
	City           string
	State          string
	ZipCode        string
	Country        string
	AdditionalInfo string
}

type CreateUserInput struct {
	Name      string
	LastName  string
	Contact   ContactInput
	Password  string
	Role      string
	Addresses []AddressInput
}

// CreateUser registers a new account. An existing account with the same
// email only blocks creation while it is active; a soft-deleted account
// frees its email for re-registration.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*UserResponse, error) {
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	existing, err := s.Repo.FindByEmail(ctx, in.Contact.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, ErrEmailInUse
	}

	contact, err := valueobject.NewContactInfo(in.Contact.Email, in.Contact.Phone)
	if err != nil {
		return nil, err
	}
	credentials, err := valueobject.NewCredentials(in.Contact.Email, in.Password)
	if err != nil {
		return nil, err
	}

	userID := uuid.NewString()
	var user entity.User
	switch role {
	case entity.RoleCustomer:
		user, err = entity.NewCustomer(userID, in.Name, in.LastName, contact, credentials)
	case entity.RoleDeliveryPerson:
		user, err = entity.NewDeliveryPerson(userID, in.Name, in.LastName, contact, credentials)
	case entity.RoleRestaurantUser:
		user, err = entity.NewRestaurantUser(userID, in.Name, in.LastName, contact, credentials)
	}
	if err != nil {
		return nil, err
	}

	for _, a := range in.Addresses {
		addr, aErr := newAddress(a)
		if aErr != nil {
			return nil, aErr
		}
		if aErr := user.AddAddress(addr); aErr != nil {
			return nil, aErr
		}
	}

	saved, err := s.Repo.Save(ctx, user)
	if err != nil {
		// Two concurrent registrations can both pass the read-side
		// check; the unique index decides, and the loser gets the same
		// answer as an up-front duplicate.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	_ = s.indexUser(ctx, saved)
	s.publishEvent(ctx, "user.created", saved)
	s.enqueueWelcomeEmail(ctx, saved)

	return NewUserResponse(saved), nil
}

// GetUserByID returns the account view, or (nil, nil) when no record
// matches. A soft-deleted account is "not currently available" rather
// than "never existed", so it surfaces as ErrUserInactive instead.
func (s *Service) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}

	if s.Redis != nil {
		var cached UserResponse
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, userViewKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if s.Logger != nil {
			s.Logger.WithField("user_id", id).Debug("user lookup missed")
		}
		return nil, nil
	}
	if !user.IsActive() {
		if s.Logger != nil {
			s.Logger.WithField("user_id", id).Info("lookup of deactivated user")
		}
		return nil, ErrUserInactive
	}

	resp := NewUserResponse(user)
	s.cacheView(ctx, resp)
	return resp, nil
}

// GetUserByEmail rejects malformed emails before ever consulting the
// repository; otherwise it follows the same rules as GetUserByID.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*UserResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidInput
	}
	if !valueobject.IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if s.Logger != nil {
			s.Logger.WithField("email", email).Debug("user lookup missed")
		}
		return nil, nil
	}
	if !user.IsActive() {
		if s.Logger != nil {
			s.Logger.WithField("email", email).Info("lookup of deactivated user")
		}
		return nil, ErrUserInactive
	}
	return NewUserResponse(user), nil
}

// ListUsers returns every active account.
func (s *Service) ListUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		if u.IsActive() {
			out = append(out, NewUserResponse(u))
		}
	}
	return out, nil
}

// DeleteUser soft-deletes the account: the record stays in storage with
// its active flag cleared. No physical erasure happens anywhere.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}

	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if _, err := s.Repo.Save(ctx, user); err != nil {
		return err
	}

	s.invalidateView(ctx, id)
	_ = s.indexUser(ctx, user)
	s.publishEvent(ctx, "user.deactivated", user)
	return nil
}

// AddAddress attaches an address to an active account. The aggregate
// enforces the 5-address cap and value-equality dedup.
func (s *Service) AddAddress(ctx context.Context, userID string, in AddressInput) (*UserResponse, error) {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	addr, err := newAddress(in)
	if err != nil {
		return nil, err
	}
	if err := user.AddAddress(addr); err != nil {
		return nil, err
	}
	saved, err := s.Repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidateView(ctx, userID)
	return NewUserResponse(saved), nil
}

// RemoveAddress detaches the value-equal address if present and reports
// whether anything was removed; the caller decides whether a miss is an
// error.
func (s *Service) RemoveAddress(ctx context.Context, userID string, in AddressInput) (*UserResponse, bool, error) {
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	addr, err := newAddress(in)
	if err != nil {
		return nil, false, err
	}
	removed := user.RemoveAddress(addr)
	if !removed {
		return NewUserResponse(user), false, nil
	}
	saved, err := s.Repo.Save(ctx, user)
	if err != nil {
		return nil, false, err
	}
	s.invalidateView(ctx, userID)
	return NewUserResponse(saved), true, nil
}

// UploadProfilePhoto stores a delivery staff profile picture in GCS and
// records its public URL on the aggregate.
func (s *Service) UploadProfilePhoto(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	user, err := s.loadActive(ctx, userID)
	if err != nil {
		return "", err
	}
	staff, ok := user.(*entity.DeliveryPerson)
	if !ok {
		return "", ErrNotDeliveryStaff
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profiles", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := staff.SetProfilePicture(url); err != nil {
		return "", err
	}
	if _, err := s.Repo.Save(ctx, staff); err != nil {
		return "", err
	}
	s.invalidateView(ctx, userID)
	return url, nil
}

// SearchUsers runs a multi_match query over name and email, restricted
// to active accounts. Returns raw documents from the index.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"full_name^2", "email"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"is_active": true},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// loadActive resolves id to an active aggregate or the matching
// use-case error. Mutating a deactivated account is disallowed.
func (s *Service) loadActive(ctx context.Context, id string) (entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}
	return user, nil
}

func newAddress(in AddressInput) (valueobject.Address, error) {
	return valueobject.NewAddress(in.Street, in.Number, in.Neighborhood, in.City, in.State, in.ZipCode, in.Country, in.AdditionalInfo)
}

func userViewKey(id string) string { return "user:view:" + id }

func (s *Service) cacheView(ctx context.Context, resp *UserResponse) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, userViewKey(resp.ID), resp, userViewTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", resp.ID).Warn("cache user view failed")
	}
}

func (s *Service) invalidateView(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, userViewKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("invalidate user view failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":        u.ID(),
		"name":      u.FirstName(),
		"last_name": u.LastName(),
		"full_name": u.FullName(),
		"email":     u.Contact().Email(),
		"role":      string(u.Role()),
		"is_active": u.IsActive(),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID()).Warn("es index response error")
	}
	return nil
}

// UserEvent is the lifecycle message published for other services
// (notifications, analytics) when an account changes state.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *Service) publishEvent(ctx context.Context, eventType string, u entity.User) {
	if s.Events == nil {
		return
	}
	evt := UserEvent{
		Type:       eventType,
		UserID:     u.ID(),
		Email:      u.Contact().Email(),
		Role:       string(u.Role()),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.Events.PublishJSON(ctx, evt); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("event", eventType).Warn("publish user event failed")
	}
}

func (s *Service) enqueueWelcomeEmail(ctx context.Context, u entity.User) {
	if s.MailQueue == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Contact().Email(),
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name": u.FullName(),
			"Role": string(u.Role()),
		},
	}
	if err := s.MailQueue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("enqueue welcome email failed")
	}
}
