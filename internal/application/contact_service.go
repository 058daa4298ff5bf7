package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/andrsolo/contactbook/internal/domain/entity"
	repo "github.com/andrsolo/contactbook/internal/domain/repository"
	"github.com/andrsolo/contactbook/pkg/cache"
)

var ErrContactNotFound = errors.New("contact not found")

// birthdayWindowDays is the inclusive lookahead for the upcoming-birthday
// query: today through today+7, wrapping the year boundary.
const birthdayWindowDays = 7

// ContactService orchestrates owner-scoped contact access. Single-contact
// and birthday reads go through the cache; every mutation is a single
// statement against the store. Elasticsearch indexing is best effort and
// never fails a request.
type ContactService struct {
	Contacts repo.ContactRepository
	Cache    cache.Backend
	Logger   *logrus.Logger

	ES      *elasticsearch.Client
	ESIndex string

	ContactTTL  time.Duration
	BirthdayTTL time.Duration

	// now is injectable for birthday-window tests.
	now func() time.Time
}

func NewContactService(contacts repo.ContactRepository, backend cache.Backend, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, contactTTL, birthdayTTL time.Duration) *ContactService {
	return &ContactService{
		Contacts:    contacts,
		Cache:       backend,
		Logger:      logger,
		ES:          es,
		ESIndex:     esIndex,
		ContactTTL:  contactTTL,
		BirthdayTTL: birthdayTTL,
		now:         time.Now,
	}
}

// Cache keys are owner-scoped: a bare contact id key would serve one user's
// row to another user holding a guessed id.
func contactKey(userID, contactID int64) string {
	return "contact:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(contactID, 10)
}

func birthdaysKey(userID int64, skip, limit int) string {
	return fmt.Sprintf("birthdays:%d:%d:%d", userID, skip, limit)
}

type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time
	Info      string
}

func (s *ContactService) Create(ctx context.Context, in ContactInput, userID int64) (*entity.Contact, error) {
	c := &entity.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Birthday:  in.Birthday,
		Info:      in.Info,
		UserID:    userID,
	}
	if err := s.Contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.indexContact(ctx, c)
	return c, nil
}

// Get reads through the cache; a miss loads from the store scoped to the
// owner and populates the cache for ContactTTL.
func (s *ContactService) Get(ctx context.Context, id, userID int64) (*entity.Contact, error) {
	return cache.GetOrLoad(ctx, s.Cache, s.Logger, contactKey(userID, id), s.ContactTTL,
		func(ctx context.Context) (*entity.Contact, error) {
			c, err := s.Contacts.Get(ctx, id, userID)
			if err != nil {
				return nil, err
			}
			if c == nil {
				return nil, ErrContactNotFound
			}
			return c, nil
		})
}

func (s *ContactService) List(ctx context.Context, skip, limit int, userID int64) ([]entity.Contact, error) {
	return s.Contacts.List(ctx, skip, limit, userID)
}

func (s *ContactService) Update(ctx context.Context, id, userID int64, upd repo.ContactUpdate) (*entity.Contact, error) {
	c, err := s.Contacts.Update(ctx, id, userID, upd)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	s.indexContact(ctx, c)
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id, userID int64) (*entity.Contact, error) {
	c, err := s.Contacts.Delete(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContactNotFound
	}
	s.removeFromIndex(ctx, c.ID)
	return c, nil
}

func (s *ContactService) Find(ctx context.Context, query string, skip, limit int, userID int64) ([]entity.Contact, error) {
	return s.Contacts.Find(ctx, query, skip, limit, userID)
}

// Birthdays lists contacts whose birthday falls within the next week,
// cached per owner and page for BirthdayTTL.
func (s *ContactService) Birthdays(ctx context.Context, skip, limit int, userID int64) ([]entity.Contact, error) {
	return cache.GetOrLoad(ctx, s.Cache, s.Logger, birthdaysKey(userID, skip, limit), s.BirthdayTTL,
		func(ctx context.Context) ([]entity.Contact, error) {
			return s.Contacts.Birthdays(ctx, s.upcomingMonthDays(), skip, limit, userID)
		})
}

// upcomingMonthDays returns the "MM-DD" keys for today and the following
// seven days. Walking day by day handles the year wrap and Feb 29 for free.
func (s *ContactService) upcomingMonthDays() []string {
	today := s.now()
	days := make([]string, 0, birthdayWindowDays+1)
	for i := 0; i <= birthdayWindowDays; i++ {
		days = append(days, today.AddDate(0, 0, i).Format("01-02"))
	}
	return days
}

// Search queries the supplemental Elasticsearch index, filtered to the
// owner. Returns an empty result when ES is not configured.
func (s *ContactService) Search(ctx context.Context, q string, size int, userID int64) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
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
						"fields": []string{"first_name^2", "last_name^2", "email", "phone"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
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

func (s *ContactService) indexContact(ctx context.Context, c *entity.Contact) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         c.ID,
		"first_name": c.FirstName,
		"last_name":  c.LastName,
		"email":      c.Email,
		"phone":      c.Phone,
		"birthday":   c.Birthday.Format("2006-01-02"),
		"user_id":    c.UserID,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(c.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("contact_id", c.ID).Warn("es index response error")
	}
}

func (s *ContactService) removeFromIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(id, 10)}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("contact_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}
