package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/spreadsheet"
	"github.com/badarts/club-backend/utils"
)

// FuzzyMatchThreshold is the minimum token-sort similarity for a licence row
// to be attached to a user whose name is spelled differently.
const FuzzyMatchThreshold = 85

var licenceColumns = []string{"LIG", "COM", "N° Club", "Club", "NOM", "Prénom", "Licence", "Cat. Club"}

type LicenceInput struct {
	Ligue         string `json:"ligue"`
	Comite        string `json:"comite"`
	ClubNumber    string `json:"club_number"`
	ClubName      string `json:"club_name"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Category      string `json:"category"`
	LicenceNumber string `json:"licence_number"`
	UserID        int    `json:"user_id"`
}

// ImportReport summarises a bulk licence import.
type ImportReport struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
	Detail       string   `json:"detail"`
}

type LicenceService interface {
	Create(ctx context.Context, input LicenceInput) (*models.Licence, error)
	GetByID(ctx context.Context, id int) (*models.Licence, error)
	List(ctx context.Context, limit, offset int) ([]models.Licence, error)
	ListByUser(ctx context.Context, userID int) ([]models.Licence, error)
	Update(ctx context.Context, id int, input LicenceInput) (*models.Licence, error)
	Delete(ctx context.Context, id int) error
	BulkCreate(ctx context.Context, table *spreadsheet.Table) (*ImportReport, error)
}

type licenceService struct {
	licenceRepo repositories.LicenceRepository
	userRepo    repositories.UserRepository
	logger      *slog.Logger
}

func NewLicenceService(licenceRepo repositories.LicenceRepository, userRepo repositories.UserRepository, logger *slog.Logger) LicenceService {
	return &licenceService{licenceRepo: licenceRepo, userRepo: userRepo, logger: logger}
}

func (in LicenceInput) toModel() (*models.Licence, error) {
	l := &models.Licence{
		Ligue:         strings.TrimSpace(in.Ligue),
		Comite:        strings.TrimSpace(in.Comite),
		ClubNumber:    strings.TrimSpace(in.ClubNumber),
		ClubName:      strings.TrimSpace(in.ClubName),
		Name:          strings.TrimSpace(in.Name),
		Surname:       strings.TrimSpace(in.Surname),
		Category:      strings.TrimSpace(in.Category),
		LicenceNumber: strings.TrimSpace(in.LicenceNumber),
		UserID:        in.UserID,
	}
	v := validator{}
	v.check(l.Name != "", "name", "must be provided")
	v.check(l.Surname != "", "surname", "must be provided")
	v.check(l.LicenceNumber != "", "licence_number", "must be provided")
	v.check(l.UserID > 0, "user_id", "must be provided")
	return l, v.err()
}

func (s *licenceService) Create(ctx context.Context, input LicenceInput) (*models.Licence, error) {
	l, err := input.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.licenceRepo.Create(ctx, l); err != nil {
		return nil, licenceError(err)
	}
	return l, nil
}

func (s *licenceService) GetByID(ctx context.Context, id int) (*models.Licence, error) {
	l, err := s.licenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return l, nil
}

func (s *licenceService) List(ctx context.Context, limit, offset int) ([]models.Licence, error) {
	licences, err := s.licenceRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list licences: %w", err)
	}
	return licences, nil
}

func (s *licenceService) ListByUser(ctx context.Context, userID int) ([]models.Licence, error) {
	licences, err := s.licenceRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list licences of user %d: %w", userID, err)
	}
	return licences, nil
}

func (s *licenceService) Update(ctx context.Context, id int, input LicenceInput) (*models.Licence, error) {
	l, err := input.toModel()
	if err != nil {
		return nil, err
	}
	l.ID = id
	if err := s.licenceRepo.Update(ctx, l); err != nil {
		return nil, licenceError(err)
	}
	return l, nil
}

func (s *licenceService) Delete(ctx context.Context, id int) error {
	return handleRepositoryError(s.licenceRepo.Delete(ctx, id))
}

// licenceError reports a missing user as a validation failure: the user is
// part of the payload, not the addressed resource.
func licenceError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return &ValidationError{Fields: map[string]string{"user_id": "user does not exist"}}
	}
	return handleRepositoryError(err)
}

// BulkCreate imports licences from a federation export. Each row is attached
// to the user whose name matches "<Prénom> <NOM>" exactly, or failing that,
// to the closest fuzzy match.
func (s *licenceService) BulkCreate(ctx context.Context, table *spreadsheet.Table) (*ImportReport, error) {
	table.Rename(map[string]string{"Cat.": "Cat. Club"})
	if err := table.RequireColumns(licenceColumns...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImportFile, err)
	}

	users, err := s.userRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	matcher := newUserMatcher(users)

	report := &ImportReport{Errors: []string{}}
	for idx, row := range table.Rows {
		line := idx + 2
		surname := table.Get(row, "Prénom")
		name := table.Get(row, "NOM")
		number := table.Get(row, "Licence")

		fail := func(format string, args ...interface{}) {
			report.ErrorCount++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: ", line)+fmt.Sprintf(format, args...))
		}

		if name == "" && surname == "" && number == "" {
			continue
		}
		if number == "" {
			fail("missing licence number")
			continue
		}
		fullName := strings.TrimSpace(surname + " " + name)
		userID, ok := matcher.find(fullName)
		if !ok {
			fail("no user found for '%s'", fullName)
			continue
		}

		l := &models.Licence{
			Ligue:         table.Get(row, "LIG"),
			Comite:        table.Get(row, "COM"),
			ClubNumber:    table.Get(row, "N° Club"),
			ClubName:      table.Get(row, "Club"),
			Name:          name,
			Surname:       surname,
			Category:      table.Get(row, "Cat. Club"),
			LicenceNumber: number,
			UserID:        userID,
		}
		if err := s.licenceRepo.Create(ctx, l); err != nil {
			if errors.Is(err, repositories.ErrLicenceNumberConflict) {
				fail("licence %s already exists", number)
				continue
			}
			fail("%v", licenceError(err))
			continue
		}
		report.SuccessCount++
	}

	report.Detail = fmt.Sprintf("%d licences created, %d errors", report.SuccessCount, report.ErrorCount)
	s.logger.Info("licence import finished", slog.Int("created", report.SuccessCount), slog.Int("errors", report.ErrorCount))
	return report, nil
}

type userMatcher struct {
	ids   []int
	names []string
	exact map[string]int
}

func newUserMatcher(users []models.User) *userMatcher {
	m := &userMatcher{exact: make(map[string]int)}
	for _, u := range users {
		name := utils.NormalizeName(derefString(u.Name))
		m.ids = append(m.ids, u.ID)
		m.names = append(m.names, name)
		if name == "" {
			continue
		}
		if _, dup := m.exact[name]; !dup {
			m.exact[name] = u.ID
		}
	}
	return m
}

func (m *userMatcher) find(fullName string) (int, bool) {
	key := utils.NormalizeName(fullName)
	if key == "" {
		return 0, false
	}
	if id, ok := m.exact[key]; ok {
		return id, true
	}
	if i, _ := utils.BestMatch(key, m.names, FuzzyMatchThreshold); i >= 0 {
		return m.ids[i], true
	}
	return 0, false
}
