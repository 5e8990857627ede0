package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/spreadsheet"
)

// InscriptionCSVDate names the competition date of CSV imports, which have no
// sheet name to take it from.
const InscriptionCSVDate = "Sheet2"

type InscriptionInput struct {
	Date           string  `json:"date"`
	Name           string  `json:"name"`
	Surname        string  `json:"surname"`
	Club           string  `json:"club"`
	PlayerNumber   *int    `json:"player_number,omitempty"`
	CategorySimple *string `json:"category_simple,omitempty"`
	CategoryDouble *string `json:"category_double,omitempty"`
	Doublette      *int    `json:"doublette,omitempty"`
}

type InscriptionImportReport struct {
	Created        int      `json:"created"`
	Updated        int      `json:"updated"`
	Skipped        int      `json:"skipped"`
	ErrorCount     int      `json:"error_count"`
	Date           string   `json:"date"`
	TotalProcessed int      `json:"total_processed"`
	Errors         []string `json:"errors"`
	Detail         string   `json:"detail"`
}

type InscriptionService interface {
	Create(ctx context.Context, input InscriptionInput) (*models.Inscription, error)
	GetByID(ctx context.Context, id int) (*models.Inscription, error)
	List(ctx context.Context, limit, offset int) ([]models.Inscription, error)
	ListActive(ctx context.Context) ([]models.Inscription, error)
	ListForUser(ctx context.Context, userID int) ([]models.Inscription, error)
	Update(ctx context.Context, id int, input InscriptionInput) (*models.Inscription, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int64, error)
	Import(ctx context.Context, table *spreadsheet.Table) (*InscriptionImportReport, error)
	ImportSheet(ctx context.Context, sheet string) (*InscriptionImportReport, error)
}

type inscriptionService struct {
	tx              Transactor
	inscriptionRepo repositories.InscriptionRepository
	userRepo        repositories.UserRepository
	sheets          spreadsheet.Source
	logger          *slog.Logger
}

// NewInscriptionService builds the service. sheets may be nil when Google
// Sheets import is not configured.
func NewInscriptionService(
	tx Transactor,
	inscriptionRepo repositories.InscriptionRepository,
	userRepo repositories.UserRepository,
	sheets spreadsheet.Source,
	logger *slog.Logger,
) InscriptionService {
	return &inscriptionService{
		tx:              tx,
		inscriptionRepo: inscriptionRepo,
		userRepo:        userRepo,
		sheets:          sheets,
		logger:          logger,
	}
}

func (in InscriptionInput) toModel() (*models.Inscription, error) {
	m := &models.Inscription{
		Date:           strings.TrimSpace(in.Date),
		Name:           strings.TrimSpace(in.Name),
		Surname:        strings.TrimSpace(in.Surname),
		Club:           strings.TrimSpace(in.Club),
		PlayerNumber:   in.PlayerNumber,
		CategorySimple: trimmedPtr(in.CategorySimple),
		CategoryDouble: trimmedPtr(in.CategoryDouble),
		Doublette:      in.Doublette,
	}
	v := validator{}
	v.check(m.Date != "", "date", "must be provided")
	v.check(m.Name != "", "name", "must be provided")
	v.check(m.Surname != "", "surname", "must be provided")
	v.check(m.Club != "", "club", "must be provided")
	return m, v.err()
}

func (s *inscriptionService) Create(ctx context.Context, input InscriptionInput) (*models.Inscription, error) {
	m, err := input.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.checkIdentity(ctx, m, 0); err != nil {
		return nil, err
	}
	if err := s.inscriptionRepo.Create(ctx, nil, m); err != nil {
		return nil, handleRepositoryError(err)
	}
	return m, nil
}

func (s *inscriptionService) checkIdentity(ctx context.Context, m *models.Inscription, excludeID int) error {
	taken, err := s.inscriptionRepo.IdentityTaken(ctx, m.Name, m.Surname, m.Club, excludeID)
	if err != nil {
		return handleRepositoryError(err)
	}
	if taken {
		return ErrInscriptionConflict
	}
	return nil
}

func (s *inscriptionService) GetByID(ctx context.Context, id int) (*models.Inscription, error) {
	m, err := s.inscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return m, nil
}

func (s *inscriptionService) List(ctx context.Context, limit, offset int) ([]models.Inscription, error) {
	return s.inscriptionRepo.List(ctx, limit, offset)
}

// ListActive returns the inscriptions entered in at least one category.
func (s *inscriptionService) ListActive(ctx context.Context) ([]models.Inscription, error) {
	return s.inscriptionRepo.ListActive(ctx)
}

// ListForUser matches inscriptions against the user's full name.
func (s *inscriptionService) ListForUser(ctx context.Context, userID int) ([]models.Inscription, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	name := strings.TrimSpace(derefString(user.Name))
	if name == "" {
		return []models.Inscription{}, nil
	}
	return s.inscriptionRepo.ListByPerson(ctx, name)
}

func (s *inscriptionService) Update(ctx context.Context, id int, input InscriptionInput) (*models.Inscription, error) {
	if _, err := s.inscriptionRepo.GetByID(ctx, id); err != nil {
		return nil, handleRepositoryError(err)
	}
	m, err := input.toModel()
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.checkIdentity(ctx, m, id); err != nil {
		return nil, err
	}
	if err := s.inscriptionRepo.Update(ctx, nil, m); err != nil {
		return nil, handleRepositoryError(err)
	}
	return m, nil
}

func (s *inscriptionService) Delete(ctx context.Context, id int) error {
	return handleRepositoryError(s.inscriptionRepo.Delete(ctx, id))
}

func (s *inscriptionService) DeleteAll(ctx context.Context) (int64, error) {
	return s.inscriptionRepo.DeleteAll(ctx)
}

func (s *inscriptionService) ImportSheet(ctx context.Context, sheet string) (*InscriptionImportReport, error) {
	if s.sheets == nil {
		return nil, fmt.Errorf("%w: google sheets", ErrFeatureNotConfigured)
	}
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return nil, &ValidationError{Fields: map[string]string{"sheet": "must be provided"}}
	}
	table, err := s.sheets.ReadSheet(ctx, sheet)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrEmptySheet) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImportFile, err)
		}
		return nil, err
	}
	return s.Import(ctx, table)
}

type importRow struct {
	line          int
	inscription   *models.Inscription
	partnerNumber *int
}

// Import upserts the rows of a competition sheet. The sheet name is the
// competition date. Rows end at the first empty "Nom". Doublette columns hold
// the partner's player number and are resolved to inscription ids once every
// row is stored.
func (s *inscriptionService) Import(ctx context.Context, table *spreadsheet.Table) (*InscriptionImportReport, error) {
	if err := table.RequireColumns("Nom", "Prenom", "Club"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImportFile, err)
	}
	date := table.Name
	if date == "" {
		date = InscriptionCSVDate
	}

	report := &InscriptionImportReport{Date: date, Errors: []string{}}
	var rows []importRow
	for idx, row := range table.Rows {
		line := idx + 2
		name := table.Get(row, "Nom")
		if name == "" {
			break
		}
		report.TotalProcessed++

		surname := table.Get(row, "Prenom")
		club := table.Get(row, "Club")
		if surname == "" || club == "" {
			report.Skipped++
			report.ErrorCount++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: 'Prenom' and 'Club' are required", line))
			continue
		}

		number, err := parseSheetInt(table.Get(row, "N"))
		if err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: invalid player number: %v", line, err))
		}
		partner, err := parseSheetInt(table.Get(row, "ND"))
		if err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: invalid doublette number: %v", line, err))
		}

		rows = append(rows, importRow{
			line: line,
			inscription: &models.Inscription{
				Date:           date,
				Name:           name,
				Surname:        surname,
				Club:           club,
				PlayerNumber:   number,
				CategorySimple: optionalCell(table.Get(row, "Cat S")),
				CategoryDouble: optionalCell(table.Get(row, "Cat D")),
			},
			partnerNumber: partner,
		})
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		byNumber := make(map[int]int, len(rows))
		for _, r := range rows {
			in := r.inscription
			existing, err := s.inscriptionRepo.FindForImport(ctx, exec, in.Name, in.Surname, in.Club, in.Date)
			switch {
			case err == nil:
				in.ID = existing.ID
				if err := s.inscriptionRepo.Update(ctx, exec, in); err != nil {
					return err
				}
				report.Updated++
			case errors.Is(err, repositories.ErrInscriptionNotFound):
				if err := s.inscriptionRepo.Create(ctx, exec, in); err != nil {
					return err
				}
				report.Created++
			default:
				return err
			}
			if in.PlayerNumber != nil {
				byNumber[*in.PlayerNumber] = in.ID
			}
		}

		for _, r := range rows {
			if r.partnerNumber == nil {
				continue
			}
			partnerID, ok := byNumber[*r.partnerNumber]
			if !ok {
				report.ErrorCount++
				report.Errors = append(report.Errors, fmt.Sprintf("Line %d: doublette partner number %d not found", r.line, *r.partnerNumber))
				continue
			}
			if err := s.inscriptionRepo.SetDoublette(ctx, exec, r.inscription.ID, &partnerID); err != nil {
				return err
			}
			r.inscription.Doublette = &partnerID
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to import inscriptions: %w", err)
	}

	report.Detail = fmt.Sprintf("%d created, %d updated, %d skipped for %s", report.Created, report.Updated, report.Skipped, date)
	s.logger.Info("inscription import finished",
		slog.String("date", date),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("errors", report.ErrorCount))
	return report, nil
}

// parseSheetInt reads an optional integer cell. Spreadsheet exports sometimes
// render integers as "12.0".
func parseSheetInt(cell string) (*int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(cell, ",", ".", 1), 64)
	if err != nil || f != float64(int(f)) {
		return nil, fmt.Errorf("%q is not an integer", cell)
	}
	n := int(f)
	return &n, nil
}

func optionalCell(cell string) *string {
	return trimmedPtr(&cell)
}
