package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/spreadsheet"
)

func newLicenceFixture() (LicenceService, *fakeLicenceRepo) {
	users := &fakeUserRepo{users: []models.User{
		{ID: 1, Name: ptr("Jean Dupont"), Nickname: "jd"},
		{ID: 2, Name: ptr("Marie-Claire Curie"), Nickname: "mc"},
		{ID: 3, Nickname: "anon"},
	}}
	licences := &fakeLicenceRepo{}
	return NewLicenceService(licences, users, discardLogger()), licences
}

func TestLicenceBulkCreate(t *testing.T) {
	svc, repo := newLicenceFixture()
	table, err := spreadsheet.NewTable("licences", [][]string{
		{"LIG", "COM", "N° Club", "Club", "NOM", "Prénom", "Licence", "Cat."},
		{"IDF", "75", "123", "BAD", "DUPONT", "Jean", "L1", "SE"},
		{"IDF", "75", "123", "BAD", "CURIE", "Marie Claire", "L2", "SE"},
		{"IDF", "75", "123", "BAD", "DUPOND", "Jean", "L3", "V1"},
		{"IDF", "75", "123", "BAD", "CAMUS", "Albert", "L4", "SE"},
		{"IDF", "75", "123", "BAD", "DUPONT", "Jean", "L1", "SE"},
		{"IDF", "75", "123", "BAD", "CURIE", "Marie", "", "SE"},
	})
	if err != nil {
		t.Fatal(err)
	}

	report, err := svc.BulkCreate(context.Background(), table)
	if err != nil {
		t.Fatalf("BulkCreate() error = %v", err)
	}
	if report.SuccessCount != 3 || report.ErrorCount != 3 {
		t.Fatalf("report = %+v", report)
	}
	for i, line := range []string{"Line 5:", "Line 6:", "Line 7:"} {
		if !strings.HasPrefix(report.Errors[i], line) {
			t.Errorf("errors[%d] = %q, want prefix %q", i, report.Errors[i], line)
		}
	}

	wantUsers := map[string]int{"L1": 1, "L2": 2, "L3": 1}
	for _, l := range repo.licences {
		if wantUsers[l.LicenceNumber] != l.UserID {
			t.Errorf("licence %s attached to user %d, want %d", l.LicenceNumber, l.UserID, wantUsers[l.LicenceNumber])
		}
		if l.LicenceNumber == "L3" && l.Category != "V1" {
			t.Errorf("category alias not applied: %+v", l)
		}
	}
}

func TestLicenceBulkCreateMissingColumns(t *testing.T) {
	svc, _ := newLicenceFixture()
	table, _ := spreadsheet.NewTable("licences", [][]string{{"NOM", "Prénom"}, {"DUPONT", "Jean"}})
	_, err := svc.BulkCreate(context.Background(), table)
	if !errors.Is(err, ErrInvalidImportFile) {
		t.Fatalf("err = %v, want ErrInvalidImportFile", err)
	}
}

func TestLicenceCreateValidation(t *testing.T) {
	svc, _ := newLicenceFixture()
	_, err := svc.Create(context.Background(), LicenceInput{Name: "Dupont"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, f := range []string{"surname", "licence_number", "user_id"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing field error %q in %v", f, verr.Fields)
		}
	}

	if _, err := svc.Create(context.Background(), LicenceInput{Name: "Dupont", Surname: "Jean", LicenceNumber: "X", UserID: 1}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	_, err = svc.Create(context.Background(), LicenceInput{Name: "Dupont", Surname: "Jean", LicenceNumber: "X", UserID: 1})
	if !errors.Is(err, ErrLicenceNumberConflict) {
		t.Errorf("duplicate err = %v", err)
	}
}
