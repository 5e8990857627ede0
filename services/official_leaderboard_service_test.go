package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/official"
	"github.com/badarts/club-backend/repositories"
)

type fakeOfficialRepo struct {
	stored map[string]models.OfficialLeaderboard
}

func (r *fakeOfficialRepo) Save(_ context.Context, lb *models.OfficialLeaderboard) error {
	if r.stored == nil {
		r.stored = map[string]models.OfficialLeaderboard{}
	}
	lb.UpdatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r.stored[lb.Board] = *lb
	return nil
}

func (r *fakeOfficialRepo) Get(_ context.Context, board string) (*models.OfficialLeaderboard, error) {
	lb, ok := r.stored[board]
	if !ok {
		return nil, repositories.ErrOfficialLeaderboardNotFound
	}
	return &lb, nil
}

func lsefPages(io.ReaderAt, int64) ([]official.Page, error) {
	return []official.Page{{
		Width:  800,
		Height: 600,
		Words: []official.Word{
			{Text: "Championnat Ligue Sud-Est de Fléchettes - Classement Individuel Mixte", X0: 40, X1: 500, Top: 20},
			{Text: "Joueur", X0: 40, X1: 80, Top: 60},
			{Text: "PTS", X0: 200, X1: 230, Top: 60},
			{Text: "Dupont Jean", X0: 40, X1: 110, Top: 80},
			{Text: "40", X0: 200, X1: 215, Top: 80},
		},
	}}, nil
}

func TestOfficialLeaderboardUpdateAndGet(t *testing.T) {
	repo := &fakeOfficialRepo{}
	svc := &officialLeaderboardService{repo: repo, readPages: lsefPages, logger: discardLogger()}
	ctx := context.Background()

	if _, err := svc.Get(ctx, official.BoardLSEF); !errors.Is(err, ErrOfficialLeaderboardNotFound) {
		t.Fatalf("before upload err = %v", err)
	}

	if err := svc.Update(ctx, official.BoardLSEF, bytes.NewReader(nil), 0); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	lb, err := svc.Get(ctx, official.BoardLSEF)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(lb.Leaderboard) != 1 || lb.Leaderboard[0].Category != "individuel_mixte" || lb.UpdatedAt.IsZero() {
		t.Fatalf("leaderboard = %+v", lb)
	}
	if e := lb.Leaderboard[0].Entries; len(e) != 1 || e[0]["joueur"] != "Dupont Jean" || e[0]["pts"] != "40" {
		t.Errorf("entries = %v", e)
	}
}

func TestOfficialLeaderboardRejects(t *testing.T) {
	broken := func(io.ReaderAt, int64) ([]official.Page, error) { return nil, errors.New("not a pdf") }
	empty := func(io.ReaderAt, int64) ([]official.Page, error) { return []official.Page{{Width: 800, Height: 600}}, nil }

	tests := []struct {
		name  string
		board string
		read  func(io.ReaderAt, int64) ([]official.Page, error)
		want  error
	}{
		{"unknown board", "fff", lsefPages, ErrUnknownLeaderboard},
		{"unreadable file", official.BoardCMER, broken, ErrInvalidImportFile},
		{"no category", official.BoardLSEF, empty, ErrInvalidImportFile},
		{"wrong federation", official.BoardCMER, lsefPages, ErrInvalidImportFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeOfficialRepo{}
			svc := &officialLeaderboardService{repo: repo, readPages: tt.read, logger: discardLogger()}
			if err := svc.Update(context.Background(), tt.board, bytes.NewReader(nil), 0); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(repo.stored) != 0 {
				t.Error("a rejected upload was stored")
			}
		})
	}
}
