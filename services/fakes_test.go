package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/standings"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type noTx struct{}

func (noTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type recordingHub struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (h *recordingHub) BroadcastToRoom(_ string, message interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := message.(brackets.WebSocketMessage); ok {
		h.messages = append(h.messages, m)
	}
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.Type
	}
	return out
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(ts ...models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for i := range ts {
		t := ts[i]
		r.tournaments[t.ID] = &t
	}
	return r
}

func (r *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	t.ID = len(r.tournaments) + 1
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) List(context.Context, repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	out := []models.Tournament{}
	for _, t := range r.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (r *fakeTournamentRepo) SetRegistrationsOpen(_ context.Context, id int, open bool) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.RegistrationsOpen = open
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.tournaments, id)
	return nil
}

type fakeParticipantRepo struct {
	participants []models.Participant
	nextID       int
}

func (r *fakeParticipantRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Participant, userIDs []int) error {
	r.nextID++
	p.ID = r.nextID
	for _, id := range userIDs {
		p.Members = append(p.Members, models.ParticipantMember{UserID: id, Nickname: "user" + strconv.Itoa(id)})
	}
	r.participants = append(r.participants, *p)
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Participant, error) {
	out := []models.Participant{}
	for _, p := range r.participants {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, tournamentID, id int) error {
	for i, p := range r.participants {
		if p.ID == id && p.TournamentID == tournamentID {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return nil
		}
	}
	return repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := r.participants[:0]
	for _, p := range r.participants {
		if p.TournamentID != tournamentID {
			kept = append(kept, p)
		}
	}
	r.participants = kept
	return nil
}

func (r *fakeParticipantRepo) ReplaceMember(_ context.Context, _ repositories.SQLExecutor, participantID, oldUserID, newUserID int) error {
	for i := range r.participants {
		if r.participants[i].ID != participantID {
			continue
		}
		for j, m := range r.participants[i].Members {
			if m.UserID == oldUserID {
				r.participants[i].Members[j] = models.ParticipantMember{UserID: newUserID, Nickname: "user" + strconv.Itoa(newUserID)}
				return nil
			}
		}
	}
	return repositories.ErrParticipantNotFound
}

type fakePoolRepo struct {
	pools  []models.Pool
	nextID int
}

func (r *fakePoolRepo) Create(_ context.Context, _ repositories.SQLExecutor, pool *models.Pool, participantIDs []int) error {
	r.nextID++
	pool.ID = r.nextID
	pool.Participants = []models.Participant{}
	for _, id := range participantIDs {
		pool.Participants = append(pool.Participants, models.Participant{ID: id, TournamentID: pool.TournamentID})
	}
	r.pools = append(r.pools, *pool)
	return nil
}

func (r *fakePoolRepo) GetByID(_ context.Context, id int) (*models.Pool, error) {
	for _, p := range r.pools {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPoolNotFound
}

func (r *fakePoolRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Pool, error) {
	out := []models.Pool{}
	for _, p := range r.pools {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePoolRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	kept := r.pools[:0]
	for _, p := range r.pools {
		if p.TournamentID != tournamentID {
			kept = append(kept, p)
		}
	}
	r.pools = kept
	return nil
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo(ms ...models.Match) *fakeMatchRepo {
	r := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for i := range ms {
		m := ms[i]
		r.matches[m.ID] = &m
		if m.ID > r.nextID {
			r.nextID = m.ID
		}
	}
	return r
}

func copyMatch(m *models.Match) models.Match {
	cp := *m
	cp.Players = make([]models.MatchPlayer, len(m.Players))
	for i, p := range m.Players {
		cp.Players[i] = p
		if p.Score != nil {
			s := *p.Score
			cp.Players[i].Score = &s
		}
	}
	return cp
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.nextID++
	m.ID = r.nextID
	if m.Round <= 0 {
		m.Round = 1
	}
	if m.Status == "" {
		m.Status = models.MatchPending
	}
	cp := copyMatch(m)
	r.matches[m.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := copyMatch(m)
	return &cp, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	out := []models.Match{}
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, copyMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, status models.MatchStatus, scores map[int]*float64) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	for i, p := range m.Players {
		if s, ok := scores[p.ParticipantID]; ok {
			m.Players[i].Score = s
		}
	}
	return nil
}

func (r *fakeMatchRepo) ResetScores(_ context.Context, _ repositories.SQLExecutor, id int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = models.MatchPending
	for i := range m.Players {
		m.Players[i].Score = nil
	}
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			delete(r.matches, id)
		}
	}
	return nil
}

type fakeLeaderboardRepo struct {
	byTournament map[int][]standings.Match
	bySeason     map[int][]standings.Match
}

func (r *fakeLeaderboardRepo) CompletedMatchesByTournament(_ context.Context, tournamentID int) ([]standings.Match, error) {
	return r.byTournament[tournamentID], nil
}

func (r *fakeLeaderboardRepo) CompletedMatchesBySeason(_ context.Context, season int) ([]standings.Match, error) {
	return r.bySeason[season], nil
}

type fakeUserRepo struct {
	users []models.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Nickname == u.Nickname {
			return repositories.ErrUserNicknameConflict
		}
	}
	u.ID = len(r.users) + 1
	r.users = append(r.users, *u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context, int, int) ([]models.User, error) {
	return append([]models.User(nil), r.users...), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

type fakeRefreshTokenRepo struct {
	tokens []models.RefreshToken
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, t *models.RefreshToken) error {
	t.ID = len(r.tokens) + 1
	r.tokens = append(r.tokens, *t)
	return nil
}

func (r *fakeRefreshTokenRepo) GetByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == hash {
			cp := t
			return &cp, nil
		}
	}
	return nil, repositories.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, id int) error {
	for i := range r.tokens {
		if r.tokens[i].ID == id && !r.tokens[i].Revoked {
			r.tokens[i].Revoked = true
			return nil
		}
	}
	return repositories.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) List(context.Context) ([]models.RefreshToken, error) {
	return append([]models.RefreshToken(nil), r.tokens...), nil
}

type fakeLicenceRepo struct {
	licences []models.Licence
}

func (r *fakeLicenceRepo) Create(_ context.Context, l *models.Licence) error {
	for _, existing := range r.licences {
		if existing.LicenceNumber == l.LicenceNumber {
			return repositories.ErrLicenceNumberConflict
		}
	}
	l.ID = len(r.licences) + 1
	r.licences = append(r.licences, *l)
	return nil
}

func (r *fakeLicenceRepo) GetByID(_ context.Context, id int) (*models.Licence, error) {
	for _, l := range r.licences {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, repositories.ErrLicenceNotFound
}

func (r *fakeLicenceRepo) List(context.Context, int, int) ([]models.Licence, error) {
	return r.licences, nil
}

func (r *fakeLicenceRepo) ListByUser(_ context.Context, userID int) ([]models.Licence, error) {
	out := []models.Licence{}
	for _, l := range r.licences {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLicenceRepo) Update(_ context.Context, l *models.Licence) error {
	for i := range r.licences {
		if r.licences[i].ID == l.ID {
			r.licences[i] = *l
			return nil
		}
	}
	return repositories.ErrLicenceNotFound
}

func (r *fakeLicenceRepo) Delete(_ context.Context, id int) error {
	for i := range r.licences {
		if r.licences[i].ID == id {
			r.licences = append(r.licences[:i], r.licences[i+1:]...)
			return nil
		}
	}
	return repositories.ErrLicenceNotFound
}

func (r *fakeLicenceRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, l := range r.licences {
		if l.LicenceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

type fakeInscriptionRepo struct {
	rows      []*models.Inscription
	nextID    int
	createErr error
}

func (r *fakeInscriptionRepo) Create(_ context.Context, _ repositories.SQLExecutor, in *models.Inscription) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	in.ID = r.nextID
	cp := *in
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeInscriptionRepo) find(id int) *models.Inscription {
	for _, in := range r.rows {
		if in.ID == id {
			return in
		}
	}
	return nil
}

func (r *fakeInscriptionRepo) GetByID(_ context.Context, id int) (*models.Inscription, error) {
	in := r.find(id)
	if in == nil {
		return nil, repositories.ErrInscriptionNotFound
	}
	cp := *in
	return &cp, nil
}

func (r *fakeInscriptionRepo) all() []models.Inscription {
	out := make([]models.Inscription, 0, len(r.rows))
	for _, in := range r.rows {
		out = append(out, *in)
	}
	return out
}

func (r *fakeInscriptionRepo) List(context.Context, int, int) ([]models.Inscription, error) {
	return r.all(), nil
}

func (r *fakeInscriptionRepo) ListActive(context.Context) ([]models.Inscription, error) {
	out := []models.Inscription{}
	for _, in := range r.rows {
		if in.CategorySimple != nil || in.CategoryDouble != nil {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (r *fakeInscriptionRepo) ListByPerson(_ context.Context, fullName string) ([]models.Inscription, error) {
	out := []models.Inscription{}
	for _, in := range r.rows {
		a := strings.ToLower(in.Name + " " + in.Surname)
		b := strings.ToLower(in.Surname + " " + in.Name)
		if n := strings.ToLower(fullName); n == a || n == b {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (r *fakeInscriptionRepo) Update(_ context.Context, _ repositories.SQLExecutor, in *models.Inscription) error {
	existing := r.find(in.ID)
	if existing == nil {
		return repositories.ErrInscriptionNotFound
	}
	*existing = *in
	return nil
}

func (r *fakeInscriptionRepo) Delete(_ context.Context, id int) error {
	for i, in := range r.rows {
		if in.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrInscriptionNotFound
}

func (r *fakeInscriptionRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(r.rows))
	r.rows = nil
	return n, nil
}

func (r *fakeInscriptionRepo) IdentityTaken(_ context.Context, name, surname, club string, excludeID int) (bool, error) {
	for _, in := range r.rows {
		if in.Name == name && in.Surname == surname && in.Club == club && in.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInscriptionRepo) FindForImport(_ context.Context, _ repositories.SQLExecutor, name, surname, club, date string) (*models.Inscription, error) {
	for _, in := range r.rows {
		if in.Name == name && in.Surname == surname && in.Club == club && in.Date == date {
			cp := *in
			return &cp, nil
		}
	}
	return nil, repositories.ErrInscriptionNotFound
}

func (r *fakeInscriptionRepo) SetDoublette(_ context.Context, _ repositories.SQLExecutor, id int, partnerID *int) error {
	in := r.find(id)
	if in == nil {
		return repositories.ErrInscriptionNotFound
	}
	in.Doublette = partnerID
	return nil
}

func ptr[T any](v T) *T { return &v }
