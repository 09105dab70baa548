package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
	"github.com/jonathan/talent-match/internal/types"
)

// memStore is an in-memory Store with the same ownership and not-found
// conventions as *db.DB.
type memStore struct {
	mu         sync.Mutex
	pingErr    error
	saveErr    error
	users      map[uuid.UUID]*db.User
	candidates map[uuid.UUID]*db.Candidate
	documents  map[uuid.UUID]*db.Document
	companies  map[uuid.UUID]*db.Company
	profiles   map[uuid.UUID]*db.Profile
	queries    map[uuid.UUID]*types.SearchQuery
	queryOwner map[uuid.UUID]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]*db.User{},
		candidates: map[uuid.UUID]*db.Candidate{},
		documents:  map[uuid.UUID]*db.Document{},
		companies:  map[uuid.UUID]*db.Company{},
		profiles:   map[uuid.UUID]*db.Profile{},
		queries:    map[uuid.UUID]*types.SearchQuery{},
		queryOwner: map[uuid.UUID]uuid.UUID{},
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return uuid.Nil, fmt.Errorf("%w: user %s", db.ErrConflict, email)
		}
	}
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, Phone: phone, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memStore) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", db.ErrNotFound, userID)
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (m *memStore) CreateCandidate(_ context.Context, creatorID uuid.UUID, in db.CandidateInput) (*db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.candidates {
		if strings.EqualFold(c.Email, in.Email) {
			return nil, fmt.Errorf("%w: candidate %s", db.ErrConflict, in.Email)
		}
	}
	now := time.Now()
	c := &db.Candidate{ID: uuid.New(), CreatorID: creatorID, CreatedAt: now}
	applyCandidate(c, in, now)
	m.candidates[c.ID] = c
	cp := *c
	return &cp, nil
}

func applyCandidate(c *db.Candidate, in db.CandidateInput, now time.Time) {
	c.Name = in.Name
	c.Email = strings.ToLower(in.Email)
	c.Phone = in.Phone
	c.BirthDate = in.BirthDate
	c.CurrentPosition = in.CurrentPosition
	c.YearsExperience = in.YearsExperience
	c.Location = in.Location
	c.Description = in.Description
	c.Skills = db.StringArray(in.Skills)
	c.UpdatedAt = now
}

func (m *memStore) GetCandidate(_ context.Context, creatorID, id uuid.UUID) (*db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.candidates[id]; ok && c.CreatorID == creatorID {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ListCandidates(_ context.Context, creatorID uuid.UUID) ([]db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Candidate{}
	for _, c := range m.candidates {
		if c.CreatorID == creatorID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateCandidate(_ context.Context, creatorID, id uuid.UUID, in db.CandidateInput) (*db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok || c.CreatorID != creatorID {
		return nil, fmt.Errorf("%w: candidate %s", db.ErrNotFound, id)
	}
	applyCandidate(c, in, time.Now())
	cp := *c
	return &cp, nil
}

func (m *memStore) DeleteCandidate(_ context.Context, creatorID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok || c.CreatorID != creatorID {
		return fmt.Errorf("%w: candidate %s", db.ErrNotFound, id)
	}
	delete(m.candidates, id)
	for _, d := range m.documents {
		if d.CandidateID != nil && *d.CandidateID == id {
			d.CandidateID = nil
		}
	}
	for _, p := range m.profiles {
		p.CandidateIDs = removeID(p.CandidateIDs, id)
	}
	return nil
}

func (m *memStore) addDocument(ownerID uuid.UUID, name string, candidateID *uuid.UUID) *db.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &db.Document{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CandidateID: candidateID,
		Name:        name,
		Kind:        types.KindCurriculum,
		SizeBytes:   2048,
		UploadedAt:  time.Now(),
	}
	m.documents[d.ID] = d
	return d
}

func (m *memStore) GetDocument(_ context.Context, ownerID, id uuid.UUID) (*db.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.documents[id]; ok && d.OwnerID == ownerID {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ListDocuments(_ context.Context, ownerID uuid.UUID) ([]db.Document, error) {
	return m.filterDocuments(func(d *db.Document) bool { return d.OwnerID == ownerID }), nil
}

func (m *memStore) ListCandidateDocuments(_ context.Context, ownerID, candidateID uuid.UUID) ([]db.Document, error) {
	return m.filterDocuments(func(d *db.Document) bool {
		return d.OwnerID == ownerID && d.CandidateID != nil && *d.CandidateID == candidateID
	}), nil
}

func (m *memStore) filterDocuments(keep func(*db.Document) bool) []db.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Document{}
	for _, d := range m.documents {
		if keep(d) {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memStore) DeleteDocument(_ context.Context, ownerID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("%w: document %s", db.ErrNotFound, id)
	}
	delete(m.documents, id)
	return nil
}

func (m *memStore) LinkDocument(_ context.Context, ownerID, documentID, candidateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, okDoc := m.documents[documentID]
	c, okCand := m.candidates[candidateID]
	if !okDoc || !okCand || d.OwnerID != ownerID || c.CreatorID != ownerID {
		return fmt.Errorf("%w: document %s or candidate %s", db.ErrNotFound, documentID, candidateID)
	}
	d.CandidateID = &candidateID
	return nil
}

func (m *memStore) CreateCompany(_ context.Context, creatorID uuid.UUID, name, cnpj string) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.companies {
		if c.CNPJ == cnpj {
			return nil, fmt.Errorf("%w: company %s", db.ErrConflict, cnpj)
		}
	}
	c := &db.Company{ID: uuid.New(), CreatorID: creatorID, Name: strings.TrimSpace(name), CNPJ: cnpj, CreatedAt: time.Now()}
	m.companies[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memStore) GetCompanyByID(_ context.Context, id uuid.UUID) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) ListCompanies(context.Context) ([]db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Company{}
	for _, c := range m.companies {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func copyProfile(p *db.Profile) *db.Profile {
	cp := *p
	cp.TopSkills = append(db.StringArray{}, p.TopSkills...)
	cp.CandidateIDs = append([]uuid.UUID{}, p.CandidateIDs...)
	return &cp
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// ownedProfile returns the stored profile; callers hold m.mu.
func (m *memStore) ownedProfile(creatorID, id uuid.UUID) (*db.Profile, bool) {
	p, ok := m.profiles[id]
	return p, ok && p.CreatorID == creatorID
}

func (m *memStore) CreateProfile(_ context.Context, creatorID uuid.UUID, in db.ProfileInput) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	p := &db.Profile{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		Name:         in.Name,
		Description:  in.Description,
		TopSkills:    append(db.StringArray{}, in.TopSkills...),
		CandidateIDs: []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.profiles[p.ID] = p
	return copyProfile(p), nil
}

func (m *memStore) GetProfile(_ context.Context, creatorID, id uuid.UUID) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.ownedProfile(creatorID, id); ok {
		return copyProfile(p), nil
	}
	return nil, nil
}

func (m *memStore) ListProfiles(_ context.Context, creatorID uuid.UUID) ([]db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Profile{}
	for _, p := range m.profiles {
		if p.CreatorID == creatorID {
			out = append(out, *copyProfile(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateProfile(_ context.Context, creatorID, id uuid.UUID, in db.ProfileInput) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ownedProfile(creatorID, id)
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", db.ErrNotFound, id)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.TopSkills = append(db.StringArray{}, in.TopSkills...)
	p.UpdatedAt = time.Now()
	return copyProfile(p), nil
}

func (m *memStore) AddProfileSkill(_ context.Context, creatorID, id uuid.UUID, skill string) (*db.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ownedProfile(creatorID, id)
	if !ok {
		return nil, fmt.Errorf("%w: profile %s", db.ErrNotFound, id)
	}
	for _, s := range p.TopSkills {
		if s == skill {
			return copyProfile(p), nil
		}
	}
	p.TopSkills = append(p.TopSkills, skill)
	return copyProfile(p), nil
}

func (m *memStore) DeleteProfile(_ context.Context, creatorID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ownedProfile(creatorID, id); !ok {
		return fmt.Errorf("%w: profile %s", db.ErrNotFound, id)
	}
	delete(m.profiles, id)
	return nil
}

func (m *memStore) AddProfileCandidate(_ context.Context, creatorID, profileID, candidateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, okProfile := m.ownedProfile(creatorID, profileID)
	c, okCand := m.candidates[candidateID]
	if !okProfile || !okCand || c.CreatorID != creatorID {
		return fmt.Errorf("%w: profile %s or candidate %s", db.ErrNotFound, profileID, candidateID)
	}
	for _, id := range p.CandidateIDs {
		if id == candidateID {
			return nil
		}
	}
	p.CandidateIDs = append(p.CandidateIDs, candidateID)
	return nil
}

func (m *memStore) RemoveProfileCandidate(_ context.Context, creatorID, profileID, candidateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.ownedProfile(creatorID, profileID)
	if !ok {
		return fmt.Errorf("%w: profile %s", db.ErrNotFound, profileID)
	}
	before := len(p.CandidateIDs)
	p.CandidateIDs = removeID(p.CandidateIDs, candidateID)
	if len(p.CandidateIDs) == before {
		return fmt.Errorf("%w: candidate %s in profile %s", db.ErrNotFound, candidateID, profileID)
	}
	return nil
}

func (m *memStore) ListProfileCandidates(_ context.Context, creatorID, profileID uuid.UUID) ([]db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.Candidate{}
	p, ok := m.ownedProfile(creatorID, profileID)
	if !ok {
		return out, nil
	}
	for _, id := range p.CandidateIDs {
		if c, ok := m.candidates[id]; ok {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) SaveSearchQuery(_ context.Context, userID uuid.UUID, query string, matches []types.SimilarityMatch) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return uuid.Nil, m.saveErr
	}
	q := &types.SearchQuery{ID: uuid.New(), Query: query, ResultCount: len(matches), CreatedAt: time.Now()}
	for _, match := range matches {
		q.Indications = append(q.Indications, types.Indication{
			Rank: match.Rank, Score: match.Score, CandidateID: match.CandidateID,
			DocumentID: match.DocumentID, Name: match.Name,
		})
	}
	m.queries[q.ID] = q
	m.queryOwner[q.ID] = userID
	return q.ID, nil
}

func (m *memStore) ListSearchQueries(_ context.Context, userID uuid.UUID, limit int) ([]types.SearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.SearchQuery{}
	for id, q := range m.queries {
		if m.queryOwner[id] == userID {
			cp := *q
			cp.Indications = nil
			out = append(out, cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetSearchQuery(_ context.Context, userID, id uuid.UUID) (*types.SearchQuery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queries[id]; ok && m.queryOwner[id] == userID {
		cp := *q
		return &cp, nil
	}
	return nil, nil
}

// fakeIngestor records uploads and answers with a canned result.
type fakeIngestor struct {
	mu      sync.Mutex
	uploads []ingestion.Upload
	status  types.ProcessingStatus
	fields  *types.ExtractedFields
	linked  *uuid.UUID
	err     error
	// reject fails before any document is stored.
	reject error
}

func (f *fakeIngestor) Ingest(_ context.Context, up ingestion.Upload) (*ingestion.Result, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, up)
	f.mu.Unlock()

	if f.reject != nil {
		return nil, f.reject
	}
	doc := &db.Document{
		ID:         uuid.New(),
		OwnerID:    up.OwnerID,
		Name:       up.Filename,
		Kind:       up.Kind,
		SizeBytes:  int64(len(up.Data)),
		Processed:  f.status == types.StatusProcessed,
		UploadedAt: time.Now(),
	}
	if doc.Kind == "" {
		doc.Kind = types.KindCurriculum
	}
	status := f.status
	if status == "" {
		status = types.StatusProcessed
	}
	res := &ingestion.Result{Document: doc, Status: status, Fields: f.fields, CandidateID: f.linked}
	return res, f.err
}

type fakeMatcher struct {
	matches []types.SimilarityMatch
	err     error
	calls   []string
	limits  []int
}

func (f *fakeMatcher) Rank(_ context.Context, _ uuid.UUID, query string, limit int) ([]types.SimilarityMatch, error) {
	f.calls = append(f.calls, query)
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

type testEnv struct {
	server   *Server
	store    *memStore
	ingestor *fakeIngestor
	matcher  *fakeMatcher
	handler  http.Handler
}

func newTestEnv(t *testing.T, opts ...func(*Config, *Deps)) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    newMemStore(),
		ingestor: &fakeIngestor{},
		matcher:  &fakeMatcher{},
	}
	cfg := Config{Port: 0, MaxUploadSize: 1 << 20}
	deps := Deps{
		Store:    env.store,
		Ingestor: env.ingestor,
		Matcher:  env.matcher,
		JWT: &config.JWTConfig{
			Secret:          testJWTSecret,
			Issuer:          config.DefaultJWTIssuer,
			ExpirationHours: 1,
		},
		Passwords: &config.PasswordConfig{
			BcryptCost: bcrypt.MinCost,
			Policy:     config.DefaultPasswordPolicy(),
		},
		RateLimit: &ratelimit.Config{Enabled: false},
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)

	env.server = s
	env.handler = s.Handler()
	return env
}

// newUser registers a user directly in the store and returns a bearer token.
func (e *testEnv) newUser(t *testing.T, email string) (uuid.UUID, string) {
	t.Helper()
	id, err := e.store.CreateUser(context.Background(), "Test User", email, "")
	require.NoError(t, err)
	token, err := e.server.jwtService.GenerateToken(id)
	require.NoError(t, err)
	return id, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4321"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// upload posts a multipart form. An empty filename sends no file part.
func (e *testEnv) upload(t *testing.T, token, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", &buf)
	req.RemoteAddr = "192.0.2.10:4321"
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var errBoom = errors.New("boom")
