package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// mockAuthService implements auth.Service with captured calls.
type mockAuthService struct {
	session      *auth.Session
	sessionErr   error
	signUpResult *auth.Session
	signOutErr   error

	signOutCalls int
	events       []auth.EventFunc
}

func (m *mockAuthService) Session(ctx context.Context) (*auth.Session, error) {
	return m.session, m.sessionErr
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password string, metadata auth.UserMetadata) (*auth.Session, error) {
	return m.signUpResult, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return m.session, nil
}

func (m *mockAuthService) SignOut(ctx context.Context) error {
	m.signOutCalls++
	return m.signOutErr
}

func (m *mockAuthService) AccessToken(ctx context.Context) (string, error) {
	if m.session == nil {
		return "", errors.New("no session")
	}
	return m.session.AccessToken, nil
}

func (m *mockAuthService) Subscribe(fn auth.EventFunc) func() {
	m.events = append(m.events, fn)
	return func() {}
}

func (m *mockAuthService) emit(kind auth.EventKind, session *auth.Session) {
	for _, fn := range m.events {
		fn(kind, session)
	}
}

type mockProfileRepo struct {
	profile *models.Identity
	err     error

	getCalls    int
	createCalls int
	created     *models.Identity
	lastCtxErr  error
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	m.getCalls++
	m.lastCtxErr = ctx.Err()
	return m.profile, m.err
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.Identity) error {
	m.createCalls++
	m.created = profile
	return nil
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *models.Identity) error {
	return nil
}

type mockCompanyRepo struct {
	company *models.Company
	err     error
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.company, m.err
}

func (m *mockCompanyRepo) GetFrameworks(ctx context.Context, id uuid.UUID) ([]string, error) {
	return nil, nil
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	return nil
}

type mockMembershipRepo struct {
	member *models.TeamMember
	err    error
}

func (m *mockMembershipRepo) GetByCompanyAndUser(ctx context.Context, companyID, userID uuid.UUID) (*models.TeamMember, error) {
	return m.member, m.err
}

func (m *mockMembershipRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TeamMember, error) {
	return nil, nil
}

func (m *mockMembershipRepo) Create(ctx context.Context, member *models.TeamMember) error {
	return nil
}

func newTestManager(authSvc *mockAuthService, profiles *mockProfileRepo, companies *mockCompanyRepo, memberships *mockMembershipRepo) *Manager {
	return NewManager(authSvc, profiles, companies, memberships, zap.NewNop())
}

func testUser() auth.AuthUser {
	return auth.AuthUser{
		ID:    uuid.New(),
		Email: "ciso@example.com",
		Metadata: auth.UserMetadata{
			FullName: "Jordan Reyes",
		},
	}
}

func TestManager_StartWithoutSession(t *testing.T) {
	authSvc := &mockAuthService{}
	m := newTestManager(authSvc, &mockProfileRepo{}, &mockCompanyRepo{}, &mockMembershipRepo{})

	require.NoError(t, m.Start(context.Background()))

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Identity)
}

func TestManager_LoadProfile_FullContext(t *testing.T) {
	user := testUser()
	companyID := uuid.New()

	profiles := &mockProfileRepo{profile: &models.Identity{
		ID:             user.ID,
		Email:          user.Email,
		CompanyID:      &companyID,
		ComplianceRole: models.RoleCISO,
	}}
	companies := &mockCompanyRepo{company: &models.Company{ID: companyID, Name: "Acme"}}
	memberships := &mockMembershipRepo{member: &models.TeamMember{CompanyID: companyID, UserID: user.ID}}

	m := newTestManager(&mockAuthService{}, profiles, companies, memberships)
	m.LoadProfile(context.Background(), user)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticatedWithProfile, snap.State)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, user.ID, snap.Identity.ID)
	require.NotNil(t, snap.Company)
	assert.Equal(t, "Acme", snap.Company.Name)
	assert.NotNil(t, snap.Membership)
}

func TestManager_LoadProfile_FallbackOnProfileError(t *testing.T) {
	user := testUser()
	profiles := &mockProfileRepo{err: errors.New("connection refused")}

	m := newTestManager(&mockAuthService{}, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	m.LoadProfile(context.Background(), user)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticatedNoProfile, snap.State)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, user.ID, snap.Identity.ID)
	assert.Equal(t, user.Email, snap.Identity.Email)
	assert.Equal(t, "Jordan Reyes", snap.Identity.FullName)
	assert.Nil(t, snap.Company)
	assert.Nil(t, snap.Membership)
}

func TestManager_LoadProfile_CompanyFailureKeepsIdentity(t *testing.T) {
	user := testUser()
	companyID := uuid.New()

	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID, CompanyID: &companyID}}
	companies := &mockCompanyRepo{err: errors.New("timeout")}
	memberships := &mockMembershipRepo{member: &models.TeamMember{CompanyID: companyID, UserID: user.ID}}

	m := newTestManager(&mockAuthService{}, profiles, companies, memberships)
	m.LoadProfile(context.Background(), user)

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticatedWithProfile, snap.State)
	assert.Nil(t, snap.Company)
	// Membership is fetched independently of the company read.
	assert.NotNil(t, snap.Membership)
}

func TestManager_LoadProfile_IdempotentWhenSatisfied(t *testing.T) {
	user := testUser()
	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID}}

	m := newTestManager(&mockAuthService{}, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	m.LoadProfile(context.Background(), user)
	m.LoadProfile(context.Background(), user)

	assert.Equal(t, 1, profiles.getCalls)
}

func TestManager_SignedInEventLoadsProfile(t *testing.T) {
	user := testUser()
	authSvc := &mockAuthService{}
	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID}}

	m := newTestManager(authSvc, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	require.NoError(t, m.Start(context.Background()))

	authSvc.emit(auth.EventSignedIn, &auth.Session{User: user})

	snap := m.Snapshot()
	assert.Equal(t, StateAuthenticatedWithProfile, snap.State)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, user.ID, snap.Identity.ID)
}

func TestManager_SignedInEventOutlivesStartContext(t *testing.T) {
	user := testUser()
	authSvc := &mockAuthService{}
	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID}}

	m := newTestManager(authSvc, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	startCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(startCtx))
	cancel()

	// A sign-in delivered after Start's context ended still loads the
	// profile against a live context.
	authSvc.emit(auth.EventSignedIn, &auth.Session{User: user})

	assert.NoError(t, profiles.lastCtxErr)
	assert.Equal(t, StateAuthenticatedWithProfile, m.Snapshot().State)
}

func TestManager_SignOutClearsEverything(t *testing.T) {
	user := testUser()
	authSvc := &mockAuthService{}
	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID}}

	m := newTestManager(authSvc, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	m.LoadProfile(context.Background(), user)
	require.Equal(t, StateAuthenticatedWithProfile, m.Snapshot().State)

	require.NoError(t, m.SignOut(context.Background()))

	snap := m.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.Identity)
	assert.Nil(t, snap.Company)
	assert.Nil(t, snap.Membership)
	assert.Equal(t, 1, authSvc.signOutCalls)
}

func TestManager_SignOutClearsEvenOnServiceError(t *testing.T) {
	user := testUser()
	authSvc := &mockAuthService{signOutErr: errors.New("network down")}
	profiles := &mockProfileRepo{profile: &models.Identity{ID: user.ID}}

	m := newTestManager(authSvc, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	m.LoadProfile(context.Background(), user)

	err := m.SignOut(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, m.Snapshot().State)
}

func TestManager_SignUpCreatesProfile(t *testing.T) {
	user := testUser()
	authSvc := &mockAuthService{signUpResult: &auth.Session{User: user}}
	profiles := &mockProfileRepo{}

	m := newTestManager(authSvc, profiles, &mockCompanyRepo{}, &mockMembershipRepo{})
	session, err := m.SignUp(context.Background(), user.Email, "hunter2", auth.UserMetadata{
		FullName:       "Jordan Reyes",
		ComplianceRole: models.RoleCISO,
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	require.Equal(t, 1, profiles.createCalls)
	assert.Equal(t, user.ID, profiles.created.ID)
	assert.Equal(t, models.RoleCISO, profiles.created.ComplianceRole)
}
