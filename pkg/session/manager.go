// Package session restores and tracks the authenticated identity and its
// company and membership records.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/auth"
	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
)

// State is the bootstrap state machine's current position.
type State string

const (
	// StateUnauthenticated means no session exists.
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticating means a session exists and the profile load is in flight.
	StateAuthenticating State = "authenticating"
	// StateAuthenticatedNoProfile means auth succeeded but the profile row was
	// unreachable or absent; the identity is the fallback built from the auth
	// user record.
	StateAuthenticatedNoProfile State = "authenticated-no-profile"
	// StateAuthenticatedWithProfile means the profile row loaded successfully.
	StateAuthenticatedWithProfile State = "authenticated-with-profile"
)

// Snapshot is an atomic view of the session. Identity, Company, and
// Membership are nil until loaded; State distinguishes "not yet loaded"
// from "loaded but empty".
type Snapshot struct {
	State      State
	Identity   *models.Identity
	Company    *models.Company
	Membership *models.TeamMember
}

// Manager owns the session bootstrap flow: restore or establish an
// authenticated identity on start and on every auth-state transition.
type Manager struct {
	authService auth.Service
	profiles    repositories.ProfileRepository
	companies   repositories.CompanyRepository
	memberships repositories.MembershipRepository
	logger      *zap.Logger

	mu          sync.Mutex
	state       State
	identity    *models.Identity
	company     *models.Company
	membership  *models.TeamMember
	loading     map[uuid.UUID]bool
	unsubscribe func()
	eventCancel context.CancelFunc
}

// NewManager creates a session manager.
func NewManager(
	authService auth.Service,
	profiles repositories.ProfileRepository,
	companies repositories.CompanyRepository,
	memberships repositories.MembershipRepository,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		authService: authService,
		profiles:    profiles,
		companies:   companies,
		memberships: memberships,
		logger:      logger.Named("session"),
		state:       StateUnauthenticated,
		loading:     make(map[uuid.UUID]bool),
	}
}

// Start subscribes to auth events and restores any existing session.
// The auth service may emit a sign-in event before the initial session query
// resolves; both orders converge because LoadProfile is idempotent per user.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.unsubscribe == nil {
		// Auth events can arrive long after Start's context is done, so
		// event-driven loads run against a manager-lifetime context that
		// Stop cancels.
		eventCtx, cancel := context.WithCancel(context.Background())
		m.eventCancel = cancel
		m.unsubscribe = m.authService.Subscribe(func(kind auth.EventKind, session *auth.Session) {
			m.handleAuthEvent(eventCtx, kind, session)
		})
	}
	m.mu.Unlock()

	session, err := m.authService.Session(ctx)
	if err != nil {
		return err
	}
	if session != nil {
		m.LoadProfile(ctx, session.User)
	}
	return nil
}

// Stop unsubscribes from auth events and cancels any event-driven loads.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsub := m.unsubscribe
	cancel := m.eventCancel
	m.unsubscribe = nil
	m.eventCancel = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) handleAuthEvent(ctx context.Context, kind auth.EventKind, session *auth.Session) {
	switch kind {
	case auth.EventSignedIn:
		if session != nil {
			m.LoadProfile(ctx, session.User)
		}
	case auth.EventSignedOut:
		m.clear()
	}
}

// LoadProfile loads the profile, company, and membership records for the
// given auth user. It is idempotent and re-entrant: a load for the same
// user that is already in flight or already satisfied is a no-op, so racing
// invocations converge on the same data.
func (m *Manager) LoadProfile(ctx context.Context, user auth.AuthUser) {
	m.mu.Lock()
	if m.loading[user.ID] {
		m.mu.Unlock()
		return
	}
	if m.identity != nil && m.identity.ID == user.ID && m.state == StateAuthenticatedWithProfile {
		m.mu.Unlock()
		return
	}
	m.loading[user.ID] = true
	m.state = StateAuthenticating
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.loading, user.ID)
		m.mu.Unlock()
	}()

	profile, err := m.profiles.GetByID(ctx, user.ID)
	if err != nil {
		m.logger.Error("Failed to load user profile, using auth record fallback",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))

		fallback := models.FallbackIdentity(user.ID, user.Email, user.Metadata.FullName)
		m.commit(StateAuthenticatedNoProfile, fallback, nil, nil)
		return
	}

	// Company and membership are independent fetches; each may fail without
	// affecting the other.
	var company *models.Company
	var membership *models.TeamMember
	if profile.CompanyID != nil {
		company, err = m.companies.GetByID(ctx, *profile.CompanyID)
		if err != nil {
			m.logger.Warn("Failed to load company",
				zap.String("company_id", profile.CompanyID.String()),
				zap.Error(err))
			company = nil
		}

		membership, err = m.memberships.GetByCompanyAndUser(ctx, *profile.CompanyID, user.ID)
		if err != nil {
			m.logger.Warn("Failed to load team membership",
				zap.String("company_id", profile.CompanyID.String()),
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
			membership = nil
		}
	}

	m.commit(StateAuthenticatedWithProfile, profile, company, membership)
}

// SignUp registers a new user with the auth service and creates the
// matching profile row.
func (m *Manager) SignUp(ctx context.Context, email, password string, metadata auth.UserMetadata) (*auth.Session, error) {
	session, err := m.authService.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, err
	}

	profile := &models.Identity{
		ID:             session.User.ID,
		Email:          session.User.Email,
		FullName:       metadata.FullName,
		ComplianceRole: metadata.ComplianceRole,
	}
	if err := m.profiles.Create(ctx, profile); err != nil {
		// The sign-in event handler falls back to the auth record until the
		// profile row exists.
		m.logger.Error("Failed to create profile after sign-up",
			zap.String("user_id", session.User.ID.String()),
			zap.Error(err))
	}

	return session, nil
}

// SignIn authenticates with the auth service. Profile loading happens via
// the auth event subscription.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	return m.authService.SignIn(ctx, email, password)
}

// SignOut signs out of the auth service and clears identity, company, and
// membership in a single observable update, so no stale authenticated
// state remains visible.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.authService.SignOut(ctx)
	m.clear()
	return err
}

// Snapshot returns the current session view atomically.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:      m.state,
		Identity:   m.identity,
		Company:    m.company,
		Membership: m.membership,
	}
}

func (m *Manager) commit(state State, identity *models.Identity, company *models.Company, membership *models.TeamMember) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.identity = identity
	m.company = company
	m.membership = membership
}

func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateUnauthenticated
	m.identity = nil
	m.company = nil
	m.membership = nil
}
