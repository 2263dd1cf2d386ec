package lifecycle

import (
	"context"

	"github.com/splitdeck/splitdeck/internal/domain"
	"github.com/splitdeck/splitdeck/internal/ports"
)

// MockExperimentRepository implements ports.ExperimentRepository for
// testing with configurable function fields.
type MockExperimentRepository struct {
	CreateFunc          func(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Experiment, error)
	ListFunc            func(ctx context.Context) ([]*domain.Experiment, error)
	ListLiveFunc        func(ctx context.Context) ([]*domain.Experiment, error)
	UpdateFunc          func(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error
	DeleteFunc          func(ctx context.Context, id string) error
	ApplyTransitionFunc func(ctx context.Context, params ports.ApplyTransitionParams) error
}

func (m *MockExperimentRepository) Create(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, experiment, entry)
	}
	return nil
}

func (m *MockExperimentRepository) GetByID(ctx context.Context, id string) (*domain.Experiment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockExperimentRepository) List(ctx context.Context) ([]*domain.Experiment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockExperimentRepository) ListLive(ctx context.Context) ([]*domain.Experiment, error) {
	if m.ListLiveFunc != nil {
		return m.ListLiveFunc(ctx)
	}
	return nil, nil
}

func (m *MockExperimentRepository) Update(ctx context.Context, experiment *domain.Experiment, entry *domain.AuditEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, experiment, entry)
	}
	return nil
}

func (m *MockExperimentRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockExperimentRepository) ApplyTransition(ctx context.Context, params ports.ApplyTransitionParams) error {
	if m.ApplyTransitionFunc != nil {
		return m.ApplyTransitionFunc(ctx, params)
	}
	return nil
}

// MockAuditLogRepository implements ports.AuditLogRepository for testing.
type MockAuditLogRepository struct {
	AppendFunc              func(ctx context.Context, entry *domain.AuditEntry) error
	ListByExperimentIDFunc  func(ctx context.Context, experimentID string) ([]*domain.AuditEntry, error)
	CountByExperimentIDFunc func(ctx context.Context, experimentID string) (int64, error)
}

func (m *MockAuditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return nil
}

func (m *MockAuditLogRepository) ListByExperimentID(ctx context.Context, experimentID string) ([]*domain.AuditEntry, error) {
	if m.ListByExperimentIDFunc != nil {
		return m.ListByExperimentIDFunc(ctx, experimentID)
	}
	return nil, nil
}

func (m *MockAuditLogRepository) CountByExperimentID(ctx context.Context, experimentID string) (int64, error) {
	if m.CountByExperimentIDFunc != nil {
		return m.CountByExperimentIDFunc(ctx, experimentID)
	}
	return 0, nil
}

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}
