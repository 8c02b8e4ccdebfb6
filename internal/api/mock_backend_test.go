package api_test

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/models"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of backend.Backend
type MockBackend struct {
	mock.Mock
}

var _ backend.Backend = (*MockBackend)(nil)

func (m *MockBackend) Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(models.AuthResult), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, reg models.Registration) (models.AuthResult, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(models.AuthResult), args.Error(1)
}

func (m *MockBackend) Profile(ctx context.Context) (models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBackend) UpdateProfile(ctx context.Context, name string) (models.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBackend) CreateComplaint(ctx context.Context, form models.ComplaintForm) (models.Complaint, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) ListComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.ComplaintPage), args.Error(1)
}

func (m *MockBackend) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) UpdateComplaint(ctx context.Context, id string, form models.ComplaintForm) (models.Complaint, error) {
	args := m.Called(ctx, id, form)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) DeleteComplaint(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) VerifyComplaint(ctx context.Context, id string, v models.Verification) (models.Complaint, error) {
	args := m.Called(ctx, id, v)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) TakeComplaint(ctx context.Context, id string) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) ProcessComplaint(ctx context.Context, id, processNotes string) (models.Complaint, error) {
	args := m.Called(ctx, id, processNotes)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) FinishComplaint(ctx context.Context, id, completionNotes string) (models.Complaint, error) {
	args := m.Called(ctx, id, completionNotes)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockBackend) ListAllComplaints(ctx context.Context, f models.ComplaintFilters) (models.ComplaintPage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.ComplaintPage), args.Error(1)
}

func (m *MockBackend) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DashboardStats), args.Error(1)
}

func (m *MockBackend) ListUsers(ctx context.Context, f models.UserFilters) (models.UserPage, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(models.UserPage), args.Error(1)
}

func (m *MockBackend) ListTechnicians(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockBackend) CreateUser(ctx context.Context, reg models.Registration) (models.User, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBackend) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockBackend) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBackend) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockBackend) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockBackend) UpdateCategory(ctx context.Context, id string, upd backend.CategoryUpdate) (models.Category, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockBackend) DeleteCategory(ctx context.Context, id string, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}

func (m *MockBackend) RestoreCategory(ctx context.Context, id string) (models.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Category), args.Error(1)
}

func (m *MockBackend) CategoryStats(ctx context.Context) ([]models.CategoryUsage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CategoryUsage), args.Error(1)
}
