package complaint_test

import (
	"aduan/frontend/internal/models"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of complaint.API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateComplaint(ctx context.Context, form models.ComplaintForm) (models.Complaint, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) UpdateComplaint(ctx context.Context, id string, form models.ComplaintForm) (models.Complaint, error) {
	args := m.Called(ctx, id, form)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) DeleteComplaint(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) VerifyComplaint(ctx context.Context, id string, v models.Verification) (models.Complaint, error) {
	args := m.Called(ctx, id, v)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) TakeComplaint(ctx context.Context, id string) (models.Complaint, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) ProcessComplaint(ctx context.Context, id, processNotes string) (models.Complaint, error) {
	args := m.Called(ctx, id, processNotes)
	return args.Get(0).(models.Complaint), args.Error(1)
}

func (m *MockAPI) FinishComplaint(ctx context.Context, id, completionNotes string) (models.Complaint, error) {
	args := m.Called(ctx, id, completionNotes)
	return args.Get(0).(models.Complaint), args.Error(1)
}
