package complaint_test

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/models"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_ScenarioA_CreateStartsPending(t *testing.T) {
	// Arrange
	api := new(MockAPI)
	svc := complaint.NewService(api)
	form := models.ComplaintForm{Title: "AC rusak", Description: "AC ruang tunggu tidak dingin", Category: "cat-ac", Priority: models.PriorityHigh}
	api.On("CreateComplaint", mock.Anything, form).Return(pending(), nil)

	// Act
	created, err := svc.Create(context.Background(), room, form)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "AC/Pendingin", created.Category.Name)
	api.AssertExpectations(t)
}

func TestService_CreateRefusedForOtherRoles(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)

	_, err := svc.Create(context.Background(), tech, models.ComplaintForm{})

	assert.ErrorIs(t, err, complaint.ErrWrongActor)
	api.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything)
}

func TestService_ScenarioB_ApproveRefetches(t *testing.T) {
	// Arrange
	api := new(MockAPI)
	svc := complaint.NewService(api)
	accepted := pending()
	accepted.Status = models.StatusAccepted

	api.On("GetComplaint", mock.Anything, "c1").Return(pending(), nil).Once()
	api.On("VerifyComplaint", mock.Anything, "c1", models.Verification{Action: "approve"}).Return(models.Complaint{}, nil)
	api.On("GetComplaint", mock.Anything, "c1").Return(accepted, nil).Once()

	// Act
	got, err := svc.Approve(context.Background(), reviewer, "c1", "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.False(t, got.Assigned())
	api.AssertExpectations(t)
	api.AssertNumberOfCalls(t, "GetComplaint", 2)
}

func TestService_ScenarioC_ClaimThenBegin(t *testing.T) {
	// Arrange
	api := new(MockAPI)
	svc := complaint.NewService(api)
	accepted := pending()
	accepted.Status = models.StatusAccepted
	claimed := assignedTo(pending(), tech, models.StatusAccepted)
	working := assignedTo(pending(), tech, models.StatusInProgress)
	working.ProcessNotes = "Mengganti kompresor"

	api.On("GetComplaint", mock.Anything, "c1").Return(accepted, nil).Once()
	api.On("TakeComplaint", mock.Anything, "c1").Return(models.Complaint{}, nil)
	api.On("GetComplaint", mock.Anything, "c1").Return(claimed, nil).Twice()
	api.On("ProcessComplaint", mock.Anything, "c1", "Mengganti kompresor").Return(models.Complaint{}, nil)
	api.On("GetComplaint", mock.Anything, "c1").Return(working, nil).Once()

	// Act
	afterClaim, err := svc.Claim(context.Background(), tech, "c1")
	require.NoError(t, err)
	afterBegin, err := svc.Begin(context.Background(), tech, "c1", "Mengganti kompresor")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, models.StatusAccepted, afterClaim.Status)
	assert.True(t, afterClaim.AssignedToUser(tech.ID))
	assert.Equal(t, models.StatusInProgress, afterBegin.Status)
	assert.Equal(t, "Mengganti kompresor", afterBegin.ProcessNotes)
	api.AssertExpectations(t)
}

func TestService_ScenarioD_FinishLocksOutRoom(t *testing.T) {
	// Arrange
	api := new(MockAPI)
	svc := complaint.NewService(api)
	working := assignedTo(pending(), tech, models.StatusInProgress)
	done := assignedTo(pending(), tech, models.StatusCompleted)
	done.CompletionNotes = "Kompresor diganti, AC normal"

	api.On("GetComplaint", mock.Anything, "c1").Return(working, nil).Once()
	api.On("FinishComplaint", mock.Anything, "c1", "Kompresor diganti, AC normal").Return(models.Complaint{}, nil)
	api.On("GetComplaint", mock.Anything, "c1").Return(done, nil)

	// Act
	got, err := svc.Finish(context.Background(), tech, "c1", "Kompresor diganti, AC normal")
	require.NoError(t, err)
	editErr := complaint.Check(room, got, complaint.ActionEdit, complaint.Input{})
	deleteErr := svc.Delete(context.Background(), room, "c1")

	// Assert
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.ErrorIs(t, editErr, complaint.ErrWrongStatus)
	assert.ErrorIs(t, deleteErr, complaint.ErrWrongStatus)
	api.AssertNotCalled(t, "DeleteComplaint", mock.Anything, mock.Anything)
}

func TestService_ScenarioE_RejectWithoutReasonSendsNothing(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)

	_, err := svc.Reject(context.Background(), reviewer, "c2", "", "")

	assert.ErrorIs(t, err, complaint.ErrNoteRequired)
	api.AssertNotCalled(t, "GetComplaint", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "VerifyComplaint", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_RejectSendsReason(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)
	rejected := pending()
	rejected.Status = models.StatusRejected
	rejected.RejectionReason = "Bukan wewenang SIM RS"

	api.On("GetComplaint", mock.Anything, "c1").Return(pending(), nil).Once()
	api.On("VerifyComplaint", mock.Anything, "c1", models.Verification{Action: "reject", RejectionReason: "Bukan wewenang SIM RS"}).Return(models.Complaint{}, nil)
	api.On("GetComplaint", mock.Anything, "c1").Return(rejected, nil).Once()

	got, err := svc.Reject(context.Background(), reviewer, "c1", "Bukan wewenang SIM RS", "")

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "Bukan wewenang SIM RS", got.RejectionReason)
}

func TestService_ClaimTakenByOtherTechnicianIsRefused(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)
	api.On("GetComplaint", mock.Anything, "c1").Return(assignedTo(pending(), tech2, models.StatusAccepted), nil)

	_, err := svc.Claim(context.Background(), tech, "c1")

	assert.ErrorIs(t, err, complaint.ErrAlreadyAssigned)
	api.AssertNotCalled(t, "TakeComplaint", mock.Anything, mock.Anything)
}

func TestService_FailedCallKeepsServerStatus(t *testing.T) {
	// Arrange
	api := new(MockAPI)
	svc := complaint.NewService(api)
	apiErr := &backend.APIError{StatusCode: http.StatusBadRequest, Message: "Aduan sudah diverifikasi"}
	api.On("GetComplaint", mock.Anything, "c1").Return(pending(), nil).Once()
	api.On("VerifyComplaint", mock.Anything, "c1", mock.Anything).Return(models.Complaint{}, apiErr)

	// Act
	got, err := svc.Approve(context.Background(), reviewer, "c1", "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Equal(t, "Aduan sudah diverifikasi", backend.Message(err))
	assert.Equal(t, models.StatusPending, got.Status)
	api.AssertNumberOfCalls(t, "GetComplaint", 1)
}

func TestService_DeleteOwnPending(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)
	api.On("GetComplaint", mock.Anything, "c1").Return(pending(), nil)
	api.On("DeleteComplaint", mock.Anything, "c1").Return(nil)

	err := svc.Delete(context.Background(), room, "c1")

	assert.NoError(t, err)
	api.AssertExpectations(t)
}

func TestService_AuthorizeRefusesOtherRoom(t *testing.T) {
	api := new(MockAPI)
	svc := complaint.NewService(api)
	api.On("GetComplaint", mock.Anything, "c1").Return(pending(), nil)

	c, err := svc.Authorize(context.Background(), room2, "c1", complaint.ActionEdit)

	assert.ErrorIs(t, err, complaint.ErrNotOwner)
	assert.Equal(t, "c1", c.ID)
}
