package complaint

import (
	"aduan/frontend/internal/models"
	"context"
	"fmt"
	"log"
)

// API is the part of the backend the lifecycle needs.
type API interface {
	CreateComplaint(ctx context.Context, form models.ComplaintForm) (models.Complaint, error)
	GetComplaint(ctx context.Context, id string) (models.Complaint, error)
	UpdateComplaint(ctx context.Context, id string, form models.ComplaintForm) (models.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) error
	VerifyComplaint(ctx context.Context, id string, v models.Verification) (models.Complaint, error)
	TakeComplaint(ctx context.Context, id string) (models.Complaint, error)
	ProcessComplaint(ctx context.Context, id, processNotes string) (models.Complaint, error)
	FinishComplaint(ctx context.Context, id, completionNotes string) (models.Complaint, error)
}

// Service performs lifecycle transitions. Every transition is checked against
// the complaint as the API currently reports it, and the record returned to
// the caller is always re-fetched after the API confirmed the change.
type Service struct {
	API API
}

// NewService creates a new complaint service.
func NewService(api API) *Service {
	return &Service{API: api}
}

// Create files a new complaint for the actor's room. Only rooms file
// complaints; the API sets the initial status.
func (s *Service) Create(ctx context.Context, actor models.User, form models.ComplaintForm) (models.Complaint, error) {
	if actor.Role != models.RoleRoom {
		return models.Complaint{}, fmt.Errorf("%w: %s cannot file complaints", ErrWrongActor, actor.Role)
	}
	created, err := s.API.CreateComplaint(ctx, form)
	if err != nil {
		return models.Complaint{}, err
	}
	log.Printf("INFO: complaint %s filed by %s", created.ID, actor.Username)
	return created, nil
}

// Approve accepts a pending complaint.
func (s *Service) Approve(ctx context.Context, actor models.User, id, notes string) (models.Complaint, error) {
	in := Input{Notes: notes}
	return s.transition(ctx, actor, id, ActionApprove, in, func(ctx context.Context) error {
		_, err := s.API.VerifyComplaint(ctx, id, models.Verification{Action: string(ActionApprove), Notes: notes})
		return err
	})
}

// Reject refuses a pending complaint. The reason is mandatory.
func (s *Service) Reject(ctx context.Context, actor models.User, id, reason, notes string) (models.Complaint, error) {
	in := Input{Notes: notes, RejectionReason: reason}
	return s.transition(ctx, actor, id, ActionReject, in, func(ctx context.Context) error {
		_, err := s.API.VerifyComplaint(ctx, id, models.Verification{Action: string(ActionReject), Notes: notes, RejectionReason: reason})
		return err
	})
}

// Claim assigns an accepted complaint to the technician.
func (s *Service) Claim(ctx context.Context, actor models.User, id string) (models.Complaint, error) {
	return s.transition(ctx, actor, id, ActionClaim, Input{}, func(ctx context.Context) error {
		_, err := s.API.TakeComplaint(ctx, id)
		return err
	})
}

// Begin starts work on a claimed complaint.
func (s *Service) Begin(ctx context.Context, actor models.User, id, processNotes string) (models.Complaint, error) {
	return s.transition(ctx, actor, id, ActionBegin, Input{ProcessNotes: processNotes}, func(ctx context.Context) error {
		_, err := s.API.ProcessComplaint(ctx, id, processNotes)
		return err
	})
}

// Finish completes a complaint in progress.
func (s *Service) Finish(ctx context.Context, actor models.User, id, completionNotes string) (models.Complaint, error) {
	return s.transition(ctx, actor, id, ActionFinish, Input{CompletionNotes: completionNotes}, func(ctx context.Context) error {
		_, err := s.API.FinishComplaint(ctx, id, completionNotes)
		return err
	})
}

// Edit updates a room's own pending complaint.
func (s *Service) Edit(ctx context.Context, actor models.User, id string, form models.ComplaintForm) (models.Complaint, error) {
	return s.transition(ctx, actor, id, ActionEdit, Input{}, func(ctx context.Context) error {
		_, err := s.API.UpdateComplaint(ctx, id, form)
		return err
	})
}

// Delete removes a room's own pending complaint.
func (s *Service) Delete(ctx context.Context, actor models.User, id string) error {
	current, err := s.API.GetComplaint(ctx, id)
	if err != nil {
		return err
	}
	if err := Check(actor, current, ActionDelete, Input{}); err != nil {
		return err
	}
	if err := s.API.DeleteComplaint(ctx, id); err != nil {
		return err
	}
	log.Printf("INFO: complaint %s deleted by %s", id, actor.Username)
	return nil
}

// Authorize loads the complaint and checks that actor may take action a on
// it. Pages use it to refuse a form before it is shown.
func (s *Service) Authorize(ctx context.Context, actor models.User, id string, a Action) (models.Complaint, error) {
	current, err := s.API.GetComplaint(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	if err := checkState(actor, current, a); err != nil {
		return current, err
	}
	return current, nil
}

func (s *Service) transition(ctx context.Context, actor models.User, id string, a Action, in Input, call func(context.Context) error) (models.Complaint, error) {
	// Missing notes are refused before anything is sent.
	if err := RequireInput(a, in); err != nil {
		return models.Complaint{}, err
	}

	current, err := s.API.GetComplaint(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	if err := Check(actor, current, a, in); err != nil {
		return current, err
	}

	if err := call(ctx); err != nil {
		return current, fmt.Errorf("%s complaint %s: %w", a, id, err)
	}

	fresh, err := s.API.GetComplaint(ctx, id)
	if err != nil {
		return current, err
	}
	log.Printf("INFO: complaint %s %s by %s, status now %q", id, a, actor.Username, fresh.Status)
	return fresh, nil
}
