// Package complaint holds the complaint lifecycle: which action each role may
// take in each status, and the service that performs a transition against the
// API.
package complaint

import (
	"aduan/frontend/internal/models"
	"errors"
	"fmt"
	"strings"
)

// Action is a request to move a complaint along its lifecycle.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionClaim   Action = "claim"
	ActionBegin   Action = "begin"
	ActionFinish  Action = "finish"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
)

// Actions lists every action in the order the UI offers them.
var Actions = []Action{ActionApprove, ActionReject, ActionClaim, ActionBegin, ActionFinish, ActionEdit, ActionDelete}

var (
	ErrWrongStatus     = errors.New("complaint: action not allowed in the current status")
	ErrWrongActor      = errors.New("complaint: action not allowed for this role")
	ErrNotOwner        = errors.New("complaint: complaint belongs to someone else")
	ErrAlreadyAssigned = errors.New("complaint: complaint already claimed")
	ErrNoteRequired    = errors.New("complaint: note required")
	ErrUnknownAction   = errors.New("complaint: unknown action")
)

// IsForbidden reports whether err is a role, status or ownership refusal, as
// opposed to missing input.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrWrongStatus) ||
		errors.Is(err, ErrWrongActor) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrAlreadyAssigned)
}

// Input carries the free-text fields some transitions require.
type Input struct {
	Notes           string
	RejectionReason string
	ProcessNotes    string
	CompletionNotes string
}

// rule is one row of the transition table.
type rule struct {
	role   models.Role
	from   models.Status
	result models.Status
}

var rules = map[Action]rule{
	ActionApprove: {role: models.RoleReviewer, from: models.StatusPending, result: models.StatusAccepted},
	ActionReject:  {role: models.RoleReviewer, from: models.StatusPending, result: models.StatusRejected},
	ActionClaim:   {role: models.RoleTechnician, from: models.StatusAccepted, result: models.StatusAccepted},
	ActionBegin:   {role: models.RoleTechnician, from: models.StatusAccepted, result: models.StatusInProgress},
	ActionFinish:  {role: models.RoleTechnician, from: models.StatusInProgress, result: models.StatusCompleted},
	ActionEdit:    {role: models.RoleRoom, from: models.StatusPending, result: models.StatusPending},
	ActionDelete:  {role: models.RoleRoom, from: models.StatusPending, result: models.StatusPending},
}

// Result returns the status a successful action leads to.
func (a Action) Result() (models.Status, bool) {
	r, ok := rules[a]
	return r.result, ok
}

// LabelKey returns the localization key of the action's button label.
func (a Action) LabelKey() string { return "action." + string(a) }

// ParseAction converts a form value into an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := rules[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// RequireInput checks the free-text precondition of a, which needs nothing
// but the form itself.
func RequireInput(a Action, in Input) error {
	var note string
	switch a {
	case ActionReject:
		note = in.RejectionReason
	case ActionBegin:
		note = in.ProcessNotes
	case ActionFinish:
		note = in.CompletionNotes
	case ActionApprove, ActionClaim, ActionEdit, ActionDelete:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	if strings.TrimSpace(note) == "" {
		return fmt.Errorf("%w for %s", ErrNoteRequired, a)
	}
	return nil
}

// Check decides whether actor may take action a on c with the given input.
// It never talks to the API.
func Check(actor models.User, c models.Complaint, a Action, in Input) error {
	if err := checkState(actor, c, a); err != nil {
		return err
	}
	return RequireInput(a, in)
}

func checkState(actor models.User, c models.Complaint, a Action) error {
	r, ok := rules[a]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	if actor.Role != r.role {
		return fmt.Errorf("%w: %s cannot %s", ErrWrongActor, actor.Role, a)
	}
	if c.Status != r.from {
		return fmt.Errorf("%w: cannot %s a complaint that is %q", ErrWrongStatus, a, c.Status)
	}

	switch a {
	case ActionApprove, ActionReject:
		return nil
	case ActionClaim:
		if c.Assigned() {
			return ErrAlreadyAssigned
		}
	case ActionBegin, ActionFinish:
		if !c.AssignedToUser(actor.ID) {
			return fmt.Errorf("%w: not assigned to %s", ErrNotOwner, actor.Username)
		}
	case ActionEdit, ActionDelete:
		if c.CreatedBy.ID != actor.ID {
			return fmt.Errorf("%w: filed by another room", ErrNotOwner)
		}
	}
	return nil
}

// Available lists the actions actor may be offered on c. Note requirements
// are left to the form.
func Available(actor models.User, c models.Complaint) []Action {
	var out []Action
	for _, a := range Actions {
		if checkState(actor, c, a) == nil {
			out = append(out, a)
		}
	}
	return out
}

// Can reports whether a is among the actions offered to actor on c.
func Can(actor models.User, c models.Complaint, a Action) bool {
	return checkState(actor, c, a) == nil
}

// CanView reports whether actor may open c's detail page. Rooms see their
// own complaints; technicians see the claimable ones and those they hold.
func CanView(actor models.User, c models.Complaint) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleReviewer:
		return true
	case models.RoleRoom:
		return c.CreatedBy.ID == actor.ID
	case models.RoleTechnician:
		return (c.Status == models.StatusAccepted && !c.Assigned()) || c.AssignedToUser(actor.ID)
	default:
		return false
	}
}

// TaskFilter is a tab of the technician's task list.
type TaskFilter string

const (
	TaskAvailable  TaskFilter = "available"
	TaskAssigned   TaskFilter = "assigned"
	TaskProcessing TaskFilter = "processing"
	TaskCompleted  TaskFilter = "completed"
)

var TaskFilters = []TaskFilter{TaskAvailable, TaskAssigned, TaskProcessing, TaskCompleted}

// ParseTaskFilter falls back to the technician's own claimed tasks.
func ParseTaskFilter(s string) TaskFilter {
	switch f := TaskFilter(s); f {
	case TaskAvailable, TaskAssigned, TaskProcessing, TaskCompleted:
		return f
	default:
		return TaskAssigned
	}
}

// Matches reports whether c belongs under tab f for technician userID.
func (f TaskFilter) Matches(c models.Complaint, userID string) bool {
	switch f {
	case TaskAvailable:
		return c.Status == models.StatusAccepted && !c.Assigned()
	case TaskAssigned:
		return c.Status == models.StatusAccepted && c.AssignedToUser(userID)
	case TaskProcessing:
		return c.Status == models.StatusInProgress && c.AssignedToUser(userID)
	case TaskCompleted:
		return c.Status == models.StatusCompleted && c.AssignedToUser(userID)
	default:
		return false
	}
}

// FilterTasks returns the complaints under tab f, keeping their order.
func FilterTasks(all []models.Complaint, f TaskFilter, userID string) []models.Complaint {
	out := make([]models.Complaint, 0, len(all))
	for _, c := range all {
		if f.Matches(c, userID) {
			out = append(out, c)
		}
	}
	return out
}

// CountTasks returns the size of every tab.
func CountTasks(all []models.Complaint, userID string) map[TaskFilter]int {
	counts := make(map[TaskFilter]int, len(TaskFilters))
	for _, f := range TaskFilters {
		counts[f] = 0
	}
	for _, c := range all {
		for _, f := range TaskFilters {
			if f.Matches(c, userID) {
				counts[f]++
			}
		}
	}
	return counts
}
