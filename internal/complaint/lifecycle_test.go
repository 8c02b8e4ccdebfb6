package complaint_test

import (
	"aduan/frontend/internal/complaint"
	"aduan/frontend/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	room     = models.User{ID: "room-1", Username: "igd", Room: "IGD", Role: models.RoleRoom}
	room2    = models.User{ID: "room-2", Username: "icu", Room: "ICU", Role: models.RoleRoom}
	reviewer = models.User{ID: "simrs-1", Username: "sim", Role: models.RoleReviewer}
	tech     = models.User{ID: "tech-1", Username: "andi", Role: models.RoleTechnician}
	tech2    = models.User{ID: "tech-2", Username: "budi", Role: models.RoleTechnician}
	admin    = models.User{ID: "admin-1", Username: "root", Role: models.RoleAdmin}
)

func pending() models.Complaint {
	return models.Complaint{
		ID:        "c1",
		Title:     "AC rusak",
		Category:  models.CategoryRef{ID: "cat-ac", Name: "AC/Pendingin"},
		Priority:  models.PriorityHigh,
		Status:    models.StatusPending,
		CreatedBy: room.Ref(),
	}
}

func assignedTo(c models.Complaint, u models.User, s models.Status) models.Complaint {
	ref := u.Ref()
	c.AssignedTo = &ref
	c.Status = s
	return c
}

func TestCheck_TransitionTable(t *testing.T) {
	accepted := pending()
	accepted.Status = models.StatusAccepted

	tests := []struct {
		name   string
		actor  models.User
		c      models.Complaint
		action complaint.Action
		in     complaint.Input
		want   error
	}{
		{"reviewer approves pending", reviewer, pending(), complaint.ActionApprove, complaint.Input{}, nil},
		{"reviewer rejects with reason", reviewer, pending(), complaint.ActionReject, complaint.Input{RejectionReason: "duplikat"}, nil},
		{"reject without reason", reviewer, pending(), complaint.ActionReject, complaint.Input{}, complaint.ErrNoteRequired},
		{"reject with blank reason", reviewer, pending(), complaint.ActionReject, complaint.Input{RejectionReason: "   "}, complaint.ErrNoteRequired},
		{"technician cannot approve", tech, pending(), complaint.ActionApprove, complaint.Input{}, complaint.ErrWrongActor},
		{"admin cannot approve", admin, pending(), complaint.ActionApprove, complaint.Input{}, complaint.ErrWrongActor},
		{"approve twice", reviewer, accepted, complaint.ActionApprove, complaint.Input{}, complaint.ErrWrongStatus},
		{"claim unassigned", tech, accepted, complaint.ActionClaim, complaint.Input{}, nil},
		{"claim pending", tech, pending(), complaint.ActionClaim, complaint.Input{}, complaint.ErrWrongStatus},
		{"claim taken by other", tech, assignedTo(pending(), tech2, models.StatusAccepted), complaint.ActionClaim, complaint.Input{}, complaint.ErrAlreadyAssigned},
		{"begin own with notes", tech, assignedTo(pending(), tech, models.StatusAccepted), complaint.ActionBegin, complaint.Input{ProcessNotes: "Mengganti kompresor"}, nil},
		{"begin without notes", tech, assignedTo(pending(), tech, models.StatusAccepted), complaint.ActionBegin, complaint.Input{}, complaint.ErrNoteRequired},
		{"begin unclaimed", tech, accepted, complaint.ActionBegin, complaint.Input{ProcessNotes: "x"}, complaint.ErrNotOwner},
		{"begin someone else's", tech, assignedTo(pending(), tech2, models.StatusAccepted), complaint.ActionBegin, complaint.Input{ProcessNotes: "x"}, complaint.ErrNotOwner},
		{"finish own", tech, assignedTo(pending(), tech, models.StatusInProgress), complaint.ActionFinish, complaint.Input{CompletionNotes: "beres"}, nil},
		{"finish before begin", tech, assignedTo(pending(), tech, models.StatusAccepted), complaint.ActionFinish, complaint.Input{CompletionNotes: "beres"}, complaint.ErrWrongStatus},
		{"finish without notes", tech, assignedTo(pending(), tech, models.StatusInProgress), complaint.ActionFinish, complaint.Input{}, complaint.ErrNoteRequired},
		{"owner edits pending", room, pending(), complaint.ActionEdit, complaint.Input{}, nil},
		{"other room edits", room2, pending(), complaint.ActionEdit, complaint.Input{}, complaint.ErrNotOwner},
		{"owner deletes accepted", room, accepted, complaint.ActionDelete, complaint.Input{}, complaint.ErrWrongStatus},
		{"reviewer cannot edit", reviewer, pending(), complaint.ActionEdit, complaint.Input{}, complaint.ErrWrongActor},
		{"unknown action", room, pending(), complaint.Action("archive"), complaint.Input{}, complaint.ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := complaint.Check(tt.actor, tt.c, tt.action, tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheck_RoomCannotTouchComplaintAfterAnyTransition(t *testing.T) {
	for _, s := range []models.Status{models.StatusRejected, models.StatusAccepted, models.StatusInProgress, models.StatusCompleted} {
		c := pending()
		c.Status = s
		for _, a := range []complaint.Action{complaint.ActionEdit, complaint.ActionDelete} {
			err := complaint.Check(room, c, a, complaint.Input{})
			assert.Error(t, err, "%s on %s", a, s)
			assert.True(t, complaint.IsForbidden(err), "%s on %s", a, s)
		}
	}
}

func TestCheck_OnlyPathsToTerminalStates(t *testing.T) {
	// Walk every reachable status from pending using any actor; completed must
	// only be reached through accepted and in progress.
	actors := []models.User{room, reviewer, tech, admin}
	in := complaint.Input{RejectionReason: "r", ProcessNotes: "p", CompletionNotes: "c"}

	type node struct {
		c    models.Complaint
		path []models.Status
	}
	queue := []node{{c: pending(), path: []models.Status{models.StatusPending}}}
	seen := map[models.Status]bool{}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, actor := range actors {
			for _, a := range complaint.Actions {
				if complaint.Check(actor, n.c, a, in) != nil {
					continue
				}
				next, _ := a.Result()
				if a == complaint.ActionDelete || (next == n.c.Status && a != complaint.ActionClaim) {
					continue
				}
				c := n.c
				c.Status = next
				if a == complaint.ActionClaim {
					c = assignedTo(c, actor, next)
				}
				path := append(append([]models.Status{}, n.path...), next)
				if next == models.StatusCompleted {
					assert.Equal(t, []models.Status{models.StatusPending, models.StatusAccepted, models.StatusAccepted, models.StatusInProgress, models.StatusCompleted}, path)
				}
				if next == models.StatusRejected {
					assert.Equal(t, []models.Status{models.StatusPending, models.StatusRejected}, path)
				}
				key := next
				if a == complaint.ActionClaim {
					key = "claimed"
				}
				if !seen[key] {
					seen[key] = true
					queue = append(queue, node{c: c, path: path})
				}
			}
		}
	}

	assert.True(t, seen[models.StatusCompleted])
	assert.True(t, seen[models.StatusRejected])
}

func TestAvailable(t *testing.T) {
	assert.ElementsMatch(t, []complaint.Action{complaint.ActionApprove, complaint.ActionReject}, complaint.Available(reviewer, pending()))
	assert.ElementsMatch(t, []complaint.Action{complaint.ActionEdit, complaint.ActionDelete}, complaint.Available(room, pending()))
	assert.Empty(t, complaint.Available(room2, pending()))
	assert.Empty(t, complaint.Available(admin, pending()))

	accepted := pending()
	accepted.Status = models.StatusAccepted
	assert.Equal(t, []complaint.Action{complaint.ActionClaim}, complaint.Available(tech, accepted))

	mine := assignedTo(pending(), tech, models.StatusAccepted)
	assert.Equal(t, []complaint.Action{complaint.ActionBegin}, complaint.Available(tech, mine))
	assert.Empty(t, complaint.Available(tech2, mine))

	done := assignedTo(pending(), tech, models.StatusCompleted)
	assert.Empty(t, complaint.Available(tech, done))
	assert.Empty(t, complaint.Available(room, done))
}

func TestParseAction(t *testing.T) {
	a, err := complaint.ParseAction("finish")
	assert.NoError(t, err)
	assert.Equal(t, complaint.ActionFinish, a)

	_, err = complaint.ParseAction("Selesai")
	assert.ErrorIs(t, err, complaint.ErrUnknownAction)
}

func TestFilterTasks(t *testing.T) {
	available := pending()
	available.ID = "available"
	available.Status = models.StatusAccepted

	mine := assignedTo(pending(), tech, models.StatusAccepted)
	mine.ID = "mine"
	theirs := assignedTo(pending(), tech2, models.StatusAccepted)
	theirs.ID = "theirs"
	working := assignedTo(pending(), tech, models.StatusInProgress)
	working.ID = "working"
	done := assignedTo(pending(), tech, models.StatusCompleted)
	done.ID = "done"

	all := []models.Complaint{available, mine, theirs, working, done, pending()}

	ids := func(cs []models.Complaint) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"available"}, ids(complaint.FilterTasks(all, complaint.TaskAvailable, tech.ID)))
	assert.Equal(t, []string{"mine"}, ids(complaint.FilterTasks(all, complaint.TaskAssigned, tech.ID)))
	assert.Equal(t, []string{"working"}, ids(complaint.FilterTasks(all, complaint.TaskProcessing, tech.ID)))
	assert.Equal(t, []string{"done"}, ids(complaint.FilterTasks(all, complaint.TaskCompleted, tech.ID)))

	counts := complaint.CountTasks(all, tech.ID)
	assert.Equal(t, 1, counts[complaint.TaskAvailable])
	assert.Equal(t, 1, counts[complaint.TaskAssigned])

	assert.Equal(t, complaint.TaskAssigned, complaint.ParseTaskFilter("bogus"))
	assert.Equal(t, complaint.TaskProcessing, complaint.ParseTaskFilter("processing"))
}

func TestCanView(t *testing.T) {
	accepted := pending()
	accepted.Status = models.StatusAccepted
	held := assignedTo(pending(), tech, models.StatusInProgress)

	assert.True(t, complaint.CanView(room, pending()))
	assert.False(t, complaint.CanView(room2, pending()), "rooms only see their own complaints")
	assert.True(t, complaint.CanView(reviewer, pending()))
	assert.True(t, complaint.CanView(admin, held))
	assert.True(t, complaint.CanView(tech2, accepted), "unclaimed accepted complaints are open to every technician")
	assert.True(t, complaint.CanView(tech, held))
	assert.False(t, complaint.CanView(tech2, held))
	assert.False(t, complaint.CanView(tech, pending()))
}
