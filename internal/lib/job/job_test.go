package job

import (
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/petclinic/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	to   string
	sent []email.VisitScheduled
	err  error
}

func (f *fakeNotifier) SendVisitScheduled(to string, v email.VisitScheduled) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.sent = append(f.sent, v)
	return nil
}

func newTestService(inbox string, n VisitNotifier) *JobService {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger, clinicInbox: inbox}
	j.InitHandlers(n)
	return j
}

func TestNewVisitScheduledTask(t *testing.T) {
	task, err := NewVisitScheduledTask(VisitScheduledPayload{VisitID: 5, PetID: 7, PetName: "Samantha"})
	require.NoError(t, err)
	assert.Equal(t, TaskVisitScheduled, task.Type())
	assert.JSONEq(t,
		`{"visit_id":5,"pet_id":7,"pet_name":"Samantha","owner_id":0,"owner_name":"","date":"0001-01-01T00:00:00Z","description":""}`,
		string(task.Payload()))
}

func TestHandleVisitScheduledSendsToInbox(t *testing.T) {
	notifier := &fakeNotifier{}
	j := newTestService("clinic@example.com", notifier)

	task, err := NewVisitScheduledTask(VisitScheduledPayload{
		VisitID: 5, PetID: 7, PetName: "Samantha", OwnerID: 6, OwnerName: "Jean Coleman",
		Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Description: "rabies shot",
	})
	require.NoError(t, err)

	require.NoError(t, j.handleVisitScheduledTask(t.Context(), task))
	assert.Equal(t, "clinic@example.com", notifier.to)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "2024-05-01", notifier.sent[0].Date)
	assert.Equal(t, "Jean Coleman", notifier.sent[0].OwnerName)
}

func TestHandleVisitScheduledWithoutInbox(t *testing.T) {
	notifier := &fakeNotifier{}
	j := newTestService("", notifier)

	task, err := NewVisitScheduledTask(VisitScheduledPayload{VisitID: 1})
	require.NoError(t, err)
	require.NoError(t, j.handleVisitScheduledTask(t.Context(), task))
	assert.Empty(t, notifier.sent)
}

func TestHandleVisitScheduledErrors(t *testing.T) {
	j := newTestService("clinic@example.com", &fakeNotifier{err: errors.New("resend down")})

	task, err := NewVisitScheduledTask(VisitScheduledPayload{VisitID: 1})
	require.NoError(t, err)
	assert.EqualError(t, j.handleVisitScheduledTask(t.Context(), task), "resend down")

	bad := asynq.NewTask(TaskVisitScheduled, []byte("{"))
	assert.ErrorIs(t, j.handleVisitScheduledTask(t.Context(), bad), asynq.SkipRetry)
}
