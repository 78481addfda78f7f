package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/resolver"
)

type fakeCandidates struct {
	contacts []*models.Contact
}

func (f *fakeCandidates) FindByAnyIdentifier(_ context.Context, _ string, _ matching.Query) ([]*models.Contact, error) {
	return f.contacts, nil
}

type fakeContacts struct {
	list        []*models.Contact
	failDeltaID string
	applied     map[string]map[string]any
	statuses    map[string]string
}

func newFakeContacts(list ...*models.Contact) *fakeContacts {
	return &fakeContacts{
		list:     list,
		applied:  make(map[string]map[string]any),
		statuses: make(map[string]string),
	}
}

func (f *fakeContacts) ListForBulkMatch(_ context.Context, _ string, _ int) ([]*models.Contact, error) {
	return f.list, nil
}

func (f *fakeContacts) ListForAutoFill(_ context.Context, _ string, _ int) ([]*models.Contact, error) {
	return f.list, nil
}

func (f *fakeContacts) ApplyFieldDeltas(_ context.Context, _, id string, deltas map[string]any) error {
	if id == f.failDeltaID {
		return errors.New("write failed")
	}
	f.applied[id] = deltas
	return nil
}

func (f *fakeContacts) MarkMatchStatus(_ context.Context, _, id, status string) error {
	f.statuses[id] = status
	return nil
}

type fakeJobs struct {
	created       int
	startTotal    int
	progressCalls int
	lastCounters  models.JobCounters
	appended      []models.JobError
	finalStatus   string
	finalMessage  string
	cancelAfter   int // cancellation reads true once this many checks have passed
	cancelChecks  int
}

func (f *fakeJobs) Create(_ context.Context, tenantID, operationType string) (*models.BulkJob, error) {
	f.created++
	return &models.BulkJob{
		ID:            "job-1",
		TenantID:      tenantID,
		OperationType: operationType,
		Status:        models.JobStatusPending,
	}, nil
}

func (f *fakeJobs) Start(_ context.Context, _, _ string, totalItems int) error {
	f.startTotal = totalItems
	return nil
}

func (f *fakeJobs) UpdateProgress(_ context.Context, _, _ string, counters models.JobCounters) error {
	f.progressCalls++
	f.lastCounters = counters
	return nil
}

func (f *fakeJobs) AppendErrors(_ context.Context, _, _ string, errs []models.JobError) error {
	f.appended = append(f.appended, errs...)
	return nil
}

func (f *fakeJobs) Finalize(_ context.Context, _, _, status, message string) error {
	f.finalStatus = status
	f.finalMessage = message
	return nil
}

func (f *fakeJobs) IsCancelled(_ context.Context, _, _ string) (bool, error) {
	f.cancelChecks++
	return f.cancelAfter > 0 && f.cancelChecks > f.cancelAfter, nil
}

type fakeSink struct {
	progress  int
	completed int
	lastJob   *models.BulkJob
}

func (f *fakeSink) EmitProgress(_ context.Context, job *models.BulkJob, _ *events.ProgressCurrent) {
	f.progress++
	f.lastJob = job
}

func (f *fakeSink) EmitCompleted(_ context.Context, job *models.BulkJob, _ string) {
	f.completed++
	f.lastJob = job
}

func newTestProcessor(contacts *fakeContacts, jobs *fakeJobs, sink *fakeSink, candidates []*models.Contact, chunkSize int) *Processor {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	res := resolver.NewResolver(&fakeCandidates{contacts: candidates}, matching.NewEngine(matching.DefaultConfig()), logger, resolver.DefaultConfig())
	return NewProcessor(logger, contacts, jobs, res, sink, chunkSize)
}

func testJob(operationType string) *models.BulkJob {
	return &models.BulkJob{
		ID:            "job-1",
		TenantID:      "tenant-1",
		OperationType: operationType,
		Status:        models.JobStatusPending,
	}
}

// acmeRecord is a rich resolvable candidate shared by the run tests
func acmeRecord() *models.Contact {
	return &models.Contact{
		ID:       "acme-src",
		Company:  "Acme Inc",
		Website:  "acme.com",
		Industry: "Enterprise Software",
	}
}

func TestRunBulkMatch(t *testing.T) {
	matchable := &models.Contact{ID: "c1", Website: "https://acme.com"}
	identifierless := &models.Contact{ID: "c2", FirstName: "Bob"}
	unresolved := &models.Contact{ID: "c3", Company: "Ghost Co"}

	contacts := newFakeContacts(matchable, identifierless, unresolved)
	jobs := &fakeJobs{}
	sink := &fakeSink{}
	p := newTestProcessor(contacts, jobs, sink, []*models.Contact{acmeRecord()}, 2)

	job := testJob(models.JobTypeBulkMatch)
	require.NoError(t, p.Run(context.Background(), job, 0))

	assert.Equal(t, 3, jobs.startTotal)
	assert.Equal(t, models.JobStatusCompleted, jobs.finalStatus)

	assert.Equal(t, 3, jobs.lastCounters.Processed)
	assert.Equal(t, 2, jobs.lastCounters.Success)
	assert.Equal(t, 1, jobs.lastCounters.Matched)
	assert.Equal(t, 1, jobs.lastCounters.Skipped)
	assert.Equal(t, 0, jobs.lastCounters.Failed)

	// The matched contact got its empty fields filled and its status set;
	// the identifier-less one was left entirely untouched
	assert.Equal(t, models.MatchStatusMatched, contacts.statuses["c1"])
	assert.Equal(t, "Acme Inc", contacts.applied["c1"]["company"])
	assert.Equal(t, models.MatchStatusPendingReview, contacts.statuses["c3"])
	assert.NotContains(t, contacts.statuses, "c2")
	assert.NotContains(t, contacts.applied, "c2")

	// One progress event per item, one completion event, and one progress
	// persist per chunk plus the final flush (3 items / chunk of 2 = 2 chunks)
	assert.Equal(t, 3, sink.progress)
	assert.Equal(t, 1, sink.completed)
	assert.Equal(t, 3, jobs.progressCalls)
}

func TestRunAutoFill(t *testing.T) {
	fillable := &models.Contact{ID: "c1", Company: "Acme", Website: "acme.com"}
	unresolvable := &models.Contact{ID: "c2", Company: "Ghost Co"}

	contacts := newFakeContacts(fillable, unresolvable)
	jobs := &fakeJobs{}
	sink := &fakeSink{}
	p := newTestProcessor(contacts, jobs, sink, []*models.Contact{acmeRecord()}, 50)

	require.NoError(t, p.Run(context.Background(), testJob(models.JobTypeAutoFill), 0))

	assert.Equal(t, models.JobStatusCompleted, jobs.finalStatus)
	assert.Equal(t, 2, jobs.lastCounters.Processed)
	assert.Equal(t, 1, jobs.lastCounters.Success)
	assert.Equal(t, 1, jobs.lastCounters.Matched)
	assert.Equal(t, 1, jobs.lastCounters.Skipped)

	assert.Equal(t, "Enterprise Software", contacts.applied["c1"]["industry"])
	assert.NotContains(t, contacts.applied, "c2")
}

func TestRunItemErrorContinuesBatch(t *testing.T) {
	first := &models.Contact{ID: "c1", Website: "acme.com"}
	second := &models.Contact{ID: "c2", Website: "acme.com"}

	contacts := newFakeContacts(first, second)
	contacts.failDeltaID = "c1" // the delta write for c1 blows up
	jobs := &fakeJobs{}
	sink := &fakeSink{}
	p := newTestProcessor(contacts, jobs, sink, []*models.Contact{acmeRecord()}, 50)

	require.NoError(t, p.Run(context.Background(), testJob(models.JobTypeBulkMatch), 0))

	// The failure is recorded and the batch keeps going
	assert.Equal(t, models.JobStatusCompleted, jobs.finalStatus)
	assert.Equal(t, 2, jobs.lastCounters.Processed)
	assert.Equal(t, 1, jobs.lastCounters.Failed)
	assert.Equal(t, 1, jobs.lastCounters.Success)

	require.Len(t, jobs.appended, 1)
	assert.Equal(t, "c1", jobs.appended[0].ItemID)
	assert.Equal(t, "write failed", jobs.appended[0].Error)

	assert.Equal(t, models.MatchStatusMatched, contacts.statuses["c2"])
	assert.NotContains(t, contacts.statuses, "c1")
}

func TestRunCancelledBetweenChunks(t *testing.T) {
	list := []*models.Contact{
		{ID: "c1", Website: "acme.com"},
		{ID: "c2", Website: "acme.com"},
		{ID: "c3", Website: "acme.com"},
	}
	contacts := newFakeContacts(list...)
	jobs := &fakeJobs{cancelAfter: 1} // cancelled before the second chunk
	sink := &fakeSink{}
	p := newTestProcessor(contacts, jobs, sink, []*models.Contact{acmeRecord()}, 1)

	require.NoError(t, p.Run(context.Background(), testJob(models.JobTypeBulkMatch), 0))

	assert.Equal(t, models.JobStatusCancelled, jobs.finalStatus)
	assert.Equal(t, 1, jobs.lastCounters.Processed)
	assert.NotContains(t, contacts.statuses, "c2")
	assert.NotContains(t, contacts.statuses, "c3")
	assert.Equal(t, 1, sink.completed)
}

func TestHandleCommandMalformed(t *testing.T) {
	jobs := &fakeJobs{}
	p := newTestProcessor(newFakeContacts(), jobs, &fakeSink{}, nil, 50)

	// Malformed commands are dropped without error so the consumer commits
	// them instead of retrying forever
	err := p.HandleCommand(context.Background(), &kafka.JobCommand{JobType: models.JobTypeBulkMatch})
	require.NoError(t, err)
	assert.Equal(t, 0, jobs.created)

	err = p.HandleCommand(context.Background(), &kafka.JobCommand{TenantID: "tenant-1", JobType: "reticulate"})
	require.NoError(t, err)
	assert.Equal(t, 0, jobs.created)
}

func TestHandleCommandRunsJob(t *testing.T) {
	jobs := &fakeJobs{}
	sink := &fakeSink{}
	p := newTestProcessor(newFakeContacts(), jobs, sink, nil, 50)

	err := p.HandleCommand(context.Background(), &kafka.JobCommand{TenantID: "tenant-1", JobType: models.JobTypeBulkMatch})
	require.NoError(t, err)

	assert.Equal(t, 1, jobs.created)
	assert.Equal(t, models.JobStatusCompleted, jobs.finalStatus)
	assert.Equal(t, 0, jobs.lastCounters.Total)
	assert.Equal(t, 1, sink.completed)
}
