package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthoime/medicase-be/repository"
	"github.com/orthoime/medicase-be/types"
)

type fakeCaseRepo struct {
	cases   map[string]*types.Case
	changes []*types.CaseStatusChange
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[string]*types.Case)}
}

func (f *fakeCaseRepo) CreateCase(ctx context.Context, c *types.Case) error {
	f.cases[c.ID] = c
	return nil
}

func (f *fakeCaseRepo) GetCase(ctx context.Context, id string) (*types.Case, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCaseRepo) ListCases(ctx context.Context, filter repository.CaseFilter, limit, offset int64) ([]*types.Case, int64, error) {
	var out []*types.Case
	for _, c := range f.cases {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCaseRepo) UpdateCase(ctx context.Context, c *types.Case) error {
	f.cases[c.ID] = c
	return nil
}

func (f *fakeCaseRepo) DeleteCase(ctx context.Context, id string) error {
	delete(f.cases, id)
	return nil
}

func (f *fakeCaseRepo) CountCasesForYear(ctx context.Context, prefix string) (int64, error) {
	return int64(len(f.cases)), nil
}

func (f *fakeCaseRepo) AddStatusChange(ctx context.Context, change *types.CaseStatusChange) error {
	f.changes = append(f.changes, change)
	return nil
}

func (f *fakeCaseRepo) ListStatusChanges(ctx context.Context, caseID string) ([]*types.CaseStatusChange, error) {
	return f.changes, nil
}

type fakeAuditRepo struct {
	entries []*types.AuditLog
}

func (f *fakeAuditRepo) AddEntry(ctx context.Context, entry *types.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]*types.AuditLog, error) {
	return f.entries, nil
}

func newTestCaseService() (*CaseService, *fakeCaseRepo, *fakeAuditRepo) {
	cases := newFakeCaseRepo()
	audit := &fakeAuditRepo{}
	return NewCaseService(cases, audit, zerolog.Nop()), cases, audit
}

func TestCreateCaseAssignsSequentialNumber(t *testing.T) {
	svc, _, audit := newTestCaseService()
	ctx := context.Background()

	first, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
	})
	require.NoError(t, err)
	second, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "John",
		PatientLastName:  "Roe",
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("IME-%d-0001", year), first.CaseNumber)
	assert.Equal(t, fmt.Sprintf("IME-%d-0002", year), second.CaseNumber)
	assert.Equal(t, types.CaseStatusOpen, first.Status)
	assert.Equal(t, types.CasePriorityNormal, first.Priority)
	assert.Len(t, audit.entries, 2)
}

func TestChangeStatusValidTransition(t *testing.T) {
	svc, repo, _ := newTestCaseService()
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
	})
	require.NoError(t, err)

	updated, err := svc.ChangeStatus(ctx, "user-1", created.ID, types.StatusChangeRequest{
		Status: types.CaseStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, types.CaseStatusInProgress, updated.Status)

	require.Len(t, repo.changes, 1)
	assert.Equal(t, types.CaseStatusOpen, repo.changes[0].FromStatus)
	assert.Equal(t, types.CaseStatusInProgress, repo.changes[0].ToStatus)
}

func TestChangeStatusRejectsInvalidTransition(t *testing.T) {
	svc, _, _ := newTestCaseService()
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
	})
	require.NoError(t, err)

	// open cannot jump straight to completed
	_, err = svc.ChangeStatus(ctx, "user-1", created.ID, types.StatusChangeRequest{
		Status: types.CaseStatusCompleted,
	})
	assert.Error(t, err)
}

func TestChangeStatusArchivedIsTerminal(t *testing.T) {
	svc, _, _ := newTestCaseService()
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, "user-1", created.ID, types.StatusChangeRequest{Status: types.CaseStatusArchived})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, "user-1", created.ID, types.StatusChangeRequest{Status: types.CaseStatusOpen})
	assert.Error(t, err)
}

func TestAssignCase(t *testing.T) {
	svc, _, _ := newTestCaseService()
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
	})
	require.NoError(t, err)

	updated, err := svc.AssignCase(ctx, "user-1", created.ID, types.AssignCaseRequest{
		PhysicianID: "phys-1",
		AssistantID: "asst-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "phys-1", updated.AssignedPhysicianID)
	assert.Equal(t, "asst-1", updated.AssignedAssistantID)
}

func TestCaseStats(t *testing.T) {
	svc, _, _ := newTestCaseService()
	ctx := context.Background()

	_, err := svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "Jane",
		PatientLastName:  "Doe",
		Priority:         types.CasePriorityHigh,
	})
	require.NoError(t, err)
	_, err = svc.CreateCase(ctx, "user-1", types.CreateCaseRequest{
		PatientFirstName: "John",
		PatientLastName:  "Roe",
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[types.CaseStatusOpen])
	assert.Equal(t, 1, stats.ByPriority[types.CasePriorityHigh])
	assert.Equal(t, 1, stats.ByPriority[types.CasePriorityNormal])
}
