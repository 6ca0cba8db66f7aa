package services

import (
	"context"
	"errors"
	"testing"

	"github.com/chinookvaluation/dashboard/api/internal/docuseal"
	"github.com/chinookvaluation/dashboard/api/internal/jobsync"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- repository mocks ---

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.JobSubmission) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.JobSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobSubmission), args.Error(1)
}

func (m *MockJobRepository) List(ctx context.Context, limit, offset int) ([]models.JobSubmission, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JobSubmission), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.JobSubmission) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) SetJobNumber(ctx context.Context, id uuid.UUID, jobNumber string, valcreJobID int) error {
	return m.Called(ctx, id, jobNumber, valcreJobID).Error(0)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockDetailRepository struct {
	mock.Mock
}

func (m *MockDetailRepository) GetLOE(ctx context.Context, jobID uuid.UUID) (*models.LOEDetails, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LOEDetails), args.Error(1)
}

func (m *MockDetailRepository) UpsertLOE(ctx context.Context, loe *models.LOEDetails) error {
	return m.Called(ctx, loe).Error(0)
}

func (m *MockDetailRepository) SetSubmission(ctx context.Context, jobID uuid.UUID, submissionID int, slug, renderedDoc string) error {
	return m.Called(ctx, jobID, submissionID, slug, renderedDoc).Error(0)
}

func (m *MockDetailRepository) SetClickUpTask(ctx context.Context, jobID uuid.UUID, taskID string) error {
	return m.Called(ctx, jobID, taskID).Error(0)
}

func (m *MockDetailRepository) GetPropertyInfo(ctx context.Context, jobID uuid.UUID) (*models.PropertyInfo, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropertyInfo), args.Error(1)
}

func (m *MockDetailRepository) UpsertPropertyInfo(ctx context.Context, info *models.PropertyInfo) error {
	return m.Called(ctx, info).Error(0)
}

type MockJobFileRepository struct {
	mock.Mock
}

func (m *MockJobFileRepository) Create(ctx context.Context, file *models.JobFile) error {
	return m.Called(ctx, file).Error(0)
}

func (m *MockJobFileRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.JobFile, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JobFile), args.Error(1)
}

type MockClientProfileRepository struct {
	mock.Mock
}

func (m *MockClientProfileRepository) UpsertFromSubmission(ctx context.Context, job *models.JobSubmission) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockClientProfileRepository) GetByEmail(ctx context.Context, email string) (*models.ClientProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientProfile), args.Error(1)
}

// --- adapter mocks ---

type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) CreateJob(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails, info *models.PropertyInfo) (*jobsync.Result, error) {
	args := m.Called(ctx, job, loe, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobsync.Result), args.Error(1)
}

func (m *MockSyncer) UpdateJobFinancials(ctx context.Context, valcreJobID int, loe *models.LOEDetails) error {
	return m.Called(ctx, valcreJobID, loe).Error(0)
}

type MockTaskTracker struct {
	mock.Mock
}

func (m *MockTaskTracker) EnsureTask(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails) (string, error) {
	args := m.Called(ctx, job, loe)
	return args.String(0), args.Error(1)
}

func (m *MockTaskTracker) UpdateTask(ctx context.Context, taskID string, job *models.JobSubmission, loe *models.LOEDetails) error {
	return m.Called(ctx, taskID, job, loe).Error(0)
}

func (m *MockTaskTracker) ResolveChecklistItem(ctx context.Context, taskID, itemName string) error {
	return m.Called(ctx, taskID, itemName).Error(0)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) CreateSubmission(ctx context.Context, documentHTML, signerName, signerEmail string) (*docuseal.Submission, error) {
	args := m.Called(ctx, documentHTML, signerName, signerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docuseal.Submission), args.Error(1)
}

type MockEmailer struct {
	mock.Mock
}

func (m *MockEmailer) SendSigningLink(ctx context.Context, to, clientName, signingURL string) error {
	return m.Called(ctx, to, clientName, signingURL).Error(0)
}

// --- fixtures ---

type serviceMocks struct {
	jobs     *MockJobRepository
	details  *MockDetailRepository
	files    *MockJobFileRepository
	profiles *MockClientProfileRepository
	syncer   *MockSyncer
	tasks    *MockTaskTracker
	signer   *MockSigner
	emailer  *MockEmailer
}

func newService(t *testing.T) (JobService, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		jobs:     new(MockJobRepository),
		details:  new(MockDetailRepository),
		files:    new(MockJobFileRepository),
		profiles: new(MockClientProfileRepository),
		syncer:   new(MockSyncer),
		tasks:    new(MockTaskTracker),
		signer:   new(MockSigner),
		emailer:  new(MockEmailer),
	}
	svc := NewJobService(
		m.jobs, m.details, m.files, m.profiles,
		m.syncer, m.tasks, m.signer, m.emailer,
		logger.New("test"),
	)
	return svc, m
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func sampleJob(id uuid.UUID) *models.JobSubmission {
	return &models.JobSubmission{
		ID:              id,
		ClientFirstName: "Ada",
		ClientLastName:  "Nguyen",
		ClientEmail:     "ada@x.com",
		ClientPhone:     "403-555-0100",
		PropertyAddress: "1 Main St, Calgary, AB T2P 1A1",
		PropertyType:    "Office",
		Status:          models.StatusSubmitted,
	}
}

// expectGetJob wires the three lookups GetJob performs.
func expectGetJob(m *serviceMocks, job *models.JobSubmission, loe *models.LOEDetails, info *models.PropertyInfo) {
	m.jobs.On("GetByID", mock.Anything, job.ID).Return(job, nil)
	if loe == nil {
		m.details.On("GetLOE", mock.Anything, job.ID).Return(nil, nil)
	} else {
		m.details.On("GetLOE", mock.Anything, job.ID).Return(loe, nil)
	}
	if info == nil {
		m.details.On("GetPropertyInfo", mock.Anything, job.ID).Return(nil, nil)
	} else {
		m.details.On("GetPropertyInfo", mock.Anything, job.ID).Return(info, nil)
	}
	m.files.On("ListByJob", mock.Anything, job.ID).Return([]models.JobFile{}, nil)
}

// --- tests ---

func TestSubmitIntake(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	job := sampleJob(uuid.Nil)
	files := []models.JobFile{{FileName: "deed.pdf", StoragePath: "uploads/deed.pdf"}}

	m.jobs.On("Create", mock.Anything, job).Return(nil)
	m.profiles.On("UpsertFromSubmission", mock.Anything, job).Return(nil)
	m.files.On("Create", mock.Anything, mock.MatchedBy(func(f *models.JobFile) bool {
		return f.FileName == "deed.pdf" && f.JobID == job.ID && f.ID != uuid.Nil
	})).Return(nil)

	err := svc.SubmitIntake(ctx, job, files)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID, "an id is assigned on intake")
	assert.Equal(t, models.StatusSubmitted, job.Status)
	m.jobs.AssertExpectations(t)
	m.files.AssertExpectations(t)
}

func TestSubmitIntake_ProfileFailureIsNonFatal(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	job := sampleJob(uuid.New())

	m.jobs.On("Create", mock.Anything, job).Return(nil)
	m.profiles.On("UpsertFromSubmission", mock.Anything, job).Return(errors.New("profile table locked"))

	err := svc.SubmitIntake(ctx, job, nil)
	require.NoError(t, err, "a profile failure must not lose the submission")
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()

	job := sampleJob(id)
	job.Status = models.StatusSubmitted
	m.jobs.On("GetByID", mock.Anything, id).Return(job, nil)

	err := svc.UpdateStatus(ctx, id, models.StatusPaid)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	m.jobs.AssertNotCalled(t, "UpdateStatus")
}

func TestUpdateStatus_AllowsForwardMove(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()

	job := sampleJob(id)
	job.Status = models.StatusLOESent
	m.jobs.On("GetByID", mock.Anything, id).Return(job, nil)
	m.jobs.On("UpdateStatus", mock.Anything, id, models.StatusLOESigned).Return(nil)

	err := svc.UpdateStatus(ctx, id, models.StatusLOESigned)
	require.NoError(t, err)
	m.jobs.AssertExpectations(t)
}

func TestSyncToValcre(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)

	expectGetJob(m, job, nil, nil)
	m.syncer.On("CreateJob", mock.Anything, job, (*models.LOEDetails)(nil), (*models.PropertyInfo)(nil)).
		Return(&jobsync.Result{JobID: 100, JobNumber: "CV-2026-0042"}, nil)
	m.jobs.On("SetJobNumber", mock.Anything, id, "CV-2026-0042", 100).Return(nil)
	m.jobs.On("UpdateStatus", mock.Anything, id, models.StatusJobNumberAssigned).Return(nil)
	m.tasks.On("EnsureTask", mock.Anything, job, (*models.LOEDetails)(nil)).Return("task-1", nil)
	m.details.On("SetClickUpTask", mock.Anything, id, "task-1").Return(nil)
	m.tasks.On("ResolveChecklistItem", mock.Anything, "task-1", "Job number assigned").Return(nil)

	result, err := svc.SyncToValcre(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "CV-2026-0042", result.JobNumber)
	assert.Empty(t, result.Warnings)
	m.jobs.AssertExpectations(t)
	m.tasks.AssertExpectations(t)
}

func TestSyncToValcre_AlreadySynced(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)
	job.JobNumber = strPtr("CV-2026-0001")

	expectGetJob(m, job, nil, nil)

	_, err := svc.SyncToValcre(ctx, id)
	assert.ErrorIs(t, err, ErrAlreadySynced)
	m.syncer.AssertNotCalled(t, "CreateJob")
}

func TestSyncToValcre_TaskFailureIsWarningOnly(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)

	expectGetJob(m, job, nil, nil)
	m.syncer.On("CreateJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&jobsync.Result{JobID: 100, JobNumber: "CV-2026-0042"}, nil)
	m.jobs.On("SetJobNumber", mock.Anything, id, "CV-2026-0042", 100).Return(nil)
	m.jobs.On("UpdateStatus", mock.Anything, id, models.StatusJobNumberAssigned).Return(nil)
	m.tasks.On("EnsureTask", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("clickup down"))

	result, err := svc.SyncToValcre(ctx, id)
	require.NoError(t, err, "tracking failures never fail the sync")
	assert.Equal(t, "CV-2026-0042", result.JobNumber)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "clickup down")
}

func TestSendLOE(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)
	job.Status = models.StatusJobNumberAssigned
	loe := &models.LOEDetails{JobID: id, FeeAmount: strPtr("$4,500.00")}

	expectGetJob(m, job, loe, nil)
	m.signer.On("CreateSubmission", mock.Anything, mock.MatchedBy(func(doc string) bool {
		return len(doc) > 0
	}), "Ada Nguyen", "ada@x.com").
		Return(&docuseal.Submission{ID: 900, Slug: "abc123"}, nil)
	m.details.On("SetSubmission", mock.Anything, id, 900, "abc123", mock.Anything).Return(nil)
	m.emailer.On("SendSigningLink", mock.Anything, "ada@x.com", "Ada Nguyen", "https://docuseal.com/s/abc123").Return(nil)
	m.jobs.On("UpdateStatus", mock.Anything, id, models.StatusLOESent).Return(nil)
	m.tasks.On("EnsureTask", mock.Anything, job, loe).Return("task-1", nil)
	m.details.On("SetClickUpTask", mock.Anything, id, "task-1").Return(nil)
	m.tasks.On("ResolveChecklistItem", mock.Anything, "task-1", "LOE sent").Return(nil)

	result, err := svc.SendLOE(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 900, result.SubmissionID)
	assert.Equal(t, "https://docuseal.com/s/abc123", result.SigningURL)
	assert.True(t, result.EmailSent)
	m.details.AssertExpectations(t)
}

func TestSendLOE_EmailFailureIsIndependent(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)
	job.Status = models.StatusJobNumberAssigned

	expectGetJob(m, job, nil, nil)
	m.signer.On("CreateSubmission", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&docuseal.Submission{ID: 900, Slug: "abc123"}, nil)
	m.details.On("SetSubmission", mock.Anything, id, 900, "abc123", mock.Anything).Return(nil)
	m.emailer.On("SendSigningLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp relay down"))
	m.jobs.On("UpdateStatus", mock.Anything, id, models.StatusLOESent).Return(nil)
	m.tasks.On("EnsureTask", mock.Anything, mock.Anything, mock.Anything).Return("task-1", nil)
	m.details.On("SetClickUpTask", mock.Anything, id, "task-1").Return(nil)
	m.tasks.On("ResolveChecklistItem", mock.Anything, "task-1", "LOE sent").Return(nil)

	result, err := svc.SendLOE(ctx, id)
	require.NoError(t, err, "submission succeeded; email failure is a warning")
	assert.False(t, result.EmailSent)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "smtp relay down")
}

func TestSendLOE_SubmissionFailurePersistsDocument(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)

	expectGetJob(m, job, nil, nil)
	m.signer.On("CreateSubmission", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("signing service unavailable"))
	m.details.On("SetSubmission", mock.Anything, id, 0, "", mock.MatchedBy(func(doc string) bool {
		return len(doc) > 0
	})).Return(nil)

	_, err := svc.SendLOE(ctx, id)
	require.Error(t, err)
	m.details.AssertExpectations(t)
	m.emailer.AssertNotCalled(t, "SendSigningLink")
}

func TestUpsertLOE_PropagatesBestEffort(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()
	job := sampleJob(id)
	job.ValcreJobID = intPtr(100)
	existing := &models.LOEDetails{JobID: id, ClickUpTaskID: strPtr("task-1")}
	updated := &models.LOEDetails{JobID: id, FeeAmount: strPtr("$5,000.00")}

	expectGetJob(m, job, existing, nil)
	m.details.On("UpsertLOE", mock.Anything, updated).Return(nil)
	m.tasks.On("UpdateTask", mock.Anything, "task-1", job, updated).Return(errors.New("clickup down"))
	m.syncer.On("UpdateJobFinancials", mock.Anything, 100, updated).Return(errors.New("valcre down"))

	err := svc.UpsertLOE(ctx, updated)
	require.NoError(t, err, "external propagation failures never undo the save")
	m.tasks.AssertExpectations(t)
	m.syncer.AssertExpectations(t)
}

func TestDeleteJob_NotFound(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()
	id := uuid.New()

	m.jobs.On("GetByID", mock.Anything, id).Return(nil, nil)

	err := svc.DeleteJob(ctx, id)
	assert.ErrorIs(t, err, ErrJobNotFound)
	m.jobs.AssertNotCalled(t, "Delete")
}

func TestGetClientProfile_NotFound(t *testing.T) {
	svc, m := newService(t)
	ctx := context.Background()

	m.profiles.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, nil)

	_, err := svc.GetClientProfile(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
