package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chinookvaluation/dashboard/api/internal/clickup"
	"github.com/chinookvaluation/dashboard/api/internal/docuseal"
	"github.com/chinookvaluation/dashboard/api/internal/jobsync"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/chinookvaluation/dashboard/api/internal/repository"
	"github.com/google/uuid"
)

// Service-level errors
var (
	ErrJobNotFound     = errors.New("job not found")
	ErrProfileNotFound = errors.New("client profile not found")
	ErrAlreadySynced   = errors.New("job already has an external job number")
	ErrNotSynced       = errors.New("job has not been synced yet")
)

// Syncer creates and updates the external practice-management job.
// Satisfied by *jobsync.Orchestrator.
type Syncer interface {
	CreateJob(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails, info *models.PropertyInfo) (*jobsync.Result, error)
	UpdateJobFinancials(ctx context.Context, valcreJobID int, loe *models.LOEDetails) error
}

// TaskTracker mirrors jobs into the task-tracking system.
// Satisfied by *clickup.Client.
type TaskTracker interface {
	EnsureTask(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails) (string, error)
	UpdateTask(ctx context.Context, taskID string, job *models.JobSubmission, loe *models.LOEDetails) error
	ResolveChecklistItem(ctx context.Context, taskID, itemName string) error
}

// Signer opens e-signature sessions. Satisfied by *docuseal.Client.
type Signer interface {
	CreateSubmission(ctx context.Context, documentHTML, signerName, signerEmail string) (*docuseal.Submission, error)
}

// Emailer delivers the signing link. Satisfied by *email.Sender.
type Emailer interface {
	SendSigningLink(ctx context.Context, to, clientName, signingURL string) error
}

// SyncResult is the outcome of pushing a job to the external system.
type SyncResult struct {
	JobNumber string   `json:"jobNumber"`
	Warnings  []string `json:"warnings,omitempty"`
}

// SendLOEResult is the outcome of sending a letter of engagement. EmailSent is
// reported separately from submission success: a failed email does not undo
// the signing session.
type SendLOEResult struct {
	SubmissionID int      `json:"submissionId"`
	SigningURL   string   `json:"signingUrl"`
	EmailSent    bool     `json:"emailSent"`
	Warnings     []string `json:"warnings,omitempty"`
}

// JobDetail bundles the job with its lazily-created sections for the
// dashboard's detail view.
type JobDetail struct {
	Job          *models.JobSubmission `json:"job"`
	LOE          *models.LOEDetails    `json:"loe,omitempty"`
	PropertyInfo *models.PropertyInfo  `json:"propertyInfo,omitempty"`
	Files        []models.JobFile      `json:"files"`
}

// JobService defines the interface for job workflow operations.
type JobService interface {
	// SubmitIntake persists a new job with its uploaded file metadata and
	// updates the client's aggregate profile.
	SubmitIntake(ctx context.Context, job *models.JobSubmission, files []models.JobFile) error

	// GetJob returns the job with its LOE, property-info and file sections.
	// Returns ErrJobNotFound if the job does not exist.
	GetJob(ctx context.Context, id uuid.UUID) (*JobDetail, error)

	// ListJobs returns jobs for the dashboard, newest first.
	ListJobs(ctx context.Context, limit, offset int) ([]models.JobSubmission, error)

	// UpdateJob overwrites the intake fields (dashboard autosave).
	UpdateJob(ctx context.Context, job *models.JobSubmission) error

	// UpdateStatus moves the job through the workflow state machine.
	// Returns models.ErrInvalidTransition for an illegal move.
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.Status) error

	// SyncToValcre pushes the job to the practice-management system, persists
	// the assigned job number and advances the status.
	SyncToValcre(ctx context.Context, id uuid.UUID) (*SyncResult, error)

	// SendLOE renders and submits the letter of engagement for signature and
	// emails the signing link.
	SendLOE(ctx context.Context, id uuid.UUID) (*SendLOEResult, error)

	// UpsertLOE saves the LOE section and propagates the change to the
	// external task and job where they exist.
	UpsertLOE(ctx context.Context, loe *models.LOEDetails) error

	// UpsertPropertyInfo saves the property-info section.
	UpsertPropertyInfo(ctx context.Context, info *models.PropertyInfo) error

	// DeleteJob removes the job and all dependent rows.
	DeleteJob(ctx context.Context, id uuid.UUID) error

	// GetClientProfile returns the aggregate profile for a client email.
	// Returns ErrProfileNotFound if the client has never submitted a job.
	GetClientProfile(ctx context.Context, email string) (*models.ClientProfile, error)
}

// jobService is the concrete implementation of JobService.
type jobService struct {
	jobs     repository.JobRepository
	details  repository.DetailRepository
	files    repository.JobFileRepository
	profiles repository.ClientProfileRepository
	syncer   Syncer
	tasks    TaskTracker
	signer   Signer
	emailer  Emailer
	log      *logger.Logger
}

// NewJobService creates a new instance of JobService.
func NewJobService(
	jobs repository.JobRepository,
	details repository.DetailRepository,
	files repository.JobFileRepository,
	profiles repository.ClientProfileRepository,
	syncer Syncer,
	tasks TaskTracker,
	signer Signer,
	emailer Emailer,
	log *logger.Logger,
) JobService {
	return &jobService{
		jobs:     jobs,
		details:  details,
		files:    files,
		profiles: profiles,
		syncer:   syncer,
		tasks:    tasks,
		signer:   signer,
		emailer:  emailer,
		log:      log,
	}
}

func (s *jobService) SubmitIntake(ctx context.Context, job *models.JobSubmission, files []models.JobFile) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = models.StatusSubmitted

	if err := s.jobs.Create(ctx, job); err != nil {
		return err
	}

	// Profile maintenance is part of intake, but a failed aggregate must not
	// lose the submission itself
	if err := s.profiles.UpsertFromSubmission(ctx, job); err != nil {
		s.log.Error("Client profile upsert failed", err, map[string]interface{}{
			"job_id": job.ID,
			"email":  job.ClientEmail,
			"error":  err.Error(),
		})
	}

	for i := range files {
		files[i].JobID = job.ID
		if files[i].ID == uuid.Nil {
			files[i].ID = uuid.New()
		}
		if err := s.files.Create(ctx, &files[i]); err != nil {
			return fmt.Errorf("failed to record file %s: %w", files[i].FileName, err)
		}
	}

	s.log.Info("Intake submitted", map[string]interface{}{
		"job_id": job.ID,
		"email":  job.ClientEmail,
		"files":  len(files),
	})
	return nil
}

func (s *jobService) GetJob(ctx context.Context, id uuid.UUID) (*JobDetail, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	loe, err := s.details.GetLOE(ctx, id)
	if err != nil {
		return nil, err
	}
	info, err := s.details.GetPropertyInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := s.files.ListByJob(ctx, id)
	if err != nil {
		return nil, err
	}

	return &JobDetail{Job: job, LOE: loe, PropertyInfo: info, Files: files}, nil
}

func (s *jobService) ListJobs(ctx context.Context, limit, offset int) ([]models.JobSubmission, error) {
	return s.jobs.List(ctx, limit, offset)
}

func (s *jobService) UpdateJob(ctx context.Context, job *models.JobSubmission) error {
	existing, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrJobNotFound
	}
	return s.jobs.Update(ctx, job)
}

func (s *jobService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.Status) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}

	if _, err := models.Transition(job.Status, next); err != nil {
		return err
	}
	return s.jobs.UpdateStatus(ctx, id, next)
}

func (s *jobService) SyncToValcre(ctx context.Context, id uuid.UUID) (*SyncResult, error) {
	detail, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job := detail.Job

	if job.JobNumber != nil && *job.JobNumber != "" {
		return nil, ErrAlreadySynced
	}

	synced, err := s.syncer.CreateJob(ctx, job, detail.LOE, detail.PropertyInfo)
	if err != nil {
		return nil, err
	}

	if err := s.jobs.SetJobNumber(ctx, id, synced.JobNumber, synced.JobID); err != nil {
		return nil, fmt.Errorf("synced as %s but failed to persist job number: %w", synced.JobNumber, err)
	}

	result := &SyncResult{JobNumber: synced.JobNumber}
	for _, w := range synced.Warnings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", w.Step, w.Err))
	}

	if _, err := models.Transition(job.Status, models.StatusJobNumberAssigned); err == nil {
		if err := s.jobs.UpdateStatus(ctx, id, models.StatusJobNumberAssigned); err != nil {
			return nil, err
		}
		job.Status = models.StatusJobNumberAssigned
	}
	job.JobNumber = &synced.JobNumber

	result.Warnings = append(result.Warnings, s.fireTaskMilestone(ctx, job, detail.LOE, clickup.ChecklistJobNumberAssigned)...)

	return result, nil
}

func (s *jobService) SendLOE(ctx context.Context, id uuid.UUID) (*SendLOEResult, error) {
	detail, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	job := detail.Job

	document := docuseal.RenderTemplate(job, detail.LOE)
	signerName := strings.TrimSpace(job.ClientFirstName + " " + job.ClientLastName)

	submission, err := s.signer.CreateSubmission(ctx, document, signerName, job.ClientEmail)
	if err != nil {
		// Keep the rendered document so the link can be recovered manually
		// once the service comes back
		if saveErr := s.details.SetSubmission(ctx, id, 0, "", document); saveErr != nil {
			s.log.Error("Failed to persist rendered document after submission error", saveErr, map[string]interface{}{
				"job_id": id,
				"error":  saveErr.Error(),
			})
		}
		return nil, err
	}

	if err := s.details.SetSubmission(ctx, id, submission.ID, submission.Slug, document); err != nil {
		return nil, err
	}

	result := &SendLOEResult{
		SubmissionID: submission.ID,
		SigningURL:   docuseal.SigningLink(submission.Slug),
	}

	// Email delivery is reported independently of submission success
	if err := s.emailer.SendSigningLink(ctx, job.ClientEmail, signerName, result.SigningURL); err != nil {
		s.log.Warn("Signing link email failed", map[string]interface{}{
			"job_id": id,
			"error":  err.Error(),
		})
		result.Warnings = append(result.Warnings, fmt.Sprintf("email: %s", err.Error()))
	} else {
		result.EmailSent = true
	}

	if _, err := models.Transition(job.Status, models.StatusLOESent); err == nil {
		if err := s.jobs.UpdateStatus(ctx, id, models.StatusLOESent); err != nil {
			return nil, err
		}
		job.Status = models.StatusLOESent
	}

	result.Warnings = append(result.Warnings, s.fireTaskMilestone(ctx, job, detail.LOE, clickup.ChecklistLOESent)...)

	return result, nil
}

func (s *jobService) UpsertLOE(ctx context.Context, loe *models.LOEDetails) error {
	detail, err := s.GetJob(ctx, loe.JobID)
	if err != nil {
		return err
	}

	if err := s.details.UpsertLOE(ctx, loe); err != nil {
		return err
	}

	// Propagate to the external task and job; neither failure undoes the save
	if detail.LOE != nil && detail.LOE.ClickUpTaskID != nil {
		if err := s.tasks.UpdateTask(ctx, *detail.LOE.ClickUpTaskID, detail.Job, loe); err != nil {
			s.log.Warn("Task update failed after LOE save", map[string]interface{}{
				"job_id": loe.JobID,
				"error":  err.Error(),
			})
		}
	}
	if detail.Job.ValcreJobID != nil {
		if err := s.syncer.UpdateJobFinancials(ctx, *detail.Job.ValcreJobID, loe); err != nil {
			s.log.Warn("External job update failed after LOE save", map[string]interface{}{
				"job_id": loe.JobID,
				"error":  err.Error(),
			})
		}
	}

	return nil
}

func (s *jobService) UpsertPropertyInfo(ctx context.Context, info *models.PropertyInfo) error {
	job, err := s.jobs.GetByID(ctx, info.JobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}
	return s.details.UpsertPropertyInfo(ctx, info)
}

func (s *jobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}
	return s.jobs.Delete(ctx, id)
}

func (s *jobService) GetClientProfile(ctx context.Context, email string) (*models.ClientProfile, error) {
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// fireTaskMilestone ensures the tracking task exists and resolves the named
// checklist item. Failures are returned as warnings, never as errors.
func (s *jobService) fireTaskMilestone(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails, item string) []string {
	taskID, err := s.tasks.EnsureTask(ctx, job, loe)
	if err != nil {
		s.log.Warn("Task creation failed", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return []string{fmt.Sprintf("task: %s", err.Error())}
	}

	if loe == nil || loe.ClickUpTaskID == nil || *loe.ClickUpTaskID != taskID {
		if err := s.details.SetClickUpTask(ctx, job.ID, taskID); err != nil {
			s.log.Error("Failed to persist task id", err, map[string]interface{}{
				"job_id": job.ID,
				"error":  err.Error(),
			})
		}
	}

	if err := s.tasks.ResolveChecklistItem(ctx, taskID, item); err != nil {
		s.log.Warn("Checklist milestone update failed", map[string]interface{}{
			"job_id": job.ID,
			"item":   item,
			"error":  err.Error(),
		})
		return []string{fmt.Sprintf("task checklist: %s", err.Error())}
	}
	return nil
}
