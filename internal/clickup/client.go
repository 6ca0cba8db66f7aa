// Package clickup mirrors job lifecycle into the task-tracking system. One
// task per job, created from a list template and kept in sync as the job and
// LOE change. Every operation here is best-effort: callers log failures and
// carry on with the job workflow.
package clickup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/mapping"
	"github.com/chinookvaluation/dashboard/api/internal/models"
	"github.com/go-resty/resty/v2"
)

const requestTimeout = 15 * time.Second

// Checklist item names the workflow resolves as milestones occur.
const (
	ChecklistJobNumberAssigned = "Job number assigned"
	ChecklistLOESent           = "LOE sent"
)

// Task is the subset of the task resource the adapter reads and writes.
type Task struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Checklists  []Checklist `json:"checklists"`
}

// Checklist is a named group of resolvable items nested under a task.
type Checklist struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Items []ChecklistItem `json:"items"`
}

// ChecklistItem is one resolvable entry in a checklist.
type ChecklistItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// Client is the task-tracking API client.
type Client struct {
	http *resty.Client
	cfg  config.ClickUpConfig
	log  *logger.Logger
}

// New creates a Client authenticated with the configured personal token.
func New(cfg config.ClickUpConfig, log *logger.Logger) *Client {
	http := resty.New().
		SetBaseURL("https://api.clickup.com/api/v2").
		SetTimeout(requestTimeout).
		SetHeader("Authorization", cfg.Token).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http: http,
		cfg:  cfg,
		log:  log,
	}
}

// NewWithBaseURL creates a Client against an explicit endpoint for tests.
func NewWithBaseURL(baseURL string, cfg config.ClickUpConfig, log *logger.Logger) *Client {
	c := New(cfg, log)
	c.http.SetBaseURL(baseURL)
	return c
}

// EnsureTask returns the task id tracking the job, creating one from the list
// template only when no id is stored yet. The stored-id check makes repeated
// syncs idempotent.
func (c *Client) EnsureTask(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails) (string, error) {
	if loe != nil && loe.ClickUpTaskID != nil && *loe.ClickUpTaskID != "" {
		return *loe.ClickUpTaskID, nil
	}

	task, err := c.CreateTaskFromTemplate(ctx, job, loe)
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

// CreateTaskFromTemplate instantiates the list's task template with the job's
// display name, then writes the description block in a follow-up update.
func (c *Client) CreateTaskFromTemplate(ctx context.Context, job *models.JobSubmission, loe *models.LOEDetails) (*Task, error) {
	var task Task

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"name": TaskName(job)}).
		SetResult(&task).
		Post(fmt.Sprintf("/list/%s/taskTemplate/%s", c.cfg.ListID, c.cfg.TemplateID))
	if err != nil {
		return nil, fmt.Errorf("task creation failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("task creation failed: http %d: %s", resp.StatusCode(), resp.String())
	}

	if err := c.UpdateTask(ctx, task.ID, job, loe); err != nil {
		c.log.Warn("Task created but description update failed", map[string]interface{}{
			"task_id": task.ID,
			"error":   err.Error(),
		})
	}

	c.log.Info("Task created for job", map[string]interface{}{
		"task_id": task.ID,
		"job_id":  job.ID,
	})
	return &task, nil
}

// UpdateTask overwrites the task name and description from the current job and
// LOE state. Edits made directly in the task UI do not survive an update.
func (c *Client) UpdateTask(ctx context.Context, taskID string, job *models.JobSubmission, loe *models.LOEDetails) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"name":        TaskName(job),
			"description": TaskDescription(job, loe),
		}).
		Put(fmt.Sprintf("/task/%s", taskID))
	if err != nil {
		return fmt.Errorf("task update failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("task update failed: http %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ResolveChecklistItem marks the named checklist item resolved on the job's
// task. The item is located by fetching the task and scanning its checklists;
// a missing item is an error so the caller can log the template drift.
func (c *Client) ResolveChecklistItem(ctx context.Context, taskID, itemName string) error {
	var task Task

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&task).
		Get(fmt.Sprintf("/task/%s", taskID))
	if err != nil {
		return fmt.Errorf("task fetch failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("task fetch failed: http %d: %s", resp.StatusCode(), resp.String())
	}

	checklistID, itemID := findChecklistItem(task, itemName)
	if itemID == "" {
		return fmt.Errorf("checklist item %q not found on task %s", itemName, taskID)
	}

	resp, err = c.http.R().
		SetContext(ctx).
		SetBody(map[string]bool{"resolved": true}).
		Put(fmt.Sprintf("/checklist/%s/checklist_item/%s", checklistID, itemID))
	if err != nil {
		return fmt.Errorf("checklist item update failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("checklist item update failed: http %d: %s", resp.StatusCode(), resp.String())
	}

	c.log.Debug("Checklist item resolved", map[string]interface{}{
		"task_id": taskID,
		"item":    itemName,
	})
	return nil
}

func findChecklistItem(task Task, itemName string) (checklistID, itemID string) {
	for _, list := range task.Checklists {
		for _, item := range list.Items {
			if item.Name == itemName {
				return list.ID, item.ID
			}
		}
	}
	return "", ""
}

// TaskName builds the task display name: job number when assigned, then the
// property address.
func TaskName(job *models.JobSubmission) string {
	if job.JobNumber != nil && *job.JobNumber != "" {
		return fmt.Sprintf("%s - %s", *job.JobNumber, job.PropertyAddress)
	}
	return job.PropertyAddress
}

// TaskDescription formats the description block shown on the task, one labeled
// line per populated field.
func TaskDescription(job *models.JobSubmission, loe *models.LOEDetails) string {
	var b strings.Builder

	writeLine := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	writeLine("Client", strings.TrimSpace(job.ClientFirstName+" "+job.ClientLastName))
	writeLine("Email", job.ClientEmail)
	writeLine("Phone", job.ClientPhone)
	writeLine("Property", job.PropertyAddress)
	writeLine("Property Type", mapping.PropertyType(job.PropertyType))
	writeLine("Status", string(job.Status))
	if job.JobNumber != nil {
		writeLine("Job Number", *job.JobNumber)
	}

	if loe != nil {
		if loe.FeeAmount != nil {
			writeLine("Fee", *loe.FeeAmount)
		}
		if loe.RetainerAmount != nil {
			writeLine("Retainer", *loe.RetainerAmount)
		}
		if loe.DeliveryDate != nil {
			writeLine("Delivery", loe.DeliveryDate.Format("2006-01-02"))
		}
		if loe.PaymentTerms != nil {
			writeLine("Payment Terms", mapping.PaymentTerms(*loe.PaymentTerms))
		}
		if loe.ScopeOfWork != nil {
			writeLine("Scope", mapping.ScopeOfWork(*loe.ScopeOfWork))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
