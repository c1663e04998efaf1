package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/marcofalcone/basket-deal-tracker/pkg/types"
)

// JobsProvider defines the store methods required by the jobs handler.
type JobsProvider interface {
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
}

// JobsHandler handles refresh job history requests.
type JobsHandler struct {
	store JobsProvider
}

// NewJobsHandler creates a new JobsHandler.
func NewJobsHandler(s JobsProvider) *JobsHandler {
	return &JobsHandler{store: s}
}

// ListJobsInput is the request for listing job runs.
type ListJobsInput struct {
	Name  string `query:"name"  default:"refresh_basket" doc:"Scheduled job name"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum runs to return"`
}

// ListJobsOutput is the response body for listing job runs.
type ListJobsOutput struct {
	Body []domain.JobRun
}

// ListJobs returns the run history for a scheduled job, newest first.
func (h *JobsHandler) ListJobs(
	ctx context.Context,
	input *ListJobsInput,
) (*ListJobsOutput, error) {
	runs, err := h.store.ListJobRuns(ctx, input.Name, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing job runs failed: " + err.Error())
	}

	if runs == nil {
		runs = []domain.JobRun{}
	}

	return &ListJobsOutput{Body: runs}, nil
}

// RegisterJobRoutes registers job history endpoints with the Huma API.
func RegisterJobRoutes(api huma.API, h *JobsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/api/v1/jobs",
		Summary:     "List refresh job runs",
		Description: "Returns the run history for a scheduled job (newest first).",
		Tags:        []string{"scheduler"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListJobs)
}
