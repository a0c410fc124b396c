package model

import "time"

// Read-side aggregate views. All values are recomputed from source rows on
// every request; nothing here is persisted.

type DashboardMetrics struct {
	TotalClients       int64   `json:"total_clients"`
	TotalProjects      int64   `json:"total_projects"`
	ActiveProjects     int64   `json:"active_projects"`
	TotalQuotes        int64   `json:"total_quotes"`
	PendingQuotes      int64   `json:"pending_quotes"`
	TotalTasks         int64   `json:"total_tasks"`
	CompletedTasks     int64   `json:"completed_tasks"`
	InProgressTasks    int64   `json:"in_progress_tasks"`
	TotalRevenue       float64 `json:"total_revenue"`
	TaskCompletionRate float64 `json:"task_completion_rate"`
}

type RevenueReport struct {
	RevenueByService map[string]float64 `json:"revenue_by_service"`
}

type PipelineReport struct {
	ProjectStatusDistribution map[string]int64 `json:"project_status_distribution"`
	QuoteStatusDistribution   map[string]int64 `json:"quote_status_distribution"`
}

type RequirementsSummary struct {
	TotalRequirements    int     `json:"total_requirements"`
	Completed            int     `json:"completed"`
	InProgress           int     `json:"in_progress"`
	Pending              int     `json:"pending"`
	Blocked              int     `json:"blocked"`
	HighPriority         int     `json:"high_priority"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type KanbanBoard struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"in_progress"`
	Completed  []Task `json:"completed"`
	Blocked    []Task `json:"blocked"`
}

type Blocker struct {
	Source      string    `json:"source"`
	TaskTitle   string    `json:"task_title,omitempty"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

type StatusOverview struct {
	LatestProgress         int        `json:"latest_progress"`
	RequirementsCompletion float64    `json:"requirements_completion"`
	TasksCompletion        float64    `json:"tasks_completion"`
	CurrentBlockers        []Blocker  `json:"current_blockers"`
	NextSteps              string     `json:"next_steps"`
	EstimatedCompletion    *time.Time `json:"estimated_completion"`
}

type NextStepsRollup struct {
	LatestNextSteps     string        `json:"latest_next_steps"`
	LatestUpdateDate    *time.Time    `json:"latest_update_date"`
	PendingRequirements []Requirement `json:"pending_requirements"`
	InProgressTasks     []Task        `json:"in_progress_tasks"`
}
