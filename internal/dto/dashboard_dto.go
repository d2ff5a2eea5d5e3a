package dto

// StudentDashboardResponse summarises a student's projects and tasks.
type StudentDashboardResponse struct {
	ActiveProjects int64          `json:"active_projects"`
	TotalProjects  int64          `json:"total_projects"`
	OpenTasks      int64          `json:"open_tasks"`
	OverdueTasks   int64          `json:"overdue_tasks"`
	UpcomingTasks  []TaskResponse `json:"upcoming_tasks"`
}

// AdvisorDashboardResponse summarises an advisor's supervision load.
type AdvisorDashboardResponse struct {
	Advisees       int64             `json:"advisees"`
	ActiveProjects int64             `json:"active_projects"`
	OpenFeedback   int64             `json:"open_feedback"`
	RecentProjects []ProjectResponse `json:"recent_projects"`
}

// EvaluatorDashboardResponse summarises an evaluator's assignment queue.
type EvaluatorDashboardResponse struct {
	PendingEvaluations   int64                       `json:"pending_evaluations"`
	CompletedEvaluations int64                       `json:"completed_evaluations"`
	AverageScore         float64                     `json:"average_score"`
	Pending              []PendingEvaluationResponse `json:"pending"`
}
