package model

// Metrics are the derived funding figures shown for a project.
type Metrics struct {
	PercentFunded   float64 `json:"percent_funded"` // unclamped
	PercentLabel    int     `json:"percent_label"`
	ProgressWidth   float64 `json:"progress_width"` // 0..100
	DaysLeft        int     `json:"days_left"`
	Completed       bool    `json:"completed"`
	RemainingAmount float64 `json:"remaining_amount"`
	FundedMessage   string  `json:"funded_message,omitempty"`
}

// ProjectDetails は詳細画面に必要な情報をまとめたもの
type ProjectDetails struct {
	Project       *Project     `json:"project"`
	Updates       []*Update    `json:"updates"`
	Pledges       []*Pledge    `json:"pledges"`
	Metrics       Metrics      `json:"metrics"`
	Chart         []ChartPoint `json:"chart"`
	CanPostUpdate bool         `json:"can_post_update"`
}
