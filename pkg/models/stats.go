package models

// LearnerSummary aggregates a learner's review history across all tracked
// words.
type LearnerSummary struct {
	TotalTracked    int     `json:"total_tracked"`
	DueNow          int     `json:"due_now"`
	Learning        int     `json:"learning"`
	Young           int     `json:"young"`
	Mature          int     `json:"mature"`
	AverageEase     float64 `json:"average_ease"`
	AccuracyPercent int     `json:"accuracy_percent"`
}

// CollectionDueCount reports how much work a single collection holds right
// now: cards past their review date plus cards never rated.
type CollectionDueCount struct {
	Collection Collection `json:"collection"`
	Title      string     `json:"title"`
	Due        int        `json:"due"`
	New        int        `json:"new"`
	Total      int        `json:"total"`
}
