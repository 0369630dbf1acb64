package queries

// GetProgressQuery represents a query for a course's durable progress
type GetProgressQuery struct {
	UserID        string `validate:"required"`
	CourseID      string `validate:"required"`
	TotalChapters int    `validate:"gte=0"`
}

// GetProgressResult is the read model for course progress
type GetProgressResult struct {
	CourseID          string `json:"courseId"`
	CompletedChapters []int  `json:"completedChapters"`
	Percent           int    `json:"percent"`
}

// ListProgressQuery represents a query for all of a user's course progress
type ListProgressQuery struct {
	UserID string `validate:"required"`
}
