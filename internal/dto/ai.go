package dto

import "encoding/json"

// RecommendRequest is the client payload for course recommendations.
type RecommendRequest struct {
	Major       string `json:"major"`
	JobInterest string `json:"jobInterest" validate:"required"`
}

// RecommendCourse is the catalog projection sent to the recommender.
type RecommendCourse struct {
	ID         string   `json:"id"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Professor  string   `json:"professor"`
	Credits    int      `json:"credits"`
	Capacity   int      `json:"capacity"`
	Enrolled   int      `json:"enrolled"`
	Department string   `json:"department"`
	CourseType string   `json:"courseType"`
	Day        []string `json:"day"`
	Time       string   `json:"time"`
}

// RecommendUpstreamRequest is the body posted to the recommender.
type RecommendUpstreamRequest struct {
	Major       string            `json:"major"`
	JobInterest string            `json:"job_interest"`
	Courses     []RecommendCourse `json:"courses"`
}

// ScheduleRequest asks the optimizer for timetable candidates.
type ScheduleRequest struct {
	SelectedCourseIDs []string        `json:"selectedCourseIds" validate:"required,min=1"`
	Preferences       json.RawMessage `json:"preferences"`
}

// ScheduleUpstreamRequest is the body posted to the optimizer.
type ScheduleUpstreamRequest struct {
	SelectedCourseIDs []string        `json:"selected_course_ids"`
	Preferences       json.RawMessage `json:"preferences,omitempty"`
}

// UpstreamResponse is a downstream reply relayed to the client unchanged.
type UpstreamResponse struct {
	ContentType string
	Body        []byte
}
