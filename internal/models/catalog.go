package models

// CatalogEntry is one course in a seed catalog file.
type CatalogEntry struct {
	Code       string            `yaml:"code" json:"code"`
	Name       string            `yaml:"name" json:"name"`
	Professor  string            `yaml:"professor" json:"professor"`
	Credits    int               `yaml:"credits" json:"credits"`
	Capacity   int               `yaml:"capacity" json:"capacity"`
	Enrolled   int               `yaml:"enrolled" json:"enrolled"`
	Department string            `yaml:"department" json:"department"`
	CourseType string            `yaml:"courseType" json:"courseType"`
	Schedules  []CatalogSchedule `yaml:"schedules" json:"schedules"`
}

// CatalogSchedule is a meeting block as written in a seed catalog file.
type CatalogSchedule struct {
	Day       string `yaml:"day" json:"day"`
	StartTime string `yaml:"start_time" json:"start_time"`
	EndTime   string `yaml:"end_time" json:"end_time"`
	Location  string `yaml:"location" json:"location"`
}
