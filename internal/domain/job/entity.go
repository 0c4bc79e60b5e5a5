package job

import "time"

// Job is one row of the jobs table.
type Job struct {
	ID               int64     `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	LocationType     string    `json:"location_type"`
	Location         *string   `json:"location"`
	Description      *string   `json:"description"`
	Salary           float64   `json:"salary"`
	CompanyName      string    `json:"company_name"`
	ApplicationEmail *string   `json:"application_email"`
	ApplicationURL   *string   `json:"application_url"`
	CompanyLogoURL   *string   `json:"company_logo_url"`
	Approved         *bool     `json:"approved"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewJob is the insert payload. The store assigns the id; nil
// timestamps fall back to the column default.
type NewJob struct {
	Slug             string
	Title            string
	Type             string
	LocationType     string
	Location         *string
	Description      *string
	Salary           float64
	CompanyName      string
	ApplicationEmail *string
	ApplicationURL   *string
	CompanyLogoURL   *string
	Approved         *bool
	CreatedAt        *time.Time
	UpdatedAt        *time.Time
}

// IsApproved reports whether the posting has been approved.
func (j Job) IsApproved() bool {
	return j.Approved != nil && *j.Approved
}

// WithApproval returns a copy of j marked approved at now.
func (j Job) WithApproval(now time.Time) Job {
	approved := true
	j.Approved = &approved
	j.UpdatedAt = now
	return j
}
