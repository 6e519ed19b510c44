package models

// Resume is the master CV rendered into the predefined attachment by render-cv.

type Link struct {
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type PersonalInformation struct {
	FullName string `json:"full_name"`
	JobTitle string `json:"job_title"`
	Location string `json:"location"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Links    Link   `json:"links"`
}

type Skills struct {
	Languages   []string `json:"languages"`
	DataScience []string `json:"data_science"`
	BigData     []string `json:"big_data"`
	Databases   []string `json:"databases"`
	DevOpsInfra []string `json:"devops_infra"`
	SoftSkills  []string `json:"soft_skills,omitempty"`
}

type Experience struct {
	Role             string   `json:"role"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	TechStack        []string `json:"tech_stack,omitempty"`
}

type Project struct {
	Name        string   `json:"name"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
	Details     []string `json:"details,omitempty"`
}

type Education struct {
	Degree         string `json:"degree"`
	Field          string `json:"field"`
	Institution    string `json:"institution"`
	Location       string `json:"location"`
	GraduationYear string `json:"graduation_year"`
}

type Resume struct {
	PersonalInformation PersonalInformation `json:"personal_information"`
	Summary             string              `json:"summary"`
	Skills              Skills              `json:"skills"`
	Experience          []Experience        `json:"experience"`
	Projects            []Project           `json:"projects"`
	Education           Education           `json:"education"`
}

// Applicant extracts the facts the email prompts need from the resume.
func (r *Resume) Applicant() Applicant {
	return Applicant{
		FullName:     r.PersonalInformation.FullName,
		Institution:  r.Education.Institution,
		FieldOfStudy: r.Education.Field,
		PortfolioURL: r.PersonalInformation.Links.Portfolio,
		GitHubURL:    r.PersonalInformation.Links.GitHub,
	}
}
