package dto

// HomeResponse is the marketing home payload
type HomeResponse struct {
	Hero         HeroSection   `json:"hero"`
	Features     []Feature     `json:"features"`
	Steps        []Step        `json:"steps"`
	Testimonials []Testimonial `json:"testimonials"`
	Stats        PublicStats   `json:"stats"`
}

type HeroSection struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CTALabel string `json:"ctaLabel"`
	CTAPath  string `json:"ctaPath"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Step struct {
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Testimonial struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role"`
}

// PublicStats are live counts shown on the home page
type PublicStats struct {
	VerifiedTutors       int64 `json:"verifiedTutors"`
	VerifiedInstitutions int64 `json:"verifiedInstitutions"`
	ActiveCourses        int64 `json:"activeCourses"`
	Students             int64 `json:"students"`
}

// SignupOption is one card of the sign-up chooser
type SignupOption struct {
	Role        string   `json:"role" example:"tutor"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FormPath    string   `json:"formPath" example:"/api/v1/auth/register/tutor"`
	Fields      []string `json:"fields"`
	NeedsReview bool     `json:"needsReview"`
}
