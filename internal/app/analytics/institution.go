package analytics

import (
	"sort"

	"github.com/yigit/tutorhub/internal/app/models"
)

// InstitutionStats are the overview numbers of an institution dashboard.
// Metrics the platform does not record are nil and serialise as null.
type InstitutionStats struct {
	TotalStudents           int      `json:"totalStudents"`
	ActiveCourses           int      `json:"activeCourses"`
	FacultyCount            int      `json:"facultyCount"`
	OpenInquiries           int      `json:"openInquiries"`
	InquiryConversionRate   float64  `json:"inquiryConversionRate"`
	PendingAdmissions       int      `json:"pendingAdmissions"`
	AdmissionAcceptanceRate float64  `json:"admissionAcceptanceRate"`
	FeeRevenue              float64  `json:"feeRevenue"`
	AverageResponseHours    *float64 `json:"averageResponseHours"`
	FacultyRating           *float64 `json:"facultyRating"`
	AttendanceRate          *float64 `json:"attendanceRate"`
}

// InstitutionInput is what the overview loads for one institution
type InstitutionInput struct {
	Courses     []models.Course
	Enrollments []models.Enrollment
	Faculty     []models.InstitutionFaculty
	Inquiries   []models.Inquiry
	Admissions  []models.Admission
}

// ComputeInstitutionStats reduces an institution's collections into InstitutionStats
func ComputeInstitutionStats(in InstitutionInput) InstitutionStats {
	stats := InstitutionStats{FacultyCount: len(in.Faculty)}

	students := make(map[int64]struct{})
	for _, e := range in.Enrollments {
		if e.Status != models.EnrollmentDropped {
			students[e.StudentID] = struct{}{}
		}
		if e.PaymentStatus == models.PaymentPaid {
			stats.FeeRevenue += e.AmountPaid
		}
	}
	stats.TotalStudents = len(students)
	stats.FeeRevenue = round2(stats.FeeRevenue)

	for _, c := range in.Courses {
		if c.IsActive {
			stats.ActiveCourses++
		}
	}

	funnel := InquiryFunnelOf(in.Inquiries)
	stats.OpenInquiries = funnel.New + funnel.Contacted
	stats.InquiryConversionRate = funnel.ConversionRate

	admissions := AdmissionFunnelOf(in.Admissions)
	stats.PendingAdmissions = admissions.Pending
	stats.AdmissionAcceptanceRate = admissions.AcceptanceRate

	return stats
}

// InquiryFunnel counts inquiries by status
type InquiryFunnel struct {
	Total          int     `json:"total"`
	New            int     `json:"new"`
	Contacted      int     `json:"contacted"`
	Converted      int     `json:"converted"`
	Closed         int     `json:"closed"`
	ConversionRate float64 `json:"conversionRate"`
}

// InquiryFunnelOf builds the inquiry funnel
func InquiryFunnelOf(inquiries []models.Inquiry) InquiryFunnel {
	f := InquiryFunnel{Total: len(inquiries)}
	for _, q := range inquiries {
		switch q.Status {
		case models.InquiryNew:
			f.New++
		case models.InquiryContacted:
			f.Contacted++
		case models.InquiryConverted:
			f.Converted++
		case models.InquiryClosed:
			f.Closed++
		}
	}
	f.ConversionRate = Percent(float64(f.Converted), float64(f.Total))
	return f
}

// AdmissionFunnel counts admissions by status
type AdmissionFunnel struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Accepted       int     `json:"accepted"`
	Rejected       int     `json:"rejected"`
	Waitlisted     int     `json:"waitlisted"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// AdmissionFunnelOf builds the admission funnel. The acceptance rate is taken over decided applications.
func AdmissionFunnelOf(admissions []models.Admission) AdmissionFunnel {
	f := AdmissionFunnel{Total: len(admissions)}
	for _, a := range admissions {
		switch a.Status {
		case models.AdmissionPending:
			f.Pending++
		case models.AdmissionAccepted:
			f.Accepted++
		case models.AdmissionRejected:
			f.Rejected++
		case models.AdmissionWaitlisted:
			f.Waitlisted++
		}
	}
	f.AcceptanceRate = Percent(float64(f.Accepted), float64(f.Accepted+f.Rejected))
	return f
}

// CourseFees is one row of the fee schedule tab
type CourseFees struct {
	CourseID        int64   `json:"courseId"`
	CourseTitle     string  `json:"courseTitle"`
	Fee             float64 `json:"fee"`
	Currency        string  `json:"currency"`
	PaidCount       int     `json:"paidCount"`
	UnpaidCount     int     `json:"unpaidCount"`
	CollectedAmount float64 `json:"collectedAmount"`
	OutstandingDue  float64 `json:"outstandingDue"`
}

// FeeSchedule summarises payment state per course, in course order
func FeeSchedule(courses []models.Course, enrollments []models.Enrollment) []CourseFees {
	index := make(map[int64]int, len(courses))
	rows := make([]CourseFees, 0, len(courses))
	for _, c := range courses {
		index[c.ID] = len(rows)
		rows = append(rows, CourseFees{CourseID: c.ID, CourseTitle: c.Title, Fee: c.Fee, Currency: c.Currency})
	}

	for _, e := range enrollments {
		i, ok := index[e.CourseID]
		if !ok || e.Status == models.EnrollmentDropped {
			continue
		}
		switch e.PaymentStatus {
		case models.PaymentPaid:
			rows[i].PaidCount++
			rows[i].CollectedAmount += e.AmountPaid
		case models.PaymentUnpaid:
			rows[i].UnpaidCount++
		}
	}

	for i := range rows {
		rows[i].CollectedAmount = round2(rows[i].CollectedAmount)
		rows[i].OutstandingDue = round2(float64(rows[i].UnpaidCount) * rows[i].Fee)
	}
	return rows
}

// CourseReport is enrollment and revenue for one course
type CourseReport struct {
	CourseID    int64   `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Enrollments int     `json:"enrollments"`
	Revenue     float64 `json:"revenue"`
	FillRate    float64 `json:"fillRate"`
}

// Reports is the payload of the reports tab
type Reports struct {
	Courses    []CourseReport  `json:"courses"`
	Inquiries  InquiryFunnel   `json:"inquiries"`
	Admissions AdmissionFunnel `json:"admissions"`
	Revenue    float64         `json:"revenue"`
}

// BuildReports assembles the reports tab, with courses ordered by revenue then title
func BuildReports(in InstitutionInput) Reports {
	byCourse := make(map[int64]*CourseReport, len(in.Courses))
	capacity := make(map[int64]int, len(in.Courses))
	courses := make([]CourseReport, 0, len(in.Courses))
	for _, c := range in.Courses {
		courses = append(courses, CourseReport{CourseID: c.ID, CourseTitle: c.Title})
		if c.Capacity != nil {
			capacity[c.ID] = *c.Capacity
		}
	}
	for i := range courses {
		byCourse[courses[i].CourseID] = &courses[i]
	}

	var revenue float64
	for _, e := range in.Enrollments {
		r, ok := byCourse[e.CourseID]
		if !ok {
			continue
		}
		if e.Status != models.EnrollmentDropped {
			r.Enrollments++
		}
		if e.PaymentStatus == models.PaymentPaid {
			r.Revenue += e.AmountPaid
			revenue += e.AmountPaid
		}
	}

	for i := range courses {
		courses[i].Revenue = round2(courses[i].Revenue)
		courses[i].FillRate = Percent(float64(courses[i].Enrollments), float64(capacity[courses[i].CourseID]))
	}
	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Revenue != courses[j].Revenue {
			return courses[i].Revenue > courses[j].Revenue
		}
		return courses[i].CourseTitle < courses[j].CourseTitle
	})

	return Reports{
		Courses:    courses,
		Inquiries:  InquiryFunnelOf(in.Inquiries),
		Admissions: AdmissionFunnelOf(in.Admissions),
		Revenue:    round2(revenue),
	}
}
