package views

import (
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
)

// User converts a user into its response form
func User(u models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           OrDefault(&u.FullName, Unknown),
		Phone:              OrNA(u.Phone),
		Role:               string(u.Role),
		VerificationStatus: string(DisplayVerificationStatus(u.Role, u.VerificationStatus)),
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
		LastLoginAt:        u.LastLoginAt,
	}
}

func Users(in []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(in))
	for _, u := range in {
		out = append(out, User(u))
	}
	return out
}

func Profiles(in []models.TutorProfile) []dto.TutorProfileRow {
	out := make([]dto.TutorProfileRow, 0, len(in))
	for _, p := range in {
		rate := NotAvailable
		if p.HourlyRate != nil {
			rate = FormatAmount(*p.HourlyRate, p.Currency)
		}
		subjects := p.Subjects
		if subjects == nil {
			subjects = []string{}
		}
		out = append(out, dto.TutorProfileRow{
			ID:         p.ID,
			UserID:     p.UserID,
			TutorName:  OrUnknown(p.TutorName),
			TutorEmail: OrNA(p.TutorEmail),
			Headline:   OrNA(p.Headline),
			Subjects:   subjects,
			HourlyRate: rate,
			Rating:     p.Rating,
			Verified:   p.Verified,
		})
	}
	return out
}

func Reviews(in []models.Review) []dto.ReviewRow {
	out := make([]dto.ReviewRow, 0, len(in))
	for _, r := range in {
		out = append(out, dto.ReviewRow{
			ID:          r.ID,
			StudentName: OrUnknown(r.StudentName),
			TutorName:   OrUnknown(r.TutorName),
			Rating:      r.Rating,
			Comment:     OrNA(r.Comment),
			Status:      string(r.Status),
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

func Content(in []models.Content) []dto.ContentRow {
	out := make([]dto.ContentRow, 0, len(in))
	for _, c := range in {
		out = append(out, dto.ContentRow{
			ID:           c.ID,
			Title:        OrDefault(&c.Title, "Untitled"),
			UploaderName: OrUnknown(c.UploaderName),
			ContentType:  OrNA(c.ContentType),
			FileURL:      OrNA(c.FileURL),
			Status:       string(c.Status),
			CreatedAt:    c.CreatedAt,
		})
	}
	return out
}

func Transactions(in []models.Transaction) []dto.TransactionRow {
	out := make([]dto.TransactionRow, 0, len(in))
	for _, t := range in {
		out = append(out, dto.TransactionRow{
			ID:            t.ID,
			UserName:      OrUnknown(t.UserName),
			Amount:        t.Amount,
			Currency:      t.Currency,
			DisplayAmount: FormatAmount(t.Amount, t.Currency),
			Type:          string(t.Type),
			Status:        string(t.Status),
			CreatedAt:     t.CreatedAt,
		})
	}
	return out
}

func Payouts(in []models.Payout) []dto.PayoutRow {
	out := make([]dto.PayoutRow, 0, len(in))
	for _, p := range in {
		out = append(out, dto.PayoutRow{
			ID:            p.ID,
			TutorName:     OrUnknown(p.TutorName),
			Amount:        p.Amount,
			Currency:      p.Currency,
			DisplayAmount: FormatAmount(p.Amount, p.Currency),
			Status:        string(p.Status),
			CreatedAt:     p.CreatedAt,
		})
	}
	return out
}

func Refunds(in []models.Refund) []dto.RefundRow {
	out := make([]dto.RefundRow, 0, len(in))
	for _, r := range in {
		out = append(out, dto.RefundRow{
			ID:            r.ID,
			TransactionID: r.TransactionID,
			UserName:      OrUnknown(r.UserName),
			Amount:        r.Amount,
			Currency:      r.Currency,
			DisplayAmount: FormatAmount(r.Amount, r.Currency),
			Reason:        OrNA(r.Reason),
			Status:        string(r.Status),
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}

func Fee(f models.Fee) dto.FeeRow {
	appliesTo := f.AppliesTo
	return dto.FeeRow{
		ID:           f.ID,
		Name:         f.Name,
		Type:         string(f.Type),
		Value:        f.Value,
		Currency:     f.Currency,
		DisplayValue: FormatFee(f.Type, f.Value, f.Currency),
		AppliesTo:    OrNA(&appliesTo),
		IsActive:     f.IsActive,
	}
}

func Fees(in []models.Fee) []dto.FeeRow {
	out := make([]dto.FeeRow, 0, len(in))
	for _, f := range in {
		out = append(out, Fee(f))
	}
	return out
}

// InstitutionProfile applies display defaults to a profile. verified comes
// from the linked account so pending and rejected institutions read correctly.
func InstitutionProfile(p models.InstitutionProfile, status models.VerificationStatus) dto.InstitutionProfileView {
	return dto.InstitutionProfileView{
		ID:              p.ID,
		Name:            OrDefault(&p.Name, Unknown),
		Description:     OrNA(p.Description),
		Website:         OrNA(p.Website),
		Address:         OrNA(p.Address),
		City:            OrNA(p.City),
		LogoURL:         OrDefault(p.LogoURL, ""),
		EstablishedYear: p.EstablishedYear,
		Verified:        p.Verified,
		Status:          string(DisplayVerificationStatus(models.RoleInstitution, status)),
	}
}

func Courses(in []models.Course) []dto.CourseView {
	out := make([]dto.CourseView, 0, len(in))
	for _, c := range in {
		out = append(out, dto.CourseView{Course: c, DisplayFee: FormatAmount(c.Fee, c.Currency)})
	}
	return out
}

func Students(in []models.Enrollment) []dto.StudentRow {
	out := make([]dto.StudentRow, 0, len(in))
	for _, e := range in {
		out = append(out, dto.StudentRow{
			EnrollmentID:  e.ID,
			StudentID:     e.StudentID,
			StudentName:   OrUnknown(e.StudentName),
			StudentEmail:  OrNA(e.StudentEmail),
			CourseID:      e.CourseID,
			CourseTitle:   OrUnknown(e.CourseTitle),
			Status:        string(e.Status),
			PaymentStatus: string(e.PaymentStatus),
			AmountPaid:    e.AmountPaid,
			EnrolledAt:    e.EnrolledAt.Format("2006-01-02"),
		})
	}
	return out
}
