package booking

import (
	"regexp"
	"strings"

	"github.com/ESRAILHAQUE/maids-backend/internal/apperr"
	"github.com/ESRAILHAQUE/maids-backend/internal/models"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

type ClientInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (c *ClientInput) normalize() models.ClientInfo {
	return models.ClientInfo{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
	}
}

// CreateInput is the public booking form. Pointer fields distinguish a
// missing value from a zero one.
type CreateInput struct {
	Service   *string         `json:"service"`
	Hours     *float64        `json:"hours"`
	Cleaners  *int            `json:"cleaners"`
	Materials *string         `json:"materials"`
	Date      *string         `json:"date"`
	Time      *string         `json:"time"`
	Area      *string         `json:"area"`
	Address   *models.Address `json:"address"`
	Client    *ClientInput    `json:"client"`
	Notes     *string         `json:"notes"`
	TotalQAR  *float64        `json:"totalQAR"`
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func (in *CreateInput) Validate() error {
	missing := apperr.FieldErrors{}
	for field, absent := range map[string]bool{
		"service":   blank(in.Service),
		"hours":     in.Hours == nil,
		"cleaners":  in.Cleaners == nil,
		"materials": blank(in.Materials),
		"date":      blank(in.Date),
		"time":      blank(in.Time),
		"area":      blank(in.Area),
		"client":    in.Client == nil,
		"totalQAR":  in.TotalQAR == nil,
	} {
		if absent {
			missing.Add(field, "This field is required")
		}
	}
	if len(missing) > 0 {
		return &apperr.Error{Kind: apperr.KindValidation, Message: "Missing required booking fields", Fields: missing}
	}

	client := in.Client.normalize()
	if client.Name == "" || client.Phone == "" {
		return apperr.Validation("Client name and phone are required")
	}

	errs := apperr.FieldErrors{}
	checkHours(errs, *in.Hours)
	checkCleaners(errs, *in.Cleaners)
	checkMaterials(errs, *in.Materials)
	checkDate(errs, *in.Date)
	checkTotal(errs, *in.TotalQAR)
	checkClientEmail(errs, client.Email)
	return apperr.ValidationFields(errs)
}

func (in *CreateInput) booking() *models.Booking {
	b := &models.Booking{
		Service:   strings.TrimSpace(*in.Service),
		Hours:     *in.Hours,
		Cleaners:  *in.Cleaners,
		Materials: models.Materials(*in.Materials),
		Date:      strings.TrimSpace(*in.Date),
		Time:      strings.TrimSpace(*in.Time),
		Area:      strings.TrimSpace(*in.Area),
		Client:    in.Client.normalize(),
		TotalQAR:  *in.TotalQAR,
		Status:    models.BookingPending,
		Payment:   models.Payment{Status: models.PaymentUnpaid},
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Notes != nil {
		b.Notes = strings.TrimSpace(*in.Notes)
	}
	return b
}

type PaymentInput struct {
	Status    string `json:"status"`
	Method    string `json:"method"`
	InvoiceID string `json:"invoiceId"`
}

func (in *PaymentInput) Validate() error {
	if !models.PaymentStatus(in.Status).Valid() {
		return apperr.Validation("Invalid payment status")
	}
	if in.Method != "" && !models.PaymentMethod(in.Method).Valid() {
		return apperr.Validation("Invalid payment method")
	}
	return nil
}

type AssignStaffInput struct {
	StaffIDs []string `json:"staffIds"`
}

func (in *AssignStaffInput) Validate() error {
	if in.StaffIDs == nil {
		return apperr.Validation("staffIds must be an array")
	}
	return nil
}

// UpdateInput applies only the fields that are present. Payment and staff
// have their own operations.
type UpdateInput struct {
	Service   *string         `json:"service"`
	Hours     *float64        `json:"hours"`
	Cleaners  *int            `json:"cleaners"`
	Materials *string         `json:"materials"`
	Date      *string         `json:"date"`
	Time      *string         `json:"time"`
	Area      *string         `json:"area"`
	Address   *models.Address `json:"address"`
	Client    *ClientInput    `json:"client"`
	Notes     *string         `json:"notes"`
	TotalQAR  *float64        `json:"totalQAR"`
	Status    *string         `json:"status"`
}

func (in *UpdateInput) Validate() error {
	errs := apperr.FieldErrors{}
	for field, v := range map[string]*string{"service": in.Service, "time": in.Time, "area": in.Area} {
		if v != nil && strings.TrimSpace(*v) == "" {
			errs.Add(field, "This field cannot be empty")
		}
	}
	if in.Hours != nil {
		checkHours(errs, *in.Hours)
	}
	if in.Cleaners != nil {
		checkCleaners(errs, *in.Cleaners)
	}
	if in.Materials != nil {
		checkMaterials(errs, *in.Materials)
	}
	if in.Date != nil {
		checkDate(errs, *in.Date)
	}
	if in.TotalQAR != nil {
		checkTotal(errs, *in.TotalQAR)
	}
	if in.Status != nil && !models.BookingStatus(*in.Status).Valid() {
		errs.Add("status", "Invalid status")
	}
	if in.Client != nil {
		c := in.Client.normalize()
		if c.Name == "" || c.Phone == "" {
			errs.Add("client", "Client name and phone are required")
		}
		checkClientEmail(errs, c.Email)
	}
	return apperr.ValidationFields(errs)
}

func (in *UpdateInput) apply(b *models.Booking) {
	if in.Service != nil {
		b.Service = strings.TrimSpace(*in.Service)
	}
	if in.Hours != nil {
		b.Hours = *in.Hours
	}
	if in.Cleaners != nil {
		b.Cleaners = *in.Cleaners
	}
	if in.Materials != nil {
		b.Materials = models.Materials(*in.Materials)
	}
	if in.Date != nil {
		b.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		b.Time = strings.TrimSpace(*in.Time)
	}
	if in.Area != nil {
		b.Area = strings.TrimSpace(*in.Area)
	}
	if in.Address != nil {
		b.Address = *in.Address
	}
	if in.Client != nil {
		b.Client = in.Client.normalize()
	}
	if in.Notes != nil {
		b.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.TotalQAR != nil {
		b.TotalQAR = *in.TotalQAR
	}
	if in.Status != nil {
		b.Status = models.BookingStatus(*in.Status)
	}
}

func checkHours(errs apperr.FieldErrors, v float64) {
	if v < 1 {
		errs.Add("hours", "Hours must be at least 1")
	}
}

func checkCleaners(errs apperr.FieldErrors, v int) {
	if v < 1 {
		errs.Add("cleaners", "Must have at least 1 cleaner")
	}
}

func checkMaterials(errs apperr.FieldErrors, v string) {
	if !models.Materials(v).Valid() {
		errs.Add("materials", "Materials must be 'with' or 'without'")
	}
}

func checkDate(errs apperr.FieldErrors, v string) {
	if !datePattern.MatchString(strings.TrimSpace(v)) {
		errs.Add("date", "Date must be in YYYY-MM-DD format")
	}
}

func checkTotal(errs apperr.FieldErrors, v float64) {
	if v < 0 {
		errs.Add("totalQAR", "Total must be positive")
	}
}

func checkClientEmail(errs apperr.FieldErrors, v string) {
	if v != "" && !emailPattern.MatchString(v) {
		errs.Add("client.email", "Please provide a valid email address")
	}
}
