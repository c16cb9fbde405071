package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const unknownDescription = "Unknown"

// Stream is the top-level academic track.
type Stream string

// Available streams.
const (
	StreamEngineering Stream = "engineering"
	StreamPharmacy    Stream = "pharmacy"
	StreamNursing     Stream = "nursing"
	StreamManagement  Stream = "management"

	// StreamASC covers Arts, Science and Commerce.
	StreamASC Stream = "asc"
)

// AllStreams returns every stream in wizard order.
func AllStreams() []Stream {
	return []Stream{
		StreamEngineering,
		StreamPharmacy,
		StreamNursing,
		StreamManagement,
		StreamASC,
	}
}

// IsValid returns true if the stream is recognised.
func (s Stream) IsValid() bool {
	switch s {
	case StreamEngineering, StreamPharmacy, StreamNursing, StreamManagement, StreamASC:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Stream) String() string {
	return string(s)
}

// Description returns a human-readable label.
func (s Stream) Description() string {
	switch s {
	case StreamEngineering:
		return "Engineering"
	case StreamPharmacy:
		return "Pharmacy"
	case StreamNursing:
		return "Nursing"
	case StreamManagement:
		return "Management"
	case StreamASC:
		return "Arts / Science / Commerce"
	default:
		return unknownDescription
	}
}

// Courses returns the courses a student must pick from for this stream.
// Engineering and Nursing have an implicit single course and return nil.
func (s Stream) Courses() []CourseType {
	switch s {
	case StreamPharmacy:
		return []CourseType{CourseBPharm, CourseDPharm, CourseMPharm}
	case StreamManagement:
		return []CourseType{CourseBBA, CourseBCA, CourseMBA, CourseMCA}
	case StreamASC:
		return []CourseType{CourseBA, CourseBSc, CourseBCom, CourseMA, CourseMSc, CourseMCom}
	default:
		return nil
	}
}

// HasCourseChoice returns true if the wizard must ask for a course.
func (s Stream) HasCourseChoice() bool {
	return len(s.Courses()) > 0
}

// IsProfessional returns true for every stream except Arts/Science/Commerce.
func (s Stream) IsProfessional() bool {
	return s.IsValid() && s != StreamASC
}

// CourseType is a concrete course within a stream.
type CourseType string

// Available courses.
const (
	CourseBPharm CourseType = "bpharm"
	CourseDPharm CourseType = "dpharm"
	CourseMPharm CourseType = "mpharm"
	CourseBBA    CourseType = "bba"
	CourseBCA    CourseType = "bca"
	CourseMBA    CourseType = "mba"
	CourseMCA    CourseType = "mca"
	CourseBA     CourseType = "ba"
	CourseBSc    CourseType = "bsc"
	CourseBCom   CourseType = "bcom"
	CourseMA     CourseType = "ma"
	CourseMSc    CourseType = "msc"
	CourseMCom   CourseType = "mcom"
)

// AllCourseTypes returns every course in wizard order.
func AllCourseTypes() []CourseType {
	var all []CourseType
	for _, s := range AllStreams() {
		all = append(all, s.Courses()...)
	}
	return all
}

// IsValid returns true if the course is recognised.
func (c CourseType) IsValid() bool {
	return c.Stream() != ""
}

// String returns the string representation.
func (c CourseType) String() string {
	return string(c)
}

// Description returns the label shown to students.
func (c CourseType) Description() string {
	switch c {
	case CourseBPharm:
		return "B-Pharmacy (Degree)"
	case CourseDPharm:
		return "D-Pharmacy (Diploma)"
	case CourseMPharm:
		return "M-Pharmacy (Post-Grad)"
	case CourseBBA:
		return "BBA (Management)"
	case CourseBCA:
		return "BCA (Computer Apps)"
	case CourseMBA:
		return "MBA (Management)"
	case CourseMCA:
		return "MCA (Computer Apps)"
	case CourseBA:
		return "Bachelor of Arts (BA)"
	case CourseBSc:
		return "Bachelor of Science (BSc)"
	case CourseBCom:
		return "Bachelor of Commerce (BCom)"
	case CourseMA:
		return "Master of Arts (MA)"
	case CourseMSc:
		return "Master of Science (MSc)"
	case CourseMCom:
		return "Master of Commerce (MCom)"
	default:
		return unknownDescription
	}
}

// Stream returns the stream a course belongs to, or "" if unknown.
func (c CourseType) Stream() Stream {
	switch c {
	case CourseBPharm, CourseDPharm, CourseMPharm:
		return StreamPharmacy
	case CourseBBA, CourseBCA, CourseMBA, CourseMCA:
		return StreamManagement
	case CourseBA, CourseBSc, CourseBCom, CourseMA, CourseMSc, CourseMCom:
		return StreamASC
	default:
		return ""
	}
}

// IsMasters returns true for post-graduate courses.
func (c CourseType) IsMasters() bool {
	switch c {
	case CourseMPharm, CourseMBA, CourseMCA, CourseMA, CourseMSc, CourseMCom:
		return true
	default:
		return false
	}
}

// DurationYears returns the number of academic years for the course.
// An empty course (Engineering, Nursing) is a four year programme.
func (c CourseType) DurationYears() int {
	switch c {
	case CourseMPharm, CourseMBA, CourseMCA, CourseDPharm, CourseMA, CourseMSc, CourseMCom:
		return 2
	case CourseBA, CourseBSc, CourseBCom:
		return 3
	default:
		return 4
	}
}

// RequiresCasteValidity returns true when the caste validity certificate is mandatory.
func (c CourseType) RequiresCasteValidity() bool {
	switch c {
	case CourseMBA, CourseMCA, CourseMSc, CourseMCom:
		return true
	default:
		return false
	}
}

// Category is the government reservation category of the applicant.
type Category string

// Available categories.
const (
	CategoryOpen     Category = "open"
	CategoryOBC      Category = "obc"
	CategorySC       Category = "sc"
	CategoryST       Category = "st"
	CategorySBC      Category = "sbc"
	CategoryVJNT     Category = "vjnt"
	CategorySEBC     Category = "sebc"
	CategoryMinority Category = "minority"
)

// AllCategories returns every category in wizard order.
func AllCategories() []Category {
	return []Category{
		CategoryOpen,
		CategoryOBC,
		CategorySC,
		CategoryST,
		CategorySBC,
		CategoryVJNT,
		CategorySEBC,
		CategoryMinority,
	}
}

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryOpen, CategoryOBC, CategorySC, CategoryST,
		CategorySBC, CategoryVJNT, CategorySEBC, CategoryMinority:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Description returns a human-readable label.
func (c Category) Description() string {
	switch c {
	case CategoryOpen:
		return "Open / General"
	case CategoryOBC:
		return "OBC"
	case CategorySC:
		return "SC"
	case CategoryST:
		return "ST"
	case CategorySBC:
		return "SBC"
	case CategoryVJNT:
		return "VJNT"
	case CategorySEBC:
		return "SEBC"
	case CategoryMinority:
		return "Minority"
	default:
		return unknownDescription
	}
}

// UsesBonafideCertificate returns true for categories that submit the plain
// bonafide certificate instead of the merged bonafide and fee receipt.
func (c Category) UsesBonafideCertificate() bool {
	switch c {
	case CategorySC, CategoryST, CategorySBC, CategoryVJNT:
		return true
	default:
		return false
	}
}

// RequiresIncomeOnRenewal returns true when the income certificate is needed
// even for renewal applications.
func (c Category) RequiresIncomeOnRenewal() bool {
	switch c {
	case CategoryOpen, CategorySEBC, CategoryMinority:
		return true
	default:
		return false
	}
}

// RequiresCasteCertificate returns true for every reserved category.
func (c Category) RequiresCasteCertificate() bool {
	return c.IsValid() && c != CategoryOpen && c != CategoryMinority
}

// NeedsNonCreamyLayer returns true for categories with a creamy-layer cut-off.
func (c Category) NeedsNonCreamyLayer() bool {
	switch c {
	case CategoryOBC, CategorySEBC, CategorySBC, CategoryVJNT:
		return true
	default:
		return false
	}
}

// HostelEligible returns true for categories with a hostel allowance scheme.
func (c Category) HostelEligible() bool {
	switch c {
	case CategoryOpen, CategorySC, CategoryST, CategorySBC, CategoryVJNT:
		return true
	default:
		return false
	}
}

// LoginReadiness is the portal login checklist. It gates the wizard
// but never affects which documents are required.
type LoginReadiness struct {
	Username bool `json:"username"`
	Password bool `json:"password"`
	Mobile   bool `json:"mobile"`
}

// Ready returns true when every item is ticked.
func (l LoginReadiness) Ready() bool {
	return l.Username && l.Password && l.Mobile
}

// SelectionState is a snapshot of the student's answers.
// Zero values mean "not chosen yet": an empty Stream, Course or Category,
// CurrentYear 0 and a nil DirectSecondYear.
type SelectionState struct {
	Stream           Stream         `json:"stream,omitempty"`
	Course           CourseType     `json:"course,omitempty"`
	Category         Category       `json:"category,omitempty"`
	CurrentYear      int            `json:"current_year,omitempty"`
	HadGap           bool           `json:"had_gap"`
	Hosteller        bool           `json:"hosteller"`
	DirectSecondYear *bool          `json:"direct_second_year,omitempty"`
	Login            LoginReadiness `json:"login"`
}

// IsFresh returns true for a first-year (fresh admission) application.
func (s SelectionState) IsFresh() bool {
	return s.CurrentYear == 1
}

// IsRenewal returns true for any application beyond the first year.
func (s SelectionState) IsRenewal() bool {
	return s.CurrentYear > 1
}

// IsMasters returns true when the chosen course is post-graduate.
func (s SelectionState) IsMasters() bool {
	return s.Course.IsMasters()
}

// IsASC returns true for the Arts/Science/Commerce stream.
func (s SelectionState) IsASC() bool {
	return s.Stream == StreamASC
}

// IsProfessional returns true for every chosen stream except ASC.
func (s SelectionState) IsProfessional() bool {
	return s.Stream.IsProfessional()
}

// YearCap returns the highest selectable year for the chosen course.
func (s SelectionState) YearCap() int {
	return s.Course.DurationYears()
}

// HostelEligible returns true when the hostel question applies.
func (s SelectionState) HostelEligible() bool {
	return s.IsProfessional() && s.Category.HostelEligible()
}

// HasHostelDocuments returns true when the hostel bond must be submitted.
func (s SelectionState) HasHostelDocuments() bool {
	return s.Hosteller && s.HostelEligible()
}

// HasChoiceGroup returns true when the "any one of" documents apply.
func (s SelectionState) HasChoiceGroup() bool {
	return s.Category == CategoryOpen && s.Hosteller
}

// DirectSecondYearApplicable returns true when lateral entry can be declared.
func (s SelectionState) DirectSecondYearApplicable() bool {
	return s.Course == CourseBPharm && s.CurrentYear == 2
}

// IsDirectSecondYear returns true only when lateral entry was declared.
func (s SelectionState) IsDirectSecondYear() bool {
	return s.DirectSecondYear != nil && *s.DirectSecondYear
}

// Complete returns true when the requirement rules may be evaluated.
func (s SelectionState) Complete() bool {
	if !s.Stream.IsValid() || !s.Category.IsValid() || s.CurrentYear < 1 {
		return false
	}
	if s.Stream.HasCourseChoice() && s.Course == "" {
		return false
	}
	return true
}

// Validate checks the selection invariants. Incomplete selections are valid;
// only contradictory ones fail.
func (s SelectionState) Validate() error {
	if s.Stream != "" && !s.Stream.IsValid() {
		return fmt.Errorf("%w: unknown stream %q", ErrInvalidSelection, s.Stream)
	}
	if s.Course != "" {
		if !s.Course.IsValid() {
			return fmt.Errorf("%w: unknown course %q", ErrInvalidSelection, s.Course)
		}
		if s.Course.Stream() != s.Stream {
			return fmt.Errorf("%w: course %s is not offered in stream %s",
				ErrInvalidSelection, s.Course, s.Stream)
		}
	}
	if s.Category != "" && !s.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidSelection, s.Category)
	}
	if s.CurrentYear < 0 || s.CurrentYear > s.YearCap() {
		return fmt.Errorf("%w: year %d outside 1..%d", ErrInvalidSelection, s.CurrentYear, s.YearCap())
	}
	if s.DirectSecondYear != nil && !s.DirectSecondYearApplicable() {
		return fmt.Errorf("%w: direct second year only applies to B-Pharmacy year 2", ErrInvalidSelection)
	}
	if s.Hosteller && !s.HostelEligible() {
		return fmt.Errorf("%w: hostel allowance not available for this stream and category", ErrInvalidSelection)
	}
	return nil
}

// Key returns a canonical string identifying every field the requirement
// rules read. Equal keys always produce equal results.
func (s SelectionState) Key() string {
	dsy := "-"
	if s.DirectSecondYear != nil {
		dsy = strconv.FormatBool(*s.DirectSecondYear)
	}
	return strings.Join([]string{
		string(s.Stream),
		string(s.Course),
		string(s.Category),
		strconv.Itoa(s.CurrentYear),
		strconv.FormatBool(s.HadGap),
		strconv.FormatBool(s.Hosteller),
		dsy,
	}, "|")
}

// Pills returns the short summary tags shown above the checklist.
func (s SelectionState) Pills() []string {
	first := s.Stream.Description()
	if s.Course != "" {
		first = s.Course.Description()
	}
	kind := "Fresh Application"
	if s.IsRenewal() {
		kind = "Renewal Application"
	}
	return []string{
		first,
		s.Category.Description(),
		fmt.Sprintf("%d Year", s.CurrentYear),
		kind,
	}
}

// BoolPtr returns a pointer to b. It keeps tri-state fields readable at call sites.
func BoolPtr(b bool) *bool {
	return &b
}
