package services

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driven"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

// Ensure RequirementService implements the interface.
var _ driving.RequirementService = (*RequirementService)(nil)

// DefaultRequirementCacheSize bounds the number of memoised selections.
const DefaultRequirementCacheSize = 128

// DefaultDeclarationURL is the portal page hosting every declaration template.
const DefaultDeclarationURL = "https://mahadbt.maharashtra.gov.in/"

// Declaration form IDs. They key the declarations.<id>.url config overrides.
const (
	DeclarationRationCard   = "ration_card"
	DeclarationNoRationCard = "no_ration_card"
	DeclarationOpenIncome   = "open_income"
	DeclarationCaste        = "caste"
	DeclarationMinority     = "minority"
)

// AllDeclarationIDs returns every declaration form ID.
func AllDeclarationIDs() []string {
	return []string{
		DeclarationRationCard,
		DeclarationNoRationCard,
		DeclarationOpenIncome,
		DeclarationCaste,
		DeclarationMinority,
	}
}

// DeclarationURLKey returns the config key overriding a form's download link.
func DeclarationURLKey(formID string) string {
	return "declarations." + formID + ".url"
}

// RequirementService memoises EvaluateRequirements and applies configured
// declaration links to each result.
type RequirementService struct {
	cache       *lru.Cache[string, *domain.RequirementResult]
	configStore driven.ConfigStore
}

// NewRequirementService creates a requirement service.
// configStore may be nil, in which case built-in declaration links are used.
func NewRequirementService(configStore driven.ConfigStore, cacheSize int) (*RequirementService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultRequirementCacheSize
	}
	cache, err := lru.New[string, *domain.RequirementResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create requirement cache: %w", err)
	}
	return &RequirementService{
		cache:       cache,
		configStore: configStore,
	}, nil
}

// Evaluate returns the checklist for a complete selection.
func (s *RequirementService) Evaluate(state domain.SelectionState) (*domain.RequirementResult, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if !state.Complete() {
		return nil, domain.ErrIncompleteSelection
	}

	key := state.Key()
	result, ok := s.cache.Get(key)
	if !ok {
		result = EvaluateRequirements(state)
		s.cache.Add(key, result)
		logger.Debug("requirements: evaluated %s (%d academic, %d government, %d hostel)",
			key, len(result.Academic), len(result.Government), len(result.Hostel))
	}

	out := result.Clone()
	s.applyDeclarationURLs(out)
	return out, nil
}

func (s *RequirementService) applyDeclarationURLs(r *domain.RequirementResult) {
	if s.configStore == nil {
		return
	}
	for i := range r.Declarations {
		if url := s.configStore.GetString(DeclarationURLKey(r.Declarations[i].ID)); url != "" {
			r.Declarations[i].DownloadURL = url
		}
	}
}

// requirementRule contributes documents to a result.
// Rules run in registration order; order within each list is significant.
type requirementRule struct {
	name  string
	apply func(s domain.SelectionState, r *domain.RequirementResult)
}

var requirementRules = []requirementRule{
	{"admission", admissionRule},
	{"school_marksheets", schoolMarksheetRule},
	{"allotment_letter", allotmentLetterRule},
	{"diploma_marksheet", diplomaMarksheetRule},
	{"academic_history", academicHistoryRule},
	{"identity", identityRule},
	{"income", incomeRule},
	{"caste", casteRule},
	{"domicile", domicileRule},
	{"hostel", hostelRule},
	{"choice_group", choiceGroupRule},
	{"declarations", declarationRule},
}

// EvaluateRequirements computes the checklist for a complete selection.
// It is pure: equal selections always yield equal results.
func EvaluateRequirements(state domain.SelectionState) *domain.RequirementResult {
	r := &domain.RequirementResult{
		Academic:     []domain.DocumentRequirement{},
		Government:   []domain.DocumentRequirement{},
		Hostel:       []domain.DocumentRequirement{},
		Declarations: []domain.DeclarationForm{},
	}
	for _, rule := range requirementRules {
		rule.apply(state, r)
	}
	return r
}

func doc(name string, badge domain.BadgeKind, file string) domain.DocumentRequirement {
	return domain.DocumentRequirement{Name: name, Badge: badge, FileNameHint: file}
}

// Academic documents.

func admissionRule(s domain.SelectionState, r *domain.RequirementResult) {
	if s.Category.UsesBonafideCertificate() {
		r.Academic = append(r.Academic,
			doc("Current Admission Bonafide Certificate", domain.BadgeNone, "Admission_Bonafide.pdf"))
		return
	}
	r.Academic = append(r.Academic,
		doc("Admission Bonafide + Fees Paid Receipt", domain.BadgeMergeRequired, "Admission_Receipt.pdf"))
}

func schoolMarksheetRule(_ domain.SelectionState, r *domain.RequirementResult) {
	r.Academic = append(r.Academic,
		doc("10th Marksheet", domain.BadgeNone, "10th_Marksheet.pdf"),
		doc("12th Marksheet", domain.BadgeNone, "12th_Marksheet.pdf"),
	)
}

func allotmentLetterRule(s domain.SelectionState, r *domain.RequirementResult) {
	var name string
	switch s.Stream {
	case domain.StreamEngineering:
		name = "College Allotment Letter (Engineering CAP)"
	case domain.StreamPharmacy:
		name = "College Allotment Letter (Pharmacy CAP)"
	case domain.StreamNursing:
		name = "College Allotment Letter (Nursing CET Cell)"
	case domain.StreamManagement:
		name = "College Allotment Letter (Management CAP)"
	default:
		return
	}
	r.Academic = append(r.Academic, doc(name, domain.BadgeNone, "College_Allotment_Letter.pdf"))
}

func diplomaMarksheetRule(s domain.SelectionState, r *domain.RequirementResult) {
	if s.IsDirectSecondYear() {
		r.Academic = append(r.Academic,
			doc("Diploma Final Year Marksheet", domain.BadgeOnePDF, "Diploma_Marksheet.pdf"))
	}
}

func academicHistoryRule(s domain.SelectionState, r *domain.RequirementResult) {
	if s.IsFresh() {
		if s.IsMasters() {
			r.Academic = append(r.Academic,
				doc("Graduation Final Marksheet", domain.BadgeNone, "Graduation_Final_Marksheet.pdf"),
				doc("Graduation TC", domain.BadgeNone, "Graduation_TC.pdf"),
			)
		} else {
			r.Academic = append(r.Academic,
				doc("Previous College TC / Leaving Certificate", domain.BadgeNone, "12th_TC.pdf"))
		}
		if s.HadGap {
			r.Academic = append(r.Academic, doc("Gap Certificate", domain.BadgeOnePDF, "Gap_Certificate.pdf"))
		}
		return
	}

	switch {
	case s.Course == domain.CourseDPharm:
		r.Academic = append(r.Academic, doc("1st Year Marksheet", domain.BadgeOnePDF, "1stYear_Marksheet.pdf"))
	case !s.IsDirectSecondYear():
		r.Academic = append(r.Academic, previousSemesterPair(s.CurrentYear))
	}

	if s.IsMasters() {
		r.Academic = append(r.Academic, doc("Graduation TC", domain.BadgeNone, "Graduation_TC.pdf"))
	} else {
		r.Academic = append(r.Academic, doc("Previous College TC / Leaving Certificate", domain.BadgeNone, "TC.pdf"))
	}
}

// previousSemesterPair returns the marksheet of the year before year.
// Year 2 needs Sem 1 + Sem 2, year 3 needs Sem 3 + Sem 4 and so on.
func previousSemesterPair(year int) domain.DocumentRequirement {
	second := 2 * (year - 1)
	first := second - 1
	return doc(
		fmt.Sprintf("Sem %d + Sem %d Marksheet", first, second),
		domain.BadgeMergeRequired,
		fmt.Sprintf("Sem%d_Sem%d_Marksheet.pdf", first, second),
	)
}

// Government documents.

func identityRule(_ domain.SelectionState, r *domain.RequirementResult) {
	r.Government = append(r.Government, doc("Aadhaar Card", domain.BadgeNone, "Aadhaar_Card.pdf"))
}

func incomeRule(s domain.SelectionState, r *domain.RequirementResult) {
	if s.IsFresh() || s.Category.RequiresIncomeOnRenewal() {
		r.Government = append(r.Government, doc("Income Certificate", domain.BadgeNone, "Income_Certificate.pdf"))
	}
}

func casteRule(s domain.SelectionState, r *domain.RequirementResult) {
	if !s.Category.RequiresCasteCertificate() {
		return
	}
	r.Government = append(r.Government, doc("Caste Certificate", domain.BadgeNone, "Caste_Certificate.pdf"))

	if s.IsProfessional() && s.Category.NeedsNonCreamyLayer() {
		r.Government = append(r.Government,
			doc("Non-Creamy Layer Certificate", domain.BadgeIfAvailable, "NCL_Certificate.pdf"))
	}

	badge := domain.BadgeOptional
	switch {
	case s.Course.RequiresCasteValidity():
		badge = domain.BadgeMandatory
	case s.IsProfessional():
		badge = domain.BadgeIfAvailable
	}
	r.Government = append(r.Government, doc("Caste Validity Certificate", badge, "Caste_Validity.pdf"))
}

func domicileRule(_ domain.SelectionState, r *domain.RequirementResult) {
	r.Government = append(r.Government, doc("Domicile Certificate", domain.BadgeNone, "Domicile_Certificate.pdf"))
}

// Hostel documents.

func hostelRule(s domain.SelectionState, r *domain.RequirementResult) {
	if s.HasHostelDocuments() {
		r.Hostel = append(r.Hostel,
			doc("Hostel Bond + Hostel Fees Receipt", domain.BadgeMergeRequired, "Hostel_Certificate.pdf"))
	}
}

func choiceGroupRule(s domain.SelectionState, r *domain.RequirementResult) {
	if !s.HasChoiceGroup() {
		return
	}
	r.ChoiceGroup = []domain.DocumentRequirement{
		doc("Registered Labour Certificate (Parent)", domain.BadgeAnyOneRequired, "Labour_Certificate.pdf"),
		doc("Marginal Land Holder Certificate (Alpabhudharak)", domain.BadgeAnyOneRequired, "Alpabhudharak_Certificate.pdf"),
	}
}

// Declaration forms.

func declarationRule(s domain.SelectionState, r *domain.RequirementResult) {
	switch {
	case s.Category == domain.CategoryOpen && s.Hosteller:
		r.Declarations = append(r.Declarations,
			domain.DeclarationForm{
				ID:                DeclarationRationCard,
				Title:             "Ration Card Declaration",
				Instruction:       "Fill in the family members listed on the ration card, sign and upload.",
				SuggestedFileName: "Ration_Card_Declaration.pdf",
				DownloadURL:       DefaultDeclarationURL,
			},
			domain.DeclarationForm{
				ID:                DeclarationNoRationCard,
				Title:             "No Ration Card Declaration",
				Instruction:       "Use this form only if the family has no ration card.",
				SuggestedFileName: "No_Ration_Card_Declaration.pdf",
				DownloadURL:       DefaultDeclarationURL,
			},
		)
	case s.Category == domain.CategoryOpen:
		r.Declarations = append(r.Declarations, domain.DeclarationForm{
			ID:                DeclarationOpenIncome,
			Title:             "Family Income Self Declaration",
			Instruction:       "Declare the annual family income from all sources and sign.",
			SuggestedFileName: "Income_Declaration.pdf",
			DownloadURL:       DefaultDeclarationURL,
		})
	case s.Category == domain.CategoryMinority:
		r.Declarations = append(r.Declarations, domain.DeclarationForm{
			ID:                DeclarationMinority,
			Title:             "Minority Community Declaration",
			Instruction:       "State the minority community on the form and sign it on plain paper.",
			SuggestedFileName: "Minority_Declaration.pdf",
			DownloadURL:       DefaultDeclarationURL,
		})
	case s.Category.IsValid():
		r.Declarations = append(r.Declarations, domain.DeclarationForm{
			ID:    DeclarationCaste,
			Title: "Caste Self Declaration",
			Instruction: fmt.Sprintf("Write %q as the category and give the caste exactly as on the caste certificate.",
				s.Category.Description()),
			SuggestedFileName: "Caste_Declaration.pdf",
			DownloadURL:       DefaultDeclarationURL,
		})
	}
}
