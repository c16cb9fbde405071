package domain

// BadgeKind marks a document with an upload hint.
// The set is closed; every kind has display metadata in Meta.
type BadgeKind string

// Available badge kinds. BadgeNone means the document carries no badge.
const (
	BadgeNone           BadgeKind = ""
	BadgeMergeRequired  BadgeKind = "merge_required"
	BadgeOnePDF         BadgeKind = "one_pdf"
	BadgeOptional       BadgeKind = "optional"
	BadgeIfAvailable    BadgeKind = "if_available"
	BadgeAnyOneRequired BadgeKind = "any_one_required"
	BadgeMandatory      BadgeKind = "mandatory"
)

// AllBadgeKinds returns every badge kind except BadgeNone.
func AllBadgeKinds() []BadgeKind {
	return []BadgeKind{
		BadgeMergeRequired,
		BadgeOnePDF,
		BadgeOptional,
		BadgeIfAvailable,
		BadgeAnyOneRequired,
		BadgeMandatory,
	}
}

// BadgeTone is the visual emphasis of a badge.
type BadgeTone int

// Available tones.
const (
	ToneInfo BadgeTone = iota
	ToneMuted
	ToneWarning
	ToneCritical
)

// BadgeMeta is the display metadata for a badge.
type BadgeMeta struct {
	Label string
	Tone  BadgeTone
}

// Meta returns the display metadata for the badge.
// The boolean is false for BadgeNone and unknown kinds.
func (b BadgeKind) Meta() (BadgeMeta, bool) {
	switch b {
	case BadgeMergeRequired:
		return BadgeMeta{Label: "Merge Required", Tone: ToneWarning}, true
	case BadgeOnePDF:
		return BadgeMeta{Label: "One PDF", Tone: ToneInfo}, true
	case BadgeOptional:
		return BadgeMeta{Label: "Optional", Tone: ToneMuted}, true
	case BadgeIfAvailable:
		return BadgeMeta{Label: "If Available", Tone: ToneMuted}, true
	case BadgeAnyOneRequired:
		return BadgeMeta{Label: "Any One Required", Tone: ToneWarning}, true
	case BadgeMandatory:
		return BadgeMeta{Label: "Mandatory", Tone: ToneCritical}, true
	case BadgeNone:
		return BadgeMeta{}, false
	}
	return BadgeMeta{}, false
}

// IsValid returns true for BadgeNone and every known kind.
func (b BadgeKind) IsValid() bool {
	if b == BadgeNone {
		return true
	}
	_, ok := b.Meta()
	return ok
}

// String returns the string representation.
func (b BadgeKind) String() string {
	return string(b)
}

// DocumentRequirement is one line of the checklist.
type DocumentRequirement struct {
	Name         string    `json:"name"`
	Badge        BadgeKind `json:"badge,omitempty"`
	FileNameHint string    `json:"file_name_hint,omitempty"`
}

// DeclarationForm is a self-declaration template the student downloads and signs.
type DeclarationForm struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Instruction       string `json:"instruction"`
	SuggestedFileName string `json:"suggested_file_name"`
	DownloadURL       string `json:"download_url"`
}

// RequirementResult is the full checklist for a selection.
// ChoiceGroup is nil when no "any one of" group applies.
type RequirementResult struct {
	Academic     []DocumentRequirement `json:"academic"`
	Government   []DocumentRequirement `json:"government"`
	Hostel       []DocumentRequirement `json:"hostel"`
	ChoiceGroup  []DocumentRequirement `json:"choice_group,omitempty"`
	Declarations []DeclarationForm     `json:"declarations"`
}

// HasChoiceGroup returns true when the "any one of" group is present.
func (r *RequirementResult) HasChoiceGroup() bool {
	return len(r.ChoiceGroup) > 0
}

// Clone returns a deep copy so callers cannot mutate a shared result.
func (r *RequirementResult) Clone() *RequirementResult {
	if r == nil {
		return nil
	}
	return &RequirementResult{
		Academic:     cloneDocs(r.Academic),
		Government:   cloneDocs(r.Government),
		Hostel:       cloneDocs(r.Hostel),
		ChoiceGroup:  cloneDocs(r.ChoiceGroup),
		Declarations: cloneForms(r.Declarations),
	}
}

// FileNames returns every distinct file name hint in checklist order.
func (r *RequirementResult) FileNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, group := range [][]DocumentRequirement{r.Academic, r.Government, r.Hostel, r.ChoiceGroup} {
		for _, d := range group {
			add(d.FileNameHint)
		}
	}
	for _, f := range r.Declarations {
		add(f.SuggestedFileName)
	}
	return names
}

func cloneDocs(docs []DocumentRequirement) []DocumentRequirement {
	if docs == nil {
		return nil
	}
	out := make([]DocumentRequirement, len(docs))
	copy(out, docs)
	return out
}

func cloneForms(forms []DeclarationForm) []DeclarationForm {
	if forms == nil {
		return nil
	}
	out := make([]DeclarationForm, len(forms))
	copy(out, forms)
	return out
}
