package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MatchMode controls how the containment pass of Lookup compares a label
// against aliases once the exact pass has failed.
type MatchMode int

const (
	// MatchWords requires the shorter string to appear in the longer one on
	// whole-word boundaries. "name" matches "applicant name" but not "surname".
	MatchWords MatchMode = iota
	// MatchSubstring is plain bidirectional substring containment.
	MatchSubstring
)

// ParseMatchMode maps a config value to a MatchMode. Unknown values fall back
// to MatchWords.
func ParseMatchMode(s string) MatchMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "substring", "legacy":
		return MatchSubstring
	default:
		return MatchWords
	}
}

func (m MatchMode) String() string {
	if m == MatchSubstring {
		return "substring"
	}
	return "words"
}

// minContainmentLen is the normalized label length a label must exceed before
// the containment pass is attempted.
const minContainmentLen = 3

// Entry is one canonical field and the label variants that resolve to it.
type Entry struct {
	ID      string
	Aliases []string
	// Multiline fields span several physical lines (an address block) and are
	// collected by a dedicated scan rather than the label/value line pattern.
	Multiline bool
}

// Dictionary is an immutable, ordered set of canonical entries. Declaration
// order is the tie-break whenever more than one entry matches a label.
type Dictionary struct {
	entries []Entry
	// normalized aliases, parallel to entries
	aliases [][]string
	exact   map[string]int
	byID    map[string]int
}

// NewDictionary validates entries and precomputes normalized aliases.
func NewDictionary(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		entries: make([]Entry, len(entries)),
		aliases: make([][]string, len(entries)),
		exact:   make(map[string]int),
		byID:    make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("dictionary entry %d has empty id", i)
		}
		if _, dup := d.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate dictionary id %q", e.ID)
		}
		d.byID[e.ID] = i

		e.Aliases = append([]string(nil), e.Aliases...)
		d.entries[i] = e
		for _, alias := range e.Aliases {
			norm := normalizeLabel(alias)
			if norm == "" {
				continue
			}
			d.aliases[i] = append(d.aliases[i], norm)
			if _, taken := d.exact[norm]; !taken {
				d.exact[norm] = i
			}
		}
	}
	return d, nil
}

// Entries returns a copy of the dictionary entries in declaration order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Entry returns the entry for a canonical id.
func (d *Dictionary) Entry(id string) (Entry, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Lookup resolves a free-text label to a canonical id.
func (d *Dictionary) Lookup(label string, mode MatchMode) (string, bool) {
	norm := normalizeLabel(label)
	if norm == "" {
		return "", false
	}
	if i, ok := d.exact[norm]; ok {
		return d.entries[i].ID, true
	}
	if utf8.RuneCountInString(norm) <= minContainmentLen {
		return "", false
	}
	for i, aliases := range d.aliases {
		for _, alias := range aliases {
			if contains(norm, alias, mode) || contains(alias, norm, mode) {
				return d.entries[i].ID, true
			}
		}
	}
	return "", false
}

func contains(hay, needle string, mode MatchMode) bool {
	if mode == MatchSubstring {
		return strings.Contains(hay, needle)
	}
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}

var defaultDictionary = mustDictionary(defaultEntries)

// DefaultDictionary returns the built-in dictionary of identity-document and
// application-form fields.
func DefaultDictionary() *Dictionary {
	return defaultDictionary
}

func mustDictionary(entries []Entry) *Dictionary {
	d, err := NewDictionary(entries)
	if err != nil {
		panic(err)
	}
	return d
}

// Relative-name entries come before full_name so that "Father's Name" does not
// resolve through the generic "name" alias.
var defaultEntries = []Entry{
	{ID: "aadhaar_number", Aliases: []string{
		"aadhaar number", "aadhaar no", "aadhaar", "aadhar number", "aadhar no", "aadhar",
		"uid", "uid number", "uid no", "आधार संख्या", "आधार नंबर", "आधार",
	}},
	{ID: "pan_number", Aliases: []string{
		"pan number", "pan no", "pan", "pan card number", "permanent account number", "पैन",
	}},
	{ID: "voter_id", Aliases: []string{
		"voter id", "voter id number", "voter card number", "epic number", "epic no",
		"elector photo identity card",
	}},
	{ID: "passport_number", Aliases: []string{
		"passport number", "passport no", "passport",
	}},
	{ID: "driving_licence_number", Aliases: []string{
		"driving licence number", "driving license number", "driving licence", "driving license",
		"dl number", "dl no", "licence number", "license number", "licence no", "license no",
	}},
	{ID: "father_name", Aliases: []string{
		"fathers name", "father name", "fathers full name", "father", "s o",
		"pita ka naam", "पिता का नाम",
	}},
	{ID: "mother_name", Aliases: []string{
		"mothers name", "mother name", "mothers full name", "mother", "mata ka naam", "माता का नाम",
	}},
	{ID: "spouse_name", Aliases: []string{
		"spouses name", "spouse name", "spouse", "husbands name", "husband name",
		"wifes name", "wife name", "w o", "pati ka naam", "पति का नाम",
	}},
	{ID: "guardian_name", Aliases: []string{
		"guardians name", "guardian name", "guardian", "c o",
	}},
	{ID: "bank_name", Aliases: []string{
		"bank name", "name of bank", "name of the bank", "bank",
	}},
	{ID: "full_name", Aliases: []string{
		"full name", "name", "applicant name", "name of applicant", "name of the applicant",
		"candidate name", "applicant", "name in full", "naam", "poora naam", "नाम", "पूरा नाम",
	}},
	{ID: "gender", Aliases: []string{
		"gender", "sex", "ling", "लिंग",
	}},
	{ID: "date_of_birth", Aliases: []string{
		"date of birth", "dob", "d o b", "birth date", "birthdate", "janm tithi", "janam tithi",
		"जन्म तिथि", "जन्मतिथि",
	}},
	{ID: "age", Aliases: []string{
		"age", "aayu", "umar", "आयु", "उम्र",
	}},
	{ID: "mobile_number", Aliases: []string{
		"mobile number", "mobile no", "mobile", "mobile phone", "mob no", "phone", "phone number",
		"phone no", "contact number", "contact no", "telephone", "cell", "मोबाइल नंबर", "मोबाइल",
	}},
	{ID: "email", Aliases: []string{
		"email", "e mail", "email id", "email address", "mail id", "ईमेल",
	}},
	{ID: "address", Multiline: true, Aliases: []string{
		"address", "permanent address", "residential address", "correspondence address",
		"present address", "current address", "residence", "addr", "pata", "पता",
	}},
	{ID: "city", Aliases: []string{
		"city", "town", "village", "city town village", "city town", "shahar", "शहर",
	}},
	{ID: "district", Aliases: []string{
		"district", "zila", "jila", "जिला",
	}},
	{ID: "state", Aliases: []string{
		"state", "rajya", "राज्य",
	}},
	{ID: "pincode", Aliases: []string{
		"pincode", "pin code", "pin", "postal code", "zip", "zip code", "postcode", "पिन कोड", "पिनकोड",
	}},
	{ID: "nationality", Aliases: []string{
		"nationality", "citizenship", "राष्ट्रीयता",
	}},
	{ID: "occupation", Aliases: []string{
		"occupation", "profession", "employment", "vyavsay", "व्यवसाय",
	}},
	{ID: "annual_income", Aliases: []string{
		"annual income", "income", "yearly income", "family income", "वार्षिक आय", "आय",
	}},
	{ID: "bank_account_number", Aliases: []string{
		"bank account number", "bank account no", "account number", "account no",
		"bank ac no", "bank a c no", "ac no", "a c no", "ac number",
	}},
	{ID: "ifsc_code", Aliases: []string{
		"ifsc code", "ifsc", "ifsc no",
	}},
	{ID: "blood_group", Aliases: []string{
		"blood group", "blood type",
	}},
	{ID: "marital_status", Aliases: []string{
		"marital status", "vaivahik sthiti", "वैवाहिक स्थिति",
	}},
	{ID: "category", Aliases: []string{
		"category", "caste category", "caste", "jati", "जाति",
	}},
}
