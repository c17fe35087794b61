package model

import (
	"slices"
)

// Record kinds
const (
	KindForma60      = "forma60"
	KindKarta        = "karta"
	KindDisinfection = "disinfection"
)

// Forma60 statuses
const (
	StatusNew                  = "new"
	StatusCardFilling          = "card_filling"
	StatusAwaitingDisinfection = "awaiting_disinfection"
	StatusCompleted            = "completed"
)

// Forma60Schema is the infectious-disease intake form.
var Forma60Schema = &Schema{
	Kind: KindForma60,
	Fields: map[string]FieldSpec{
		"fullName":             {Type: TypeString, Rule: "max=200", Label: "Full name"},
		"birthDate":            {Type: TypeDate, Label: "Date of birth"},
		"age":                  {Type: TypeInteger, Rule: "min=0,max=150", Label: "Age"},
		"address":              {Type: TypeObject, Label: "Address"},
		"workplace":            {Type: TypeObject, Label: "Workplace"},
		"illnessDate":          {Type: TypeDate, Label: "Date of illness onset"},
		"contactDate":          {Type: TypeDate, Label: "Date of first contact"},
		"hospitalizationDate":  {Type: TypeDate, Label: "Date of hospitalization"},
		"primaryDiagnosis":     {Type: TypeString, Rule: "max=500", Label: "Primary diagnosis"},
		"finalDiagnosis":       {Type: TypeString, Rule: "max=500", Label: "Final diagnosis"},
		"laboratoryResult":     {Type: TypeString, Rule: "max=500", Label: "Laboratory result"},
		"contactedPersons":     {Type: TypeList, Rule: "max=200", Label: "Contacted persons"},
		"epidemiologist":       {Type: TypeObject, Label: "Epidemiologist"},
		"lastWorkplaceVisit":   {Type: TypeDate, Label: "Last workplace visit"},
		"disinfectionRequired": {Type: TypeBool, Label: "Disinfection required"},
		"disinfectionStatus": {
			Type:  TypeString,
			Rule:  "oneof=required in_progress done not_required cancelled",
			Label: "Disinfection status",
		},
		"assignedToCardFiller": {Type: TypeString, Rule: "max=64", Label: "Assigned card filler"},
		"status": {
			Type:  TypeString,
			Rule:  "oneof=new card_filling awaiting_disinfection completed",
			Label: "Status",
		},
	},
}

// KartaSchema is the epidemiological investigation card filled from a forma60.
var KartaSchema = &Schema{
	Kind: KindKarta,
	Fields: map[string]FieldSpec{
		"forma60Id":     {Type: TypeString, Rule: "max=64", Label: "Intake form"},
		"patientStatus": {Type: TypeString, Rule: "oneof=student employed other", Label: "Patient status"},
		"educationType": {
			Type:  TypeString,
			Rule:  "oneof=kindergarten school university technical_school college",
			Label: "Education",
		},
		"workType": {Type: TypeString, Rule: "oneof=medical restaurant water_supply other", Label: "Type of work"},
		"transmissionFactor": {
			Type:  TypeString,
			Rule:  "oneof=water food dairy meat fish salad produce poultry_eggs pastry ice_cream infant_food contact airborne blood animal_product animal_vector household other",
			Label: "Transmission factor",
		},
		"infectionSource": {
			Type:  TypeString,
			Rule:  "oneof=home preschool school medical_facility catering other",
			Label: "Place of infection",
		},
		"laboratoryResults":  {Type: TypeObject, Label: "Laboratory results"},
		"outbreak":           {Type: TypeObject, Label: "Outbreak"},
		"contactsStatus":     {Type: TypeList, Rule: "max=200", Label: "Contacts"},
		"epidemiologistName": {Type: TypeString, Rule: "max=200", Label: "Epidemiologist"},
		"notes":              {Type: TypeString, Rule: "max=2000", Label: "Notes"},
		"status":             {Type: TypeString, Rule: "oneof=draft completed", Label: "Status"},
	},
}

// DisinfectionSchema is a disinfection task raised for a case.
var DisinfectionSchema = &Schema{
	Kind: KindDisinfection,
	Fields: map[string]FieldSpec{
		"forma60Id": {Type: TypeString, Rule: "max=64", Label: "Intake form"},
		"workplace": {Type: TypeObject, Label: "Workplace"},
		"status": {
			Type:  TypeString,
			Rule:  "oneof=required accepted in_progress done cancelled",
			Label: "Status",
		},
		"scheduledDate":    {Type: TypeDate, Label: "Scheduled date"},
		"completedDate":    {Type: TypeDate, Label: "Completed date"},
		"disinfector":      {Type: TypeString, Rule: "max=64", Label: "Disinfector"},
		"disinfectionType": {Type: TypeString, Rule: "oneof=focal current preventive final", Label: "Disinfection type"},
		"chemicals":        {Type: TypeList, Rule: "max=50", Label: "Chemicals"},
		"area":             {Type: TypeNumber, Rule: "min=0", Label: "Area (m²)"},
		"notes":            {Type: TypeString, Rule: "max=2000", Label: "Notes"},
	},
}

var schemas = map[string]*Schema{
	KindForma60:      Forma60Schema,
	KindKarta:        KartaSchema,
	KindDisinfection: DisinfectionSchema,
}

// LookupSchema returns the schema registered for kind.
func LookupSchema(kind string) (*Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// Kinds lists the registered record kinds in order.
func Kinds() []string {
	kinds := make([]string, 0, len(schemas))
	for k := range schemas {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
