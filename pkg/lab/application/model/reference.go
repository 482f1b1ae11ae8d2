package model

type Parameter = string

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = ""
)

type Status string

const (
	StatusNormal Status = "normal"
	StatusLow    Status = "low"
	StatusHigh   Status = "high"
)

type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityAbnormal Severity = "abnormal"
	SeverityCritical Severity = "critical"
)

type Bounds struct {
	Min float64
	Max float64
}

// ReferenceRange describes the laboratory reference interval for one
// parameter. Male/Female override Min/Max when the patient gender is known.
// Critical bounds are gender-independent.
type ReferenceRange struct {
	Name         string
	Unit         string
	Min          float64
	Max          float64
	Male         *Bounds
	Female       *Bounds
	CriticalLow  float64
	CriticalHigh float64
}

func (r ReferenceRange) BoundsFor(gender Gender) Bounds {
	switch gender {
	case GenderMale:
		if r.Male != nil {
			return *r.Male
		}
	case GenderFemale:
		if r.Female != nil {
			return *r.Female
		}
	}
	return Bounds{Min: r.Min, Max: r.Max}
}

type Classification struct {
	Status   Status
	Severity Severity
}

type RangeCatalog map[Parameter]ReferenceRange

func (c RangeCatalog) Lookup(param Parameter) (ReferenceRange, bool) {
	r, ok := c[param]
	return r, ok
}

// Classify grades a measured value against the reference interval for the
// given gender. Values outside the critical bounds keep their low/high
// direction but are graded with critical severity.
func (c RangeCatalog) Classify(param Parameter, value float64, gender Gender) (Classification, bool) {
	r, ok := c[param]
	if !ok {
		return Classification{}, false
	}
	bounds := r.BoundsFor(gender)
	switch {
	case value < r.CriticalLow:
		return Classification{Status: StatusLow, Severity: SeverityCritical}, true
	case value > r.CriticalHigh:
		return Classification{Status: StatusHigh, Severity: SeverityCritical}, true
	case value < bounds.Min:
		return Classification{Status: StatusLow, Severity: SeverityAbnormal}, true
	case value > bounds.Max:
		return Classification{Status: StatusHigh, Severity: SeverityAbnormal}, true
	}
	return Classification{Status: StatusNormal, Severity: SeverityNormal}, true
}

const (
	ParamHemoglobin          Parameter = "hemoglobin"
	ParamErythrocytes        Parameter = "rbc"
	ParamLeukocytes          Parameter = "wbc"
	ParamPlatelets           Parameter = "plt"
	ParamHematocrit          Parameter = "hematocrit"
	ParamESR                 Parameter = "esr"
	ParamGlucose             Parameter = "glucose"
	ParamCreatinine          Parameter = "creatinine"
	ParamUrea                Parameter = "urea"
	ParamTotalBilirubin      Parameter = "total_bilirubin"
	ParamALT                 Parameter = "alt"
	ParamAST                 Parameter = "ast"
	ParamTotalCholesterol    Parameter = "total_cholesterol"
	ParamTotalProtein        Parameter = "total_protein"
	ParamAlbumin             Parameter = "albumin"
	ParamLDH                 Parameter = "ldh"
	ParamAlkalinePhosphatase Parameter = "alkaline_phosphatase"
)

func DefaultCatalog() RangeCatalog {
	return RangeCatalog{
		ParamHemoglobin: {
			Name: "Hemoglobin (Hb)", Unit: "g/L", Min: 120, Max: 160,
			Male: &Bounds{130, 160}, Female: &Bounds{120, 150},
			CriticalLow: 70, CriticalHigh: 200,
		},
		ParamErythrocytes: {
			Name: "Erythrocytes (RBC)", Unit: "x10^12/L", Min: 4.0, Max: 5.5,
			Male: &Bounds{4.3, 5.7}, Female: &Bounds{3.8, 5.1},
			CriticalLow: 2.0, CriticalHigh: 7.0,
		},
		ParamLeukocytes: {
			Name: "Leukocytes (WBC)", Unit: "x10^9/L", Min: 4.0, Max: 9.0,
			CriticalLow: 1.0, CriticalHigh: 30.0,
		},
		ParamPlatelets: {
			Name: "Platelets (PLT)", Unit: "x10^9/L", Min: 180, Max: 320,
			CriticalLow: 50, CriticalHigh: 1000,
		},
		ParamHematocrit: {
			Name: "Hematocrit (HCT)", Unit: "%", Min: 36, Max: 48,
			Male: &Bounds{39, 49}, Female: &Bounds{35, 45},
			CriticalLow: 20, CriticalHigh: 60,
		},
		ParamESR: {
			Name: "ESR", Unit: "mm/h", Min: 2, Max: 15,
			Male: &Bounds{2, 10}, Female: &Bounds{2, 15},
			CriticalLow: 0, CriticalHigh: 100,
		},
		ParamGlucose: {
			Name: "Glucose", Unit: "mmol/L", Min: 3.9, Max: 5.9,
			CriticalLow: 2.5, CriticalHigh: 25.0,
		},
		ParamCreatinine: {
			Name: "Creatinine", Unit: "umol/L", Min: 62, Max: 106,
			Male: &Bounds{80, 115}, Female: &Bounds{53, 97},
			CriticalLow: 30, CriticalHigh: 500,
		},
		ParamUrea: {
			Name: "Urea", Unit: "mmol/L", Min: 2.5, Max: 8.3,
			CriticalLow: 1.0, CriticalHigh: 50.0,
		},
		ParamTotalBilirubin: {
			Name: "Total bilirubin", Unit: "umol/L", Min: 3.4, Max: 20.5,
			CriticalLow: 0, CriticalHigh: 200,
		},
		ParamALT: {
			Name: "ALT", Unit: "U/L", Min: 10, Max: 40,
			Male: &Bounds{10, 41}, Female: &Bounds{7, 31},
			CriticalLow: 0, CriticalHigh: 500,
		},
		ParamAST: {
			Name: "AST", Unit: "U/L", Min: 10, Max: 40,
			Male: &Bounds{10, 40}, Female: &Bounds{10, 32},
			CriticalLow: 0, CriticalHigh: 500,
		},
		ParamTotalCholesterol: {
			Name: "Total cholesterol", Unit: "mmol/L", Min: 3.0, Max: 5.2,
			CriticalLow: 1.0, CriticalHigh: 10.0,
		},
		ParamTotalProtein: {
			Name: "Total protein", Unit: "g/L", Min: 65, Max: 85,
			CriticalLow: 40, CriticalHigh: 120,
		},
		ParamAlbumin: {
			Name: "Albumin", Unit: "g/L", Min: 35, Max: 50,
			CriticalLow: 20, CriticalHigh: 70,
		},
		ParamLDH: {
			Name: "LDH", Unit: "U/L", Min: 125, Max: 220,
			CriticalLow: 50, CriticalHigh: 1000,
		},
		ParamAlkalinePhosphatase: {
			Name: "Alkaline phosphatase", Unit: "U/L", Min: 40, Max: 130,
			Male: &Bounds{40, 130}, Female: &Bounds{35, 105},
			CriticalLow: 10, CriticalHigh: 500,
		},
	}
}

type ParameterGroup struct {
	Name       string
	Parameters []Parameter
}

// ParameterGroups mirrors the panels of the lab entry form.
func ParameterGroups() []ParameterGroup {
	return []ParameterGroup{
		{Name: "basic", Parameters: []Parameter{
			ParamHemoglobin, ParamErythrocytes, ParamLeukocytes,
			ParamPlatelets, ParamHematocrit, ParamESR,
		}},
		{Name: "biochemical", Parameters: []Parameter{
			ParamGlucose, ParamCreatinine, ParamUrea,
			ParamTotalBilirubin, ParamTotalProtein, ParamAlbumin,
		}},
		{Name: "liver", Parameters: []Parameter{
			ParamALT, ParamAST, ParamLDH, ParamAlkalinePhosphatase,
		}},
		{Name: "other", Parameters: []Parameter{
			ParamTotalCholesterol,
		}},
	}
}
