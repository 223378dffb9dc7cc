package provider

import "sort"

// CalculationMethod maps a numeric method code to the authority it names.
type CalculationMethod struct {
	ID   int
	Name string
}

// calculationMethods is the fixed Aladhan method catalog. Pure lookup,
// no network dependency.
var calculationMethods = map[int]string{
	0:  "Shia Ithna-Ashari",
	1:  "University of Islamic Sciences, Karachi",
	2:  "Islamic Society of North America (ISNA)",
	3:  "Muslim World League",
	4:  "Umm Al-Qura University, Makkah",
	5:  "Egyptian General Authority of Survey",
	7:  "Institute of Geophysics, University of Tehran",
	8:  "Gulf Region",
	9:  "Kuwait",
	10: "Qatar",
	11: "Majlis Ugama Islam Singapura, Singapore",
	12: "Union Organization Islamic de France",
	13: "Diyanet İşleri Başkanlığı, Turkey",
	14: "Spiritual Administration of Muslims of Russia",
}

// CalculationMethods returns the catalog ordered by numeric code.
func CalculationMethods() []CalculationMethod {
	methods := make([]CalculationMethod, 0, len(calculationMethods))
	for id, name := range calculationMethods {
		methods = append(methods, CalculationMethod{ID: id, Name: name})
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].ID < methods[j].ID })
	return methods
}

// MethodName resolves a method code to its authority name; unknown codes
// report ok=false.
func MethodName(id int) (string, bool) {
	name, ok := calculationMethods[id]
	return name, ok
}
