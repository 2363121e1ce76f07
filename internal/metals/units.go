package metals

// GramsPerOunce is the number of grams in one troy ounce, the canonical
// quantity unit for every position in this package.
const GramsPerOunce = 31.1035

// GramsToOz converts a quantity in grams to troy ounces.
func GramsToOz(g float64) float64 {
	return g / GramsPerOunce
}

// OzToGrams converts a quantity in troy ounces to grams.
func OzToGrams(oz float64) float64 {
	return oz * GramsPerOunce
}

// PricePerGramToPerOz converts a price quoted per gram to per troy ounce.
func PricePerGramToPerOz(p float64) float64 {
	return p * GramsPerOunce
}

// PricePerOzToPerGram converts a price quoted per troy ounce to per gram.
func PricePerOzToPerGram(p float64) float64 {
	return p / GramsPerOunce
}
