package dataset

// NumFeatures is the number of measurement columns in a record.
const NumFeatures = 8

// NumColumns is the number of fields per input row: the features plus the label.
const NumColumns = NumFeatures + 1

// ClassColumn is the name of the label column.
const ClassColumn = "Class"

// FeatureNames lists the measurement columns in file order. The first four
// describe the integrated pulse profile, the last four the DM-SNR curve.
var FeatureNames = [NumFeatures]string{
	"Mean of the integrated profile",
	"Standard deviation of the integrated profile",
	"Excess kurtosis of the integrated profile",
	"Skewness of the integrated profile",
	"Mean of the DM-SNR curve",
	"Standard deviation of the DM-SNR curve",
	"Excess kurtosis of the DM-SNR curve",
	"Skewness of the DM-SNR curve",
}

// Classes are the label values a record may carry.
var Classes = [2]int{0, 1}

// ColumnNames returns the full 9-column schema, label last.
func ColumnNames() []string {
	names := make([]string, 0, NumColumns)
	names = append(names, FeatureNames[:]...)
	return append(names, ClassColumn)
}

// Record is one observed or synthetic candidate.
type Record struct {
	Features [NumFeatures]float64
	Label    int
}

func validLabel(y int) bool {
	for _, c := range Classes {
		if y == c {
			return true
		}
	}
	return false
}
