package inspection

type sampleBand struct {
	min    int
	max    int
	sample int
}

// sampleBands is a business contract: boundaries are inclusive and must not be tuned.
var sampleBands = []sampleBand{
	{min: 2, max: 8, sample: 2},
	{min: 9, max: 15, sample: 3},
	{min: 16, max: 25, sample: 5},
	{min: 26, max: 50, sample: 8},
	{min: 51, max: 90, sample: 13},
	{min: 91, max: 150, sample: 20},
	{min: 151, max: 280, sample: 32},
	{min: 281, max: 500, sample: 50},
	{min: 501, max: 1200, sample: 80},
	{min: 1201, max: 3200, sample: 125},
	{min: 3201, max: 10000, sample: 200},
	{min: 10001, max: 35000, sample: 315},
}

// SampleSize returns how many units of a color batch must be inspected.
// Populations outside every band are inspected in full.
func SampleSize(total int) int {
	for _, band := range sampleBands {
		if band.min <= total && total <= band.max {
			return band.sample
		}
	}
	return total
}
