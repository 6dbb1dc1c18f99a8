package status

// Rating classifies an elapsed duration against its estimate.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingOnTarget  Rating = "within_expectations"
	RatingBelow     Rating = "below_expectations"
)

// tolerance is the accepted deviation band around an estimate.
const tolerance = 0.15

// Classify compares an elapsed duration (seconds) against an estimate.
// Returns nil when no estimate is configured (nil or non-positive): a guess
// is never emitted in place of a measurement.
func Classify(elapsed float64, estimated *int64) *Rating {
	if estimated == nil || *estimated <= 0 || elapsed < 0 {
		return nil
	}
	est := float64(*estimated)
	var r Rating
	switch {
	case elapsed <= est*(1-tolerance):
		r = RatingExcellent
	case elapsed <= est*(1+tolerance):
		r = RatingOnTarget
	default:
		r = RatingBelow
	}
	return &r
}
