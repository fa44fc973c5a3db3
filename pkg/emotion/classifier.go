package emotion

// Classifier scores a fixed-length feature vector against a label set.
//
// Predict never fails: implementations absorb internal errors (shape
// mismatch, numeric blow-up) and return a safe neutral Prediction, so
// callers always receive a well-formed probability distribution with
// exactly one entry per label.
//
// There are two sources of classifiers, both backed by Network: one
// deserialized from a trained weight artifact and one untrained fallback
// constructed when no artifact is available. Callers depend only on this
// capability, never on which variant is active.
type Classifier interface {
	// Predict scores a FeatureSize-length feature vector.
	Predict(features []float64) Prediction

	// Labels returns the ordered label set the classifier scores over.
	Labels() []string
}

// safeNeutral is the defined prediction for any inference failure:
// full confidence on "neutral", zero everywhere else. The "neutral"
// entry is present even when the configured label set omits it.
func safeNeutral(labels []string) Prediction {
	scores := make(Scores, len(labels)+1)
	for _, l := range labels {
		scores[l] = 0
	}
	scores["neutral"] = 1
	return Prediction{Emotion: "neutral", Confidence: 1, Scores: scores}
}
