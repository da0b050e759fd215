package validation

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("score_grid", ScoreGrid)
	_ = v.RegisterValidation("future_date", FutureDate)
}

// ScoreGrid validates that a numeric field sits in [0,5] on a 0.5 grid.
// Evaluation scores (overall and sub-ratings) all share this domain.
func ScoreGrid(fl validator.FieldLevel) bool {
	score := fl.Field().Float()
	if score < 0 || score > 5 {
		return false
	}
	doubled := score * 2
	return doubled == math.Trunc(doubled)
}

// FutureDate validates that a time.Time field is strictly in the future.
// Used for renewal expiry dates.
func FutureDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	if t.IsZero() {
		return true // Optional, use required if needed
	}
	return t.After(time.Now())
}
