package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/gender"
)

// Gender labels returned to the form.
const (
	GenderMale    = "Nam"
	GenderFemale  = "Nữ"
	GenderUnknown = "Chưa rõ"
)

// MinGenderConfidence is the confidence, in percent, a prediction must exceed to be used.
const MinGenderConfidence = 70

// ErrMissingName is returned when no name is given for prediction.
var ErrMissingName = errors.New("missing name")

// GenderPredictor asks an external service for the likely gender of a name.
type GenderPredictor interface {
	Predict(ctx context.Context, name string) (gender.Prediction, error)
}

// PredictGenderInput carries input for PredictGender.
type PredictGenderInput struct {
	Name string
}

// PredictGenderDeps holds dependencies for PredictGender.
type PredictGenderDeps struct {
	Predictor GenderPredictor
}

// PredictGenderResult is the gender suggested for a name.
type PredictGenderResult struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

// ExecutePredictGender suggests a gender for the form's name field.
// PRE: Predictor is non-nil
// POST: Gender is GenderMale or GenderFemale only above MinGenderConfidence, else GenderUnknown
func ExecutePredictGender(ctx context.Context, input PredictGenderInput, deps PredictGenderDeps) (PredictGenderResult, error) {
	if strings.TrimSpace(input.Name) == "" {
		return PredictGenderResult{}, ErrMissingName
	}

	pred, err := deps.Predictor.Predict(ctx, input.Name)
	if err != nil {
		return PredictGenderResult{}, fmt.Errorf("predict gender: %w", err)
	}

	result := PredictGenderResult{Name: input.Name, Gender: GenderUnknown}
	if pred.Confidence > MinGenderConfidence && (pred.Gender == GenderMale || pred.Gender == GenderFemale) {
		result.Gender = pred.Gender
	}

	slog.Debug("gender_predicted", "gender", pred.Gender, "confidence", pred.Confidence, "result", result.Gender)
	return result, nil
}
