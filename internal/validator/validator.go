package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/pitchside/cricket-quiz-service/internal/errors"
	"github.com/pitchside/cricket-quiz-service/internal/models"
)

// Validator wraps the struct-tag validator with the custom domain tags.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance with all custom validators registered.
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// Validate validates struct tags and converts failures into the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("quiz_category", validateQuizCategory)
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)
	validate.RegisterValidation("badge_rarity", validateBadgeRarity)
	validate.RegisterValidation("criteria_type", validateCriteriaType)
	validate.RegisterValidation("experience_level", validateExperienceLevel)

	// Use json tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuizCategory(fl validator.FieldLevel) bool {
	switch models.QuizCategory(fl.Field().String()) {
	case models.CategoryBatting, models.CategoryBowling, models.CategoryHistory,
		models.CategoryTeams, models.CategoryRecords, models.CategoryGeneral:
		return true
	}
	return false
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	switch models.DifficultyLevel(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

func validateBadgeRarity(fl validator.FieldLevel) bool {
	switch models.BadgeRarity(fl.Field().String()) {
	case models.RarityBronze, models.RaritySilver, models.RarityGold, models.RarityPlatinum:
		return true
	}
	return false
}

// validateCriteriaType accepts the reserved kinds too: badges carrying them
// are storable, just never satisfiable.
func validateCriteriaType(fl validator.FieldLevel) bool {
	switch models.BadgeCriteriaType(fl.Field().String()) {
	case models.CriteriaQuizScore, models.CriteriaStreak, models.CriteriaTotalPoints,
		models.CriteriaQuizCount, models.CriteriaPerfectScore,
		models.CriteriaCategoryExpert, models.CriteriaSpeedDemon:
		return true
	}
	return false
}

func validateExperienceLevel(fl validator.FieldLevel) bool {
	switch models.ExperienceLevel(fl.Field().String()) {
	case models.ExperienceBeginner, models.ExperienceIntermediate, models.ExperienceExpert:
		return true
	}
	return false
}
