package types

import "github.com/go-playground/validator/v10"

// Coaching is free-text advice generated for one analysis. It is returned
// next to the analysis, never inside it.
type Coaching struct {
	Summary    string   `json:"summary" validate:"required"`
	Priorities []string `json:"priorities" validate:"max=5,dive,required"`
}

// Validate validates the Coaching using the validator.
func (c *Coaching) Validate() error {
	return validator.New().Struct(c)
}
