package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/life-in-weeks/internal/config"
)

// ParseInput turns raw collector values (form fields, flags) into an Input.
// Missing birthdate or lifespan, a malformed date and a non-integer lifespan
// all wrap ErrInvalidInput. An empty color falls back to the default.
func ParseInput(birthdate, lifespan, pastColor string) (Input, error) {
	if strings.TrimSpace(lifespan) == "" {
		return Input{}, fmt.Errorf("%w: %w", ErrInvalidInput, ErrLifespanMissing)
	}

	birth, err := ParseBirthdate(birthdate)
	if err != nil {
		return Input{}, err
	}

	years, err := strconv.Atoi(strings.TrimSpace(lifespan))
	if err != nil {
		return Input{}, fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrLifespanNumber, lifespan)
	}

	if pastColor = strings.TrimSpace(pastColor); pastColor == "" {
		pastColor = config.DefaultPastColor
	}

	in := Input{
		Birthdate:     birth,
		LifespanYears: years,
		PastColor:     pastColor,
	}
	if err := ValidateInput(in); err != nil {
		return Input{}, err
	}
	return in, nil
}
