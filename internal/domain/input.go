package domain

import (
	"fmt"
	"strings"

	"github.com/kapu/elfname-go/internal/util"
	"github.com/kapu/elfname-go/pkg/errors"
)

// Months is the canonical birth-month list. Matching is exact: the seed is
// derived from the month string, so loosening the match would change seeds.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// UserInput is the request record the pipeline operates on.
type UserInput struct {
	FirstName  string `json:"first_name"`
	BirthMonth string `json:"birth_month"`
}

func NewUserInput(firstName, birthMonth string) UserInput {
	return UserInput{
		FirstName:  strings.TrimSpace(firstName),
		BirthMonth: strings.TrimSpace(birthMonth),
	}
}

// Validate reports the first violated input rule, if any.
func (in UserInput) Validate() error {
	if in.FirstName == "" {
		return errors.NewValidationError("first name must not be empty", "first_name", in.FirstName)
	}
	if !util.Contains(Months, in.BirthMonth) {
		return errors.NewValidationError(
			fmt.Sprintf("invalid birth month: %q, expected one of: %s", in.BirthMonth, strings.Join(Months, ", ")),
			"birth_month", in.BirthMonth,
		)
	}
	return nil
}
