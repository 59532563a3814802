package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/boardgame-depot/internal/repository"
)

// Scale of the money and commission columns.
const (
	moneyPlaces      = 2
	commissionPlaces = 4
)

// hasPlaces reports whether d fits in places decimal digits unrounded.
func hasPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// lookup maps a repository miss to NotFound naming what was looked up and
// wraps anything else as an infrastructure error.
func lookup(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("%s %s not found", what, id)
	}
	return fmt.Errorf("loading %s %s: %w", what, id, err)
}

// write maps the outcome of an update or delete by id.
func write(err error, what, id string) error {
	if err == nil {
		return nil
	}
	return lookup(err, what, id)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// required returns BadRequest naming the first missing field.
func required(fields ...field) error {
	for _, f := range fields {
		if f.missing {
			return badRequest("%s is required", f.name)
		}
	}
	return nil
}

type field struct {
	name    string
	missing bool
}

func str(name string, v *string) field { return field{name, v == nil || blank(*v)} }

func present[T any](name string, v *T) field { return field{name, v == nil} }

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
