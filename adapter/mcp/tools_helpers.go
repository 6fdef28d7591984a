package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	practiceQueries "github.com/felixgeelhaar/mindful/internal/practice/application/queries"
)

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// parseOptionalBound reads a date or date-time; date-only upper bounds cover
// the whole day.
func parseOptionalBound(value string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := practiceQueries.ParseTimeBound(value, loc, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
