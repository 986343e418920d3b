package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrUnitNameExists  = errors.New("unit with this name already exists")
	ErrInvalidName     = errors.New("unit name must be at least 3 characters")
	ErrLeaderNotMember = errors.New("leader must be a member of the unit")
	ErrUnitReferenced  = errors.New("unit is still referenced elsewhere")
)

// MissingUsersError reports every referenced user id that does not exist,
// not just the first one.
type MissingUsersError struct {
	IDs []snowflake.ID
}

func (e *MissingUsersError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("the following user ids do not exist: %s", strings.Join(ids, ", "))
}
