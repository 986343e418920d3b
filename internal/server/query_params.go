package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, ErrInvalidID
	}
	return snowflake.ID(value), nil
}

func parseOptionalID(raw string) (*snowflake.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
