package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// DefaultTagColor is indigo.
const DefaultTagColor = "#6366f1"

var (
	ErrTagNotFound     = errors.New("tag not found")
	ErrEmptyTagName    = errors.New("tag names cannot be empty")
	ErrInvalidTagColor = errors.New("tag color must be a #RRGGBB hex value")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Tag categorizes sessions. Names are kept in Korean and English.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	NameKo    string    `json:"name_ko"`
	NameEn    string    `json:"name_en"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
}

// NewTag validates and creates a tag. An empty color falls back to the default.
func NewTag(nameKo, nameEn, color string, isDefault bool) (*Tag, error) {
	nameKo = strings.TrimSpace(nameKo)
	nameEn = strings.TrimSpace(nameEn)
	if nameKo == "" || nameEn == "" {
		return nil, ErrEmptyTagName
	}

	color = strings.TrimSpace(color)
	if color == "" {
		color = DefaultTagColor
	}
	if !hexColor.MatchString(color) {
		return nil, ErrInvalidTagColor
	}

	return &Tag{
		ID:        uuid.New(),
		NameKo:    nameKo,
		NameEn:    nameEn,
		Color:     strings.ToLower(color),
		IsDefault: isDefault,
	}, nil
}
