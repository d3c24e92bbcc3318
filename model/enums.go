package model

import (
	"fmt"
	"slices"
)

// Season of the Olympic games.
type Season string

const (
	Summer Season = "Summer"
	Winter Season = "Winter"
)

// Seasons lists every valid season.
func Seasons() []Season {
	return []Season{Summer, Winter}
}

func (s *Season) UnmarshalText(text []byte) error {
	return unmarshalEnum(s, Seasons(), "season", text)
}

// Sex of an athlete.
type Sex string

const (
	Male   Sex = "M"
	Female Sex = "F"
)

func (s *Sex) UnmarshalText(text []byte) error {
	return unmarshalEnum(s, []Sex{Male, Female}, "sex", text)
}

// MedalType is the kind of medal awarded.
type MedalType string

const (
	Bronze MedalType = "Bronze"
	Silver MedalType = "Silver"
	Gold   MedalType = "Gold"
)

// MedalTypes lists every valid medal type from lowest to highest.
func MedalTypes() []MedalType {
	return []MedalType{Bronze, Silver, Gold}
}

func (m *MedalType) UnmarshalText(text []byte) error {
	return unmarshalEnum(m, MedalTypes(), "medal type", text)
}

func unmarshalEnum[T ~string](dst *T, valid []T, what string, text []byte) error {
	v := T(text)
	if !slices.Contains(valid, v) {
		return fmt.Errorf("invalid %s %q, expected one of %v", what, string(text), valid)
	}
	*dst = v
	return nil
}
