// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package codec

import (
	"fmt"
	"strings"
)

// PropID identifies a coder property.
type PropID int

const (
	DictionarySize PropID = iota
	PosStateBits
	LitContextBits
	LitPosBits
	Algorithm
	NumFastBytes
	MatchFinder
	EndMarker
)

func (p PropID) String() string {
	switch p {
	case DictionarySize:
		return "dictionary size"
	case PosStateBits:
		return "pos state bits"
	case LitContextBits:
		return "literal context bits"
	case LitPosBits:
		return "literal pos bits"
	case Algorithm:
		return "algorithm"
	case NumFastBytes:
		return "fast bytes"
	case MatchFinder:
		return "match finder"
	case EndMarker:
		return "end marker"
	default:
		return fmt.Sprintf("property %d", int(p))
	}
}

// Property is a single coder property. Value is an int for numeric
// properties, a string for [MatchFinder] and a bool for [EndMarker].
type Property struct {
	ID    PropID
	Value any
}

// Int creates a numeric [Property].
func Int(id PropID, value int) Property {
	return Property{ID: id, Value: value}
}

// String creates a string [Property].
func String(id PropID, value string) Property {
	return Property{ID: id, Value: value}
}

// Bool creates a boolean [Property].
func Bool(id PropID, value bool) Property {
	return Property{ID: id, Value: value}
}

// Defaults used by [DefaultProperties].
const (
	DefaultDictionarySize = 1 << 22
	DefaultPosStateBits   = 2
	DefaultLitContextBits = 3
	DefaultLitPosBits     = 0
	DefaultAlgorithm      = 2
	DefaultNumFastBytes   = 256
	DefaultMatchFinder    = "bt4"
	DefaultEndMarker      = false
)

// DefaultProperties returns the property list the stream driver configures
// its codec with.
func DefaultProperties() []Property {
	return []Property{
		Int(DictionarySize, DefaultDictionarySize),
		Int(PosStateBits, DefaultPosStateBits),
		Int(LitContextBits, DefaultLitContextBits),
		Int(LitPosBits, DefaultLitPosBits),
		Int(Algorithm, DefaultAlgorithm),
		Int(NumFastBytes, DefaultNumFastBytes),
		String(MatchFinder, DefaultMatchFinder),
		Bool(EndMarker, DefaultEndMarker),
	}
}

func (p Property) intValue(lower, upper int64) (int64, error) {
	var value int64

	switch v := p.Value.(type) {
	case int:
		value = int64(v)
	case int64:
		value = v
	case uint32:
		value = int64(v)
	default:
		return 0, fmt.Errorf("%s: %w: %T", p.ID, ErrPropertyType, p.Value)
	}

	if value < lower || value > upper {
		return 0, fmt.Errorf("%s: %w: %d not in [%d, %d]",
			p.ID, ErrPropertyRange, value, lower, upper)
	}

	return value, nil
}

func (p Property) stringValue() (string, error) {
	value, ok := p.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s: %w: %T", p.ID, ErrPropertyType, p.Value)
	}

	return strings.ToLower(value), nil
}

func (p Property) boolValue() (bool, error) {
	value, ok := p.Value.(bool)
	if !ok {
		return false, fmt.Errorf("%s: %w: %T", p.ID, ErrPropertyType, p.Value)
	}

	return value, nil
}
