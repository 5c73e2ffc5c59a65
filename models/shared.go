package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Role identifies which side of a booking an actor is on.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// TimeOfDay is minutes from midnight (e.g., 420 for 7:00 AM). It marshals to
// "HH:MM" over JSON and is persisted as an "HH:MM:SS" string, which keeps
// lexicographic comparisons in storage queries order-correct.
type TimeOfDay int

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := unquote(data, &s); err != nil {
		return err
	}
	m, err := parseClock(s)
	if err != nil {
		return err
	}
	*t = TimeOfDay(m)
	return nil
}

func (t TimeOfDay) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(fmt.Sprintf("%02d:%02d:00", int(t)/60, int(t)%60))
}

func (t *TimeOfDay) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(bt, data, &s); err != nil {
		return err
	}
	m, err := parseClock(s)
	if err != nil {
		return err
	}
	*t = TimeOfDay(m)
	return nil
}

func parseClock(s string) (int, error) {
	var hh, mm, ss int
	switch {
	case len(s) == 5:
		if _, err := fmt.Sscanf(s, "%02d:%02d", &hh, &mm); err != nil {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
		}
	case len(s) == 8:
		if _, err := fmt.Sscanf(s, "%02d:%02d:%02d", &hh, &mm, &ss); err != nil {
			return 0, fmt.Errorf("invalid time %q: expected HH:MM:SS", s)
		}
	default:
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hh*60 + mm, nil
}

func unquote(data []byte, out *string) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("expected JSON string, got %s", data)
	}
	*out = string(data[1 : len(data)-1])
	return nil
}

// Amount is a fixed-point monetary value. JSON marshalling comes from the
// embedded decimal; BSON stores the canonical string form.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{d} }

func AmountFromFloat(f float64) Amount { return Amount{decimal.NewFromFloat(f).Round(2)} }

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(a.String())
}

func (a *Amount) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	var s string
	if err := bson.UnmarshalValue(bt, data, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}
