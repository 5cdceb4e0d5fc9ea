package checkpoint

import (
	"fmt"

	"github.com/YoshitsuguKoike/repairflow/internal/domain/repair"
)

// record is the wire layout of a checkpoint. Pointer fields tell a missing
// field apart from a zero value.
type record struct {
	State             *string         `json:"state,omitempty" yaml:"state,omitempty"`
	OrderNumber       *uint64         `json:"order_number" yaml:"order_number"`
	DamageDescription *string         `json:"damage_description" yaml:"damage_description"`
	Vehicle           *string         `json:"vehicle" yaml:"vehicle"`
	Customer          *customerRecord `json:"customer" yaml:"customer"`
	ValidationErrors  *[]string       `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`
}

type customerRecord struct {
	HasOutstandingDebt *bool `json:"has_outstanding_debt" yaml:"has_outstanding_debt"`
	IsBanned           *bool `json:"is_banned" yaml:"is_banned"`
}

func toRecord(s repair.Snapshot) record {
	label := s.Label().String()
	number := s.OrderNumber
	vehicle := s.Vehicle
	debt := s.Customer.HasOutstandingDebt
	banned := s.Customer.IsBanned

	rec := record{
		State:             &label,
		OrderNumber:       &number,
		DamageDescription: s.DamageDescription,
		Vehicle:           &vehicle,
		Customer:          &customerRecord{HasOutstandingDebt: &debt, IsBanned: &banned},
	}
	if inv, ok := s.State.(repair.Invalid); ok {
		errs := append([]string{}, inv.ValidationErrors...)
		rec.ValidationErrors = &errs
	}
	return rec
}

func (r record) snapshot(g Granularity) (repair.Snapshot, error) {
	label := repair.LabelNew
	switch {
	case r.State != nil:
		parsed, err := repair.ParseStateLabel(*r.State)
		if err != nil {
			return repair.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		label = parsed
	case g != StartEnd:
		// only the inbound request form of start_end may omit its label
		return repair.Snapshot{}, fmt.Errorf("%w: missing field state", ErrFormat)
	}

	if r.OrderNumber == nil {
		return repair.Snapshot{}, missing("order_number")
	}
	if r.Vehicle == nil {
		return repair.Snapshot{}, missing("vehicle")
	}
	if r.Customer == nil {
		return repair.Snapshot{}, missing("customer")
	}
	if r.Customer.HasOutstandingDebt == nil {
		return repair.Snapshot{}, missing("customer.has_outstanding_debt")
	}
	if r.Customer.IsBanned == nil {
		return repair.Snapshot{}, missing("customer.is_banned")
	}

	state, err := repair.StateFor(label)
	if err != nil {
		return repair.Snapshot{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if label == repair.LabelInvalid {
		if r.ValidationErrors == nil {
			return repair.Snapshot{}, missing("validation_errors")
		}
		var errs []string
		if len(*r.ValidationErrors) > 0 {
			errs = append(errs, *r.ValidationErrors...)
		}
		// an empty list reads back as nil so it round trips either way
		state = repair.Invalid{ValidationErrors: errs}
	} else if r.ValidationErrors != nil {
		return repair.Snapshot{}, fmt.Errorf("%w: field validation_errors does not belong to state %s", ErrFormat, label)
	}

	return repair.Snapshot{
		Identity: repair.Identity{
			OrderNumber:       *r.OrderNumber,
			DamageDescription: r.DamageDescription,
			Vehicle:           *r.Vehicle,
			Customer: repair.Customer{
				HasOutstandingDebt: *r.Customer.HasOutstandingDebt,
				IsBanned:           *r.Customer.IsBanned,
			},
		},
		State: state,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %s", ErrFormat, field)
}
