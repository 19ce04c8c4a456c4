package types

const (
	// ModuleName defines the module name
	ModuleName = "aioracle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Order selects the iteration direction of paginated reads.
type Order uint8

const (
	// OrderUnspecified falls back to ascending order.
	OrderUnspecified Order = 0
	OrderAscending   Order = 1
	OrderDescending  Order = 2
)

// IsDescending reports whether o iterates from the highest key down.
func (o Order) IsDescending() bool {
	return o == OrderDescending
}

// Validate rejects unknown order values.
func (o Order) Validate() error {
	switch o {
	case OrderUnspecified, OrderAscending, OrderDescending:
		return nil
	default:
		return ErrInvalidRequest.Wrapf("unknown order %d", o)
	}
}
