package enums

// EntityType identifies which aggregate an audit log entry refers to.
type EntityType string

const (
	EntityTypeUser    EntityType = "User"
	EntityTypeProduct EntityType = "Product"
	EntityTypeOrder   EntityType = "Order"
)

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}
