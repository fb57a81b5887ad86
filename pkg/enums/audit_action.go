package enums

// AuditAction tags an audit log entry with the mutation that produced it. The
// set is closed on the producer side; the column itself is free-form text so
// that historical tags survive renames.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "CREATE"
	AuditActionUpdate       AuditAction = "UPDATE"
	AuditActionDelete       AuditAction = "DELETE"
	AuditActionUpdateRole   AuditAction = "UPDATE_ROLE"
	AuditActionActivate     AuditAction = "ACTIVATE"
	AuditActionDeactivate   AuditAction = "DEACTIVATE"
	AuditActionUpdateStatus AuditAction = "UPDATE_STATUS"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
