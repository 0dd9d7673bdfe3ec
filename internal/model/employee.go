package model

// EmployeeRole is the job function of a staff member.
type EmployeeRole string

const (
	RoleReceptionist EmployeeRole = "RECEPTIONIST"
	RoleHousekeeper  EmployeeRole = "HOUSEKEEPER"
	RoleMaintenance  EmployeeRole = "MAINTENANCE"
	RoleAdmin        EmployeeRole = "ADMIN"
)

// Employee is a staff member known to the employee directory.
type Employee struct {
	ID        int          `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Role      EmployeeRole `json:"role"`
}
