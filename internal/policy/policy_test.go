package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelapi/internal/model"
)

func TestHousekeeping(t *testing.T) {
	tests := []struct {
		role    model.EmployeeRole
		wantErr bool
	}{
		{role: model.RoleReceptionist, wantErr: true},
		{role: model.RoleHousekeeper},
		{role: model.RoleMaintenance},
		{role: model.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			err := Housekeeping(&model.Employee{ID: 1, Role: tt.role})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, Housekeeping(nil), ErrForbidden)
}
