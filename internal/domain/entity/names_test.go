package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-backoffice/internal/domain/entity"
)

func TestSameName(t *testing.T) {
	assert.True(t, entity.SameName("Cajeros", "cajeros"))
	assert.True(t, entity.SameName("  BODEGA ", "bodega"))
	assert.False(t, entity.SameName("Caja 1", "Caja 2"))
}

func TestIsReservedUsername(t *testing.T) {
	assert.True(t, entity.IsReservedUsername("admin"))
	assert.True(t, entity.IsReservedUsername("Admin"))
	assert.False(t, entity.IsReservedUsername("administrador"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, entity.ValidRole(entity.RoleSeller))
	assert.True(t, entity.ValidRole("cocinero"), "el conjunto de roles de personal es abierto")
	assert.False(t, entity.ValidRole(""))
	assert.False(t, entity.ValidRole(entity.RoleSuperAdmin))
}
