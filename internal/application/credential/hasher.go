// Package credential hashea y verifica contraseñas. No existe operación inversa.
package credential

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-backoffice/internal/domain"
)

// Hasher capacidad de hash de contraseñas, intercambiable (producción: bcrypt).
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// Bcrypt implementa Hasher con bcrypt (salt por hash, costo configurable).
type Bcrypt struct {
	cost int
}

// NewBcrypt construye el hasher; un costo fuera de rango usa bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash genera el digest de la contraseña. Una contraseña de más de 72 bytes es domain.ErrInvalidInput.
func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: la contraseña no puede superar 72 bytes", domain.ErrInvalidInput)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify informa si la contraseña corresponde al digest.
func (b *Bcrypt) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
