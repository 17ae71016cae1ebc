package usecase

import "time"

// clock reloj inyectable; sin configurar usa time.Now.
type clock struct {
	now func() time.Time
}

// SetClock reemplaza el reloj (tests, tareas programadas).
func (c *clock) SetClock(now func() time.Time) { c.now = now }

func (c *clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
