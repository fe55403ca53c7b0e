package dto

import "time"

// RunResult resumen estructurado de una corrida del motor de reposición.
// Siempre se retorna completo, incluso con fallas parciales; Success solo es
// false cuando la corrida aborta por falla de lectura.
type RunResult struct {
	Success          bool      `json:"success"`
	RulesEvaluated   int       `json:"rules_evaluated"`
	Triggered        int       `json:"triggered"`
	SkippedDuplicate int       `json:"skipped_duplicate"`
	OrdersCreated    int       `json:"orders_created"`
	Errors           []string  `json:"errors"`
	Message          string    `json:"message"`
	Timestamp        time.Time `json:"timestamp"`
}

// Merge acumula el resultado de otra corrida (corridas "all tenants").
func (r *RunResult) Merge(other RunResult) {
	r.RulesEvaluated += other.RulesEvaluated
	r.Triggered += other.Triggered
	r.SkippedDuplicate += other.SkippedDuplicate
	r.OrdersCreated += other.OrdersCreated
	r.Errors = append(r.Errors, other.Errors...)
	if !other.Success {
		r.Success = false
	}
}
