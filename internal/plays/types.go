package plays

import (
	"strings"
	"time"

	"github.com/augustdev/amphitheatre/internal/logs"
	dbplays "github.com/augustdev/amphitheatre/internal/storage/pg/generated/plays"
	"github.com/shopspring/decimal"
)

type Config struct {
	DefaultNamespace string
}

type Play struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Namespace   string           `json:"namespace,omitempty"`
	Workload    string           `json:"workload"`
	Container   string           `json:"container,omitempty"`
	CPUQuota    *decimal.Decimal `json:"cpu_quota,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func fromRow(row dbplays.Play) Play {
	p := Play{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Workload:    row.Workload,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.Namespace != nil {
		p.Namespace = *row.Namespace
	}
	if row.Container != nil {
		p.Container = *row.Container
	}
	if row.CpuQuota.Valid {
		quota := row.CpuQuota.Decimal
		p.CPUQuota = &quota
	}
	return p
}

// Target returns the workload whose logs belong to this play, falling back
// to defaultNamespace. ok is false when the play names no workload.
func (p Play) Target(defaultNamespace string) (logs.Workload, bool) {
	workload := strings.TrimSpace(p.Workload)
	if workload == "" {
		return logs.Workload{}, false
	}
	ns := strings.TrimSpace(p.Namespace)
	if ns == "" {
		ns = defaultNamespace
	}
	return logs.Workload{
		Namespace: ns,
		Pod:       workload,
		Container: strings.TrimSpace(p.Container),
	}, true
}
