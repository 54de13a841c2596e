package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securematch/internal/client/client"
	"github.com/dmitrijs2005/securematch/internal/client/models"
	"github.com/dmitrijs2005/securematch/internal/common"
	"github.com/dmitrijs2005/securematch/internal/logging"
)

var ErrEmptyAuditorName = errors.New("auditor name must not be empty")

// AuditorService covers the auditor list, the metrics dashboard and auditor
// administration.
//
// Contract:
//   - ListAuditors: auditors known to the server, for external selection.
//   - Dashboard: metrics filtered for role. Only metrics_full roles see the
//     auditor table.
//   - Create: internal only. The returned private key is shown once and
//     must not be stored.
//   - Delete: internal only.
type AuditorService interface {
	ListAuditors(ctx context.Context) ([]models.AuditorRecord, error)
	Dashboard(ctx context.Context, role models.Role) (*models.Dashboard, error)
	Create(ctx context.Context, role models.Role, name string) (*client.CreatedAuditor, error)
	Delete(ctx context.Context, role models.Role, auditorID string) error
}

type auditorService struct {
	client client.Client
	log    logging.Logger
}

func NewAuditorService(c client.Client, log logging.Logger) AuditorService {
	return &auditorService{client: c, log: log}
}

func (a *auditorService) ListAuditors(ctx context.Context) ([]models.AuditorRecord, error) {
	d, err := a.client.Metrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auditors: %w", err)
	}
	return d.Auditors, nil
}

func (a *auditorService) Dashboard(ctx context.Context, role models.Role) (*models.Dashboard, error) {
	if !role.Can(models.CapMetricsFull) && !role.Can(models.CapMetricsLimited) {
		return nil, fmt.Errorf("%w: role %s cannot view metrics", common.ErrorUnauthorized, role)
	}
	d, err := a.client.Metrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metrics: %w", err)
	}

	out := &models.Dashboard{System: d.System.VisibleTo(role)}
	if role.Can(models.CapMetricsFull) {
		out.Auditors = d.Auditors
	}
	return out, nil
}

func (a *auditorService) Create(ctx context.Context, role models.Role, name string) (*client.CreatedAuditor, error) {
	if !role.Can(models.CapManageAuditors) {
		return nil, fmt.Errorf("%w: role %s cannot manage auditors", common.ErrorUnauthorized, role)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyAuditorName
	}

	created, err := a.client.CreateAuditor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create auditor: %w", err)
	}
	a.log.Info(ctx, "auditor created", "auditor", created.ID, "name", name)
	return created, nil
}

func (a *auditorService) Delete(ctx context.Context, role models.Role, auditorID string) error {
	if !role.Can(models.CapManageAuditors) {
		return fmt.Errorf("%w: role %s cannot manage auditors", common.ErrorUnauthorized, role)
	}
	auditorID = strings.TrimSpace(auditorID)
	if auditorID == "" {
		return fmt.Errorf("%w: empty id", models.ErrNoAuditor)
	}
	if err := a.client.DeleteAuditor(ctx, auditorID); err != nil {
		return fmt.Errorf("delete auditor: %w", err)
	}
	a.log.Info(ctx, "auditor deleted", "auditor", auditorID)
	return nil
}
