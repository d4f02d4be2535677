// Package report holds the canned data-warehouse queries behind the portal
// pages: hourly production, fleet status, and the daily target summary.
package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/minereport/dwquery/internal/core"
	"github.com/minereport/dwquery/pkg/config"
	"github.com/minereport/dwquery/pkg/frame"
)

// Querier is the slice of the engine API reports need. *dwquery.Engine
// satisfies it.
type Querier interface {
	QueryFrame(ctx context.Context, query string, args ...interface{}) (*frame.Frame, error)
	QueryFrameCached(ctx context.Context, maxAge time.Duration, query string, args ...interface{}) (*frame.Frame, error)
}

// Service runs report queries against one project's engine.
type Service struct {
	q       Querier
	targets config.Targets
	log     *zap.Logger
}

// fleetStatusTTL keeps the fleet page from hammering the warehouse; the
// telemetry it reads refreshes about once a minute anyway.
const fleetStatusTTL = 60 * time.Second

func New(q Querier, targets config.Targets, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{q: q, targets: targets, log: log}
}

// HourlyProduction returns mined mass per hour over [since, until).
func (s *Service) HourlyProduction(ctx context.Context, since, until time.Time) (*frame.Frame, error) {
	query, args := core.Select(
		"DATEPART(HOUR, data_hora) AS hora",
		"material",
		"SUM(massa) AS massa",
	).
		From("fato_producao").
		Where("data_hora >= ?", since).
		Where("data_hora < ?", until).
		GroupBy("DATEPART(HOUR, data_hora), material").
		OrderBy("hora").
		Build()
	return s.q.QueryFrame(ctx, query, args...)
}

// FleetStatus returns the latest status row per haul truck, cached briefly.
func (s *Service) FleetStatus(ctx context.Context) (*frame.Frame, error) {
	query, args := core.Select("equipamento", "status", "ultima_posicao", "atualizado_em").
		From("vw_status_frota").
		OrderBy("equipamento").
		Build()
	return s.q.QueryFrameCached(ctx, fleetStatusTTL, query, args...)
}

// Summary compares one day's production against the configured targets.
type Summary struct {
	Day         time.Time
	Ore         float64
	Waste       float64
	OreTarget   int
	WasteTarget int
}

// OreProgress is the fraction of the ore target reached, 0 when no target.
func (s Summary) OreProgress() float64 {
	if s.OreTarget == 0 {
		return 0
	}
	return s.Ore / float64(s.OreTarget)
}

// WasteProgress is the fraction of the waste target reached.
func (s Summary) WasteProgress() float64 {
	if s.WasteTarget == 0 {
		return 0
	}
	return s.Waste / float64(s.WasteTarget)
}

// TargetSummary totals ore and waste mass for the given day.
func (s *Service) TargetSummary(ctx context.Context, day time.Time) (Summary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	query, args := core.Select(
		"SUM(CASE WHEN material = 'MINERIO' THEN massa ELSE 0 END) AS minerio",
		"SUM(CASE WHEN material = 'ESTERIL' THEN massa ELSE 0 END) AS esteril",
	).
		From("fato_producao").
		Where("data_hora >= ?", start).
		Where("data_hora < ?", end).
		Build()

	f, err := s.q.QueryFrame(ctx, query, args...)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Day:         start,
		OreTarget:   s.targets.Ore,
		WasteTarget: s.targets.Waste,
	}
	if f.Len() == 0 {
		return sum, nil
	}
	if sum.Ore, err = f.Float(0, "minerio"); err != nil {
		return Summary{}, err
	}
	if sum.Waste, err = f.Float(0, "esteril"); err != nil {
		return Summary{}, err
	}
	s.log.Debug("target summary computed",
		zap.Time("day", start),
		zap.Float64("minerio", sum.Ore),
		zap.Float64("esteril", sum.Waste))
	return sum, nil
}
