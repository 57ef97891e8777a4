package planner

import (
	"fmt"
	"log"

	"CryptoAllocator/internal/config"
	"CryptoAllocator/internal/loader"
	"CryptoAllocator/internal/model"
	"CryptoAllocator/internal/report"
	"CryptoAllocator/internal/strategy"
)

// Planner runs the whole pipeline: load, filter, allocate, project, assemble.
// It keeps no state between runs.
type Planner struct {
	Loader *loader.Loader
	Engine *strategy.Engine
}

// New creates a Planner over src using the given risk table.
func New(src loader.Source, table model.RiskTable, minCapital float64) *Planner {
	return &Planner{
		Loader: loader.NewLoader(src),
		Engine: strategy.NewEngine(table, minCapital),
	}
}

// Run validates req, reads the candidates once and returns the allocation plan.
// Invalid parameters fail before the input is read.
func (p *Planner) Run(req strategy.Request) (*model.AllocationPlan, error) {
	if _, _, err := p.Engine.Resolve(req); err != nil {
		return nil, err
	}

	cands, err := p.Loader.Load()
	if err != nil {
		return nil, err
	}

	eval, err := p.Engine.Evaluate(cands, req)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	plan := report.NewPlan(eval)
	log.Printf("[INFO] plan %s/%s on %d candidates: %d positions, %d skipped (table %s)",
		plan.Risk, plan.Term.Label, len(cands), len(plan.Positions), len(plan.Skipped), plan.TableName)
	return plan, nil
}

// RunAndWrite runs the pipeline and writes the resulting document to outPath.
func (p *Planner) RunAndWrite(req strategy.Request, outPath string) (*model.AllocationPlan, error) {
	plan, err := p.Run(req)
	if err != nil {
		return nil, err
	}
	if err := report.WriteFile(outPath, plan); err != nil {
		return nil, fmt.Errorf("write %s: %w", outPath, err)
	}
	log.Printf("[INFO] plan written to %s", outPath)
	return plan, nil
}

// NewFromConfig builds a Planner from the application config. tableOverride, when set, selects a
// risk table other than planner.risk_table.
func NewFromConfig(cfg *config.Config, tableOverride string) (*Planner, error) {
	table, err := cfg.Table(tableOverride)
	if err != nil {
		return nil, err
	}
	var src loader.Source
	if cfg.Input.SQLitePath != "" {
		src = loader.NewSQLiteSource(cfg.Input.SQLitePath, cfg.Input.SQLiteTable)
	} else {
		src = loader.NewJSONSource(cfg.Input.Path, cfg.Input.RecordsPath)
	}
	log.Printf("[INFO] candidate source: %s", src.Name())
	return New(src, table, cfg.Planner.MinCapital), nil
}
