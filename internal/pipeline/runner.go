package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"travecoqs/internal/aggregate"
	"travecoqs/internal/classify"
	"travecoqs/internal/cleaning"
	"travecoqs/internal/config"
	"travecoqs/internal/dataset"
	"travecoqs/internal/infrastructure"
	"travecoqs/internal/refmap"
	"travecoqs/pkg/contracts/domain"
)

// Input is one run's raw material: the order export and the two reference
// tables, as loaded tables. The loader owns file mechanics; the pipeline
// owns everything after.
type Input struct {
	Orders    dataset.Table
	Divisions dataset.Table
	Centers   dataset.Table
}

// Output is everything a run produces. Orders is the final attributed
// dataset; Excluded holds every removed record with its reason, retrievable
// for debugging even though it left the population.
type Output struct {
	Orders      []domain.Order
	Excluded    []cleaning.ExcludedRecord
	Summaries   []domain.CenterPeriodSummary
	Diagnostics Diagnostics
}

// Runner executes the staged pipeline. It holds configuration and a logger
// and nothing else: all run state lives on the stack of Run.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(logger *slog.Logger, cfg *config.Config) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// runState carries the intermediate datasets between stages. Each stage
// reads its predecessor's output and writes a new field; nothing is mutated
// in place.
type runState struct {
	input      Input
	orders     []domain.Order
	classified classify.Result
	mapped     refmap.Result
	out        *Output
}

type stage struct {
	id   string
	name string
	run  func(ctx context.Context, st *runState) error
}

// Run executes all stages in order. Recoverable conditions end up in the
// diagnostics; only schema collisions and bad configuration abort the run,
// wrapped in a StageError naming the failing stage.
func (r *Runner) Run(ctx context.Context, in Input) (*Output, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)
	logger := r.logger.With(slog.String("run_id", runID))

	st := &runState{input: in, out: &Output{}}

	stages := []stage{
		{id: StageSchemaNormalize, name: "Schema Normalizer", run: r.runSchemaNormalize},
		{id: StageExclusionFilter, name: "Exclusion Filter", run: r.runExclusionFilter},
		{id: StageClassification, name: "Categorical Classifier", run: r.runClassification},
		{id: StagePolicyExclusion, name: "Policy Exclusion", run: r.runPolicyExclusion},
		{id: StageReferenceMapping, name: "Reference Mapper", run: r.runReferenceMapping},
		{id: StageAggregation, name: "Aggregator", run: r.runAggregation},
	}

	logger.InfoContext(ctx, "pipeline run starting",
		slog.Int("order_rows", len(in.Orders.Rows)),
		slog.Int("division_rows", len(in.Divisions.Rows)),
		slog.Int("center_rows", len(in.Centers.Rows)))

	for _, s := range stages {
		state := NewStageState(s.id, s.name)
		state.Start()
		logger.InfoContext(ctx, "stage starting", slog.String("stage", s.id))

		if err := s.run(ctx, st); err != nil {
			state.Fail(err)
			st.out.Diagnostics.Stages = append(st.out.Diagnostics.Stages, *state)
			logger.ErrorContext(ctx, "stage failed",
				slog.String("stage", s.id),
				slog.String("error", err.Error()))
			return nil, &StageError{StageID: s.id, Err: err}
		}

		state.Complete()
		st.out.Diagnostics.Stages = append(st.out.Diagnostics.Stages, *state)
		logger.InfoContext(ctx, "stage completed",
			slog.String("stage", s.id),
			slog.Duration("duration", state.Duration()))
	}

	logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("output_orders", len(st.out.Orders)),
		slog.Int("excluded", len(st.out.Excluded)),
		slog.Int("summary_rows", len(st.out.Summaries)))

	return st.out, nil
}

// runSchemaNormalize repairs column labels, validates the schemas of all
// three tables and decodes them into typed records. Everything after this
// stage works on validated field names only.
func (r *Runner) runSchemaNormalize(ctx context.Context, st *runState) error {
	orders, norm, err := dataset.DecodeOrders(st.input.Orders)
	if err != nil {
		return err
	}
	if _, _, err := dataset.DecodeDivisions(st.input.Divisions); err != nil {
		return err
	}
	if _, _, err := dataset.DecodeDispatchCenters(st.input.Centers); err != nil {
		return err
	}

	st.orders = orders
	d := &st.out.Diagnostics
	d.AddOf(StageSchemaNormalize, "labels_repaired", norm.Altered, len(st.input.Orders.Labels))
	d.Add(StageSchemaNormalize, "rows_decoded", len(orders), 100)

	// Validation summary over the fields the later stages key on.
	blankCustomer, blankOwner, absentCarrier := 0, 0, 0
	for _, o := range orders {
		if cleaning.IsEffectivelyBlank(o.BillingCustomerID) {
			blankCustomer++
		}
		if cleaning.IsEffectivelyBlank(o.OwnerID) {
			blankOwner++
		}
		if o.CarrierID == nil {
			absentCarrier++
		}
	}
	d.AddOf(StageSchemaNormalize, "blank_billing_customer_id", blankCustomer, len(orders))
	d.AddOf(StageSchemaNormalize, "blank_owner_id", blankOwner, len(orders))
	d.AddOf(StageSchemaNormalize, "absent_carrier_id", absentCarrier, len(orders))

	return nil
}

// runExclusionFilter removes warehouse orders and customer-less internal
// pickups, in that order.
func (r *Runner) runExclusionFilter(ctx context.Context, st *runState) error {
	filter := cleaning.NewFilter(r.logger,
		cleaning.WarehouseOrderPredicate(r.cfg.Filtering),
		cleaning.InternalPickupPredicate(r.cfg.Filtering),
	)
	result := filter.Apply(ctx, st.orders)

	st.orders = result.Kept
	st.out.Excluded = append(st.out.Excluded, result.Excluded...)
	for _, stat := range result.Stats {
		st.out.Diagnostics.Add(StageExclusionFilter, "excluded_"+stat.Name, stat.Excluded, stat.Percent)
	}
	st.out.Diagnostics.AddOf(StageExclusionFilter, "kept", len(result.Kept), len(result.Kept)+len(result.Excluded))

	return nil
}

// runClassification assigns every surviving record exactly one category.
func (r *Runner) runClassification(ctx context.Context, st *runState) error {
	classifier := classify.NewClassifier(r.logger)
	st.classified = classifier.Classify(ctx, st.orders)
	st.orders = st.classified.Orders

	d := &st.out.Diagnostics
	for _, category := range domain.AllCategories {
		if n := st.classified.Counts[category]; n > 0 {
			d.AddOf(StageClassification, "category_"+string(category), n, len(st.orders))
		}
	}

	return nil
}

// runPolicyExclusion feeds the policy-excluded category back through the
// exclusion filter, after classification.
func (r *Runner) runPolicyExclusion(ctx context.Context, st *runState) error {
	filter := cleaning.NewFilter(r.logger, cleaning.PolicyCategoryPredicate(*r.cfg))
	result := filter.Apply(ctx, st.orders)

	st.orders = result.Kept
	st.out.Excluded = append(st.out.Excluded, result.Excluded...)
	for _, stat := range result.Stats {
		st.out.Diagnostics.Add(StagePolicyExclusion, "excluded_"+stat.Name, stat.Excluded, stat.Percent)
	}
	st.out.Diagnostics.AddOf(StagePolicyExclusion, "final_population", len(result.Kept), len(result.Kept))

	return nil
}

// runReferenceMapping joins divisions and dispatch centers onto the dataset.
func (r *Runner) runReferenceMapping(ctx context.Context, st *runState) error {
	divisions, _, err := dataset.DecodeDivisions(st.input.Divisions)
	if err != nil {
		return err
	}
	centers, _, err := dataset.DecodeDispatchCenters(st.input.Centers)
	if err != nil {
		return err
	}

	mapper, err := refmap.NewMapper(r.logger, r.cfg.Mapping, divisions, centers)
	if err != nil {
		return fmt.Errorf("building reference mapper: %w", err)
	}

	st.mapped = mapper.Apply(ctx, st.orders)
	st.orders = st.mapped.Orders
	st.out.Orders = st.mapped.Orders

	d := &st.out.Diagnostics
	total := len(st.orders)
	d.AddOf(StageReferenceMapping, "division_matched", st.mapped.Division.Matched, total)
	d.AddOf(StageReferenceMapping, "division_sentinel_generic", st.mapped.Division.Generic, total)
	d.AddOf(StageReferenceMapping, "division_sentinel_internal", st.mapped.Division.Internal, total)
	d.AddOf(StageReferenceMapping, "center_matched", st.mapped.Center.Matched, total)
	d.AddOf(StageReferenceMapping, "center_unmatched", st.mapped.Center.Unmatched, total)
	d.AddOf(StageReferenceMapping, "center_relocation_collapsed", st.mapped.Center.Collapsed, total)
	d.Add(StageReferenceMapping, "distinct_centers", st.mapped.Center.DistinctCenters, 0)

	for _, dup := range st.mapped.Duplicates {
		d.AddIssue(IssueAmbiguousReferenceKey, StageReferenceMapping,
			"%s: key %d kept %q, discarded %q", dup.Table, dup.Key, dup.Kept, dup.Discarded)
	}
	for _, skip := range st.mapped.Skipped {
		d.AddIssue(IssueUnresolvedJoinKeyType, StageReferenceMapping,
			"%s: uncoercible key %q", skip.Table, skip.Raw)
	}

	return nil
}

// runAggregation rolls the attributed dataset up per (center, period).
func (r *Runner) runAggregation(ctx context.Context, st *runState) error {
	aggregator := aggregate.NewAggregator(r.logger, r.cfg.Filtering)
	st.out.Summaries = aggregator.Summarize(ctx, st.orders)
	st.out.Diagnostics.Add(StageAggregation, "summary_rows", len(st.out.Summaries), 0)

	return nil
}
