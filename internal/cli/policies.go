package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/repository/implementation"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/pkg/refund"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const actionPolicySeed = "refund_policy.seed"

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Inspect and manage refund policy bands",
}

var policiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every refund policy row",
	RunE:  runPoliciesList,
}

var policiesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a band file without touching the database",
	RunE:  runPoliciesValidate,
}

var policiesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load bands from a file (or the built-in schedule) into the database",
	RunE:  runPoliciesSeed,
}

var policiesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active bands for a role as YAML",
	RunE:  runPoliciesExport,
}

func init() {
	policiesValidateCmd.Flags().StringP("file", "f", "", "Band file (YAML)")
	_ = policiesValidateCmd.MarkFlagRequired("file")

	policiesSeedCmd.Flags().StringP("file", "f", "", "Band file (YAML); defaults to the built-in schedule")
	policiesSeedCmd.Flags().Bool("replace", false, "Deactivate existing active bands for the same role first")

	policiesExportCmd.Flags().StringP("out", "o", "", "Output file; stdout when empty")
	policiesExportCmd.Flags().StringP("role", "r", string(refund.RoleAll), "traveler, guide or all")

	policiesCmd.AddCommand(policiesListCmd)
	policiesCmd.AddCommand(policiesValidateCmd)
	policiesCmd.AddCommand(policiesSeedCmd)
	policiesCmd.AddCommand(policiesExportCmd)
}

func runPoliciesList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	rows, err := e.uow.NewUnitOfWork(ctx).RefundPolicyRepository().FindAll(ctx,
		specification.OrderBy{Field: "applicable_to"},
		specification.OrderBy{Field: "days_before_start", Desc: true},
	)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No refund policies stored. The built-in schedule applies.")
		return nil
	}
	printPolicies(cmd.OutOrStdout(), rows)
	return nil
}

func printPolicies(w io.Writer, rows []*entity.RefundPolicy) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROLE\tBAND\tACTIVE")
	for _, p := range rows {
		active := color.GreenString("yes")
		if !p.IsActive {
			active = color.YellowString("no")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Id, p.ApplicableTo, p.Band().Describe(), active)
	}
	tw.Flush()
}

func runPoliciesValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	f, err := loadBandFile(path)
	if err != nil {
		return err
	}
	return reportBands(cmd.OutOrStdout(), f)
}

// reportBands prints the schedule and every validation problem. It returns an
// error when the set is invalid so the exit status reflects it.
func reportBands(w io.Writer, f *BandFile) error {
	fmt.Fprintf(w, "Role: %s\n", f.Role)
	for _, b := range refund.SortBands(f.Bands) {
		fmt.Fprintf(w, "  %s\n", b.Describe())
	}

	if err := refund.ValidateBands(f.Bands); err != nil {
		if setErr, ok := err.(*refund.BandSetError); ok {
			for _, p := range setErr.Problems {
				color.New(color.FgRed).Fprintf(w, "  ✗ %s\n", p)
			}
		}
		return fmt.Errorf("band set is invalid")
	}
	color.New(color.FgGreen).Fprintln(w, "  ✓ band set is valid")
	return nil
}

func runPoliciesSeed(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	replace, _ := cmd.Flags().GetBool("replace")

	f, err := bandsOrDefault(path)
	if err != nil {
		return err
	}
	if err := reportBands(cmd.OutOrStdout(), f); err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	created, err := seedPolicies(ctx, e, f, replace)
	if err != nil {
		return err
	}
	color.Green("Seeded %d %s bands", created, f.Role)

	notifyPolicyChange(ctx, e)
	return nil
}

func seedPolicies(ctx context.Context, e *env, f *BandFile, replace bool) (int, error) {
	uow := e.uow.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	repo := uow.RefundPolicyRepository()
	if err := repo.LockForWrite(ctx); err != nil {
		return 0, err
	}
	existing, err := repo.FindAll(ctx,
		specification.FilterBy{Field: "is_active", Value: true},
		specification.FilterBy{Field: "applicable_to", Value: string(f.Role)},
	)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 && !replace {
		return 0, fmt.Errorf("%d active %s bands already exist, pass --replace to supersede them", len(existing), f.Role)
	}
	for _, p := range existing {
		p.IsActive = false
		if err := repo.Update(ctx, p); err != nil {
			return 0, err
		}
	}

	for _, b := range f.Bands {
		policy := &entity.RefundPolicy{
			Id:               uuid.New(),
			DaysBeforeStart:  b.DaysFrom,
			DaysBeforeEnd:    b.DaysTo,
			RefundPercentage: b.Percentage,
			ApplicableTo:     f.Role,
			IsActive:         true,
		}
		if err := repo.Create(ctx, policy); err != nil {
			return 0, err
		}
	}

	if err := uow.AuditLogRepository().Record(ctx, uuid.Nil, actionPolicySeed, "refund_policy", uuid.Nil, map[string]interface{}{
		"role":        string(f.Role),
		"bands":       len(f.Bands),
		"deactivated": len(existing),
		"source":      "matchtrip-admin",
	}); err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return len(f.Bands), nil
}

// notifyPolicyChange asks running API servers to drop their cached bands.
// Without Redis they pick the change up when the cache TTL expires.
func notifyPolicyChange(ctx context.Context, e *env) {
	if e.cfg.App.RedisURL == "" {
		color.Yellow("REDIS_URL not set: servers reload bands within %s", e.cfg.Refund.PolicyCacheTTL)
		return
	}
	opt, err := redis.ParseURL(e.cfg.App.RedisURL)
	if err != nil {
		opt = &redis.Options{Addr: e.cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	loader := implementation.NewPolicyBandLoader(implementation.NewRefundPolicyRepository(e.db))
	provider := refund.NewProvider(loader, e.cfg.Refund.PolicyCacheTTL, e.log)
	if err := refund.NewRedisInvalidator(rdb, provider, e.log).Invalidate(ctx); err != nil {
		color.Yellow("Could not broadcast cache invalidation: %v", err)
	}
}

func runPoliciesExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	roleFlag, _ := cmd.Flags().GetString("role")
	role := refund.Role(roleFlag)
	if role != refund.RoleAll && !role.Valid() {
		return fmt.Errorf("role must be traveler, guide or all")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	loader := implementation.NewPolicyBandLoader(e.uow.NewUnitOfWork(ctx).RefundPolicyRepository())
	bands, err := loader.LoadActiveBands(ctx, role)
	if err != nil {
		return err
	}
	if len(bands) == 0 {
		color.Yellow("No active bands stored for %s, exporting the built-in schedule", role)
		bands = refund.DefaultBands()
	}

	w := cmd.OutOrStdout()
	if out != "" {
		file, err := os.Create(out)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	if err := writeBandFile(w, &BandFile{Role: role, Bands: bands}); err != nil {
		return err
	}
	if out != "" {
		color.Green("Wrote %d bands to %s", len(bands), out)
	}
	return nil
}
