package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/routeguard/internal/batch"
	"github.com/dshills/routeguard/internal/document"
	"github.com/dshills/routeguard/internal/extract"
	"github.com/dshills/routeguard/internal/fine"
	"github.com/dshills/routeguard/internal/llm"
	"github.com/dshills/routeguard/internal/render"
	"github.com/dshills/routeguard/internal/retailer"
	"github.com/dshills/routeguard/internal/revision"
	"github.com/dshills/routeguard/internal/risk"
	"github.com/dshills/routeguard/internal/schema"
)

func newRetailersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retailers",
		Short: "List known retailer profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range retailer.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <document>",
		Short: "Print the retailer profile detected in a routing guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd.OutOrStdout(), args[0])
		},
	}
}

func runDetect(w io.Writer, docPath string) error {
	doc, err := document.Load(docPath)
	if err != nil {
		return codeError(exitInput, "loading document: %s", err)
	}
	fmt.Fprintln(w, retailer.Detect(doc.Normalized).Name)
	return nil
}

// promptFlags holds the parsed flags for the prompt command.
type promptFlags struct {
	retailer string
}

func newPromptCmd(g *globalFlags) *cobra.Command {
	var flags promptFlags
	cmd := &cobra.Command{
		Use:   "prompt <document>",
		Short: "Print the redacted prompts an extraction would send",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrompt(cmd.OutOrStdout(), g, args[0], flags)
		},
	}
	cmd.Flags().StringVar(&flags.retailer, "retailer", "", "Force a retailer profile instead of detecting one")
	return cmd
}

func runPrompt(w io.Writer, g *globalFlags, docPath string, flags promptFlags) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	doc, err := document.Load(docPath)
	if err != nil {
		return codeError(exitInput, "loading document: %s", err)
	}
	job, err := extract.Prepare(doc.Text, extract.Options{
		Retailer:         flags.retailer,
		DetectText:       doc.Normalized,
		MaxDocumentChars: cfg.MaxDocumentChars,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
	})
	if err != nil {
		return codeError(exitInput, "%s", err)
	}
	fmt.Fprintf(w, "[SYSTEM]\n%s\n\n[USER]\n%s\n", job.Request.SystemPrompt, job.Request.UserPrompt)
	return nil
}

// extractFlags holds the parsed flags for the extract command.
type extractFlags struct {
	out         string
	retailer    string
	model       string
	temperature float64
	maxTokens   int
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract <document>",
		Short: "Extract compliance requirements from a routing guide",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), cmd.OutOrStdout(), g, args[0], flags, cmd.Flags().Changed)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&flags.retailer, "retailer", "", "Force a retailer profile instead of detecting one")
	f.StringVar(&flags.model, "model", "", "provider:model, overrides config and ROUTEGUARD_MODEL")
	f.Float64Var(&flags.temperature, "temperature", 0, "LLM temperature (default from config)")
	f.IntVar(&flags.maxTokens, "max-tokens", 0, "Maximum response tokens (default from config)")
	return cmd
}

// runExtract runs the extraction pipeline. changed reports whether a flag was
// set explicitly; unset flags fall back to the config.
func runExtract(ctx context.Context, w io.Writer, g *globalFlags, docPath string, flags extractFlags, changed func(string) bool) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}
	if changed("temperature") {
		cfg.Temperature = flags.temperature
	}
	if changed("max-tokens") {
		cfg.MaxTokens = flags.maxTokens
	}
	if err := cfg.Validate(); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	doc, err := document.Load(docPath)
	if err != nil {
		return codeError(exitInput, "loading document: %s", err)
	}

	job, err := extract.Prepare(doc.Text, extract.Options{
		Retailer:         flags.retailer,
		DetectText:       doc.Normalized,
		MaxDocumentChars: cfg.MaxDocumentChars,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
	})
	if err != nil {
		return codeError(exitInput, "%s", err)
	}

	provider, err := llm.NewProvider(cfg.Model)
	if err != nil {
		return codeError(exitProvider, "creating LLM provider: %s", err)
	}

	logger := slog.Default().With("document", docPath)
	logger.Debug("extract.start", "model", cfg.Model, "retailer", job.Profile.Name)

	res, err := extract.Run(ctx, provider, job, logger)
	if err != nil {
		return codeError(classify(err, exitUpstream), "%s", err)
	}
	res.Tool = toolName
	res.Version = version
	res.Document = schema.Document{Path: docPath, Hash: doc.Hash}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return codeError(exitInput, "encoding result: %s", err)
	}
	return writeOutput(w, flags.out, data)
}

// assessFlags holds the parsed flags for the assess command.
type assessFlags struct {
	units         int
	shipmentValue float64
	format        string
	out           string
	failOn        string
	retailer      string
}

func newAssessCmd(g *globalFlags) *cobra.Command {
	var flags assessFlags
	cmd := &cobra.Command{
		Use:   "assess <requirements.json>",
		Short: "Estimate fines and risk tiers for an extracted batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(cmd.OutOrStdout(), g, args[0], flags)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.units, "units", 0, "Number of units in the shipment (required)")
	f.Float64Var(&flags.shipmentValue, "shipment-value", 0, "Shipment value in dollars; when unset the risk percentage uses a placeholder")
	f.StringVar(&flags.format, "format", "json", "Output format: json, md, or xlsx")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout (required for xlsx)")
	f.StringVar(&flags.failOn, "fail-on", "", "Exit 2 if any requirement reaches this tier (High or Medium)")
	f.StringVar(&flags.retailer, "retailer", "", "Retailer label for the report when the batch has none")
	return cmd
}

func validateAssessFlags(flags assessFlags) error {
	if flags.units <= 0 {
		return fmt.Errorf("--units must be > 0, got %d", flags.units)
	}
	if flags.shipmentValue < 0 {
		return fmt.Errorf("--shipment-value must be >= 0, got %g", flags.shipmentValue)
	}
	switch flags.format {
	case "json", "md":
	case "xlsx":
		if flags.out == "" {
			return fmt.Errorf("--format xlsx requires --out")
		}
	default:
		return fmt.Errorf("--format must be json, md, or xlsx, got %q", flags.format)
	}
	switch schema.RiskTier(flags.failOn) {
	case "", schema.TierHigh, schema.TierMedium:
	default:
		return fmt.Errorf("--fail-on must be High or Medium, got %q", flags.failOn)
	}
	return nil
}

func runAssess(w io.Writer, g *globalFlags, path string, flags assessFlags) error {
	if err := validateAssessFlags(flags); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	b, err := batch.Load(path)
	if err != nil {
		return codeError(classify(err, exitInput), "%s", err)
	}

	scorer, err := risk.NewScorer(cfg.Risk, fine.Default())
	if err != nil {
		return codeError(exitInput, "%s", err)
	}
	assessments, err := scorer.AssessAll(b.Requirements, flags.units, flags.shipmentValue)
	if err != nil {
		return codeError(classify(err, exitInput), "%s", err)
	}
	stats := risk.Aggregate(assessments)

	retailerName := b.Retailer
	if retailerName == "" {
		retailerName = flags.retailer
	}
	report := &schema.RiskReport{
		Tool:    toolName,
		Version: version,
		Input: schema.ReportInput{
			RequirementsFile: path,
			Retailer:         retailerName,
			Units:            flags.units,
			ShipmentValue:    flags.shipmentValue,
		},
		Summary:     *stats,
		Assessments: assessments,
	}
	slog.Debug("assess.completed", "requirements", stats.Count, "total", stats.TotalEstimatedFine)

	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}
	data, err := renderer.Render(report)
	if err != nil {
		return codeError(exitInput, "rendering output: %s", err)
	}
	if err := writeOutput(w, flags.out, data); err != nil {
		return err
	}

	if flags.failOn != "" {
		threshold := schema.RiskTier(flags.failOn)
		for _, a := range assessments {
			if a.RiskTier == schema.TierHigh || (threshold == schema.TierMedium && a.RiskTier == schema.TierMedium) {
				return codeError(exitFailOn, "requirement %q is %s risk, meets --fail-on threshold %s", a.Requirement.Requirement, a.RiskTier, threshold)
			}
		}
	}
	return nil
}

// fineFlags holds the parsed flags for the fine command.
type fineFlags struct {
	units int
}

func newFineCmd() *cobra.Command {
	var flags fineFlags
	cmd := &cobra.Command{
		Use:   "fine <text>",
		Short: "Interpret free-text fine language for a unit count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFine(cmd.OutOrStdout(), strings.Join(args, " "), flags)
		},
	}
	cmd.Flags().IntVar(&flags.units, "units", 1, "Number of units")
	return cmd
}

func runFine(w io.Writer, text string, flags fineFlags) error {
	if flags.units <= 0 {
		return codeError(exitInput, "invalid flags: --units must be > 0, got %d", flags.units)
	}
	total, parts := fine.Default().Explain(text, flags.units)
	for _, c := range parts {
		fmt.Fprintf(w, "%-16s $%.2f x %d = $%.2f\n", c.Rule, c.Amount, c.Units, c.Subtotal)
	}
	fmt.Fprintf(w, "total $%.2f\n", total)
	return nil
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Compare two extracted batches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func runDiff(w io.Writer, oldPath, newPath string) error {
	prev, err := batch.Load(oldPath)
	if err != nil {
		return codeError(classify(err, exitInput), "%s", err)
	}
	next, err := batch.Load(newPath)
	if err != nil {
		return codeError(classify(err, exitInput), "%s", err)
	}

	changes := revision.Compare(prev.Requirements, next.Requirements)
	if len(changes) == 0 {
		fmt.Fprintln(w, "no changes")
		return nil
	}
	for _, c := range changes {
		if c.Kind == revision.Changed {
			fmt.Fprintf(w, "%-8s %s (%s)\n", c.Kind, c.Key, strings.Join(c.Fields, ", "))
			continue
		}
		fmt.Fprintf(w, "%-8s %s\n", c.Kind, c.Key)
	}
	fmt.Fprintln(w)
	if err := revision.GenerateDiff(changes, w); err != nil {
		return codeError(exitInput, "writing diff: %s", err)
	}
	return nil
}
