package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/config"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/logging"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
	"github.com/Rorical/LeadForm/internal/update"
	"github.com/Rorical/LeadForm/ui/components"
)

var (
	predictValues   [fields.Count]string
	predictEndpoint string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit one lead without the interactive form",
	Long: `Validate the seven lead attributes given as flags and submit them to the
prediction endpoint of the active profile.`,
	Example: `  leadform predict --age 34 --income 58000 --children 2 --married 1 \
    --homeowner 0 --contacts 4 --recency 0.35`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		logger, err := logging.NewConsoleLogger(cfg.Log.Level)
		if err != nil {
			return err
		}
		defer logger.Sync()

		endpoint := cfg.GetEndpoint()
		if predictEndpoint != "" {
			endpoint = predictEndpoint
		}
		if err := config.ValidateEndpoint(endpoint); err != nil {
			return err
		}
		client := predict.NewClient(endpoint, cfg.GetTimeout(), predict.WithLogger(logger))

		return runPredict(cmd.Context(), cmd.OutOrStdout(), client, predictValues, logger)
	},
}

// runPredict runs one submission through the form state machine and
// prints the outcome. It fails when the submission is blocked or the
// endpoint reports an error.
func runPredict(ctx context.Context, out io.Writer, predictor predict.Predictor, values [fields.Count]string, logger *zap.Logger) error {
	form := models.NewFormState()
	for i, v := range values {
		update.EditField(form, i, v)
	}

	features, ok := update.Submit(form)
	if !ok {
		specs := fields.Specs()
		for i, msg := range form.FieldErrors {
			if msg != "" {
				fmt.Fprintf(out, "  --%s: %s\n", specs[i].Name, msg)
			}
		}
		return eris.New(form.SubmissionError)
	}

	logger.Debug("submitting prediction", zap.Float64s("features", features[:]))
	result, err := predictor.Predict(ctx, features)
	update.ApplyOutcome(form, models.Outcome{Seq: form.Seq, Result: result, Err: err})

	if form.Phase != models.Success {
		if err != nil {
			logger.Debug("prediction failed", zap.Error(err))
		}
		return eris.New(form.SubmissionError)
	}

	fmt.Fprintf(out, "Prediction: %s\n", components.PredictionLabel(form.Result.Prediction))
	fmt.Fprintf(out, "Probability: %s\n", components.Percent(form.Result.Probability))
	return nil
}

func init() {
	for i, spec := range fields.Specs() {
		predictCmd.Flags().StringVar(&predictValues[i], spec.Name, "", spec.Label)
	}
	predictCmd.Flags().StringVar(&predictEndpoint, "endpoint", "", "override the profile endpoint")
	rootCmd.AddCommand(predictCmd)
}
