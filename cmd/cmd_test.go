package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/config"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/predict"
)

type stubPredictor struct {
	calls  int
	result *predict.Result
	err    error
}

func (s *stubPredictor) Predict(ctx context.Context, features [fields.Count]float64) (*predict.Result, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubPredictor) Ping(ctx context.Context) (string, error) {
	return "", nil
}

var validLead = [fields.Count]string{"34", "58000", "2", "1", "0", "4", "0.35"}

func TestRunPredict_Success(t *testing.T) {
	p := &stubPredictor{result: &predict.Result{Prediction: 0, Probability: 0.12}}
	var out bytes.Buffer

	err := runPredict(context.Background(), &out, p, validLead, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "Prediction: ❌ Unlikely to Respond\nProbability: 12%\n", out.String())
}

func TestRunPredict_Blocked(t *testing.T) {
	p := &stubPredictor{}
	var out bytes.Buffer
	values := validLead
	values[fields.Married] = "yes"

	err := runPredict(context.Background(), &out, p, values, zap.NewNop())

	require.Error(t, err)
	assert.Equal(t, predict.MsgValidation, err.Error())
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, "  --married: Must be 0 or 1\n", out.String())
}

func TestRunPredict_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", &predict.APIError{StatusCode: 500, Message: "model unavailable"}, "model unavailable"},
		{"api fallback", &predict.APIError{StatusCode: 500}, predict.MsgAPIFallback},
		{"transport", &predict.TransportError{Err: context.DeadlineExceeded}, predict.MsgConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runPredict(context.Background(), &out, &stubPredictor{err: tt.err}, validLead, zap.NewNop())

			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, out.String())
		})
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, config.ValidateEndpoint("http://localhost:5000"))
	assert.NoError(t, config.ValidateEndpoint("https://predict.example.com/"))
	assert.Error(t, config.ValidateEndpoint("localhost:5000"))
	assert.Error(t, config.ValidateEndpoint("ftp://example.com"))

	assert.NoError(t, validateTimeout("30"))
	assert.Error(t, validateTimeout("0"))
	assert.Error(t, validateTimeout("soon"))

	assert.NoError(t, validateProfileName("Prod"))
	assert.Error(t, validateProfileName("  "))
	assert.Equal(t, "prod", normalizeProfileName(" Prod "))
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProfileCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("LEADFORM_HOME", home)
	t.Setenv("LEADFORM_ENDPOINT", "")
	t.Setenv("LEADFORM_PROFILE", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Profiles["staging"] = config.Profile{Endpoint: "https://staging.example.com", TimeoutSeconds: 5}
	require.NoError(t, cfg.Save())

	out, err := executeRoot(t, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Active Profile: default")
	assert.Contains(t, out, "default (active)")
	assert.Contains(t, out, "Endpoint: https://staging.example.com")

	out, err = executeRoot(t, "profile", "switch", "Staging")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched to profile 'staging'")

	out, err = executeRoot(t, "profile", "show", "staging")
	require.NoError(t, err)
	assert.Contains(t, out, "Timeout: 5s")

	_, err = executeRoot(t, "profile", "show", "missing")
	assert.Error(t, err)
}

func TestProfileCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Welcome to the Marketing Campaign Predictor API"}`))
	}))
	defer srv.Close()

	t.Setenv("LEADFORM_HOME", t.TempDir())
	t.Setenv("LEADFORM_ENDPOINT", srv.URL)
	t.Setenv("LEADFORM_PROFILE", "")

	out, err := executeRoot(t, "profile", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "[OK] Welcome to the Marketing Campaign Predictor API")
}
