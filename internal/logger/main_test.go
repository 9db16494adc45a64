package logger_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeck/eventdeck/internal/logger"
)

func TestInitValidation(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "info", AppName: "eventdeck"})
	assert.ErrorIs(t, err, logger.ErrServiceNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "info", ServiceName: "eventdeck"})
	assert.ErrorIs(t, err, logger.ErrAppNameIsEmpty)

	err = logger.Init(logger.Log{LogLevel: "nonsense", AppName: "eventdeck", ServiceName: "eventdeck"})
	assert.Error(t, err)
}

func TestConsoleOutput(t *testing.T) {
	type testCase struct {
		name         string
		cfg          logger.Log
		wantOutput   bool
		outputIsJSON bool
	}

	testCases := []testCase{
		{
			name: "console disabled",
			cfg: logger.Log{
				LogLevel:    "info",
				AppName:     "eventdeck",
				ServiceName: "eventdeck",
			},
			wantOutput: false,
		},
		{
			name: "console writer output",
			cfg: logger.Log{
				LogLevel:    "info",
				AppName:     "eventdeck",
				ServiceName: "eventdeck",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
		{
			name: "plain console output is json",
			cfg: logger.Log{
				LogLevel:    "info",
				AppName:     "eventdeck",
				ServiceName: "eventdeck",
				Console:     logger.Console{Enabled: true},
			},
			wantOutput:   true,
			outputIsJSON: true,
		},
		{
			name: "trace level with caller is json",
			cfg: logger.Log{
				LogLevel:     "trace",
				AppName:      "eventdeck",
				ServiceName:  "eventdeck",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
			wantOutput:   true,
			outputIsJSON: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := captureLogOutput(t, tc.cfg)

			if tc.wantOutput {
				assert.NotEmpty(t, out)
			}

			if tc.outputIsJSON {
				for _, line := range strings.Split(out, "\n") {
					if line == "" {
						continue
					}

					var decoded map[string]interface{}
					assert.NoError(t, json.Unmarshal([]byte(line), &decoded), "expected json output, got: %s", line)
				}
			}
		})
	}
}

func captureLogOutput(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	log.Info().Msg("info message")
	log.Error().Err(errors.New("boom")).Msg("error message")
	log.Trace().Msg("trace message")

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
