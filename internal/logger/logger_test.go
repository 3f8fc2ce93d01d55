package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/facet/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{
			name: "json stdout",
			cfg:  config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		},
		{
			name: "text stderr",
			cfg:  config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"},
		},
		{
			name:    "invalid level",
			cfg:     config.LoggingConfig{Level: "chatty", Format: "json", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "facet.log")

	log, err := New(&config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		Output:     path,
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
	require.NoError(t, err)

	log.Info("rotated file output works")
}

func TestAdapterFields(t *testing.T) {
	base := logrus.New()
	var buf bytes.Buffer
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	log := NewLogrusAdapter(logrus.NewEntry(base))
	log.WithField("stream_id", "abc").WithFields(map[string]interface{}{
		"ordinal": 17,
	}).Info("packet decoded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["stream_id"])
	assert.Equal(t, float64(17), entry["ordinal"])
	assert.Equal(t, "packet decoded", entry["msg"])
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()

	// Must never panic or exit, including Fatal.
	log.WithField("k", "v").WithError(assert.AnError).Info("ignored")
	log.Debugf("ignored %d", 1)
	log.Fatal("ignored")
}
