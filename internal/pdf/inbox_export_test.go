package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"echobox/internal/models"
)

func TestExportInbox(t *testing.T) {
	exporter := NewInboxExporter()

	messages := []*models.Message{
		{ID: uuid.New(), Content: "newest message", CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Content: "older message", CreatedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.ExportInbox(&buf, "alice", messages))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 500)
}

func TestExportInboxEmpty(t *testing.T) {
	exporter := NewInboxExporter()

	var buf bytes.Buffer
	require.NoError(t, exporter.ExportInbox(&buf, "alice", nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
