package logger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "osquery", abbreviateName("osquery"))
	assert.Equal(t, "s.extract", abbreviateName("sqlparse.extract"))
	assert.Equal(t, "f.analyze", abbreviateName("fdh.analyze"))
}

func TestEncodeEntryContainsMessageAndTime(t *testing.T) {
	enc := newMinimalEncoder()
	ent := zapcore.Entry{
		Time:    time.Date(2026, 3, 14, 13, 4, 35, 0, time.UTC),
		Level:   zapcore.InfoLevel,
		Message: "Loaded 412 records",
	}

	buf, err := enc.EncodeEntry(ent, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "13:04:35")
	assert.Contains(t, out, "Loaded 412 records")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestEncodeEntryShowsLevelForWarnOnly(t *testing.T) {
	enc := newMinimalEncoder()

	warn, err := enc.EncodeEntry(zapcore.Entry{
		Time: time.Now(), Level: zapcore.WarnLevel, Message: "msg",
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, warn.String(), "WARN")

	info, err := enc.EncodeEntry(zapcore.Entry{
		Time: time.Now(), Level: zapcore.InfoLevel, Message: "msg",
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, info.String(), "INFO")
}

func TestExtractFieldValues(t *testing.T) {
	fields := []zapcore.Field{
		zap.String(FieldRunID, "r_123"),
		zap.Int(FieldQueries, 19),
		zap.Int(FieldTables, 4),
	}

	out := extractFieldValues(fields)
	assert.Contains(t, out, "r_123")
	assert.Contains(t, out, "19")
	assert.Contains(t, out, "queries")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "tables")
}

func TestExtractFieldValuesDuration(t *testing.T) {
	fields := []zapcore.Field{zap.Int64(FieldDurationMS, 42)}
	out := extractFieldValues(fields)
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "ms")
}

func TestColorizeMessageRunMarker(t *testing.T) {
	out := colorizeMessage("[run:a1b2] starting analysis")
	assert.Contains(t, out, "[run:a1b2]")
	assert.Contains(t, out, "starting analysis")
}

func TestEncoderCloneIsIndependent(t *testing.T) {
	enc := newMinimalEncoder()
	clone := enc.Clone()
	require.NotNil(t, clone)
	assert.NotSame(t, enc, clone)
}
