package rawjaeger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayvdb/jaeger-stats/internal/rawjaeger"
)

const twoSpanTrace = `{
  "data": [
    {
      "traceID": "t1",
      "spans": [
        {
          "traceID": "t1", "spanID": "s1", "operationName": "POST",
          "startTime": 1000000, "duration": 10000, "processID": "p1",
          "tags": [{"key": "span.kind", "value": "server"}]
        },
        {
          "traceID": "t1", "spanID": "s2", "operationName": "GET",
          "startTime": 1001000, "duration": 4000, "processID": "p2",
          "references": [{"refType": "CHILD_OF", "traceID": "t1", "spanID": "s1"}],
          "tags": [{"key": "span.kind", "value": "client"}, {"key": "retries", "value": 2}]
        }
      ],
      "processes": {
        "p1": {"serviceName": "svcA"},
        "p2": {"serviceName": "svcB"}
      }
    }
  ]
}`

func TestDecodeTwoSpanTrace(t *testing.T) {
	t.Parallel()

	dump, err := rawjaeger.Decode(strings.NewReader(twoSpanTrace), false)
	require.NoError(t, err)
	require.Len(t, dump.Data, 1)

	item := dump.Data[0]
	require.Len(t, item.Spans, 2)
	assert.Equal(t, "svcA", item.Processes["p1"].ServiceName)

	span2 := item.Spans[1]
	require.Len(t, span2.References, 1)
	assert.Equal(t, "CHILD_OF", span2.References[0].RefType)

	kindTag, ok := rawjaeger.Tags(span2.Tags).Get("span.kind")
	require.True(t, ok)

	kindStr, err := kindTag.AsString()
	require.NoError(t, err)
	assert.Equal(t, "client", kindStr)

	retriesTag, ok := rawjaeger.Tags(span2.Tags).Get("retries")
	require.True(t, ok)

	retries, err := retriesTag.AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), retries)
}

func TestTagAccessorWrongKindFails(t *testing.T) {
	t.Parallel()

	tag := rawjaeger.NewStringTag("span.kind", "server")

	_, err := tag.AsFloat64()
	require.Error(t, err)
	assert.ErrorIs(t, err, rawjaeger.ErrWrongTagKind)
}

func TestTagsGetStringAbsentReturnsEmpty(t *testing.T) {
	t.Parallel()

	var tags rawjaeger.Tags

	assert.Empty(t, tags.GetString("missing"))
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	t.Parallel()

	err := rawjaeger.Validate([]byte(`{"data": [{"traceID": "t1"}]}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, rawjaeger.ErrSchemaViolation)
}

func TestValidateAcceptsWellFormedDump(t *testing.T) {
	t.Parallel()

	require.NoError(t, rawjaeger.Validate([]byte(twoSpanTrace)))
}
