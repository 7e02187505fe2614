package logger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextWithLoggerIsStable(t *testing.T) {
	ctx, rlog := ContextWithLogger(context.Background())
	require.NotNil(t, rlog)
	id := RequestIDFromContext(ctx)
	assert.NotEmpty(t, id)

	ctx2, rlog2 := ContextWithLogger(ctx)
	assert.Equal(t, rlog, rlog2)
	assert.Equal(t, id, RequestIDFromContext(ctx2))
}

func TestContextWithLoggerIdentity(t *testing.T) {
	ctx, _ := ContextWithLogger(context.Background())
	ctx, rlog := ContextWithLoggerIdentity(ctx, "ccosades")
	assert.Equal(t, "ccosades", rlog.Data["identity"])
	assert.Equal(t, "ccosades", IdentityFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("chatty"))
	require.NoError(t, Init("debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	prev := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	t.Cleanup(func() { logrus.SetOutput(prev) })
	require.NoError(t, Init("info"))

	var seenID string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/countries/", nil))

	assert.NotEmpty(t, seenID)
	out := buf.String()
	assert.Contains(t, out, "www: request")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/countries/")
	assert.Contains(t, out, seenID)
}
