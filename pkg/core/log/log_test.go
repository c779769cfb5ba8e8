package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/phoenix/pkg/core/log"
	"github.com/momeni/phoenix/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestAttrsAreRendered(t *testing.T) {
	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		AddSource: true,
	})))
	defer slog.SetDefault(old)

	tok := uuid.MustParse("0123abcd-0000-4000-8000-000000000000")
	log.Info(
		context.Background(), "matched",
		log.Token("token", tok),
		log.Err("err", errors.New("boom")),
		log.Err("none", nil),
		log.Stringer("at", model.AtLot(4)),
	)
	out := buf.String()
	assert.Contains(t, out, "msg=matched")
	assert.Contains(t, out, "token=0123abcd")
	assert.NotContains(t, out, "0123abcd-0000")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "none=no-error")
	assert.Contains(t, out, "at=at-lot(4)")
	assert.Contains(t, out, "log_test.go", "caller must be reported")
}
