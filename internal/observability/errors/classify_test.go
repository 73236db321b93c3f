package errors

import (
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/target/catalog-admin/internal/errors"
)

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "unreachable", Classify(apperrors.FromTransport(errors.New("dial"))))
	assert.Equal(t, "forbidden", Classify(fmt.Errorf("delete: %w", apperrors.Forbidden("no"))))
	assert.Equal(t, "errors_errorstring", Classify(errors.New("plain")))
	assert.Equal(t, "net_operror", Classify(fmt.Errorf("wrap: %w", &net.OpError{Op: "dial", Err: errors.New("refused")})))
}
