package generatefn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"blueprintforge/internal/app/amqp/generateworker"
)

func TestEventNameMatchesAMQPSurface(t *testing.T) {
	t.Parallel()

	require.Equal(t, generateworker.GenerateRequestedEventName, GenerateRequestedEventName)
}
