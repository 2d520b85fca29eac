package generateworker

import (
	"time"

	"blueprintforge/internal/generate"
)

// GenerateRequestedEventName identifies the generation request event across
// the AMQP and Inngest surfaces.
const GenerateRequestedEventName = "blueprint/generate.requested"

type GenerateRequestedEnvelope struct {
	EventName string           `json:"event_name"`
	EventID   string           `json:"event_id"`
	TS        time.Time        `json:"ts"`
	Data      generate.Request `json:"data"`
}
