package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/subjectlink/internal/events"
)

// EventsInput selects what an events stream carries. Frames are high rate and
// only sent when asked for.
type EventsInput struct {
	Subject string `query:"subject" doc:"Only forward events for this subject"`
	Frames  bool   `query:"frames" doc:"Include per-tick frame events"`
}

// registerSSERoutes registers the native Huma SSE endpoint.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of subject registrations, updates, removals, camera switches and optionally frames",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"subject-static":  events.SubjectStaticEvent{},
		"subject-frame":   events.SubjectFrameEvent{},
		"subject-removed": events.SubjectRemovedEvent{},
		"subject-updated": events.SubjectUpdatedEvent{},
		"camera-changed":  events.CameraChangedEvent{},
	}, func(ctx context.Context, input *EventsInput, send sse.Sender) {
		eventCh := make(chan any, 64)

		unsubscribers := []func(){
			events.SubscribeToChannel(s.eventBus, eventCh, func(e events.SubjectStaticEvent) bool {
				return input.Subject == "" || e.Subject == input.Subject
			}),
			events.SubscribeToChannel(s.eventBus, eventCh, func(e events.SubjectRemovedEvent) bool {
				return input.Subject == "" || e.Subject == input.Subject
			}),
			events.SubscribeToChannel(s.eventBus, eventCh, func(e events.SubjectUpdatedEvent) bool {
				return input.Subject == "" || e.Subject == input.Subject || e.Previous == input.Subject
			}),
			events.SubscribeToChannel[events.CameraChangedEvent](s.eventBus, eventCh, nil),
		}
		if input.Frames {
			unsubscribers = append(unsubscribers, events.SubscribeToChannel(s.eventBus, eventCh, func(e events.SubjectFrameEvent) bool {
				return input.Subject == "" || e.Subject == input.Subject
			}))
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
