package events

import "github.com/kelindar/event"

// SubscribeToChannel forwards events of type T into ch for select-loop
// consumers such as SSE handlers. Events for which keep returns false are
// skipped; a nil keep forwards everything. Full channels drop the event.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any, keep func(T) bool) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		if keep != nil && !keep(e) {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})
}
