package router

import "reflect"

// RunQueue runs fn over queue strictly in order. fn must call next exactly
// once to advance, zero valued steps are skipped. cb runs once the end of the
// queue is reached.
func RunQueue[S any](queue []S, fn func(step S, next func()), cb func()) {
	var step func(index int)
	step = func(index int) {
		for index < len(queue) && isZeroStep(queue[index]) {
			index++
		}
		if index >= len(queue) {
			cb()
			return
		}
		advanced := false
		fn(queue[index], func() {
			if advanced {
				return
			}
			advanced = true
			step(index + 1)
		})
	}
	step(0)
}

func isZeroStep[S any](step S) bool {
	return reflect.ValueOf(&step).Elem().IsZero()
}
