package core

// Layer is one participant of the frame loop. Layers update and render in
// push order and detach in reverse.
type Layer interface {
	OnAttach(e *Engine) error
	OnDetach(e *Engine)
	OnUpdate(e *Engine, dt float64)
	OnRender(e *Engine) error
}

type LayerStack struct{ list []Layer }

func (ls *LayerStack) Push(l Layer) { ls.list = append(ls.list, l) }
func (ls *LayerStack) Pop() (Layer, bool) {
	if len(ls.list) == 0 {
		return nil, false
	}
	i := len(ls.list) - 1
	l := ls.list[i]
	ls.list = ls.list[:i]
	return l, true
}

func (ls *LayerStack) ForEach(f func(Layer)) {
	for _, l := range ls.list {
		f(l)
	}
}

// Each calls f for every layer in order and stops at the first error.
func (ls *LayerStack) Each(f func(Layer) error) error {
	for _, l := range ls.list {
		if err := f(l); err != nil {
			return err
		}
	}
	return nil
}
