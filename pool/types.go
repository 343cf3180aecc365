package pool

// Handler is the unit of work executed by a slot worker.
// It receives a handle to the data stored for the job: in value mode a pointer
// to the slot's own copy, in reference mode the caller's pointer itself.
//
// Type parameters:
//   - T: The element type the pool was created for
type Handler[T any] interface {
	Handle(data *T)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc[T any] func(data *T)

// Handle calls f(data).
func (f HandlerFunc[T]) Handle(data *T) { f(data) }

// boundMethod pairs a receiver with a method expression.
type boundMethod[O, T any] struct {
	obj    O
	method func(O, *T)
}

func (b boundMethod[O, T]) Handle(data *T) { b.method(b.obj, data) }

// Bind turns a method expression and a receiver into a Handler, so methods can
// be dispatched the same way plain functions are.
//
// Example:
//
//	type printer struct{ prefix string }
//	func (p *printer) Print(v *int) { fmt.Println(p.prefix, *v) }
//
//	h := Bind(&printer{prefix: "row"}, (*printer).Print)
//	_ = slots.Dispatch(0, h, 42)
func Bind[O, T any](obj O, method func(O, *T)) Handler[T] {
	if method == nil {
		return nil
	}
	return boundMethod[O, T]{obj: obj, method: method}
}

// Mode selects how a pool stores the data handed to Dispatch.
type Mode int

const (
	// ModeValue copies every dispatched value into the slot.
	ModeValue Mode = iota
	// ModeReference stores the caller's pointer and never copies the element.
	ModeReference
)

func (m Mode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeReference:
		return "reference"
	default:
		return "unknown"
	}
}

// noop is stored in idle slots so a stray wake-up can never re-run stale work.
type noop[T any] struct{}

func (noop[T]) Handle(*T) {}
