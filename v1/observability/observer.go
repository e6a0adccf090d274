// Package observability defines the hook through which storage adapters
// report each operation they perform. Metrics and audit sinks implement
// [Observer]; adapters accept one via WithObserver.
package observability

import "time"

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the adapter that ran the operation, e.g. "pinecone".
	Component string
	// Operation is the contract method, e.g. "bulk_insert_points".
	Operation string
	// Resource is the collection (or index) addressed.
	Resource string
	// SubResource narrows Resource, e.g. the namespace inside an index.
	SubResource string
	Duration    time.Duration
	Error       error
	// Size is the number of records involved, when meaningful.
	Size     int64
	Metadata map[string]interface{}
}

// Observer receives OperationContext values. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx OperationContext)

func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }

// Multi fans an operation out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	var out []Observer
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return multiObserver(out)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}
