package scripting

import (
	"context"
	"errors"

	"github.com/dop251/goja"
)

var ErrScriptFailed = errors.New("script execution failed")

// Engine executes JavaScript.
type Engine interface {
	// Execute runs the script and returns the exported value of the last statement.
	Execute(ctx context.Context, script string) (any, error)
}

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	// The watcher must be gone before the interrupt is cleared.
	defer func() {
		close(done)
		<-stopped
		e.vm.ClearInterrupt()
	}()

	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		var interruptedErr *goja.InterruptedError
		if errors.As(err, &interruptedErr) {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, errors.Join(ErrScriptFailed, err)
	}
	return val.Export(), nil
}
