// Package confirm guards destructive actions behind an explicit yes.
package confirm

import (
	"context"
	"errors"
)

var ErrDeclined = errors.New("action not confirmed")

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Func adapts a plain function, typically a UI prompt.
type Func func(ctx context.Context, prompt string) bool

func (f Func) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

var (
	Always Confirmer = Func(func(context.Context, string) bool { return true })
	Never  Confirmer = Func(func(context.Context, string) bool { return false })
)

// Ask returns ErrDeclined unless c agrees. A nil Confirmer declines.
func Ask(ctx context.Context, c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(ctx, prompt) {
		return ErrDeclined
	}
	return nil
}
