package listmanager

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	MsgCompleteFields = "Por favor complete todos los campos"
	MsgGenericError   = "Ocurrió un error, intente nuevamente"
	MsgFetchError     = "No se pudo cargar la información"
	MsgCreated        = "Registro creado correctamente"
	MsgUpdated        = "Registro actualizado correctamente"
	MsgDeleted        = "Registro eliminado correctamente"
	MsgPatched        = "Registro modificado correctamente"
)

type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// Alert is the blocking message shown to the operator after an action.
type Alert struct {
	Level   Level
	Message string
	Details []string
}

func (a Alert) String() string {
	if len(a.Details) == 0 {
		return a.Message
	}
	return a.Message + ": " + strings.Join(a.Details, "; ")
}

type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

type NotifierFunc func(ctx context.Context, alert Alert) error

func (f NotifierFunc) Notify(ctx context.Context, alert Alert) error {
	return f(ctx, alert)
}

// WriterNotifier prints alerts, one per line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, alert Alert) error {
	prefix := "[INFO]"
	if alert.Level == LevelError {
		prefix = "[ERROR]"
	}
	_, err := fmt.Fprintf(n.W, "%s %s\n", prefix, alert)
	return err
}

// MultiNotifier fans an alert out to every notifier and returns the first
// error, after trying all of them.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, alert Alert) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type discard struct{}

func (discard) Notify(context.Context, Alert) error { return nil }
